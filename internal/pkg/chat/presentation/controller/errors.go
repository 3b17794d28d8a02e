package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/usecase"
)

// respondError maps application errors onto HTTP statuses. Domain rejections
// keep their message; infrastructure failures get a generic body so internals
// never leak to clients.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrSelfConversation), errors.Is(err, chat.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, chat.ErrConversationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrPersistence):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "storage temporarily unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
