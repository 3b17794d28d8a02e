package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nishan02/Buy-Sell/internal/infrastructure/auth"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/usecase"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/event"
)

type openConversationRequest struct {
	OtherUserID string `json:"otherUserId" binding:"required"`
}

// OpenConversationController resolves the conversation between the caller and
// another user, creating it on first contact.
type OpenConversationController struct {
	UseCase *usecase.OpenConversationUseCase
}

func NewOpenConversationController(uc *usecase.OpenConversationUseCase) *OpenConversationController {
	return &OpenConversationController{UseCase: uc}
}

func (ctrl *OpenConversationController) Handle(c *gin.Context) {
	var req openConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "otherUserId is required"})
		return
	}

	conv, err := ctrl.UseCase.Execute(c.Request.Context(), usecase.OpenConversationInput{
		RequesterID: auth.UserID(c),
		OtherID:     req.OtherUserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event.ConversationFromDomain(*conv))
}
