package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nishan02/Buy-Sell/internal/infrastructure/auth"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/usecase"
)

type markReadRequest struct {
	MessageIDs []string `json:"messageIds" binding:"required"`
}

// MarkReadController flags a batch of messages as read by the caller.
type MarkReadController struct {
	UseCase *usecase.MarkReadUseCase
}

func NewMarkReadController(uc *usecase.MarkReadUseCase) *MarkReadController {
	return &MarkReadController{UseCase: uc}
}

func (ctrl *MarkReadController) Handle(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "messageIds is required"})
		return
	}

	err := ctrl.UseCase.Execute(c.Request.Context(), usecase.MarkReadInput{
		RequesterID:    auth.UserID(c),
		ConversationID: c.Param("id"),
		MessageIDs:     req.MessageIDs,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
