package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nishan02/Buy-Sell/internal/infrastructure/auth"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/usecase"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/event"
)

type sendMessageRequest struct {
	ConversationID string  `json:"conversationId" binding:"required"`
	Content        *string `json:"content"`
	ImageRef       *string `json:"imageRef"`
	DedupeKey      *string `json:"dedupeKey"`
}

// SendMessageController is the REST send path. It persists synchronously and
// answers with the stored row, so the client learns the assigned id and
// sequence in the same round trip. A retried request with the same dedupe key
// returns the original row.
type SendMessageController struct {
	UseCase *usecase.SendMessageUseCase
}

func NewSendMessageController(uc *usecase.SendMessageUseCase) *SendMessageController {
	return &SendMessageController{UseCase: uc}
}

func (ctrl *SendMessageController) Handle(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "conversationId is required"})
		return
	}

	msg, err := ctrl.UseCase.Execute(c.Request.Context(), usecase.SendMessageInput{
		ConversationID: req.ConversationID,
		SenderID:       auth.UserID(c),
		Content:        req.Content,
		ImageRef:       req.ImageRef,
		DedupeKey:      req.DedupeKey,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event.MessageFromDomain(*msg))
}
