package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nishan02/Buy-Sell/internal/infrastructure/auth"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/usecase"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/event"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// GetHistoryController pages through a conversation's message log. Messages
// come back in ascending sequence order; the beforeSeq query parameter walks
// older pages.
type GetHistoryController struct {
	UseCase *usecase.GetHistoryUseCase
}

func NewGetHistoryController(uc *usecase.GetHistoryUseCase) *GetHistoryController {
	return &GetHistoryController{UseCase: uc}
}

func (ctrl *GetHistoryController) Handle(c *gin.Context) {
	limit := defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		if n > maxPageSize {
			n = maxPageSize
		}
		limit = n
	}

	var beforeSeq int64
	if raw := c.Query("beforeSeq"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "beforeSeq must be a positive integer"})
			return
		}
		beforeSeq = n
	}

	msgs, err := ctrl.UseCase.Execute(c.Request.Context(), usecase.GetHistoryInput{
		RequesterID:    auth.UserID(c),
		ConversationID: c.Param("id"),
		Limit:          limit,
		BeforeSeq:      beforeSeq,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]event.MessagePayload, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, event.MessageFromDomain(m))
	}
	c.JSON(http.StatusOK, gin.H{"messages": out})
}
