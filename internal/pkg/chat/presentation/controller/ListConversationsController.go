package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nishan02/Buy-Sell/internal/infrastructure/auth"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/usecase"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/event"
)

// ListConversationsController returns the caller's conversation sidebar,
// newest activity first.
type ListConversationsController struct {
	UseCase *usecase.ListConversationsUseCase
}

func NewListConversationsController(uc *usecase.ListConversationsUseCase) *ListConversationsController {
	return &ListConversationsController{UseCase: uc}
}

func (ctrl *ListConversationsController) Handle(c *gin.Context) {
	summaries, err := ctrl.UseCase.Execute(c.Request.Context(), usecase.ListConversationsInput{
		UserID: auth.UserID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]event.SummaryPayload, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, event.SummaryFromDomain(s))
	}
	c.JSON(http.StatusOK, gin.H{"conversations": out})
}
