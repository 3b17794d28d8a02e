package usecase

import (
	"context"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
	repository "github.com/Nishan02/Buy-Sell/internal/pkg/chat/persistence/repository/port"
)

// OpenConversationInput identifies the requester and the peer they want to
// contact about a listing.
type OpenConversationInput struct {
	RequesterID string
	OtherID     string
}

// OpenConversationUseCase resolves the single conversation for a participant
// pair, creating it on first contact. Opening (A,B) and (B,A) returns the
// same conversation; repeat calls never create a second one.
type OpenConversationUseCase struct {
	Repo repository.ChatRepository
}

func NewOpenConversationUseCase(repo repository.ChatRepository) *OpenConversationUseCase {
	return &OpenConversationUseCase{Repo: repo}
}

func (uc *OpenConversationUseCase) Execute(ctx context.Context, in OpenConversationInput) (*chat.Conversation, error) {
	if in.RequesterID == in.OtherID {
		return nil, chat.ErrSelfConversation
	}

	conv, err := uc.Repo.GetOrCreateConversation(ctx, in.RequesterID, in.OtherID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return &conv, nil
}
