package usecase

import (
	"context"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
	repository "github.com/Nishan02/Buy-Sell/internal/pkg/chat/persistence/repository/port"
)

// GetHistoryInput pages through a conversation's log. BeforeSeq is a sequence
// cursor: zero means "latest page", a positive value fetches older messages.
type GetHistoryInput struct {
	RequesterID    string
	ConversationID string
	Limit          int
	BeforeSeq      int64
}

// GetHistoryUseCase returns an ascending page of messages after enforcing
// participancy.
type GetHistoryUseCase struct {
	Repo repository.ChatRepository
}

func NewGetHistoryUseCase(repo repository.ChatRepository) *GetHistoryUseCase {
	return &GetHistoryUseCase{Repo: repo}
}

func (uc *GetHistoryUseCase) Execute(ctx context.Context, in GetHistoryInput) ([]chat.Message, error) {
	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if !conv.HasParticipant(in.RequesterID) {
		return nil, chat.ErrNotParticipant
	}

	msgs, err := uc.Repo.ListMessages(ctx, in.ConversationID, in.Limit, in.BeforeSeq)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return msgs, nil
}
