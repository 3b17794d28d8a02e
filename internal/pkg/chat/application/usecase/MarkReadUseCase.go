package usecase

import (
	"context"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
	repository "github.com/Nishan02/Buy-Sell/internal/pkg/chat/persistence/repository/port"
)

// MarkReadInput flags messages as read by the requester.
type MarkReadInput struct {
	RequesterID    string
	ConversationID string
	MessageIDs     []string
}

// MarkReadUseCase adds the requester to each message's read set. Read flags
// are display-only and are not broadcast live.
type MarkReadUseCase struct {
	Repo repository.ChatRepository
}

func NewMarkReadUseCase(repo repository.ChatRepository) *MarkReadUseCase {
	return &MarkReadUseCase{Repo: repo}
}

func (uc *MarkReadUseCase) Execute(ctx context.Context, in MarkReadInput) error {
	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return wrapRepoErr(err)
	}
	if !conv.HasParticipant(in.RequesterID) {
		return chat.ErrNotParticipant
	}

	if err := uc.Repo.MarkRead(ctx, in.ConversationID, in.RequesterID, in.MessageIDs); err != nil {
		return wrapRepoErr(err)
	}
	return nil
}
