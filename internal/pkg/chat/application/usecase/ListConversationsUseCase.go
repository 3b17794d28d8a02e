package usecase

import (
	"context"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/persistence/repository/port"
	userport "github.com/Nishan02/Buy-Sell/internal/repository/port"
)

// ListConversationsInput wraps the requesting user.
type ListConversationsInput struct {
	UserID string
}

// ListConversationsUseCase returns the user's conversations newest-first,
// with the peer's profile resolved for sidebar rendering.
type ListConversationsUseCase struct {
	Repo  repository.ChatRepository
	Users userport.UserDirectory
}

func NewListConversationsUseCase(repo repository.ChatRepository, users userport.UserDirectory) *ListConversationsUseCase {
	return &ListConversationsUseCase{Repo: repo, Users: users}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, in ListConversationsInput) ([]chat.Summary, error) {
	summaries, err := uc.Repo.ListSummariesForUser(ctx, in.UserID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if len(summaries) == 0 || uc.Users == nil {
		return summaries, nil
	}

	peerIDs := make([]string, 0, len(summaries))
	for _, s := range summaries {
		peerIDs = append(peerIDs, s.Conversation.PeerOf(in.UserID))
	}

	// Profile lookups are display-only; a directory failure degrades the
	// sidebar to bare ids rather than failing the listing.
	profiles, err := uc.Users.FindByIDs(ctx, peerIDs)
	if err != nil {
		return summaries, nil
	}
	for i := range summaries {
		if p, ok := profiles[summaries[i].Conversation.PeerOf(in.UserID)]; ok {
			peer := p
			summaries[i].Peer = &peer
		}
	}
	return summaries, nil
}
