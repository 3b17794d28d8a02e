package port

import (
	"context"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
)

// UserDirectory is the read-only view of the marketplace profile service.
// Messaging stores only user ids; display names and avatars are resolved
// through this port at render time.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*chat.Profile, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]chat.Profile, error)
}
