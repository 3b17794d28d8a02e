package repository

import (
	"context"
	"time"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
)

// ChatRepository defines persistence for the messaging domain: the durable
// message log and the conversation directory.
type ChatRepository interface {
	// GetOrCreateConversation resolves the conversation for an unordered
	// participant pair, creating it on first contact. Concurrent calls for
	// the same pair resolve to the same conversation.
	GetOrCreateConversation(ctx context.Context, userA, userB string) (chat.Conversation, error)

	// GetConversation returns chat.ErrConversationNotFound for unknown ids.
	GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error)

	// ListSummariesForUser returns the user's conversations newest-first,
	// each with its latest message and the caller's unread count.
	ListSummariesForUser(ctx context.Context, userID string) ([]chat.Summary, error)

	// SaveMessage appends to the conversation log and returns the stored row
	// with its assigned id, sequence and timestamp. A duplicate dedupe key
	// returns the previously stored row instead of inserting twice.
	SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error)

	// TouchLatestMessage advances the conversation's latest-message pointer
	// and bumps updated_at.
	TouchLatestMessage(ctx context.Context, conversationID, messageID string, at time.Time) error

	// ListMessages returns messages in ascending sequence order. beforeSeq,
	// when positive, restricts the page to rows with seq < beforeSeq.
	ListMessages(ctx context.Context, conversationID string, limit int, beforeSeq int64) ([]chat.Message, error)

	// MarkRead adds userID to the read set of each listed message.
	MarkRead(ctx context.Context, conversationID, userID string, messageIDs []string) error

	// IsParticipant reports whether userID belongs to the conversation.
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
}
