package usecase

import chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"

// MessageNotifier fans server-originated events out to live sessions.
// Implementations are best-effort and must never block on slow receivers;
// the history endpoint is the source of truth for anything missed.
type MessageNotifier interface {
	// MessageDelivered publishes the persisted message to the conversation
	// room, excluding every session owned by excludeUserID.
	MessageDelivered(conversationID string, msg chat.Message, excludeUserID string)

	// ConversationUpdated nudges the recipient's personal room so a
	// backgrounded client refreshes its conversation list.
	ConversationUpdated(recipientID, conversationID string)
}

// PresenceReader answers whether a user currently owns a live connection.
type PresenceReader interface {
	IsOnline(userID string) bool
}
