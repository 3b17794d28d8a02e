package chat

import (
	"strings"
	"time"
)

// Message is an immutable log entry in a conversation. Seq is assigned by the
// store and is the ordering authority; CreatedAt is display metadata only,
// since wall-clock time is not a reliable unique key. ReadBy is the single
// mutable field (read-flag additions).
type Message struct {
	ID             string    `db:"id"`
	ConversationID string    `db:"conversation_id"`
	SenderID       string    `db:"sender_id"`
	Seq            int64     `db:"seq"`
	Content        *string   `db:"content"`
	ImageRef       *string   `db:"image_ref"`
	DedupeKey      *string   `db:"dedupe_key"`
	ReadBy         []string  `db:"read_by"`
	CreatedAt      time.Time `db:"created_at"`
}

// NewMessage validates and normalizes a message before persistence.
// Whitespace-only content collapses to nil; a message must carry content or
// an image reference.
func NewMessage(m Message) (*Message, error) {
	if m.ConversationID == "" || m.SenderID == "" {
		return nil, ErrConversationNotFound
	}

	if m.Content != nil {
		trimmed := strings.TrimSpace(*m.Content)
		if trimmed == "" {
			m.Content = nil
		} else {
			m.Content = &trimmed
		}
	}

	if m.Content == nil && m.ImageRef == nil {
		return nil, ErrEmptyMessage
	}

	return &m, nil
}

// ReadByUser reports whether userID already flagged the message as read.
func (m Message) ReadByUser(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
