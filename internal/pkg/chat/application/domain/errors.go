package chat

import "errors"

// Domain-level errors for messaging behaviors
var (
	ErrSelfConversation     = errors.New("chat: a conversation needs two distinct participants")
	ErrNotParticipant       = errors.New("chat: user is not a participant in the conversation")
	ErrEmptyMessage         = errors.New("chat: empty message (no content or image)")
	ErrConversationNotFound = errors.New("chat: conversation not found")
	ErrStoreUnavailable     = errors.New("chat: message store unavailable")
)
