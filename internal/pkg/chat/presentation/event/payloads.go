package event

import (
	"time"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
)

// MessagePayload is the wire shape of a persisted message. It is shared by
// the websocket message-delivered event and the REST message endpoints.
type MessagePayload struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversationId"`
	SenderID       string    `json:"senderId"`
	Seq            int64     `json:"seq"`
	Content        *string   `json:"content,omitempty"`
	ImageRef       *string   `json:"imageRef,omitempty"`
	DedupeKey      *string   `json:"dedupeKey,omitempty"`
	ReadBy         []string  `json:"readBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

func MessageFromDomain(m chat.Message) MessagePayload {
	readBy := m.ReadBy
	if readBy == nil {
		readBy = []string{}
	}
	return MessagePayload{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Seq:            m.Seq,
		Content:        m.Content,
		ImageRef:       m.ImageRef,
		DedupeKey:      m.DedupeKey,
		ReadBy:         readBy,
		CreatedAt:      m.CreatedAt,
	}
}

// ConversationPayload is the wire shape of a conversation record.
type ConversationPayload struct {
	ID              string    `json:"id"`
	ParticipantIDs  []string  `json:"participantIds"`
	LatestMessageID *string   `json:"latestMessageId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func ConversationFromDomain(c chat.Conversation) ConversationPayload {
	return ConversationPayload{
		ID:              c.ID,
		ParticipantIDs:  []string{c.ParticipantIDs[0], c.ParticipantIDs[1]},
		LatestMessageID: c.LatestMessageID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// ProfilePayload is the peer's display data in a conversation summary.
type ProfilePayload struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"displayName"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// SummaryPayload is one sidebar entry in the conversation listing.
type SummaryPayload struct {
	Conversation  ConversationPayload `json:"conversation"`
	LatestMessage *MessagePayload     `json:"latestMessage,omitempty"`
	UnreadCount   int                 `json:"unreadCount"`
	Peer          *ProfilePayload     `json:"peer,omitempty"`
}

func SummaryFromDomain(s chat.Summary) SummaryPayload {
	out := SummaryPayload{
		Conversation: ConversationFromDomain(s.Conversation),
		UnreadCount:  s.UnreadCount,
	}
	if s.LatestMessage != nil {
		m := MessageFromDomain(*s.LatestMessage)
		out.LatestMessage = &m
	}
	if s.Peer != nil {
		out.Peer = &ProfilePayload{
			ID:          s.Peer.ID,
			DisplayName: s.Peer.DisplayName,
			AvatarURL:   s.Peer.AvatarURL,
		}
	}
	return out
}

// ConnectedPayload acknowledges a successful socket setup.
type ConnectedPayload struct {
	UserID string `json:"userId"`
}

// OnlineUsersPayload is the presence snapshot sent right after setup.
type OnlineUsersPayload struct {
	UserIDs []string `json:"userIds"`
}

// PresencePayload announces one user crossing the online boundary.
type PresencePayload struct {
	UserID string `json:"userId"`
	Online bool   `json:"online"`
}

// ConversationUpdatedPayload nudges a client to refresh one conversation.
type ConversationUpdatedPayload struct {
	ConversationID string `json:"conversationId"`
}

// TypingPayload relays a typing indicator within a conversation.
type TypingPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
}

// ErrorPayload reports a rejected client frame without closing the socket.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
