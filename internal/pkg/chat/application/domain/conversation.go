package chat

import "time"

// Conversation is a persistent two-party thread between a buyer and a seller.
// The unordered participant pair is its natural key: at most one conversation
// exists per pair, and it is created lazily on first contact.
type Conversation struct {
	ID              string    `db:"id"`
	ParticipantIDs  [2]string `db:"-"` // stored normalized as (lo, hi)
	LatestMessageID *string   `db:"latest_message_id"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// HasParticipant tells whether userID belongs to this conversation.
func (c Conversation) HasParticipant(userID string) bool {
	return c.ParticipantIDs[0] == userID || c.ParticipantIDs[1] == userID
}

// PeerOf returns the other participant from userID's point of view.
func (c Conversation) PeerOf(userID string) string {
	if c.ParticipantIDs[0] == userID {
		return c.ParticipantIDs[1]
	}
	return c.ParticipantIDs[0]
}

// NormalizePair orders a participant pair so (A,B) and (B,A) resolve to the
// same storage key. Self-pairs are rejected.
func NormalizePair(a, b string) (lo, hi string, err error) {
	if a == b {
		return "", "", ErrSelfConversation
	}
	if a < b {
		return a, b, nil
	}
	return b, a, nil
}

// Summary is a conversation-list entry: the thread plus the display data the
// sidebar renders (latest message preview, unread count, peer profile).
type Summary struct {
	Conversation  Conversation
	LatestMessage *Message
	UnreadCount   int
	Peer          *Profile
}

// Profile is the read-only slice of the marketplace user directory that
// messaging consumes. Owned by the profile service.
type Profile struct {
	ID          string
	DisplayName string
	AvatarURL   *string
}
