package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePairIsOrderInsensitive(t *testing.T) {
	req := require.New(t)

	lo1, hi1, err := NormalizePair("alice", "bob")
	req.NoError(err)
	lo2, hi2, err := NormalizePair("bob", "alice")
	req.NoError(err)

	req.Equal(lo1, lo2)
	req.Equal(hi1, hi2)
	req.Less(lo1, hi1)
}

func TestNormalizePairRejectsSelf(t *testing.T) {
	_, _, err := NormalizePair("alice", "alice")
	require.ErrorIs(t, err, ErrSelfConversation)
}

func TestNewMessageTrimsContent(t *testing.T) {
	req := require.New(t)

	content := "  is this available?  "
	msg, err := NewMessage(Message{
		ConversationID: "conv-1",
		SenderID:       "alice",
		Content:        &content,
	})
	req.NoError(err)
	req.Equal("is this available?", *msg.Content)
}

func TestNewMessageRejectsEmpty(t *testing.T) {
	req := require.New(t)

	blank := "   "
	_, err := NewMessage(Message{ConversationID: "conv-1", SenderID: "alice", Content: &blank})
	req.ErrorIs(err, ErrEmptyMessage)

	_, err = NewMessage(Message{ConversationID: "conv-1", SenderID: "alice"})
	req.ErrorIs(err, ErrEmptyMessage)
}

func TestNewMessageAllowsImageOnly(t *testing.T) {
	req := require.New(t)

	ref := "uploads/bike.jpg"
	msg, err := NewMessage(Message{ConversationID: "conv-1", SenderID: "alice", ImageRef: &ref})
	req.NoError(err)
	req.Nil(msg.Content)
	req.Equal(ref, *msg.ImageRef)
}

func TestConversationParticipantHelpers(t *testing.T) {
	req := require.New(t)

	c := Conversation{ParticipantIDs: [2]string{"alice", "bob"}}
	req.True(c.HasParticipant("alice"))
	req.True(c.HasParticipant("bob"))
	req.False(c.HasParticipant("carol"))
	req.Equal("bob", c.PeerOf("alice"))
	req.Equal("alice", c.PeerOf("bob"))
}

func TestMessageReadByUser(t *testing.T) {
	req := require.New(t)

	m := Message{ReadBy: []string{"alice"}}
	req.True(m.ReadByUser("alice"))
	req.False(m.ReadByUser("bob"))
}
