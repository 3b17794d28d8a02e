package event

import "encoding/json"

// Client-originated events.
const (
	Setup            = "setup"
	JoinConversation = "join-conversation"
	NewMessage       = "message"
	Typing           = "typing"
	StopTyping       = "stop-typing"
)

// Server-originated events.
const (
	Connected           = "connected"
	OnlineUsers         = "online-users"
	PresenceChanged     = "presence-changed"
	MessageDelivered    = "message-delivered"
	ConversationUpdated = "conversation-updated"
	Error               = "error"
)

// Frame is the wire envelope for every websocket exchange, in both
// directions: an event name plus an event-specific JSON body.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode builds a serialized frame from an event name and body.
func Encode(event string, data any) ([]byte, error) {
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		raw = b
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}

// Decode parses a raw websocket frame.
func Decode(raw []byte) (Frame, error) {
	var f Frame
	err := json.Unmarshal(raw, &f)
	return f, err
}
