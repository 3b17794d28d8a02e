package realtime

// RoomID is a typed pub/sub scope key. Personal and conversation rooms live
// in explicitly separate namespaces so id formats can never collide.
type RoomID string

// UserRoom is the personal room every authenticated connection joins; it
// receives conversation-list refresh hints and presence traffic.
func UserRoom(userID string) RoomID {
	return RoomID("user:" + userID)
}

// ConversationRoom carries live message and typing traffic for an open chat.
func ConversationRoom(conversationID string) RoomID {
	return RoomID("conv:" + conversationID)
}
