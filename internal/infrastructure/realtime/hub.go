package realtime

import "sync"

// Hub routes events to the sessions subscribed to a room. It holds the only
// shared mutable routing state in the process; mutations are short, in-memory
// and never overlap I/O. Delivery is best-effort: a session that died without
// detaching yet simply misses the event, and the history endpoint is the
// source of truth on reconnect.
type Hub struct {
	mu        sync.RWMutex
	sessions  map[string]Session             // connID -> session
	userConns map[string]map[string]Session  // userID -> connID -> session
	rooms     map[RoomID]map[string]Session  // roomID -> connID -> session
	connRooms map[string]map[RoomID]struct{} // connID -> subscribed rooms
}

// NewHub constructs an initialized Hub.
func NewHub() *Hub {
	return &Hub{
		sessions:  make(map[string]Session),
		userConns: make(map[string]map[string]Session),
		rooms:     make(map[RoomID]map[string]Session),
		connRooms: make(map[string]map[RoomID]struct{}),
	}
}

// Attach registers an authenticated session and subscribes it to the user's
// personal room. A user may hold several sessions at once (multiple tabs).
func (h *Hub) Attach(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[s.ID()] = s

	conns := h.userConns[s.UserID()]
	if conns == nil {
		conns = make(map[string]Session)
		h.userConns[s.UserID()] = conns
	}
	conns[s.ID()] = s

	h.connRooms[s.ID()] = make(map[RoomID]struct{})
	h.subscribeLocked(s, UserRoom(s.UserID()))
}

// Detach removes a session and implicitly drops all its room subscriptions.
func (h *Hub) Detach(s Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s.ID()]; !ok {
		return
	}
	delete(h.sessions, s.ID())

	if conns := h.userConns[s.UserID()]; conns != nil {
		delete(conns, s.ID())
		if len(conns) == 0 {
			delete(h.userConns, s.UserID())
		}
	}

	for roomID := range h.connRooms[s.ID()] {
		h.unsubscribeLocked(s.ID(), roomID)
	}
	delete(h.connRooms, s.ID())
}

// Subscribe adds the session to a room. No-op for detached sessions.
func (h *Hub) Subscribe(s Session, roomID RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s.ID()]; !ok {
		return
	}
	h.subscribeLocked(s, roomID)
}

// Unsubscribe removes the session from a room.
func (h *Hub) Unsubscribe(s Session, roomID RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unsubscribeLocked(s.ID(), roomID)
}

// Publish delivers payload to every session subscribed to the room.
// excludeUserID, when non-empty, skips all of that user's sessions — used so
// a sender's own tabs don't receive an echo of a message they already hold.
// Returns the number of sessions the payload was handed to.
func (h *Hub) Publish(roomID RoomID, payload []byte, excludeUserID string) int {
	h.mu.RLock()
	targets := make([]Session, 0, len(h.rooms[roomID]))
	for _, s := range h.rooms[roomID] {
		if excludeUserID != "" && s.UserID() == excludeUserID {
			continue
		}
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := s.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// BroadcastAll sends payload to every attached session, regardless of rooms.
// Used for global presence updates.
func (h *Hub) BroadcastAll(payload []byte) {
	h.mu.RLock()
	targets := make([]Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	for _, s := range targets {
		_ = s.Send(payload)
	}
}

func (h *Hub) subscribeLocked(s Session, roomID RoomID) {
	room := h.rooms[roomID]
	if room == nil {
		room = make(map[string]Session)
		h.rooms[roomID] = room
	}
	room[s.ID()] = s
	h.connRooms[s.ID()][roomID] = struct{}{}
}

func (h *Hub) unsubscribeLocked(connID string, roomID RoomID) {
	room := h.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, connID)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
	if memberships := h.connRooms[connID]; memberships != nil {
		delete(memberships, roomID)
	}
}
