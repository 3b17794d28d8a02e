package realtime

import "sync"

// PresenceEvent reports a user crossing the online/offline boundary.
type PresenceEvent struct {
	UserID string
	Online bool
}

// Registry tracks which authenticated users currently own live connections.
// Presence is derived from a per-user refcount, not a flat set: a user with
// two open tabs stays online when one of them closes.
type Registry struct {
	mu       sync.Mutex
	refs     map[string]int    // userID -> live connection count
	conns    map[string]string // connID -> userID reverse index
	onChange func(PresenceEvent)
}

// NewRegistry constructs a Registry. onChange, if non-nil, is invoked outside
// the registry lock for every 0->1 and 1->0 transition.
func NewRegistry(onChange func(PresenceEvent)) *Registry {
	return &Registry{
		refs:     make(map[string]int),
		conns:    make(map[string]string),
		onChange: onChange,
	}
}

// Register records a live connection for the user. The first connection of a
// user emits an online event.
func (r *Registry) Register(userID, connID string) {
	r.mu.Lock()
	r.conns[connID] = userID
	r.refs[userID]++
	wentOnline := r.refs[userID] == 1
	r.mu.Unlock()

	if wentOnline && r.onChange != nil {
		r.onChange(PresenceEvent{UserID: userID, Online: true})
	}
}

// Unregister drops a connection. The user's last connection emits an offline
// event. Unknown connection ids are ignored.
func (r *Registry) Unregister(connID string) {
	r.mu.Lock()
	userID, ok := r.conns[connID]
	if !ok {
		r.mu.Unlock()
		return
	}
	delete(r.conns, connID)

	wentOffline := false
	if r.refs[userID] <= 1 {
		delete(r.refs, userID)
		wentOffline = true
	} else {
		r.refs[userID]--
	}
	r.mu.Unlock()

	if wentOffline && r.onChange != nil {
		r.onChange(PresenceEvent{UserID: userID, Online: false})
	}
}

// IsOnline reports whether the user owns at least one live connection.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refs[userID] > 0
}

// OnlineUserIDs returns a snapshot of all currently online users.
func (r *Registry) OnlineUserIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.refs))
	for id := range r.refs {
		ids = append(ids, id)
	}
	return ids
}
