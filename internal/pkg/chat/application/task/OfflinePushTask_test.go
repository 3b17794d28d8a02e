package task

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qport "github.com/Nishan02/Buy-Sell/internal/infrastructure/queue/port"
	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
)

type fakeCache struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	if v, ok := c.values[key]; ok {
		return v, nil
	}
	return "", errors.New("cache: miss")
}

func (c *fakeCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if c.err != nil {
		return c.err
	}
	c.values[key] = value
	c.ttls[key] = ttl
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	var n int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close() error               { return nil }

type fakeDirectory struct{ profiles map[string]chat.Profile }

func (d *fakeDirectory) FindByID(_ context.Context, id string) (*chat.Profile, error) {
	if p, ok := d.profiles[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (d *fakeDirectory) FindByIDs(_ context.Context, ids []string) (map[string]chat.Profile, error) {
	out := map[string]chat.Profile{}
	for _, id := range ids {
		if p, ok := d.profiles[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func strptr(s string) *string { return &s }

func payloadTask(t *testing.T, p OfflinePushPayload) qport.Task {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return qport.Task{Type: TypeOfflinePush, Payload: raw}
}

func TestOfflinePushWritesMarker(t *testing.T) {
	cache := newFakeCache()
	dir := &fakeDirectory{profiles: map[string]chat.Profile{
		"alice": {ID: "alice", DisplayName: "Alice W."},
	}}
	h := NewOfflinePushHandler(cache, dir, nil)

	err := h.Handle(context.Background(), payloadTask(t, OfflinePushPayload{
		RecipientID:    "bob",
		ConversationID: "conv-1",
		MessageID:      "msg-9",
		SenderID:       "alice",
		Preview:        strptr("still interested?"),
	}))
	require.NoError(t, err)

	raw, ok := cache.values["chat:pending_push:bob"]
	require.True(t, ok)
	var marker pendingPush
	require.NoError(t, json.Unmarshal([]byte(raw), &marker))
	assert.Equal(t, "conv-1", marker.ConversationID)
	assert.Equal(t, "msg-9", marker.MessageID)
	assert.Equal(t, "Alice W.", marker.SenderName)
	assert.Equal(t, "still interested?", *marker.Preview)
	assert.Equal(t, pendingPushTTL, cache.ttls["chat:pending_push:bob"])
}

func TestOfflinePushDropsMalformedPayload(t *testing.T) {
	cache := newFakeCache()
	h := NewOfflinePushHandler(cache, nil, nil)

	err := h.Handle(context.Background(), qport.Task{Type: TypeOfflinePush, Payload: []byte("{not json")})
	require.NoError(t, err)
	assert.Empty(t, cache.values)
}

func TestOfflinePushRetriesOnCacheFailure(t *testing.T) {
	cache := newFakeCache()
	cache.err = errors.New("connection reset")
	h := NewOfflinePushHandler(cache, nil, nil)

	err := h.Handle(context.Background(), payloadTask(t, OfflinePushPayload{
		RecipientID: "bob", ConversationID: "conv-1", MessageID: "msg-1", SenderID: "alice",
	}))
	require.Error(t, err)
}

func TestOfflinePushOverwritesPreviousMarker(t *testing.T) {
	cache := newFakeCache()
	h := NewOfflinePushHandler(cache, nil, nil)

	for _, msgID := range []string{"msg-1", "msg-2"} {
		err := h.Handle(context.Background(), payloadTask(t, OfflinePushPayload{
			RecipientID: "bob", ConversationID: "conv-1", MessageID: msgID, SenderID: "alice",
		}))
		require.NoError(t, err)
	}

	var marker pendingPush
	require.NoError(t, json.Unmarshal([]byte(cache.values["chat:pending_push:bob"]), &marker))
	assert.Equal(t, "msg-2", marker.MessageID)
}
