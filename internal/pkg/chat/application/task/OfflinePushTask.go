package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	cacheport "github.com/Nishan02/Buy-Sell/internal/infrastructure/cache/port"
	qport "github.com/Nishan02/Buy-Sell/internal/infrastructure/queue/port"
	userport "github.com/Nishan02/Buy-Sell/internal/repository/port"
)

// TypeOfflinePush is the task type enqueued when a message lands for a
// recipient with no live connection.
const TypeOfflinePush = "chat:offline_push"

// pendingPushTTL bounds how long an unconsumed push marker lingers; stale
// notifications about week-old messages help nobody.
const pendingPushTTL = 24 * time.Hour

// OfflinePushPayload mirrors the JSON the send path enqueues.
type OfflinePushPayload struct {
	RecipientID    string  `json:"recipientId"`
	ConversationID string  `json:"conversationId"`
	MessageID      string  `json:"messageId"`
	SenderID       string  `json:"senderId"`
	Preview        *string `json:"preview,omitempty"`
}

// pendingPush is what gets stored under the recipient's marker key. The
// mobile push gateway polls these markers and turns them into device
// notifications.
type pendingPush struct {
	ConversationID string    `json:"conversationId"`
	MessageID      string    `json:"messageId"`
	SenderID       string    `json:"senderId"`
	SenderName     string    `json:"senderName,omitempty"`
	Preview        *string   `json:"preview,omitempty"`
	QueuedAt       time.Time `json:"queuedAt"`
}

func pendingPushKey(recipientID string) string {
	return "chat:pending_push:" + recipientID
}

// OfflinePushHandler writes a pending-push marker for the recipient. Repeat
// deliveries overwrite the marker, so retries are safe and the recipient ends
// up with the freshest message preview.
type OfflinePushHandler struct {
	Cache  cacheport.Cache
	Users  userport.UserDirectory
	Logger *slog.Logger
}

func NewOfflinePushHandler(cache cacheport.Cache, users userport.UserDirectory, logger *slog.Logger) *OfflinePushHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OfflinePushHandler{Cache: cache, Users: users, Logger: logger}
}

// Register binds the handler to its task type on the worker server.
func (h *OfflinePushHandler) Register(srv qport.Server) {
	srv.Register(TypeOfflinePush, h.Handle)
}

func (h *OfflinePushHandler) Handle(ctx context.Context, t qport.Task) error {
	var p OfflinePushPayload
	if err := json.Unmarshal(t.Payload, &p); err != nil {
		// Malformed payloads never become valid on retry.
		h.Logger.Error("dropping malformed offline push payload", "error", err)
		return nil
	}

	marker := pendingPush{
		ConversationID: p.ConversationID,
		MessageID:      p.MessageID,
		SenderID:       p.SenderID,
		Preview:        p.Preview,
		QueuedAt:       time.Now().UTC(),
	}
	if h.Users != nil {
		if profile, err := h.Users.FindByID(ctx, p.SenderID); err == nil && profile != nil {
			marker.SenderName = profile.DisplayName
		}
	}

	raw, err := json.Marshal(marker)
	if err != nil {
		return fmt.Errorf("encode pending push: %w", err)
	}
	if err := h.Cache.Set(ctx, pendingPushKey(p.RecipientID), string(raw), pendingPushTTL); err != nil {
		return fmt.Errorf("store pending push for %s: %w", p.RecipientID, err)
	}

	h.Logger.Info("queued offline push",
		"recipient_id", p.RecipientID, "conversation_id", p.ConversationID)
	return nil
}
