package event

import (
	"log/slog"

	"github.com/Nishan02/Buy-Sell/internal/infrastructure/realtime"
	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
)

// HubNotifier turns application-level notifications into wire frames and
// publishes them through the hub. It satisfies usecase.MessageNotifier.
type HubNotifier struct {
	hub    *realtime.Hub
	logger *slog.Logger
}

func NewHubNotifier(hub *realtime.Hub, logger *slog.Logger) *HubNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &HubNotifier{hub: hub, logger: logger}
}

// MessageDelivered publishes the persisted message to the conversation room.
// The sender's sessions are excluded: they already hold the message from the
// send acknowledgement.
func (n *HubNotifier) MessageDelivered(conversationID string, msg chat.Message, excludeUserID string) {
	payload, err := Encode(MessageDelivered, MessageFromDomain(msg))
	if err != nil {
		n.logger.Error("failed to encode message-delivered frame", "message_id", msg.ID, "error", err)
		return
	}
	n.hub.Publish(realtime.ConversationRoom(conversationID), payload, excludeUserID)
}

// ConversationUpdated nudges the recipient's personal room. A client that is
// not watching the conversation refreshes its sidebar from this.
func (n *HubNotifier) ConversationUpdated(recipientID, conversationID string) {
	payload, err := Encode(ConversationUpdated, ConversationUpdatedPayload{ConversationID: conversationID})
	if err != nil {
		n.logger.Error("failed to encode conversation-updated frame", "conversation_id", conversationID, "error", err)
		return
	}
	n.hub.Publish(realtime.UserRoom(recipientID), payload, "")
}

// PresenceChanged broadcasts an online/offline transition to every session.
func (n *HubNotifier) PresenceChanged(ev realtime.PresenceEvent) {
	payload, err := Encode(PresenceChanged, PresencePayload{UserID: ev.UserID, Online: ev.Online})
	if err != nil {
		n.logger.Error("failed to encode presence frame", "user_id", ev.UserID, "error", err)
		return
	}
	n.hub.BroadcastAll(payload)
}
