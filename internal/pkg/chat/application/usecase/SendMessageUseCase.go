package usecase

import (
	"context"
	"encoding/json"
	"log/slog"

	qport "github.com/Nishan02/Buy-Sell/internal/infrastructure/queue/port"
	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
	repository "github.com/Nishan02/Buy-Sell/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries a message submission. DedupeKey is the
// client-generated correlation key: the response echoes it so an optimistic
// local copy can be replaced instead of duplicated, and a retried submission
// with the same key collapses onto the first stored row.
type SendMessageInput struct {
	ConversationID string
	SenderID       string
	Content        *string
	ImageRef       *string
	DedupeKey      *string
}

// SendMessageUseCase is the single writer path for a conversation: validate,
// persist, advance the latest-message pointer, then fan out. Events are
// published only after a successful write, so delivery order equals
// persistence order; a failed write surfaces to the caller and nothing is
// broadcast.
type SendMessageUseCase struct {
	Repo     repository.ChatRepository
	Notifier MessageNotifier
	Presence PresenceReader
	Queue    qport.Client
	Logger   *slog.Logger
}

func NewSendMessageUseCase(repo repository.ChatRepository, notifier MessageNotifier, presence PresenceReader, queue qport.Client, logger *slog.Logger) *SendMessageUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &SendMessageUseCase{Repo: repo, Notifier: notifier, Presence: presence, Queue: queue, Logger: logger}
}

// offlinePushTaskType matches the handler registered in the task package.
const offlinePushTaskType = "chat:offline_push"

type offlinePushPayload struct {
	RecipientID    string  `json:"recipientId"`
	ConversationID string  `json:"conversationId"`
	MessageID      string  `json:"messageId"`
	SenderID       string  `json:"senderId"`
	Preview        *string `json:"preview,omitempty"`
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	conv, err := uc.Repo.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	if !conv.HasParticipant(in.SenderID) {
		return nil, chat.ErrNotParticipant
	}

	msg, err := chat.NewMessage(chat.Message{
		ConversationID: in.ConversationID,
		SenderID:       in.SenderID,
		Content:        in.Content,
		ImageRef:       in.ImageRef,
		DedupeKey:      in.DedupeKey,
	})
	if err != nil {
		return nil, err
	}

	stored, err := uc.Repo.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, wrapRepoErr(err)
	}

	if err := uc.Repo.TouchLatestMessage(ctx, conv.ID, stored.ID, stored.CreatedAt); err != nil {
		// The message is durable; a stale latest pointer only delays the
		// sidebar until the next send.
		uc.Logger.Warn("failed to advance latest-message pointer",
			"conversation_id", conv.ID, "message_id", stored.ID, "error", err)
	}

	uc.fanOut(ctx, conv, stored)
	return &stored, nil
}

// fanOut runs strictly after the write. Failures here degrade to "client
// catches up on next history fetch" and are never returned to the sender.
func (uc *SendMessageUseCase) fanOut(ctx context.Context, conv chat.Conversation, msg chat.Message) {
	peer := conv.PeerOf(msg.SenderID)

	if uc.Notifier != nil {
		uc.Notifier.MessageDelivered(conv.ID, msg, msg.SenderID)
		uc.Notifier.ConversationUpdated(peer, conv.ID)
	}

	if uc.Queue == nil || uc.Presence == nil || uc.Presence.IsOnline(peer) {
		return
	}

	payload, err := json.Marshal(offlinePushPayload{
		RecipientID:    peer,
		ConversationID: conv.ID,
		MessageID:      msg.ID,
		SenderID:       msg.SenderID,
		Preview:        msg.Content,
	})
	if err != nil {
		return
	}
	_, err = uc.Queue.Enqueue(ctx, qport.Task{Type: offlinePushTaskType, Payload: payload},
		qport.EnqueueOption{Queue: "chat", MaxRetry: 5})
	if err != nil {
		uc.Logger.Warn("failed to enqueue offline push",
			"recipient_id", peer, "conversation_id", conv.ID, "error", err)
	}
}
