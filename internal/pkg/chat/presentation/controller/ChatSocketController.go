package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Nishan02/Buy-Sell/internal/infrastructure/auth"
	"github.com/Nishan02/Buy-Sell/internal/infrastructure/realtime"
	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/usecase"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/event"
)

// ParticipancyChecker answers whether a user belongs to a conversation.
// Satisfied by the chat repository.
type ParticipancyChecker interface {
	IsParticipant(ctx context.Context, conversationID, userID string) (bool, error)
}

// ChatSocketController owns the websocket lifecycle: upgrade, setup
// handshake, read loop, and teardown. Authentication happens before the
// upgrade via the shared middleware; the setup frame then re-asserts the user
// id so a client cannot attach a socket on one identity and claim another.
type ChatSocketController struct {
	Hub          *realtime.Hub
	Registry     *realtime.Registry
	Send         *usecase.SendMessageUseCase
	Participancy ParticipancyChecker

	HeartbeatTimeout time.Duration
	Logger           *slog.Logger

	upgrader websocket.Upgrader
}

func NewChatSocketController(
	hub *realtime.Hub,
	registry *realtime.Registry,
	send *usecase.SendMessageUseCase,
	participancy ParticipancyChecker,
	heartbeatTimeout time.Duration,
	logger *slog.Logger,
) *ChatSocketController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatSocketController{
		Hub:              hub,
		Registry:         registry,
		Send:             send,
		Participancy:     participancy,
		HeartbeatTimeout: heartbeatTimeout,
		Logger:           logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Browser clients connect from the marketplace SPA origin;
			// token auth is the actual gate.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (ctrl *ChatSocketController) Handle(c *gin.Context) {
	userID := auth.UserID(c)

	ws, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the handshake error response.
		ctrl.Logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	conn := realtime.NewConnection(userID, ws, ctrl.Logger)
	conn.Start()

	if !ctrl.awaitSetup(ws, conn, userID) {
		return
	}

	ctrl.Hub.Attach(conn)
	ctrl.Registry.Register(userID, conn.ID())
	ctrl.Logger.Info("chat socket connected", "user_id", userID, "conn_id", conn.ID())

	ctrl.sendFrame(conn, event.Connected, event.ConnectedPayload{UserID: userID})
	ctrl.sendFrame(conn, event.OnlineUsers, event.OnlineUsersPayload{UserIDs: ctrl.Registry.OnlineUserIDs()})

	ctrl.readLoop(c.Request.Context(), ws, conn, userID)

	ctrl.Hub.Detach(conn)
	ctrl.Registry.Unregister(conn.ID())
	conn.Close(websocket.CloseNormalClosure, "")
	ctrl.Logger.Info("chat socket disconnected", "user_id", userID, "conn_id", conn.ID())
}

type setupBody struct {
	UserID string `json:"userId"`
}

// awaitSetup consumes the mandatory first frame. The claimed user id must
// match the token identity; anything else closes the socket.
func (ctrl *ChatSocketController) awaitSetup(ws *websocket.Conn, conn *realtime.Connection, userID string) bool {
	_ = ws.SetReadDeadline(time.Now().Add(ctrl.HeartbeatTimeout))
	_, raw, err := ws.ReadMessage()
	if err != nil {
		conn.Close(websocket.CloseNormalClosure, "")
		return false
	}

	frame, err := event.Decode(raw)
	if err != nil || frame.Event != event.Setup {
		conn.Close(websocket.ClosePolicyViolation, "setup frame expected")
		return false
	}
	var body setupBody
	if err := json.Unmarshal(frame.Data, &body); err != nil || body.UserID != userID {
		ctrl.Logger.Warn("setup identity mismatch", "token_user_id", userID)
		conn.Close(websocket.ClosePolicyViolation, "identity mismatch")
		return false
	}
	return true
}

func (ctrl *ChatSocketController) readLoop(ctx context.Context, ws *websocket.Conn, conn *realtime.Connection, userID string) {
	_ = ws.SetReadDeadline(time.Now().Add(ctrl.HeartbeatTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(ctrl.HeartbeatTimeout))
	})

	// The conversation room this socket is currently watching. Switching
	// conversations leaves the previous room so stale typing and message
	// traffic stops flowing to a view the client no longer renders.
	var activeRoom realtime.RoomID

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				ctrl.Logger.Warn("chat socket read error", "user_id", userID, "error", err)
			}
			return
		}
		_ = ws.SetReadDeadline(time.Now().Add(ctrl.HeartbeatTimeout))

		frame, err := event.Decode(raw)
		if err != nil {
			ctrl.sendError(conn, "bad_frame", "malformed frame")
			continue
		}

		switch frame.Event {
		case event.JoinConversation:
			activeRoom = ctrl.handleJoin(ctx, conn, userID, frame.Data, activeRoom)
		case event.NewMessage:
			ctrl.handleMessage(ctx, conn, userID, frame.Data)
		case event.Typing, event.StopTyping:
			ctrl.handleTyping(conn, userID, frame.Event, frame.Data, activeRoom)
		default:
			ctrl.sendError(conn, "unknown_event", "unknown event: "+frame.Event)
		}
	}
}

type joinBody struct {
	ConversationID string `json:"conversationId"`
}

func (ctrl *ChatSocketController) handleJoin(ctx context.Context, conn *realtime.Connection, userID string, data json.RawMessage, previous realtime.RoomID) realtime.RoomID {
	var body joinBody
	if err := json.Unmarshal(data, &body); err != nil || body.ConversationID == "" {
		ctrl.sendError(conn, "bad_frame", "conversationId is required")
		return previous
	}

	ok, err := ctrl.Participancy.IsParticipant(ctx, body.ConversationID, userID)
	if err != nil {
		ctrl.sendError(conn, "unavailable", "could not verify conversation access")
		return previous
	}
	if !ok {
		ctrl.sendError(conn, "forbidden", "not a participant of this conversation")
		return previous
	}

	room := realtime.ConversationRoom(body.ConversationID)
	if previous != "" && previous != room {
		ctrl.Hub.Unsubscribe(conn, previous)
	}
	ctrl.Hub.Subscribe(conn, room)
	return room
}

type messageBody struct {
	ConversationID string  `json:"conversationId"`
	Content        *string `json:"content"`
	ImageRef       *string `json:"imageRef"`
	DedupeKey      *string `json:"dedupeKey"`
}

// handleMessage runs the same send pipeline as the REST endpoint and acks the
// sender with the persisted row. Fan-out to the peer happens inside the use
// case, after the write.
func (ctrl *ChatSocketController) handleMessage(ctx context.Context, conn *realtime.Connection, userID string, data json.RawMessage) {
	var body messageBody
	if err := json.Unmarshal(data, &body); err != nil || body.ConversationID == "" {
		ctrl.sendError(conn, "bad_frame", "conversationId is required")
		return
	}

	msg, err := ctrl.Send.Execute(ctx, usecase.SendMessageInput{
		ConversationID: body.ConversationID,
		SenderID:       userID,
		Content:        body.Content,
		ImageRef:       body.ImageRef,
		DedupeKey:      body.DedupeKey,
	})
	if err != nil {
		ctrl.sendError(conn, sendErrorCode(err), err.Error())
		return
	}

	ctrl.sendFrame(conn, event.MessageDelivered, event.MessageFromDomain(*msg))
}

func sendErrorCode(err error) string {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return "empty_message"
	case errors.Is(err, chat.ErrNotParticipant):
		return "forbidden"
	case errors.Is(err, chat.ErrConversationNotFound):
		return "not_found"
	default:
		return "unavailable"
	}
}

func (ctrl *ChatSocketController) handleTyping(conn *realtime.Connection, userID, name string, data json.RawMessage, activeRoom realtime.RoomID) {
	var body joinBody
	if err := json.Unmarshal(data, &body); err != nil || body.ConversationID == "" {
		ctrl.sendError(conn, "bad_frame", "conversationId is required")
		return
	}

	// Typing is relayed only within the room the socket already joined;
	// joining performed the participancy check.
	room := realtime.ConversationRoom(body.ConversationID)
	if room != activeRoom {
		ctrl.sendError(conn, "forbidden", "join the conversation before typing")
		return
	}

	payload, err := event.Encode(name, event.TypingPayload{ConversationID: body.ConversationID, UserID: userID})
	if err != nil {
		return
	}
	ctrl.Hub.Publish(room, payload, userID)
}

func (ctrl *ChatSocketController) sendFrame(conn *realtime.Connection, name string, body any) {
	payload, err := event.Encode(name, body)
	if err != nil {
		ctrl.Logger.Error("failed to encode frame", "event", name, "error", err)
		return
	}
	_ = conn.Send(payload)
}

func (ctrl *ChatSocketController) sendError(conn *realtime.Connection, code, msg string) {
	payload, err := event.Encode(event.Error, event.ErrorPayload{Code: code, Message: msg})
	if err != nil {
		return
	}
	_ = conn.Send(payload)
}
