package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nishan02/Buy-Sell/internal/infrastructure/auth"
	qport "github.com/Nishan02/Buy-Sell/internal/infrastructure/queue/port"
	"github.com/Nishan02/Buy-Sell/internal/infrastructure/realtime"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/usecase"
	chatadapter "github.com/Nishan02/Buy-Sell/internal/pkg/chat/persistence/repository/adapter"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/controller"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/event"
	useradapter "github.com/Nishan02/Buy-Sell/internal/repository/adapter"
)

// Deps carries the shared infrastructure the chat endpoints are built on.
type Deps struct {
	Pool             *pgxpool.Pool
	Queue            qport.Client
	Hub              *realtime.Hub
	Registry         *realtime.Registry
	Verifier         *auth.Verifier
	HeartbeatTimeout time.Duration
	Logger           *slog.Logger
}

// RegisterRoutes wires repositories, use cases and per-endpoint controllers,
// then binds them under the given group. All chat endpoints require a valid
// bearer token.
func RegisterRoutes(g *gin.RouterGroup, d Deps) {
	repo := chatadapter.NewPgChatRepository(d.Pool)
	users := useradapter.NewPgUserDirectory(d.Pool)
	notifier := event.NewHubNotifier(d.Hub, d.Logger)

	openUC := usecase.NewOpenConversationUseCase(repo)
	listUC := usecase.NewListConversationsUseCase(repo, users)
	sendUC := usecase.NewSendMessageUseCase(repo, notifier, d.Registry, d.Queue, d.Logger)
	historyUC := usecase.NewGetHistoryUseCase(repo)
	readUC := usecase.NewMarkReadUseCase(repo)

	openCtl := controller.NewOpenConversationController(openUC)
	listCtl := controller.NewListConversationsController(listUC)
	sendCtl := controller.NewSendMessageController(sendUC)
	historyCtl := controller.NewGetHistoryController(historyUC)
	readCtl := controller.NewMarkReadController(readUC)
	socketCtl := controller.NewChatSocketController(d.Hub, d.Registry, sendUC, repo, d.HeartbeatTimeout, d.Logger)

	authed := g.Group("", auth.Middleware(d.Verifier))

	// POST /api/v1/conversations -> open (get or create) a conversation
	authed.POST("/conversations", openCtl.Handle)

	// GET /api/v1/conversations -> the caller's conversation sidebar
	authed.GET("/conversations", listCtl.Handle)

	// POST /api/v1/messages -> send a message
	authed.POST("/messages", sendCtl.Handle)

	// GET /api/v1/conversations/:id/messages -> paged message history
	authed.GET("/conversations/:id/messages", historyCtl.Handle)

	// POST /api/v1/conversations/:id/read -> flag messages as read
	authed.POST("/conversations/:id/read", readCtl.Handle)

	// GET /api/v1/chat/ws -> realtime websocket
	authed.GET("/chat/ws", socketCtl.Handle)
}
