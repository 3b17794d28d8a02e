package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nishan02/Buy-Sell/internal/infrastructure/auth"
	"github.com/Nishan02/Buy-Sell/internal/infrastructure/realtime"
	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/usecase"
	"github.com/Nishan02/Buy-Sell/internal/pkg/chat/presentation/event"
)

type memRepo struct {
	conversations map[string]chat.Conversation
	byPair        map[string]string
	messages      map[string][]chat.Message
	read          map[string][]string
	nextSeq       int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		conversations: map[string]chat.Conversation{},
		byPair:        map[string]string{},
		messages:      map[string][]chat.Message{},
		read:          map[string][]string{},
	}
}

func (r *memRepo) GetOrCreateConversation(_ context.Context, a, b string) (chat.Conversation, error) {
	lo, hi, err := chat.NormalizePair(a, b)
	if err != nil {
		return chat.Conversation{}, err
	}
	if id, ok := r.byPair[lo+"|"+hi]; ok {
		return r.conversations[id], nil
	}
	conv := chat.Conversation{
		ID:             fmt.Sprintf("00000000-0000-0000-0000-%012d", len(r.conversations)+1),
		ParticipantIDs: [2]string{lo, hi},
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	r.conversations[conv.ID] = conv
	r.byPair[lo+"|"+hi] = conv.ID
	return conv, nil
}

func (r *memRepo) GetConversation(_ context.Context, id string) (chat.Conversation, error) {
	conv, ok := r.conversations[id]
	if !ok {
		return chat.Conversation{}, chat.ErrConversationNotFound
	}
	return conv, nil
}

func (r *memRepo) ListSummariesForUser(_ context.Context, userID string) ([]chat.Summary, error) {
	var out []chat.Summary
	for _, conv := range r.conversations {
		if !conv.HasParticipant(userID) {
			continue
		}
		s := chat.Summary{Conversation: conv}
		msgs := r.messages[conv.ID]
		if len(msgs) > 0 {
			last := msgs[len(msgs)-1]
			s.LatestMessage = &last
		}
		for _, m := range msgs {
			if m.SenderID != userID && !m.ReadByUser(userID) {
				s.UnreadCount++
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *memRepo) SaveMessage(_ context.Context, m chat.Message) (chat.Message, error) {
	r.nextSeq++
	m.ID = fmt.Sprintf("10000000-0000-0000-0000-%012d", r.nextSeq)
	m.Seq = r.nextSeq
	m.ReadBy = []string{}
	m.CreatedAt = time.Now()
	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
	return m, nil
}

func (r *memRepo) TouchLatestMessage(_ context.Context, convID, msgID string, at time.Time) error {
	conv, ok := r.conversations[convID]
	if !ok {
		return chat.ErrConversationNotFound
	}
	conv.LatestMessageID = &msgID
	conv.UpdatedAt = at
	r.conversations[convID] = conv
	return nil
}

func (r *memRepo) ListMessages(_ context.Context, convID string, limit int, beforeSeq int64) ([]chat.Message, error) {
	var out []chat.Message
	for _, m := range r.messages[convID] {
		if beforeSeq > 0 && m.Seq >= beforeSeq {
			continue
		}
		out = append(out, m)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *memRepo) MarkRead(_ context.Context, convID, userID string, messageIDs []string) error {
	r.read[convID+"/"+userID] = messageIDs
	return nil
}

func (r *memRepo) IsParticipant(_ context.Context, convID, userID string) (bool, error) {
	conv, ok := r.conversations[convID]
	return ok && conv.HasParticipant(userID), nil
}

type testEnv struct {
	router   *gin.Engine
	repo     *memRepo
	verifier *auth.Verifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemRepo()
	verifier := auth.NewVerifier("test-secret")
	hub := realtime.NewHub()
	notifier := event.NewHubNotifier(hub, nil)
	registry := realtime.NewRegistry(nil)

	openCtl := NewOpenConversationController(usecase.NewOpenConversationUseCase(repo))
	listCtl := NewListConversationsController(usecase.NewListConversationsUseCase(repo, nil))
	sendCtl := NewSendMessageController(usecase.NewSendMessageUseCase(repo, notifier, registry, nil, nil))
	historyCtl := NewGetHistoryController(usecase.NewGetHistoryUseCase(repo))
	readCtl := NewMarkReadController(usecase.NewMarkReadUseCase(repo))

	r := gin.New()
	g := r.Group("/api/v1", auth.Middleware(verifier))
	g.POST("/conversations", openCtl.Handle)
	g.GET("/conversations", listCtl.Handle)
	g.POST("/messages", sendCtl.Handle)
	g.GET("/conversations/:id/messages", historyCtl.Handle)
	g.POST("/conversations/:id/read", readCtl.Handle)

	return &testEnv{router: r, repo: repo, verifier: verifier}
}

func (e *testEnv) do(t *testing.T, userID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		token, err := e.verifier.Sign(userID, time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestConversationEndpointRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "", http.MethodGet, "/api/v1/conversations", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOpenConversationIsSymmetric(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "alice", http.MethodPost, "/api/v1/conversations", gin.H{"otherUserId": "bob"})
	require.Equal(t, http.StatusOK, w.Code)
	var first event.ConversationPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = env.do(t, "bob", http.MethodPost, "/api/v1/conversations", gin.H{"otherUserId": "alice"})
	require.Equal(t, http.StatusOK, w.Code)
	var second event.ConversationPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, first.ID, second.ID)
}

func TestOpenConversationRejectsSelfTarget(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "alice", http.MethodPost, "/api/v1/conversations", gin.H{"otherUserId": "alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendMessageReturnsPersistedRow(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.repo.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	w := env.do(t, "alice", http.MethodPost, "/api/v1/messages", gin.H{
		"conversationId": conv.ID,
		"content":        "is the desk still available?",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var msg event.MessagePayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &msg))
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, int64(1), msg.Seq)
	assert.Equal(t, "alice", msg.SenderID)
	assert.Equal(t, "is the desk still available?", *msg.Content)
}

func TestSendMessageForbiddenForOutsider(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.repo.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	w := env.do(t, "mallory", http.MethodPost, "/api/v1/messages", gin.H{
		"conversationId": conv.ID,
		"content":        "hi",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSendMessageUnknownConversation(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, "alice", http.MethodPost, "/api/v1/messages", gin.H{
		"conversationId": "00000000-0000-0000-0000-000000000099",
		"content":        "hi",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendMessageRejectsBlankContent(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.repo.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	w := env.do(t, "alice", http.MethodPost, "/api/v1/messages", gin.H{
		"conversationId": conv.ID,
		"content":        "   ",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHistoryPagesWithCursor(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.repo.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		w := env.do(t, "alice", http.MethodPost, "/api/v1/messages", gin.H{
			"conversationId": conv.ID,
			"content":        fmt.Sprintf("message %d", i),
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, "bob", http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Messages []event.MessagePayload `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Messages, 2)
	assert.Equal(t, int64(3), page.Messages[0].Seq)
	assert.Equal(t, int64(4), page.Messages[1].Seq)

	w = env.do(t, "bob", http.MethodGet,
		fmt.Sprintf("/api/v1/conversations/%s/messages?limit=2&beforeSeq=%d", conv.ID, page.Messages[0].Seq), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Messages, 2)
	assert.Equal(t, int64(1), page.Messages[0].Seq)
	assert.Equal(t, int64(2), page.Messages[1].Seq)
}

func TestGetHistoryRejectsBadCursor(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.repo.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	w := env.do(t, "alice", http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages?beforeSeq=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, "alice", http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetHistoryForbiddenForOutsider(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.repo.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	w := env.do(t, "mallory", http.MethodGet, "/api/v1/conversations/"+conv.ID+"/messages", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMarkReadReturnsNoContent(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.repo.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)

	w := env.do(t, "bob", http.MethodPost, "/api/v1/conversations/"+conv.ID+"/read", gin.H{
		"messageIds": []string{"10000000-0000-0000-0000-000000000001"},
	})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"10000000-0000-0000-0000-000000000001"}, env.repo.read[conv.ID+"/bob"])
}

func TestListConversationsIncludesUnreadCount(t *testing.T) {
	env := newTestEnv(t)
	conv, err := env.repo.GetOrCreateConversation(context.Background(), "alice", "bob")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		w := env.do(t, "alice", http.MethodPost, "/api/v1/messages", gin.H{
			"conversationId": conv.ID,
			"content":        "ping",
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.do(t, "bob", http.MethodGet, "/api/v1/conversations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Conversations []event.SummaryPayload `json:"conversations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Conversations, 1)
	assert.Equal(t, 2, resp.Conversations[0].UnreadCount)
	require.NotNil(t, resp.Conversations[0].LatestMessage)
	assert.Equal(t, "ping", *resp.Conversations[0].LatestMessage.Content)
}
