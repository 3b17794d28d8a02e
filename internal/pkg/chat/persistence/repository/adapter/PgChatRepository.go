package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
)

const pgForeignKeyViolation = "23503"

// PgChatRepository persists conversations and messages in PostgreSQL.
// Message ordering relies on the seq identity column: insertion order is
// persistence order, and every reader observes the same sequence.
type PgChatRepository struct {
	pool *pgxpool.Pool
}

func NewPgChatRepository(pool *pgxpool.Pool) *PgChatRepository {
	return &PgChatRepository{pool: pool}
}

func (r *PgChatRepository) GetOrCreateConversation(ctx context.Context, userA, userB string) (chat.Conversation, error) {
	lo, hi, err := chat.NormalizePair(userA, userB)
	if err != nil {
		return chat.Conversation{}, err
	}

	// DO NOTHING on the pair conflict, then refetch: two near-simultaneous
	// first contacts resolve to the same row instead of creating duplicates.
	_, err = r.pool.Exec(ctx, `
		INSERT INTO chat.conversation (participant_lo, participant_hi)
		VALUES ($1, $2)
		ON CONFLICT (participant_lo, participant_hi) DO NOTHING
	`, lo, hi)
	if err != nil {
		return chat.Conversation{}, storeErr(err)
	}

	var c chat.Conversation
	err = r.pool.QueryRow(ctx, `
		SELECT id::text, participant_lo, participant_hi, latest_message_id::text, created_at, updated_at
		FROM chat.conversation
		WHERE participant_lo = $1 AND participant_hi = $2
	`, lo, hi).Scan(&c.ID, &c.ParticipantIDs[0], &c.ParticipantIDs[1], &c.LatestMessageID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return chat.Conversation{}, storeErr(err)
	}
	return c, nil
}

func (r *PgChatRepository) GetConversation(ctx context.Context, conversationID string) (chat.Conversation, error) {
	var c chat.Conversation
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, participant_lo, participant_hi, latest_message_id::text, created_at, updated_at
		FROM chat.conversation
		WHERE id = $1::uuid
	`, conversationID).Scan(&c.ID, &c.ParticipantIDs[0], &c.ParticipantIDs[1], &c.LatestMessageID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return chat.Conversation{}, chat.ErrConversationNotFound
	}
	if err != nil {
		return chat.Conversation{}, storeErr(err)
	}
	return c, nil
}

func (r *PgChatRepository) ListSummariesForUser(ctx context.Context, userID string) ([]chat.Summary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id::text, c.participant_lo, c.participant_hi, c.latest_message_id::text, c.created_at, c.updated_at,
		       m.id::text, m.sender_id, m.seq, m.content, m.image_ref, m.dedupe_key, m.read_by, m.created_at,
		       (SELECT count(*) FROM chat.message u
		         WHERE u.conversation_id = c.id
		           AND u.sender_id <> $1
		           AND NOT u.read_by @> ARRAY[$1::text]) AS unread
		FROM chat.conversation c
		LEFT JOIN chat.message m ON m.id = c.latest_message_id
		WHERE c.participant_lo = $1 OR c.participant_hi = $1
		ORDER BY c.updated_at DESC
	`, userID)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var summaries []chat.Summary
	for rows.Next() {
		var (
			s         chat.Summary
			msgID     *string
			senderID  *string
			seq       *int64
			content   *string
			imageRef  *string
			dedupeKey *string
			readBy    []string
			createdAt *time.Time
		)
		err := rows.Scan(
			&s.Conversation.ID, &s.Conversation.ParticipantIDs[0], &s.Conversation.ParticipantIDs[1],
			&s.Conversation.LatestMessageID, &s.Conversation.CreatedAt, &s.Conversation.UpdatedAt,
			&msgID, &senderID, &seq, &content, &imageRef, &dedupeKey, &readBy, &createdAt,
			&s.UnreadCount,
		)
		if err != nil {
			return nil, storeErr(err)
		}
		if msgID != nil {
			s.LatestMessage = &chat.Message{
				ID:             *msgID,
				ConversationID: s.Conversation.ID,
				SenderID:       *senderID,
				Seq:            *seq,
				Content:        content,
				ImageRef:       imageRef,
				DedupeKey:      dedupeKey,
				ReadBy:         readBy,
				CreatedAt:      *createdAt,
			}
		}
		summaries = append(summaries, s)
	}
	if rows.Err() != nil {
		return nil, storeErr(rows.Err())
	}
	return summaries, nil
}

func (r *PgChatRepository) SaveMessage(ctx context.Context, m chat.Message) (chat.Message, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat.message (conversation_id, sender_id, content, image_ref, dedupe_key)
		VALUES ($1::uuid, $2, $3, $4, $5)
		ON CONFLICT (conversation_id, sender_id, dedupe_key) DO NOTHING
		RETURNING id::text, seq, created_at
	`, m.ConversationID, m.SenderID, m.Content, m.ImageRef, m.DedupeKey).Scan(&m.ID, &m.Seq, &m.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// Duplicate resubmission: hand back the row stored on the first try
		// so retries stay idempotent.
		return r.findByDedupeKey(ctx, m)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return chat.Message{}, chat.ErrConversationNotFound
	}
	if err != nil {
		return chat.Message{}, storeErr(err)
	}

	m.ReadBy = []string{}
	return m, nil
}

func (r *PgChatRepository) findByDedupeKey(ctx context.Context, m chat.Message) (chat.Message, error) {
	err := r.pool.QueryRow(ctx, `
		SELECT id::text, seq, content, image_ref, read_by, created_at
		FROM chat.message
		WHERE conversation_id = $1::uuid AND sender_id = $2 AND dedupe_key = $3
	`, m.ConversationID, m.SenderID, m.DedupeKey).Scan(&m.ID, &m.Seq, &m.Content, &m.ImageRef, &m.ReadBy, &m.CreatedAt)
	if err != nil {
		return chat.Message{}, storeErr(err)
	}
	return m, nil
}

func (r *PgChatRepository) TouchLatestMessage(ctx context.Context, conversationID, messageID string, at time.Time) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE chat.conversation
		SET latest_message_id = $2::uuid, updated_at = $3
		WHERE id = $1::uuid
	`, conversationID, messageID, at)
	if err != nil {
		return storeErr(err)
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrConversationNotFound
	}
	return nil
}

func (r *PgChatRepository) ListMessages(ctx context.Context, conversationID string, limit int, beforeSeq int64) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 50
	}

	// Page backward from the cursor, then flip to ascending for display.
	rows, err := r.pool.Query(ctx, `
		SELECT id, conversation_id, sender_id, seq, content, image_ref, dedupe_key, read_by, created_at FROM (
			SELECT id::text, conversation_id::text, sender_id, seq, content, image_ref, dedupe_key, read_by, created_at
			FROM chat.message
			WHERE conversation_id = $1::uuid AND ($3::bigint <= 0 OR seq < $3)
			ORDER BY seq DESC
			LIMIT $2
		) page
		ORDER BY seq ASC
	`, conversationID, limit, beforeSeq)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var msgs []chat.Message
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Seq, &m.Content, &m.ImageRef, &m.DedupeKey, &m.ReadBy, &m.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		msgs = append(msgs, m)
	}
	if rows.Err() != nil {
		return nil, storeErr(rows.Err())
	}
	return msgs, nil
}

func (r *PgChatRepository) MarkRead(ctx context.Context, conversationID, userID string, messageIDs []string) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
		UPDATE chat.message
		SET read_by = array_append(read_by, $2)
		WHERE conversation_id = $1::uuid
		  AND id = ANY($3::uuid[])
		  AND NOT read_by @> ARRAY[$2::text]
	`, conversationID, userID, messageIDs)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *PgChatRepository) IsParticipant(ctx context.Context, conversationID, userID string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM chat.conversation
			WHERE id = $1::uuid AND $2 IN (participant_lo, participant_hi)
		)
	`, conversationID, userID).Scan(&ok)
	if err != nil {
		return false, storeErr(err)
	}
	return ok, nil
}

// storeErr marks infrastructure failures as retriable store errors while
// keeping the original cause inspectable.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", chat.ErrStoreUnavailable, err)
}
