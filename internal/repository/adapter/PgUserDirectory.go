package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	chat "github.com/Nishan02/Buy-Sell/internal/pkg/chat/application/domain"
	"github.com/Nishan02/Buy-Sell/internal/repository/port"
)

// PgUserDirectory reads the profile projection table maintained by the
// profile service. Strictly read-only from this service.
type PgUserDirectory struct {
	pool *pgxpool.Pool
}

func NewPgUserDirectory(pool *pgxpool.Pool) *PgUserDirectory {
	return &PgUserDirectory{pool: pool}
}

var _ port.UserDirectory = (*PgUserDirectory)(nil)

func (r *PgUserDirectory) FindByID(ctx context.Context, id string) (*chat.Profile, error) {
	var p chat.Profile
	err := r.pool.QueryRow(ctx,
		"SELECT id, display_name, avatar_url FROM app_user WHERE id = $1",
		id,
	).Scan(&p.ID, &p.DisplayName, &p.AvatarURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgUserDirectory) FindByIDs(ctx context.Context, ids []string) (map[string]chat.Profile, error) {
	if len(ids) == 0 {
		return map[string]chat.Profile{}, nil
	}

	rows, err := r.pool.Query(ctx,
		"SELECT id, display_name, avatar_url FROM app_user WHERE id = ANY($1)",
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make(map[string]chat.Profile, len(ids))
	for rows.Next() {
		var p chat.Profile
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.AvatarURL); err != nil {
			return nil, err
		}
		profiles[p.ID] = p
	}
	return profiles, rows.Err()
}
