package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Users is the registry of every account that ever talked to the bot.
type Users struct {
	db *sqlx.DB
}

// NewUsers builds the user registry on the shared pool.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Upsert records a user on first contact. Repeat contacts refresh the handle
// and first name; the row itself is never deleted.
func (r *Users) Upsert(ctx context.Context, id int64, username, firstName *string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username, first_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name`,
		id, username, firstName)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", id, err)
	}
	return nil
}

// AllIDs returns every registered user id, for "everyone" broadcasts.
func (r *Users) AllIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT id FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select user ids: %w", err)
	}
	return ids, nil
}

// IDsInterestedIn returns the deduplicated ids of users who ever recorded
// interest in any phone whose model is in the given set.
func (r *Users) IDsInterestedIn(ctx context.Context, models []string) ([]int64, error) {
	if len(models) == 0 {
		return nil, nil
	}
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `
		SELECT DISTINCT i.user_id
		FROM interests i
		JOIN phones p ON p.id = i.phone_id
		WHERE p.model = ANY($1)
		ORDER BY i.user_id`, pq.Array(models))
	if err != nil {
		return nil, fmt.Errorf("select interested user ids: %w", err)
	}
	return ids, nil
}
