package repo

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Interests is the ledger of (user, phone) interest events.
type Interests struct {
	db *sqlx.DB
}

// NewInterests builds the interest ledger on the shared pool.
func NewInterests(db *sqlx.DB) *Interests {
	return &Interests{db: db}
}

// Record stores an interest event. At most one row exists per (user, phone);
// repeat interest only refreshes the timestamp.
func (r *Interests) Record(ctx context.Context, userID, phoneID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interests (user_id, phone_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, phone_id) DO UPDATE
		SET noted_at = now()`,
		userID, phoneID)
	if err != nil {
		return fmt.Errorf("record interest (%d, %d): %w", userID, phoneID, err)
	}
	return nil
}

// ModelsWithInterest returns model names that have at least one recorded
// interest, alphabetically. This drives the broadcast audience toggle list.
func (r *Interests) ModelsWithInterest(ctx context.Context) ([]string, error) {
	var models []string
	err := r.db.SelectContext(ctx, &models, `
		SELECT DISTINCT p.model
		FROM interests i
		JOIN phones p ON p.id = i.phone_id
		ORDER BY p.model ASC`)
	if err != nil {
		return nil, fmt.Errorf("select models with interest: %w", err)
	}
	return models, nil
}
