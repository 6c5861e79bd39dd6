package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/phoneshop/internal/domain"
)

// ErrNotFound is returned when a lookup matches no catalog row.
var ErrNotFound = errors.New("repo: not found")

// Phones is the read-side catalog query layer. Every catalog-facing query
// filters to quantity > 0; sold-out variants stay invisible until restocked.
type Phones struct {
	db *sqlx.DB
}

// NewPhones builds the catalog query layer on the shared pool.
func NewPhones(db *sqlx.DB) *Phones {
	return &Phones{db: db}
}

// InStock returns all purchasable variants, best-promoted first, cheaper first
// within the same priority.
func (r *Phones) InStock(ctx context.Context) ([]domain.Phone, error) {
	var phones []domain.Phone
	err := r.db.SelectContext(ctx, &phones, `
		SELECT id, model, storage, color, price, photo, quantity, priority
		FROM phones
		WHERE quantity > 0
		ORDER BY priority DESC, price ASC`)
	if err != nil {
		return nil, fmt.Errorf("select catalog: %w", err)
	}
	return phones, nil
}

// DistinctModels returns in-stock model names ordered by the best priority
// among each model's variants, ties broken alphabetically.
func (r *Phones) DistinctModels(ctx context.Context) ([]string, error) {
	var models []string
	err := r.db.SelectContext(ctx, &models, `
		SELECT model
		FROM phones
		WHERE quantity > 0
		GROUP BY model
		ORDER BY MAX(priority) DESC, model ASC`)
	if err != nil {
		return nil, fmt.Errorf("select models: %w", err)
	}
	return models, nil
}

// DistinctStorages returns available storage sizes for a model, ascending.
func (r *Phones) DistinctStorages(ctx context.Context, model string) ([]int, error) {
	var sizes []int
	err := r.db.SelectContext(ctx, &sizes, `
		SELECT DISTINCT storage
		FROM phones
		WHERE quantity > 0 AND model = $1
		ORDER BY storage ASC`, model)
	if err != nil {
		return nil, fmt.Errorf("select storages: %w", err)
	}
	return sizes, nil
}

// DistinctColors returns available colors for a model and storage size,
// alphabetically.
func (r *Phones) DistinctColors(ctx context.Context, model string, storage int) ([]string, error) {
	var colors []string
	err := r.db.SelectContext(ctx, &colors, `
		SELECT DISTINCT color
		FROM phones
		WHERE quantity > 0 AND model = $1 AND storage = $2
		ORDER BY color ASC`, model, storage)
	if err != nil {
		return nil, fmt.Errorf("select colors: %w", err)
	}
	return colors, nil
}

// ByID fetches a single in-stock variant, or ErrNotFound.
func (r *Phones) ByID(ctx context.Context, id int64) (*domain.Phone, error) {
	var p domain.Phone
	err := r.db.GetContext(ctx, &p, `
		SELECT id, model, storage, color, price, photo, quantity, priority
		FROM phones
		WHERE quantity > 0 AND id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select phone %d: %w", id, err)
	}
	return &p, nil
}

// ByAttrs fetches the in-stock variant matching the full attribute triple,
// or ErrNotFound. The (model, storage, color) triple is unique per migration
// 0002, so at most one row can match.
func (r *Phones) ByAttrs(ctx context.Context, model string, storage int, color string) (*domain.Phone, error) {
	var p domain.Phone
	err := r.db.GetContext(ctx, &p, `
		SELECT id, model, storage, color, price, photo, quantity, priority
		FROM phones
		WHERE quantity > 0 AND model = $1 AND storage = $2 AND color = $3
		LIMIT 1`, model, storage, color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select phone by attrs: %w", err)
	}
	return &p, nil
}

// Add inserts a new catalog variant and returns its id.
func (r *Phones) Add(ctx context.Context, p domain.Phone) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO phones (model, storage, color, price, photo, quantity, priority)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		p.Model, p.Storage, p.Color, p.Price, p.Photo, p.Quantity, p.Priority,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert phone: %w", err)
	}
	return id, nil
}

// Delete removes a variant by id. Returns ErrNotFound when nothing matched.
// Variants referenced by interest rows cannot be removed; the caller reports
// the constraint violation to the admin.
func (r *Phones) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM phones WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete phone %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete phone %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// All returns every variant including sold-out ones, for the admin listing.
func (r *Phones) All(ctx context.Context) ([]domain.Phone, error) {
	var phones []domain.Phone
	err := r.db.SelectContext(ctx, &phones, `
		SELECT id, model, storage, color, price, photo, quantity, priority
		FROM phones
		ORDER BY priority DESC, model ASC, storage ASC, color ASC`)
	if err != nil {
		return nil, fmt.Errorf("select all phones: %w", err)
	}
	return phones, nil
}

// Count reports the number of catalog rows, used by the boot-time seeder.
func (r *Phones) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM phones`); err != nil {
		return 0, fmt.Errorf("count phones: %w", err)
	}
	return n, nil
}
