package app

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/phoneshop/core/logger"
	"github.com/m3rciful/phoneshop/internal/domain"
	"github.com/m3rciful/phoneshop/internal/repo"
)

// seedDemoCatalog loads a starter catalog into an empty phones table so a
// fresh deployment has something to show. A non-empty table is left alone.
func seedDemoCatalog(ctx context.Context, db *sqlx.DB) error {
	phones := repo.NewPhones(db)

	n, err := phones.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.SEED.LogAttrs(ctx, slog.LevelInfo, "seed.catalog",
			slog.String("status", "skip"),
			slog.Int("count", n),
		)
		return nil
	}

	demo := []domain.Phone{
		{Model: "iPhone 14 Pro", Storage: 256, Color: "Deep Purple", Price: 109990, Quantity: 3, Priority: 10},
		{Model: "iPhone 14 Pro", Storage: 128, Color: "Silver", Price: 99990, Quantity: 5, Priority: 10},
		{Model: "iPhone 13 mini", Storage: 128, Color: "Midnight", Price: 69990, Quantity: 2, Priority: 5},
	}
	for _, p := range demo {
		if _, err := phones.Add(ctx, p); err != nil {
			return err
		}
	}

	logger.SEED.LogAttrs(ctx, slog.LevelInfo, "seed.catalog",
		slog.String("status", "ok"),
		slog.Int("count", len(demo)),
	)
	return nil
}
