// Package app assembles the storefront bot from the core runtime and the
// domain packages.
package app

import (
	"context"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/core/bootstrap"
	tg "github.com/m3rciful/phoneshop/core/telegram"
	"github.com/m3rciful/phoneshop/core/telegram/router"
	"github.com/m3rciful/phoneshop/core/telegram/state"
	"github.com/m3rciful/phoneshop/internal/config"
	"github.com/m3rciful/phoneshop/internal/handlers"
	"github.com/m3rciful/phoneshop/internal/repo"
)

// App holds the wired application: database, session manager, and the
// registered command/callback surface.
type App struct {
	cfg *config.Config
	db  *sqlx.DB
	fsm state.Manager
	reg *tg.Registry
	hnd *handlers.Handlers
}

// Bootstrap initializes infrastructure (logger, database, migrations, demo
// seed) and wires the handlers.
func Bootstrap(cfg *config.Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Seeders:  []bootstrap.Seeder{bootstrap.SeederFunc(seedDemoCatalog)},
	})
	if err != nil {
		return nil, err
	}

	fsm := state.NewMemoryManager()
	hnd := handlers.New(
		fsm,
		repo.NewPhones(res.DB),
		repo.NewUsers(res.DB),
		repo.NewInterests(res.DB),
		cfg.Shop,
		cfg.Broadcast,
	)

	reg := tg.NewRegistry()
	hnd.Register(reg)

	return &App{cfg: cfg, db: res.DB, fsm: fsm, reg: reg, hnd: hnd}, nil
}

// TelegramRunOptions builds the full bot wiring: middlewares, command routes,
// the callback router, and the FSM-aware text/photo routes.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	routes := router.CommandRoutes(a.reg, router.CommandRouteOptions{
		AdminIDs: a.cfg.Shop.AdminIDs,
		OnAdminReject: func(c tele.Context) error {
			return c.Send("⛔️ Команда доступна только администраторам.")
		},
	})
	routes = append(routes, router.CallbackRoute(a.reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.fsm, a.reg, router.TextOptions{
		UnknownPhoto: a.hnd.PhotoEcho,
	})...)

	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    a.reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ tg.Runtime) error {
			a.hnd.SetRunContext(ctx)
			return nil
		},
		OnStop: func(_ context.Context, _ tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
