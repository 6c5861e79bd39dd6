package handlers

import (
	"context"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	tg "github.com/m3rciful/phoneshop/core/telegram"
	"github.com/m3rciful/phoneshop/core/telegram/commands"
	"github.com/m3rciful/phoneshop/core/telegram/state"
	"github.com/m3rciful/phoneshop/internal/config"
	"github.com/m3rciful/phoneshop/internal/domain"
)

// Selection wizard states.
const (
	StateChoosingModel   state.State = "choosing_model"
	StateChoosingStorage state.State = "choosing_storage"
	StateChoosingColor   state.State = "choosing_color"
	StateConfirmingBuy   state.State = "confirming_buy"
)

// Broadcast composer states.
const (
	StateChoosingAudience state.State = "choosing_audience"
	StateTypingText       state.State = "typing_text"
	StateWaitingPhoto     state.State = "waiting_photo"
	StateConfirming       state.State = "confirming"
)

// Session temp-data keys.
const (
	keyModel    = "model"
	keyStorage  = "storage"
	keyColor    = "color"
	keySelected = "selected_models"
	keyAudience = "audience"
	keyText     = "bc_text"
	keyPhoto    = "bc_photo"
)

// Catalog is the read-side projection over phone inventory.
type Catalog interface {
	InStock(ctx context.Context) ([]domain.Phone, error)
	DistinctModels(ctx context.Context) ([]string, error)
	DistinctStorages(ctx context.Context, model string) ([]int, error)
	DistinctColors(ctx context.Context, model string, storage int) ([]string, error)
	ByID(ctx context.Context, id int64) (*domain.Phone, error)
	ByAttrs(ctx context.Context, model string, storage int, color string) (*domain.Phone, error)
	Add(ctx context.Context, p domain.Phone) (int64, error)
	Delete(ctx context.Context, id int64) error
	All(ctx context.Context) ([]domain.Phone, error)
}

// Registry is the user registry: upsert on first contact plus audience queries.
type Registry interface {
	Upsert(ctx context.Context, id int64, username, firstName *string) error
	AllIDs(ctx context.Context) ([]int64, error)
	IDsInterestedIn(ctx context.Context, models []string) ([]int64, error)
}

// Ledger records (user, phone) interest events.
type Ledger interface {
	Record(ctx context.Context, userID, phoneID int64) error
	ModelsWithInterest(ctx context.Context) ([]string, error)
}

// Handlers wires the storefront flows onto the bot core.
type Handlers struct {
	fsm       state.Manager
	catalog   Catalog
	users     Registry
	interests Ledger
	shop      config.ShopConfig
	pacing    config.BroadcastConfig

	runCtx atomic.Pointer[context.Context]
}

// New builds the handler set.
func New(fsm state.Manager, catalog Catalog, users Registry, interests Ledger, shop config.ShopConfig, pacing config.BroadcastConfig) *Handlers {
	return &Handlers{
		fsm:       fsm,
		catalog:   catalog,
		users:     users,
		interests: interests,
		shop:      shop,
		pacing:    pacing,
	}
}

// SetRunContext stores the process lifecycle context; in-flight fan-outs are
// abandoned when it is cancelled.
func (h *Handlers) SetRunContext(ctx context.Context) {
	if ctx == nil {
		return
	}
	h.runCtx.Store(&ctx)
}

func (h *Handlers) lifecycle() context.Context {
	if p := h.runCtx.Load(); p != nil {
		return *p
	}
	return context.Background()
}

func (h *Handlers) isAdmin(userID int64) bool {
	for _, id := range h.shop.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Register wires every command, callback, and FSM state handler into the
// registry.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Каталог и подбор iPhone",
	})
	reg.RegisterCommand("/broadcast", commands.Command{
		Handler:     h.BroadcastEntry,
		Description: "Рассылка пользователям",
		AdminOnly:   false, // gated silently inside the handler
		Hidden:      true,
	})
	reg.RegisterCommand("/addphone", commands.Command{
		Handler:     h.AddPhone,
		Description: "Добавить товар",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/delphone", commands.Command{
		Handler:     h.DelPhone,
		Description: "Удалить товар",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/phones", commands.Command{
		Handler:     h.ListPhones,
		Description: "Список товаров",
		AdminOnly:   true,
		Hidden:      true,
	})

	// Wizard and catalog callbacks.
	_ = reg.RegisterCallback("show_catalog", h.WizardEntry)
	_ = reg.RegisterCallback("show_all", h.ShowAll)
	_ = reg.RegisterCallback("prod", h.ProductCard)
	_ = reg.RegisterCallback("model", h.ModelChosen)
	_ = reg.RegisterCallback("storage", h.StorageChosen)
	_ = reg.RegisterCallback("color", h.ColorChosen)
	_ = reg.RegisterCallback("buy", h.BuyConfirmed)
	_ = reg.RegisterCallback("back", h.Back)
	_ = reg.RegisterCallback("page", h.Page)
	_ = reg.RegisterCallback("noop", func(c tele.Context) error { return c.Respond() })

	// Composer callbacks.
	_ = reg.RegisterCallback("tgl", h.ToggleModel)
	_ = reg.RegisterCallback("aud", h.Audience)
	_ = reg.RegisterCallback("bc", h.BroadcastDecision)

	// Composer message states.
	state.RegisterHandler(StateTypingText, h.TextReceived)
	state.RegisterHandler(StateWaitingPhoto, h.PhotoOrSkip)
}
