package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/core/logger"
	"github.com/m3rciful/phoneshop/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/phoneshop/core/telegram/helpers"
	"github.com/m3rciful/phoneshop/core/telegram/keyboard"
	"github.com/m3rciful/phoneshop/internal/repo"
)

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

// ShowAll renders the flat catalog: every in-stock phone as a button opening
// its card. Leaves any wizard conversation.
func (h *Handlers) ShowAll(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	h.fsm.Clear(c.Sender().ID)

	phones, err := h.catalog.InStock(ctx)
	if err != nil {
		logger.SVCCatalog.LogAttrs(ctx, slog.LevelError, "catalog.list",
			slog.String("status", "error"),
			slog.String("err", err.Error()),
		)
		_ = tghelpers.AnswerAlert(c, "Что-то пошло не так, попробуйте позже 😔")
		return err
	}
	if len(phones) == 0 {
		_ = tghelpers.Answer(c)
		return tghelpers.EditOrSendMD(c, "Каталог пока пуст 🙈")
	}

	btns := make([]keyboard.Btn, 0, len(phones))
	for _, p := range phones {
		btns = append(btns, keyboard.Data(phoneLine(p), "prod", formatID(p.ID)))
	}
	_ = tghelpers.Answer(c)
	return tghelpers.EditOrSendMD(c, "🗂 *Всё в наличии:*", keyboard.Column(btns...))
}

// ProductCard opens a single phone card from the flat catalog and records the
// viewer's interest in it.
func (h *Handlers) ProductCard(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	id, err := callbacks.PayloadInt64(c)
	if err != nil {
		return tghelpers.AnswerAlert(c, "Товар не найден 🤷")
	}
	phone, err := h.catalog.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return tghelpers.AnswerAlert(c, "Товар не найден 🤷")
		}
		return err
	}

	h.recordInterest(ctx, c.Sender(), phone.ID)

	caption := productCaption(*phone, h.shop.ManagerContact)
	_ = tghelpers.Answer(c)
	if phone.Photo != nil && *phone.Photo != "" {
		// A text message cannot be edited into a photo one.
		_ = c.Delete()
		return tghelpers.SendPhotoMD(c, *phone.Photo, caption)
	}
	return tghelpers.EditOrSendMD(c, caption)
}

// recordInterest upserts the user and writes the interest row. Failures are
// logged but never surface to the shopper.
func (h *Handlers) recordInterest(ctx context.Context, u *tele.User, phoneID int64) {
	var username, firstName *string
	if u.Username != "" {
		username = &u.Username
	}
	if u.FirstName != "" {
		firstName = &u.FirstName
	}
	if err := h.users.Upsert(ctx, u.ID, username, firstName); err != nil {
		logger.SVCUsers.LogAttrs(ctx, slog.LevelError, "user.upsert",
			slog.String("status", "error"),
			slog.Int64("user_id", u.ID),
			slog.String("err", err.Error()),
		)
		return
	}
	if err := h.interests.Record(ctx, u.ID, phoneID); err != nil {
		logger.SVCInterest.LogAttrs(ctx, slog.LevelError, "interest.record",
			slog.String("status", "error"),
			slog.Int64("user_id", u.ID),
			slog.Int64("phone_id", phoneID),
			slog.String("err", err.Error()),
		)
		return
	}
	logger.SVCInterest.LogAttrs(ctx, slog.LevelInfo, "interest.record",
		slog.String("status", "ok"),
		slog.Int64("user_id", u.ID),
		slog.Int64("phone_id", phoneID),
	)
}
