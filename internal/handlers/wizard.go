package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/core/logger"
	"github.com/m3rciful/phoneshop/core/telegram/callbacks"
	"github.com/m3rciful/phoneshop/core/telegram/format"
	tghelpers "github.com/m3rciful/phoneshop/core/telegram/helpers"
	"github.com/m3rciful/phoneshop/core/telegram/keyboard"
	"github.com/m3rciful/phoneshop/internal/domain"
	"github.com/m3rciful/phoneshop/internal/notify"
	"github.com/m3rciful/phoneshop/internal/repo"
)

const staleSessionMsg = "Сессия устарела, начните заново: /start"

// WizardEntry starts the guided selection: resets the session and shows the
// model step.
func (h *Handlers) WizardEntry(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	h.fsm.Clear(c.Sender().ID)

	models, err := h.catalog.DistinctModels(ctx)
	if err != nil {
		_ = tghelpers.AnswerAlert(c, "Что-то пошло не так, попробуйте позже 😔")
		return err
	}
	if len(models) == 0 {
		_ = tghelpers.Answer(c)
		return tghelpers.EditOrSendMD(c, "Каталог пока пуст 🙈")
	}

	h.fsm.SetState(c.Sender().ID, StateChoosingModel)
	text, markup := modelStep(models, 0)
	_ = tghelpers.Answer(c)
	return tghelpers.EditOrSendMD(c, text, markup)
}

// Page flips a paged list. Payload is "<prefix>:<n>"; only the model list
// pages today.
func (h *Handlers) Page(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	parts, err := callbacks.PayloadParts(c, ":")
	if err != nil || len(parts) != 2 {
		return tghelpers.Answer(c)
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return tghelpers.Answer(c)
	}

	switch parts[0] {
	case "model":
		if h.fsm.GetState(c.Sender().ID) != StateChoosingModel {
			return tghelpers.AnswerToast(c, staleSessionMsg)
		}
		models, err := h.catalog.DistinctModels(ctx)
		if err != nil {
			return err
		}
		text, markup := modelStep(models, page)
		_ = tghelpers.Answer(c)
		return tghelpers.EditMD(c, text, markup)
	default:
		return tghelpers.Answer(c)
	}
}

// ModelChosen stores the picked model and advances to the storage step.
func (h *Handlers) ModelChosen(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := c.Sender().ID
	if h.fsm.GetState(uid) != StateChoosingModel {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}

	model := callbacks.Payload(c)
	sizes, err := h.catalog.DistinctStorages(ctx, model)
	if err != nil {
		return err
	}
	if len(sizes) == 0 {
		return tghelpers.AnswerAlert(c, "Товар не найден 🤷")
	}

	h.fsm.SetTemp(uid, keyModel, model)
	h.fsm.SetState(uid, StateChoosingStorage)

	text, markup := storageStep(model, sizes)
	_ = tghelpers.Answer(c)
	return tghelpers.EditMD(c, text, markup)
}

// StorageChosen stores the picked capacity and advances to the color step.
func (h *Handlers) StorageChosen(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := c.Sender().ID
	if h.fsm.GetState(uid) != StateChoosingStorage {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}
	model, ok := h.tempString(uid, keyModel)
	if !ok {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}

	storage, err := callbacks.PayloadInt(c)
	if err != nil {
		return tghelpers.AnswerAlert(c, "Товар не найден 🤷")
	}
	colors, err := h.catalog.DistinctColors(ctx, model, storage)
	if err != nil {
		return err
	}
	if len(colors) == 0 {
		return tghelpers.AnswerAlert(c, "Товар не найден 🤷")
	}

	h.fsm.SetTemp(uid, keyStorage, storage)
	h.fsm.SetState(uid, StateChoosingColor)

	text, markup := colorStep(model, storage, colors)
	_ = tghelpers.Answer(c)
	return tghelpers.EditMD(c, text, markup)
}

// ColorChosen resolves the full selection to a concrete phone and shows the
// confirmation card.
func (h *Handlers) ColorChosen(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := c.Sender().ID
	if h.fsm.GetState(uid) != StateChoosingColor {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}
	model, ok := h.tempString(uid, keyModel)
	if !ok {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}
	storage, ok := h.tempInt(uid, keyStorage)
	if !ok {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}

	color := callbacks.Payload(c)
	phone, err := h.catalog.ByAttrs(ctx, model, storage, color)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Sold out between the prompt and the tap.
			return tghelpers.AnswerAlert(c, "Товар не найден 🤷")
		}
		return err
	}

	h.fsm.SetTemp(uid, keyColor, color)
	h.fsm.SetState(uid, StateConfirmingBuy)

	caption := productCaption(*phone, h.shop.ManagerContact)
	markup := confirmMarkup(phone.ID)
	_ = tghelpers.Answer(c)
	if phone.Photo != nil && *phone.Photo != "" {
		_ = c.Delete()
		return tghelpers.SendPhotoMD(c, *phone.Photo, caption, markup)
	}
	return tghelpers.EditMD(c, caption, markup)
}

// BuyConfirmed records the interest, thanks the buyer, and notifies staff.
func (h *Handlers) BuyConfirmed(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := c.Sender().ID
	if h.fsm.GetState(uid) != StateConfirmingBuy {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}

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
	h.fsm.Clear(uid)

	_ = tghelpers.AnswerAlert(c, "Заказ принят! Менеджер скоро свяжется с вами 🙌")
	_ = c.Delete()
	if err := tghelpers.SendText(c, thankYouText(*phone, h.shop.ManagerContact)); err != nil {
		return err
	}

	h.notifyStaff(c, *phone)
	return nil
}

// Back restores the previous wizard prompt exactly as it was shown.
// Payload names the step to return to: models, storages, or colors.
func (h *Handlers) Back(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := c.Sender().ID

	switch callbacks.Payload(c) {
	case "models":
		if h.fsm.GetState(uid) != StateChoosingStorage {
			return tghelpers.AnswerToast(c, staleSessionMsg)
		}
		models, err := h.catalog.DistinctModels(ctx)
		if err != nil {
			return err
		}
		h.fsm.ClearTemp(uid, keyModel)
		h.fsm.SetState(uid, StateChoosingModel)
		text, markup := modelStep(models, 0)
		_ = tghelpers.Answer(c)
		return tghelpers.EditMD(c, text, markup)

	case "storages":
		if h.fsm.GetState(uid) != StateChoosingColor {
			return tghelpers.AnswerToast(c, staleSessionMsg)
		}
		model, ok := h.tempString(uid, keyModel)
		if !ok {
			return tghelpers.AnswerToast(c, staleSessionMsg)
		}
		sizes, err := h.catalog.DistinctStorages(ctx, model)
		if err != nil {
			return err
		}
		h.fsm.ClearTemp(uid, keyStorage)
		h.fsm.SetState(uid, StateChoosingStorage)
		text, markup := storageStep(model, sizes)
		_ = tghelpers.Answer(c)
		return tghelpers.EditMD(c, text, markup)

	case "colors":
		if h.fsm.GetState(uid) != StateConfirmingBuy {
			return tghelpers.AnswerToast(c, staleSessionMsg)
		}
		model, okM := h.tempString(uid, keyModel)
		storage, okS := h.tempInt(uid, keyStorage)
		if !okM || !okS {
			return tghelpers.AnswerToast(c, staleSessionMsg)
		}
		colors, err := h.catalog.DistinctColors(ctx, model, storage)
		if err != nil {
			return err
		}
		h.fsm.ClearTemp(uid, keyColor)
		h.fsm.SetState(uid, StateChoosingColor)
		text, markup := colorStep(model, storage, colors)
		_ = tghelpers.Answer(c)
		// The confirmation card may be a photo message.
		_ = c.Delete()
		return tghelpers.SendMD(c, text, markup)

	default:
		return tghelpers.Answer(c)
	}
}

// notifyStaff fans the order out to every manager with a direct-message
// button. Delivery failures are logged, never surfaced to the buyer.
func (h *Handlers) notifyStaff(c tele.Context, phone domain.Phone) {
	ctx := h.lifecycle()
	buyer := c.Sender()
	text := fmt.Sprintf("🔔 *Новая заявка!*\n👤 %s (id %d)\n📱 %s",
		format.EscapeMD(tghelpers.DisplayName(buyer)), buyer.ID, format.EscapeMD(phoneLine(phone)))
	markup := keyboard.Inline([]keyboard.Btn{
		keyboard.URL("💬 Написать покупателю", fmt.Sprintf("tg://user?id=%d", buyer.ID)),
	})
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markup}

	res := notify.Fanout(ctx, h.shop.ManagerIDs, time.Duration(h.pacing.NotifyDelayMS)*time.Millisecond,
		func(recipient int64) error {
			_, err := c.Bot().Send(tele.ChatID(recipient), text, opts)
			return err
		})
	logger.SVCInterest.LogAttrs(ctx, slog.LevelInfo, "staff.notify",
		slog.String("status", "ok"),
		slog.Int64("user_id", buyer.ID),
		slog.Int64("phone_id", phone.ID),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
	)
}

func (h *Handlers) tempString(uid int64, key string) (string, bool) {
	v, ok := h.fsm.GetTemp(uid, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (h *Handlers) tempInt(uid int64, key string) (int, bool) {
	v, ok := h.fsm.GetTemp(uid, key)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}
