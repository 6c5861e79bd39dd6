package handlers

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/core/logger"
	"github.com/m3rciful/phoneshop/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/phoneshop/core/telegram/helpers"
	"github.com/m3rciful/phoneshop/internal/notify"
)

// BroadcastEntry opens the composer. Non-admins are ignored without a reply
// so the command stays invisible to shoppers.
func (h *Handlers) BroadcastEntry(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := c.Sender().ID
	if !h.isAdmin(uid) {
		return nil
	}

	models, err := h.interests.ModelsWithInterest(ctx)
	if err != nil {
		return err
	}

	h.fsm.Clear(uid)
	h.fsm.SetState(uid, StateChoosingAudience)
	h.fsm.SetTemp(uid, keySelected, []string{})

	text, markup := audienceStep(models, nil)
	return tghelpers.SendMD(c, text, markup)
}

// ToggleModel flips one model in the audience selection and re-renders the
// picker in place.
func (h *Handlers) ToggleModel(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := c.Sender().ID
	if !h.isAdmin(uid) || h.fsm.GetState(uid) != StateChoosingAudience {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}

	models, err := h.interests.ModelsWithInterest(ctx)
	if err != nil {
		return err
	}
	selected := h.tempStrings(uid, keySelected)
	selected = toggleModel(selected, callbacks.Payload(c))
	h.fsm.SetTemp(uid, keySelected, selected)

	text, markup := audienceStep(models, selected)
	_ = tghelpers.Answer(c)
	return tghelpers.EditMD(c, text, markup)
}

// Audience fixes the audience choice ("all" or the ticked models) and moves
// on to the message text.
func (h *Handlers) Audience(c tele.Context) error {
	uid := c.Sender().ID
	if !h.isAdmin(uid) || h.fsm.GetState(uid) != StateChoosingAudience {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}

	switch callbacks.Payload(c) {
	case "all":
		h.fsm.SetTemp(uid, keyAudience, "all")
		h.fsm.ClearTemp(uid, keySelected)
	case "next":
		if len(h.tempStrings(uid, keySelected)) == 0 {
			return tghelpers.AnswerAlert(c, "Выберите хотя бы одну модель или нажмите «Всем»")
		}
		h.fsm.SetTemp(uid, keyAudience, "selected")
	default:
		return tghelpers.Answer(c)
	}

	h.fsm.SetState(uid, StateTypingText)
	_ = tghelpers.Answer(c)
	return tghelpers.EditMD(c, "✍️ *Введите текст рассылки:*")
}

// TextReceived takes the broadcast text and asks for an optional photo.
func (h *Handlers) TextReceived(c tele.Context) error {
	uid := c.Sender().ID
	if !h.isAdmin(uid) {
		return nil
	}

	text := strings.TrimSpace(c.Text())
	if text == "" {
		return tghelpers.SendText(c, "Нужен текст. Введите текст рассылки:")
	}

	h.fsm.SetTemp(uid, keyText, text)
	h.fsm.SetState(uid, StateWaitingPhoto)
	return tghelpers.SendText(c, "📷 Пришлите фото для рассылки или /skip, чтобы отправить без фото.")
}

// PhotoOrSkip takes the optional photo (or /skip) and shows the preview.
func (h *Handlers) PhotoOrSkip(c tele.Context) error {
	uid := c.Sender().ID
	if !h.isAdmin(uid) {
		return nil
	}

	switch {
	case c.Message() != nil && c.Message().Photo != nil:
		h.fsm.SetTemp(uid, keyPhoto, c.Message().Photo.FileID)
	case strings.TrimSpace(c.Text()) == "/skip":
		// no photo
	default:
		return tghelpers.SendText(c, "Пришлите фото или /skip.")
	}

	text, _ := h.tempString(uid, keyText)
	audience, _ := h.tempString(uid, keyAudience)
	selected := h.tempStrings(uid, keySelected)
	photoID, hasPhoto := h.tempString(uid, keyPhoto)

	h.fsm.SetState(uid, StateConfirming)

	// The admin text goes out verbatim with no parse mode, so stray Markdown
	// markers cannot make the API reject the preview or the deliveries.
	preview := previewText(text, audience, selected, hasPhoto)
	if hasPhoto {
		return tghelpers.SendPhoto(c, photoID, preview, previewMarkup())
	}
	return tghelpers.SendText(c, preview, &tele.SendOptions{ReplyMarkup: previewMarkup()})
}

// BroadcastDecision handles the final send/cancel buttons of the preview.
func (h *Handlers) BroadcastDecision(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	uid := c.Sender().ID
	if !h.isAdmin(uid) || h.fsm.GetState(uid) != StateConfirming {
		return tghelpers.AnswerToast(c, staleSessionMsg)
	}

	if callbacks.Payload(c) != "send" {
		h.fsm.Clear(uid)
		_ = tghelpers.Answer(c)
		_ = c.Delete()
		return tghelpers.SendText(c, "Рассылка отменена ❌")
	}

	text, _ := h.tempString(uid, keyText)
	audience, _ := h.tempString(uid, keyAudience)
	selected := h.tempStrings(uid, keySelected)
	photoID, hasPhoto := h.tempString(uid, keyPhoto)
	h.fsm.Clear(uid)

	recipients, err := h.resolveAudience(ctx, audience, selected)
	if err != nil {
		_ = tghelpers.AnswerAlert(c, "Не удалось получить список получателей 😔")
		return err
	}

	logger.SVCBroadcast.LogAttrs(ctx, slog.LevelInfo, "broadcast.start",
		slog.String("audience", audienceLabel(audience, selected)),
		slog.Int("recipients", len(recipients)),
	)
	_ = tghelpers.AnswerToast(c, "Рассылка запущена 🚀")

	res := notify.Fanout(h.lifecycle(), recipients, time.Duration(h.pacing.BroadcastDelayMS)*time.Millisecond,
		func(recipient int64) error {
			if hasPhoto {
				photo := &tele.Photo{File: tele.File{FileID: photoID}, Caption: text}
				_, err := c.Bot().Send(tele.ChatID(recipient), photo)
				return err
			}
			_, err := c.Bot().Send(tele.ChatID(recipient), text)
			return err
		})

	logger.SVCBroadcast.LogAttrs(ctx, slog.LevelInfo, "broadcast.done",
		slog.Int("recipients", res.Total()),
		slog.Int("sent", res.Sent),
		slog.Int("failed", res.Failed),
	)
	_ = c.Delete()
	return tghelpers.SendText(c,
		"Готово! Доставлено: "+strconv.Itoa(res.Sent)+", не доставлено: "+strconv.Itoa(res.Failed))
}

func (h *Handlers) resolveAudience(ctx context.Context, audience string, selected []string) ([]int64, error) {
	if audience == "selected" && len(selected) > 0 {
		return h.users.IDsInterestedIn(ctx, selected)
	}
	return h.users.AllIDs(ctx)
}

func (h *Handlers) tempStrings(uid int64, key string) []string {
	v, ok := h.fsm.GetTemp(uid, key)
	if !ok {
		return nil
	}
	list, _ := v.([]string)
	return list
}
