package handlers

import (
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/core/logger"
	tghelpers "github.com/m3rciful/phoneshop/core/telegram/helpers"
)

// Start registers the user and replies with the greeting and catalog entry
// points. Any stale conversation state is dropped.
func (h *Handlers) Start(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	sender := c.Sender()

	h.fsm.Clear(sender.ID)

	var username, firstName *string
	if sender.Username != "" {
		username = &sender.Username
	}
	if sender.FirstName != "" {
		firstName = &sender.FirstName
	}
	if err := h.users.Upsert(ctx, sender.ID, username, firstName); err != nil {
		logger.SVCUsers.LogAttrs(ctx, slog.LevelError, "user.upsert",
			slog.String("status", "error"),
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
		// Greeting still goes out; registration retries on next contact.
	}

	text, markup := greeting(sender.FirstName)
	return tghelpers.SendMD(c, text, markup)
}
