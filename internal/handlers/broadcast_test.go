package handlers

import (
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/core/telegram/state"
	"github.com/m3rciful/phoneshop/internal/config"
)

func composerFixture(adminID int64) *Handlers {
	return New(state.NewMemoryManager(), &fakeCatalog{}, nil, nil,
		config.ShopConfig{AdminIDs: []int64{adminID}, ManagerContact: "@manager"},
		config.BroadcastConfig{})
}

func TestPreviewRelaysAdminTextVerbatimWithoutParseMode(t *testing.T) {
	const admin = int64(9)
	// Unpaired Markdown markers must survive as-is instead of making the
	// Bot API reject the message.
	const raw = "Скидка 50%_только_сегодня *и точка"

	h := composerFixture(admin)
	h.fsm.SetState(admin, StateWaitingPhoto)
	h.fsm.SetTemp(admin, keyText, raw)
	h.fsm.SetTemp(admin, keyAudience, "all")

	c := newTestCtx(admin, "")
	c.text = "/skip"
	if err := h.PhotoOrSkip(c); err != nil {
		t.Fatal(err)
	}
	if got := h.fsm.GetState(admin); got != StateConfirming {
		t.Fatalf("state after preview = %q", got)
	}

	preview := lastSendText(t, c)
	if !strings.Contains(preview, raw) {
		t.Fatalf("preview does not carry the admin text verbatim: %q", preview)
	}

	last := c.sends[len(c.sends)-1]
	if len(last.opts) == 0 {
		t.Fatal("preview sent without options, confirm buttons are missing")
	}
	opts, ok := last.opts[0].(*tele.SendOptions)
	if !ok {
		t.Fatalf("preview options are %T", last.opts[0])
	}
	if opts.ParseMode != tele.ModeDefault {
		t.Fatalf("preview parse mode = %q, want none", opts.ParseMode)
	}
	if opts.ReplyMarkup == nil {
		t.Fatal("preview lost the confirm buttons")
	}
}

func TestBroadcastCancelResetsComposer(t *testing.T) {
	const admin = int64(9)
	h := composerFixture(admin)
	h.fsm.SetState(admin, StateConfirming)
	h.fsm.SetTemp(admin, keyText, "текст")
	h.fsm.SetTemp(admin, keyAudience, "all")

	c := newTestCtx(admin, "bc:cancel")
	if err := h.BroadcastDecision(c); err != nil {
		t.Fatal(err)
	}
	if !c.deleted {
		t.Error("cancel must remove the preview message")
	}
	if h.fsm.InProgress(admin) {
		t.Error("cancel left the composer session open")
	}
	if got := lastSendText(t, c); !strings.Contains(got, "отменена") {
		t.Fatalf("cancel reply = %q", got)
	}
}
