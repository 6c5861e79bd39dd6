package handlers

import (
	"reflect"
	"strings"
	"testing"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/internal/domain"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 ₽"},
		{999, "999 ₽"},
		{1000, "1 000 ₽"},
		{69990, "69 990 ₽"},
		{109990, "109 990 ₽"},
		{1234567, "1 234 567 ₽"},
	}
	for _, tc := range cases {
		if got := formatPrice(tc.in); got != tc.want {
			t.Errorf("formatPrice(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPhoneLine(t *testing.T) {
	p := domain.Phone{Model: "iPhone 14 Pro", Storage: 256, Color: "Deep Purple", Price: 109990}
	want := "iPhone 14 Pro, 256 ГБ, Deep Purple — 109 990 ₽"
	if got := phoneLine(p); got != want {
		t.Errorf("phoneLine = %q, want %q", got, want)
	}
}

func TestToggleModel(t *testing.T) {
	sel := toggleModel(nil, "iPhone 13")
	if !reflect.DeepEqual(sel, []string{"iPhone 13"}) {
		t.Fatalf("first toggle = %v", sel)
	}
	sel = toggleModel(sel, "iPhone 14 Pro")
	if !reflect.DeepEqual(sel, []string{"iPhone 13", "iPhone 14 Pro"}) {
		t.Fatalf("second toggle = %v", sel)
	}
	// Toggling an existing entry removes it and keeps the rest in order.
	sel = toggleModel(sel, "iPhone 13")
	if !reflect.DeepEqual(sel, []string{"iPhone 14 Pro"}) {
		t.Fatalf("remove toggle = %v", sel)
	}
	// Double toggle is a no-op.
	sel = toggleModel(toggleModel(sel, "iPhone 13"), "iPhone 13")
	if !reflect.DeepEqual(sel, []string{"iPhone 14 Pro"}) {
		t.Fatalf("double toggle = %v", sel)
	}
}

func TestModelStepKeepsEscapeOnEveryPage(t *testing.T) {
	models := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	for page := 0; page < 2; page++ {
		_, markup := modelStep(models, page)
		if !markupHasData(markup, "show_all") {
			t.Errorf("page %d is missing the show_all escape", page)
		}
	}

	// The second page carries the remainder of the list plus navigation.
	_, markup := modelStep(models, 1)
	if !markupHasData(markup, "model:g") || !markupHasData(markup, "page:model:0") {
		t.Error("second page layout incomplete")
	}
}

func TestAudienceStepMarks(t *testing.T) {
	models := []string{"iPhone 13", "iPhone 14 Pro"}
	_, markup := audienceStep(models, []string{"iPhone 14 Pro"})

	var texts []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			texts = append(texts, btn.Text)
		}
	}
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, "▫️ iPhone 13") {
		t.Errorf("unselected model not rendered with empty mark: %q", joined)
	}
	if !strings.Contains(joined, "✅ iPhone 14 Pro") {
		t.Errorf("selected model not rendered with check mark: %q", joined)
	}

	if !markupHasData(markup, "tgl:iPhone 13") || !markupHasData(markup, "aud:all") || !markupHasData(markup, "aud:next") {
		t.Errorf("audience picker callback data incomplete")
	}
}

func TestThankYouTextIncludesManagerContact(t *testing.T) {
	p := domain.Phone{Model: "iPhone 14 Pro", Storage: 256, Color: "Deep Purple", Price: 109990}
	got := thankYouText(p, "@manager")
	if !strings.Contains(got, phoneLine(p)) {
		t.Errorf("thank-you drops the ordered variant: %q", got)
	}
	if !strings.Contains(got, "@manager") {
		t.Errorf("thank-you drops the manager contact: %q", got)
	}
}

func TestPreviewText(t *testing.T) {
	got := previewText("Скидки!", "selected", []string{"iPhone 13"}, true)
	if !strings.Contains(got, "Скидки!") {
		t.Error("preview drops the message text")
	}
	if !strings.Contains(got, "интересовались: iPhone 13") {
		t.Errorf("preview audience label wrong: %q", got)
	}
	if !strings.Contains(got, "Фото") {
		t.Error("preview does not mention the attached photo")
	}

	got = previewText("Скидки!", "all", nil, false)
	if !strings.Contains(got, "все пользователи") {
		t.Errorf("preview audience label wrong for all: %q", got)
	}
	if strings.Contains(got, "Фото") {
		t.Error("preview mentions a photo that is not attached")
	}

	// The preview is delivered without a parse mode, so nothing in the frame
	// may rely on Markdown and the admin text passes through untouched.
	got = previewText("цена_со_скидкой *хит*", "all", nil, false)
	if !strings.Contains(got, "цена_со_скидкой *хит*") {
		t.Errorf("preview mangles raw admin text: %q", got)
	}
	if strings.Contains(got, "*Предпросмотр*") {
		t.Errorf("preview frame uses Markdown markup: %q", got)
	}
}

func TestGreetingFallbackName(t *testing.T) {
	text, markup := greeting("  ")
	if !strings.Contains(text, "друг") {
		t.Errorf("greeting without a name = %q", text)
	}
	if !markupHasData(markup, "show_catalog") || !markupHasData(markup, "show_all") {
		t.Error("greeting keyboard is missing entry points")
	}
}

func markupHasData(m *tele.ReplyMarkup, data string) bool {
	for _, row := range m.InlineKeyboard {
		for _, btn := range row {
			if btn.Data == data {
				return true
			}
		}
	}
	return false
}
