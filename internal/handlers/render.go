package handlers

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/core/telegram/format"
	"github.com/m3rciful/phoneshop/core/telegram/keyboard"
	"github.com/m3rciful/phoneshop/internal/domain"
)

// formatPrice renders a ruble amount with thin-space thousands grouping.
func formatPrice(p int64) string {
	s := strconv.FormatInt(p, 10)
	if len(s) <= 3 {
		return s + " ₽"
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String() + " ₽"
}

func phoneLine(p domain.Phone) string {
	return fmt.Sprintf("%s, %d ГБ, %s — %s", p.Model, p.Storage, p.Color, formatPrice(p.Price))
}

// thankYouText is the plain-text order acknowledgement with the manager
// contact for follow-up.
func thankYouText(p domain.Phone, contact string) string {
	return fmt.Sprintf("Спасибо! Мы записали вашу заявку:\n%s\n%s", phoneLine(p), contact)
}

// productCaption builds the catalog card text for a single phone. Model and
// color come from the database and are escaped for Markdown.
func productCaption(p domain.Phone, contact string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📱 *%s*\n", format.EscapeMD(p.Model))
	fmt.Fprintf(&b, "💾 Память: %d ГБ\n", p.Storage)
	fmt.Fprintf(&b, "🎨 Цвет: %s\n", format.EscapeMD(p.Color))
	fmt.Fprintf(&b, "💰 Цена: %s\n\n", formatPrice(p.Price))
	fmt.Fprintf(&b, "Для заказа пишите менеджеру: %s", contact)
	return b.String()
}

// greeting is the /start reply.
func greeting(firstName string) (string, *tele.ReplyMarkup) {
	name := strings.TrimSpace(firstName)
	if name == "" {
		name = "друг"
	}
	text := fmt.Sprintf("Привет, %s! 👋\nЗдесь можно посмотреть каталог iPhone и подобрать модель под себя.", format.EscapeMD(name))
	markup := keyboard.Inline(
		[]keyboard.Btn{keyboard.Data("🛒 Подобрать iPhone", "show_catalog", "")},
		[]keyboard.Btn{keyboard.Data("🗂 Показать всё", "show_all", "")},
	)
	return text, markup
}

// modelStep renders one page of the model list with the flat-catalog escape.
func modelStep(models []string, page int) (string, *tele.ReplyMarkup) {
	escape := []keyboard.Btn{keyboard.Data("🗂 Показать всё", "show_all", "")}
	markup, _ := keyboard.Paged(models, page, "model", escape)
	return "📱 *Выберите модель:*", markup
}

func storageStep(model string, sizes []int) (string, *tele.ReplyMarkup) {
	rows := make([][]keyboard.Btn, 0, len(sizes)+1)
	for _, s := range sizes {
		v := strconv.Itoa(s)
		rows = append(rows, []keyboard.Btn{keyboard.Data(v+" ГБ", "storage", v)})
	}
	rows = append(rows, []keyboard.Btn{keyboard.Data("⬅️ Назад", "back", "models")})
	return fmt.Sprintf("💾 *Память для %s:*", format.EscapeMD(model)), keyboard.Inline(rows...)
}

func colorStep(model string, storage int, colors []string) (string, *tele.ReplyMarkup) {
	rows := make([][]keyboard.Btn, 0, len(colors)+1)
	for _, col := range colors {
		rows = append(rows, []keyboard.Btn{keyboard.Data(col, "color", col)})
	}
	rows = append(rows, []keyboard.Btn{keyboard.Data("⬅️ Назад", "back", "storages")})
	return fmt.Sprintf("🎨 *Цвет %s, %d ГБ:*", format.EscapeMD(model), storage), keyboard.Inline(rows...)
}

func confirmMarkup(phoneID int64) *tele.ReplyMarkup {
	return keyboard.Inline(
		[]keyboard.Btn{keyboard.Data("✅ Этот хочу", "buy", strconv.FormatInt(phoneID, 10))},
		[]keyboard.Btn{keyboard.Data("⬅️ Назад", "back", "colors")},
	)
}

// audienceStep renders the broadcast audience picker: an "everyone" shortcut,
// one toggle per model with a buying interest on record, and a continue button
// that is meaningful only once at least one model is ticked.
func audienceStep(models, selected []string) (string, *tele.ReplyMarkup) {
	rows := make([][]keyboard.Btn, 0, len(models)+2)
	rows = append(rows, []keyboard.Btn{keyboard.Data("📢 Всем пользователям", "aud", "all")})
	for _, m := range models {
		mark := "▫️"
		if containsString(selected, m) {
			mark = "✅"
		}
		rows = append(rows, []keyboard.Btn{keyboard.Data(mark+" "+m, "tgl", m)})
	}
	rows = append(rows, []keyboard.Btn{keyboard.Data("➡️ Далее", "aud", "next")})
	text := "👥 *Кому отправить рассылку?*\nВыберите модели — получат те, кто ими интересовался."
	return text, keyboard.Inline(rows...)
}

// toggleModel flips membership of model in the selected set, preserving order
// of the remaining entries.
func toggleModel(selected []string, model string) []string {
	for i, m := range selected {
		if m == model {
			return append(selected[:i:i], selected[i+1:]...)
		}
	}
	return append(selected, model)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// audienceLabel describes the chosen audience for the preview.
func audienceLabel(audience string, selected []string) string {
	if audience == "all" {
		return "все пользователи"
	}
	return "интересовались: " + strings.Join(selected, ", ")
}

// previewText assembles the broadcast preview. The admin text is included
// verbatim; it is sent without a parse mode, exactly as it will be delivered.
func previewText(text, audience string, selected []string, hasPhoto bool) string {
	var b strings.Builder
	b.WriteString("📋 Предпросмотр рассылки\n\n")
	b.WriteString(text)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Аудитория: %s\n", audienceLabel(audience, selected))
	if hasPhoto {
		b.WriteString("Фото: прикреплено\n")
	}
	b.WriteString("\nОтправляем?")
	return b.String()
}

func previewMarkup() *tele.ReplyMarkup {
	return keyboard.Inline(
		[]keyboard.Btn{
			keyboard.Data("🚀 Отправить", "bc", "send"),
			keyboard.Data("❌ Отмена", "bc", "cancel"),
		},
	)
}
