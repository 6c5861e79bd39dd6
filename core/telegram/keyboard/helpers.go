package keyboard

import (
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// Btn describes an inline button carrying raw "<prefix>:<value>" callback data.
type Btn struct {
	Text string
	Data string
	URL  string
}

// Data builds a callback button with "<prefix>:<value>" data.
// An empty value produces a bare-prefix button.
func Data(text, prefix, value string) Btn {
	data := prefix
	if value != "" {
		data = prefix + ":" + value
	}
	return Btn{Text: text, Data: data}
}

// URL builds a button opening an external link.
func URL(text, url string) Btn {
	return Btn{Text: text, URL: url}
}

// Inline builds an inline keyboard from rows of buttons.
func Inline(rows ...[]Btn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, b := range row {
			r[j] = tele.InlineButton{Text: b.Text, Data: b.Data, URL: b.URL}
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}

// Column builds an inline keyboard with one button per row.
func Column(buttons ...Btn) *tele.ReplyMarkup {
	rows := make([][]Btn, len(buttons))
	for i, b := range buttons {
		rows[i] = []Btn{b}
	}
	return Inline(rows...)
}

// PageSize is the number of item buttons shown per page of a paged list.
const PageSize = 6

// Paged lays out one page of items (one per row), followed by a
// prev / "page/total" / next navigation row when there is more than one page.
// Each item button gets "<prefix>:<item>" data; navigation buttons get
// "page:<prefix>:<n>" and the center label is a no-op. The returned page is
// clamped into the valid range. Extra rows are appended after the pager.
func Paged(items []string, page int, prefix string, extra ...[]Btn) (*tele.ReplyMarkup, int) {
	total := (len(items) + PageSize - 1) / PageSize
	if total < 1 {
		total = 1
	}
	if page < 0 {
		page = 0
	}
	if page > total-1 {
		page = total - 1
	}

	lo := page * PageSize
	hi := lo + PageSize
	if hi > len(items) {
		hi = len(items)
	}

	var rows [][]Btn
	for _, item := range items[lo:hi] {
		rows = append(rows, []Btn{Data(item, prefix, item)})
	}

	if total > 1 {
		nav := make([]Btn, 0, 3)
		if page > 0 {
			nav = append(nav, Data("⬅️", "page", fmt.Sprintf("%s:%d", prefix, page-1)))
		}
		nav = append(nav, Data(fmt.Sprintf("%d/%d", page+1, total), "noop", ""))
		if page < total-1 {
			nav = append(nav, Data("➡️", "page", fmt.Sprintf("%s:%d", prefix, page+1)))
		}
		rows = append(rows, nav)
	}

	rows = append(rows, extra...)
	return Inline(rows...), page
}
