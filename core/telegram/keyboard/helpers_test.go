package keyboard

import (
	"fmt"
	"testing"
)

func TestDataBarePrefix(t *testing.T) {
	b := Data("All", "show_all", "")
	if b.Data != "show_all" {
		t.Fatalf("bare prefix data = %q", b.Data)
	}
	b = Data("iPhone 14", "model", "iPhone 14")
	if b.Data != "model:iPhone 14" {
		t.Fatalf("data = %q", b.Data)
	}
}

func TestPagedSinglePageHasNoPager(t *testing.T) {
	items := []string{"a", "b", "c"}
	markup, page := Paged(items, 0, "model")
	if page != 0 {
		t.Fatalf("page = %d", page)
	}
	if got := len(markup.InlineKeyboard); got != 3 {
		t.Fatalf("rows = %d, expected 3 item rows without pager", got)
	}
}

func TestPagedNavigation(t *testing.T) {
	items := make([]string, 0, 14)
	for i := 0; i < 14; i++ {
		items = append(items, fmt.Sprintf("m%02d", i))
	}

	markup, page := Paged(items, 1, "model")
	if page != 1 {
		t.Fatalf("page = %d", page)
	}
	rows := markup.InlineKeyboard
	if len(rows) != PageSize+1 {
		t.Fatalf("rows = %d, expected %d items + pager", len(rows), PageSize)
	}
	if rows[0][0].Data != "model:m06" {
		t.Fatalf("first item of page 1 = %q", rows[0][0].Data)
	}

	nav := rows[len(rows)-1]
	if len(nav) != 3 {
		t.Fatalf("middle page pager has %d buttons", len(nav))
	}
	if nav[0].Data != "page:model:0" || nav[2].Data != "page:model:2" {
		t.Fatalf("pager data = %q / %q", nav[0].Data, nav[2].Data)
	}
	if nav[1].Text != "2/3" || nav[1].Data != "noop" {
		t.Fatalf("pager label = %q data=%q", nav[1].Text, nav[1].Data)
	}
}

func TestPagedClampsOutOfRange(t *testing.T) {
	items := make([]string, 8)
	for i := range items {
		items[i] = fmt.Sprintf("m%d", i)
	}
	markup, page := Paged(items, 99, "model")
	if page != 1 {
		t.Fatalf("clamped page = %d", page)
	}
	nav := markup.InlineKeyboard[len(markup.InlineKeyboard)-1]
	// Last page: prev + label only.
	if len(nav) != 2 {
		t.Fatalf("last page pager has %d buttons", len(nav))
	}
	if nav[0].Data != "page:model:0" {
		t.Fatalf("prev = %q", nav[0].Data)
	}
}
