package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/phoneshop/core/telegram/format"
	tghelpers "github.com/m3rciful/phoneshop/core/telegram/helpers"
	"github.com/m3rciful/phoneshop/internal/domain"
	"github.com/m3rciful/phoneshop/internal/repo"
)

const addPhoneUsage = "Формат: /addphone \"<модель>\" <память> \"<цвет>\" <цена> [кол-во] [приоритет] [file_id фото]"

// AddPhone inserts a catalog row. Model and color may be quoted to allow
// spaces.
func (h *Handlers) AddPhone(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	args := splitQuoted(c.Message().Payload)
	if len(args) < 4 {
		return tghelpers.SendText(c, addPhoneUsage)
	}

	storage, err := strconv.Atoi(args[1])
	if err != nil || storage <= 0 {
		return tghelpers.SendText(c, "Память должна быть числом в ГБ.\n"+addPhoneUsage)
	}
	price, err := strconv.ParseInt(args[3], 10, 64)
	if err != nil || price <= 0 {
		return tghelpers.SendText(c, "Цена должна быть числом в рублях.\n"+addPhoneUsage)
	}

	p := domain.Phone{
		Model:    args[0],
		Storage:  storage,
		Color:    args[2],
		Price:    price,
		Quantity: 1,
	}
	if len(args) > 4 {
		qty, err := strconv.Atoi(args[4])
		if err != nil || qty < 0 {
			return tghelpers.SendText(c, "Количество должно быть неотрицательным числом.")
		}
		p.Quantity = qty
	}
	if len(args) > 5 {
		prio, err := strconv.Atoi(args[5])
		if err != nil {
			return tghelpers.SendText(c, "Приоритет должен быть числом.")
		}
		p.Priority = prio
	}
	if len(args) > 6 {
		p.Photo = &args[6]
	}

	id, err := h.catalog.Add(ctx, p)
	if err != nil {
		return err
	}
	p.ID = id
	return tghelpers.SendText(c, fmt.Sprintf("Добавлено #%d: %s", id, phoneLine(p)))
}

// DelPhone removes a catalog row by id.
func (h *Handlers) DelPhone(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	args := splitQuoted(c.Message().Payload)
	if len(args) != 1 {
		return tghelpers.SendText(c, "Формат: /delphone <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return tghelpers.SendText(c, "Формат: /delphone <id>")
	}

	if err := h.catalog.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return tghelpers.SendText(c, fmt.Sprintf("Товар #%d не найден.", id))
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			// Interest rows reference the variant; zero out the stock instead.
			return tghelpers.SendText(c, fmt.Sprintf(
				"Товар #%d нельзя удалить: на него есть заявки. Поставьте количество 0, чтобы скрыть.", id))
		}
		return err
	}
	return tghelpers.SendText(c, fmt.Sprintf("Товар #%d удалён.", id))
}

// ListPhones shows the full inventory, sold-out rows included.
func (h *Handlers) ListPhones(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)

	phones, err := h.catalog.All(ctx)
	if err != nil {
		return err
	}
	if len(phones) == 0 {
		return tghelpers.SendText(c, "Каталог пуст.")
	}

	var b strings.Builder
	b.WriteString("📦 Весь каталог:\n")
	for _, p := range phones {
		fmt.Fprintf(&b, "#%d %s — шт: %d, приоритет: %d, фото: %s\n",
			p.ID, phoneLine(p), p.Quantity, p.Priority, format.DerefString(p.Photo, "нет"))
	}
	return tghelpers.SendText(c, b.String())
}

// PhotoEcho replies to a stray photo from an admin with its file id, ready to
// paste into /addphone or use in a broadcast. Photos from shoppers are
// ignored.
func (h *Handlers) PhotoEcho(c tele.Context) error {
	if !h.isAdmin(c.Sender().ID) {
		return nil
	}
	msg := c.Message()
	if msg == nil || msg.Photo == nil {
		return nil
	}
	return tghelpers.SendMD(c, "file\\_id фото:\n`"+msg.Photo.FileID+"`")
}

// splitQuoted splits s on whitespace, keeping double-quoted runs together.
// Quotes are stripped from the resulting fields.
func splitQuoted(s string) []string {
	var (
		fields  []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	flush := func() {
		if started {
			fields = append(fields, cur.String())
			cur.Reset()
			started = false
		}
	}
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case !quoted && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	flush()
	return fields
}
