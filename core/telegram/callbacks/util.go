package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseData splits raw callback data of the form "<prefix>:<value>".
// A string without a colon is treated as a bare prefix with empty payload.
func ParseData(data string) (string, string) {
	data = strings.TrimSpace(data)
	if data == "" {
		return "", ""
	}
	parts := strings.SplitN(data, ":", 2)
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return parts[0], payload
}

// Prefix returns the routing prefix of the pressed button.
func Prefix(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	p, _ := ParseData(cb.Data)
	return p
}

// Payload returns the value part of the pressed button's callback data.
func Payload(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	_, payload := ParseData(cb.Data)
	return payload
}
