package helpers

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestDisplayName(t *testing.T) {
	cases := []struct {
		user *tele.User
		want string
	}{
		{nil, ""},
		{&tele.User{FirstName: "Anna", LastName: "K"}, "Anna K"},
		{&tele.User{FirstName: "Anna"}, "Anna"},
		{&tele.User{Username: "anna_k"}, "@anna_k"},
		{&tele.User{ID: 42}, "id 42"},
	}
	for _, tc := range cases {
		if got := DisplayName(tc.user); got != tc.want {
			t.Errorf("DisplayName(%+v) = %q, want %q", tc.user, got, tc.want)
		}
	}
}
