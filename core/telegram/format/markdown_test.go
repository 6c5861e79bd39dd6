package format

import "testing"

func TestEscapeMD(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"iPhone 14 Pro", "iPhone 14 Pro"},
		{"snake_case", `snake\_case`},
		{"a*b[c`d", "a\\*b\\[c\\`d"},
	}
	for _, tc := range cases {
		if got := EscapeMD(tc.in); got != tc.want {
			t.Errorf("EscapeMD(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
