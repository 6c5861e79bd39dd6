package callbacks

import "testing"

func TestParseData(t *testing.T) {
	cases := []struct {
		data, prefix, payload string
	}{
		{"prod:42", "prod", "42"},
		{"model:iPhone 14", "model", "iPhone 14"},
		{"page:model:2", "page", "model:2"},
		{"back:colors", "back", "colors"},
		{"show_catalog", "show_catalog", ""},
		{"", "", ""},
		{"  bc:send ", "bc", "send"},
	}
	for _, tc := range cases {
		prefix, payload := ParseData(tc.data)
		if prefix != tc.prefix || payload != tc.payload {
			t.Errorf("ParseData(%q) = (%q, %q), want (%q, %q)",
				tc.data, prefix, payload, tc.prefix, tc.payload)
		}
	}
}
