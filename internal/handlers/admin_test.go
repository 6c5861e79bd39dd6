package handlers

import (
	"reflect"
	"testing"
)

func TestSplitQuoted(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"plain", "a b c", []string{"a", "b", "c"}},
		{"quoted model", `"iPhone 14 Pro" 256 "Deep Purple" 109990`,
			[]string{"iPhone 14 Pro", "256", "Deep Purple", "109990"}},
		{"collapsed spaces", "a   b", []string{"a", "b"}},
		{"empty quotes kept", `"" 128`, []string{"", "128"}},
		{"unterminated quote", `"iPhone 13 mini`, []string{"iPhone 13 mini"}},
		{"quote glued to word", `iPhone" 13" 128`, []string{"iPhone 13", "128"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := splitQuoted(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("splitQuoted(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}
