package prettyprinter

import (
	"math"
	"testing"
)

func TestFormatLiteral(t *testing.T) {
	tests := []struct {
		input    interface{}
		expected string
	}{
		{nil, "nil"},
		{int64(-7), "-7"},
		{2.0, "2.0"},
		{0.25, "0.25"},
		{1e21, "1e+21"},
		{math.Inf(1), "+Inf"},
		{true, "true"},
		{"a\"b\\c\n\t\x01", `"a\"b\\c\n\t\u0001"`},
		{"héllo", `"héllo"`},
	}

	for _, tt := range tests {
		if got := FormatLiteral(tt.input); got != tt.expected {
			t.Errorf("FormatLiteral(%#v) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	for s, want := range map[string]bool{
		"name":  true,
		"_x1":   true,
		"1x":    false,
		"":      false,
		"for":   false,
		"a-b":   false,
		"snake": true,
	} {
		if got := isIdentifier(s); got != want {
			t.Errorf("isIdentifier(%q) = %v, want %v", s, got, want)
		}
	}
}
