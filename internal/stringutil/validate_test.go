package stringutil

import "testing"

func TestIsWhitespaceOnly(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "empty string", input: "", want: true},
		{name: "spaces", input: "   ", want: true},
		{name: "tabs and newlines", input: "\t\n\r\n", want: true},
		{name: "mixed whitespace", input: " \t \n ", want: true},
		{name: "has content", input: " hello ", want: false},
		{name: "single non-whitespace", input: "x", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsWhitespaceOnly(tt.input)
			if got != tt.want {
				t.Errorf("IsWhitespaceOnly(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsXMLWhitespace(t *testing.T) {
	for _, r := range []rune{' ', '\t', '\n', '\r'} {
		if !IsXMLWhitespace(r) {
			t.Errorf("IsXMLWhitespace(%q) = false, want true", r)
		}
	}
	for _, r := range []rune{'a', '0', '_'} {
		if IsXMLWhitespace(r) {
			t.Errorf("IsXMLWhitespace(%q) = true, want false", r)
		}
	}
}
