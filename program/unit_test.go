package program

import (
	"testing"
	"unicode/utf8"
)

func TestNextCharacter(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		want  int
	}{
		{"abc", 0, 1},
		{"abc", 2, 3},
		{"abc", 3, 3},
		{"e\u0301x", 0, 3},
		{"a\u0301", 0, 3},
		{"\r\n", 0, 2},
		{"\u00e9", 0, 2},
		{"\U0001F1E9\U0001F1EA", 0, 8},
		{"\U0001F469\u200D\U0001F467x", 0, 11},
		{"\r\nx", 0, 2},
		{"\xffa", 0, 1},
	}
	for _, tt := range tests {
		if got := NextCharacter(tt.input, tt.pos); got != tt.want {
			t.Errorf("NextCharacter(%q, %d) = %d, want %d", tt.input, tt.pos, got, tt.want)
		}
	}
}

func TestCharacterAt(t *testing.T) {
	if got := CharacterAt("xe\u0301", 1); got != "e\u0301" {
		t.Errorf("CharacterAt = %q", got)
	}
	if got := CharacterAt("x", 1); got != "" {
		t.Errorf("CharacterAt at end = %q", got)
	}
}

func TestScalarAt(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		r     rune
		width int
	}{
		{"a", 0, 'a', 1},
		{"e\u0301", 1, '\u0301', 2},
		{"\xff", 0, utf8.RuneError, 1},
		{"", 0, utf8.RuneError, 0},
	}
	for _, tt := range tests {
		r, w := ScalarAt(tt.input, tt.pos)
		if r != tt.r || w != tt.width {
			t.Errorf("ScalarAt(%q, %d) = %U, %d; want %U, %d", tt.input, tt.pos, r, w, tt.r, tt.width)
		}
	}
}

func BenchmarkNextCharacter(b *testing.B) {
	input := "plain ascii text with an accent e\u0301 and more ascii"
	for i := 0; i < b.N; i++ {
		for pos := 0; pos < len(input); pos = NextCharacter(input, pos) {
		}
	}
}
