package program

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// The engines advance through input in two granularities: a character is
// one extended grapheme cluster, a scalar is one UTF-8 encoded rune. The
// helpers below return byte offsets into the input.

// NextCharacter returns the position just past the character starting at
// pos. It returns pos when pos is at or beyond the end of input.
func NextCharacter(input string, pos int) int {
	if pos >= len(input) {
		return pos
	}
	// ASCII other than CR cannot start a multi-scalar cluster unless a
	// combining mark follows; check the next byte before paying for uniseg.
	if c := input[pos]; c < utf8.RuneSelf && c != '\r' {
		if pos+1 == len(input) || input[pos+1] < utf8.RuneSelf {
			return pos + 1
		}
	}
	// The third result of FirstGraphemeClusterInString is the display
	// width, not the byte length.
	cluster, _, _, _ := uniseg.FirstGraphemeClusterInString(input[pos:], -1)
	if cluster == "" {
		return pos + 1
	}
	return pos + len(cluster)
}

// CharacterAt returns the character starting at pos, or "" at end of input.
func CharacterAt(input string, pos int) string {
	return input[pos:NextCharacter(input, pos)]
}

// ScalarAt decodes the scalar starting at pos and returns it with its
// encoded width. Invalid UTF-8 yields utf8.RuneError with width 1.
func ScalarAt(input string, pos int) (rune, int) {
	if pos >= len(input) {
		return utf8.RuneError, 0
	}
	if c := input[pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}
	return utf8.DecodeRuneInString(input[pos:])
}
