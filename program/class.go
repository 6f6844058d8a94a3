package program

import (
	"fmt"
	"sort"
	"strings"
)

// Class is the character-class capability consumed by InstClass. MatchAt
// inspects input at pos (which is always < len(input)) and returns the
// position just past the matched unit, or ok == false. A successful match
// must advance: next > pos.
type Class interface {
	MatchAt(input string, pos int) (next int, ok bool)
}

// ClassFunc adapts an ordinary function to the Class interface.
type ClassFunc func(input string, pos int) (int, bool)

// MatchAt implements Class.
func (f ClassFunc) MatchAt(input string, pos int) (int, bool) {
	return f(input, pos)
}

// RuneClass matches a single scalar against a set of inclusive ranges.
// The ranges use the regexp/syntax layout: a flat, sorted slice of lo, hi
// pairs.
type RuneClass struct {
	ranges []rune
}

// NewRuneClass builds a class from lo, hi pairs. Pairs are copied, sorted
// and merged. An odd number of bounds panics.
func NewRuneClass(ranges ...rune) *RuneClass {
	if len(ranges)%2 != 0 {
		panic("program: NewRuneClass needs lo, hi pairs")
	}
	type pair struct{ lo, hi rune }
	pairs := make([]pair, 0, len(ranges)/2)
	for i := 0; i < len(ranges); i += 2 {
		lo, hi := ranges[i], ranges[i+1]
		if lo > hi {
			lo, hi = hi, lo
		}
		pairs = append(pairs, pair{lo, hi})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].lo < pairs[j].lo })

	merged := make([]rune, 0, len(ranges))
	for _, p := range pairs {
		n := len(merged)
		if n > 0 && p.lo <= merged[n-1]+1 {
			merged[n-1] = max(merged[n-1], p.hi)
			continue
		}
		merged = append(merged, p.lo, p.hi)
	}
	return &RuneClass{ranges: merged}
}

// Ranges returns a copy of the merged lo, hi pairs.
func (c *RuneClass) Ranges() []rune {
	out := make([]rune, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// Contains reports whether r lies in one of the ranges.
func (c *RuneClass) Contains(r rune) bool {
	n := len(c.ranges) / 2
	i := sort.Search(n, func(i int) bool { return c.ranges[2*i+1] >= r })
	return i < n && c.ranges[2*i] <= r
}

// MatchAt implements Class.
func (c *RuneClass) MatchAt(input string, pos int) (int, bool) {
	r, width := ScalarAt(input, pos)
	if width == 0 || !c.Contains(r) {
		return 0, false
	}
	return pos + width, true
}

func (c *RuneClass) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i := 0; i < len(c.ranges); i += 2 {
		lo, hi := c.ranges[i], c.ranges[i+1]
		if lo == hi {
			fmt.Fprintf(&sb, "%s", quoteRune(lo))
			continue
		}
		fmt.Fprintf(&sb, "%s-%s", quoteRune(lo), quoteRune(hi))
	}
	sb.WriteByte(']')
	return sb.String()
}

func quoteRune(r rune) string {
	if r > 0x20 && r < 0x7f && !strings.ContainsRune(`[]-\`, r) {
		return string(r)
	}
	return fmt.Sprintf(`\x{%x}`, r)
}

type exceptNewline struct{}

// AnyExceptNewline matches one character unless that character is "\n".
var AnyExceptNewline Class = exceptNewline{}

func (exceptNewline) MatchAt(input string, pos int) (int, bool) {
	if input[pos] == '\n' {
		return 0, false
	}
	return NextCharacter(input, pos), true
}

func (exceptNewline) String() string { return "[^\\n]" }

// IsAnyExceptNewline reports whether c is AnyExceptNewline.
func IsAnyExceptNewline(c Class) bool {
	_, ok := c.(exceptNewline)
	return ok
}
