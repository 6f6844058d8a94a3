package vm

import "fmt"

// MatchMode selects how much of the input a match must cover.
type MatchMode uint8

const (
	// WholeString requires the match to consume the entire input.
	WholeString MatchMode = iota

	// PartialFromFront anchors the match at the start position only; the
	// match may end before the end of input.
	PartialFromFront
)

// String returns a human-readable representation of the MatchMode
func (m MatchMode) String() string {
	switch m {
	case WholeString:
		return "whole"
	case PartialFromFront:
		return "partial"
	default:
		return fmt.Sprintf("MatchMode(%d)", m)
	}
}

// ParseMatchMode parses the names returned by MatchMode.String.
func ParseMatchMode(s string) (MatchMode, error) {
	switch s {
	case "whole", "whole-string":
		return WholeString, nil
	case "partial", "partial-from-front", "prefix":
		return PartialFromFront, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
}
