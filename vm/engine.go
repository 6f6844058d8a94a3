package vm

import (
	"fmt"

	"github.com/coregx/twinvm/program"
)

// Match is the outcome of a successful execution.
type Match struct {
	// End is the cursor position of the winning thread.
	End int

	// Captures holds one stack per capture group id.
	Captures []CaptureStack
}

// Group returns the most recently completed span of capture group id.
// It returns false when the group did not participate in the match.
func (m Match) Group(id int) (Span, bool) {
	if id < 0 || id >= len(m.Captures) {
		return Span{Start: -1, End: -1}, false
	}
	return m.Captures[id].Last()
}

// Stats describes the work done by one execution.
type Stats struct {
	// Steps counts executed instructions, including failed consuming
	// attempts.
	Steps int

	// MaxThreads is the peak number of suspended alternatives for the
	// backtracker, and the peak bale size for the lock-step engine.
	MaxThreads int
}

// Engine runs a program against input. All implementations report the
// same result for the same program, input and mode.
type Engine interface {
	// Execute matches from the start of input.
	Execute(input string, mode MatchMode) (Match, bool)

	// ExecuteAt matches from byte offset at. Positions in the result are
	// offsets into the whole input.
	ExecuteAt(input string, at int, mode MatchMode) (Match, bool)

	// ExecuteWithStats is ExecuteAt that also reports the work done.
	ExecuteWithStats(input string, at int, mode MatchMode) (Match, bool, Stats)

	// Program returns the program the engine executes.
	Program() *program.Program

	// Kind identifies the engine.
	Kind() Kind
}

// Searcher is implemented by engines that can find the leftmost match at
// or after a position in one pass, instead of being restarted at every
// candidate start. It reports the start of the match along with it.
type Searcher interface {
	SearchWithStats(input string, at int) (start int, m Match, ok bool, st Stats)
}

var _ Searcher = (*LockStep)(nil)

// Kind identifies an engine implementation.
type Kind uint8

const (
	// KindBacktrack selects the depth-first Backtracker.
	KindBacktrack Kind = iota

	// KindLockStep selects the breadth-first LockStep engine.
	KindLockStep
)

// String returns a human-readable representation of the Kind
func (k Kind) String() string {
	switch k {
	case KindBacktrack:
		return "backtrack"
	case KindLockStep:
		return "lockstep"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind parses the names returned by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "backtrack", "hare":
		return KindBacktrack, nil
	case "lockstep", "tortoise":
		return KindLockStep, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// New constructs the engine of the given kind.
func New(kind Kind, prog *program.Program, config Config) (Engine, error) {
	switch kind {
	case KindBacktrack:
		return NewBacktrackerWithConfig(prog, config)
	case KindLockStep:
		return NewLockStepWithConfig(prog, config)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
}

func checkStart(input string, at int) {
	if at < 0 || at > len(input) {
		panic(fmt.Sprintf("vm: start position %d out of range [0, %d]", at, len(input)))
	}
}

func checkClassAdvance(in program.InstClass, pos, next, inputLen int) {
	if next <= pos || next > inputLen {
		panic(fmt.Sprintf("vm: %v moved cursor from %d to %d", in, pos, next))
	}
}
