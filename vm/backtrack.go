package vm

import (
	"fmt"
	"slices"

	"github.com/coregx/twinvm/program"
)

// Backtracker is the depth-first engine. It runs one active thread with
// its own cursor; every split suspends a copy of the thread aimed at the
// disfavored branch. When the active thread fails, the most recently
// suspended alternative resumes, so a favored branch is explored to
// exhaustion before its sibling.
//
// Worst case time: exponential in the input length.
// Worst case space: O(n + m) suspended alternatives.
//
// A thread that comes back to a split or goto without consuming input since
// its last visit is inside an empty iteration and fails, so repetitions
// whose body can match empty terminate.
//
// With Config.Memoize the engine skips (pc, position) pairs that were
// already explored, which bounds the time by O(n*m).
type Backtracker struct {
	prog   *program.Program
	config Config
}

// leveret is a backtracking thread: a thread core plus its own cursor.
type leveret struct {
	core threadCore
	sp   int

	// jumps holds the split and goto addresses passed since the last
	// consuming instruction.
	jumps []program.Addr
}

// jumped records the jump at the current pc. It reports false when the
// thread already passed it at this position.
func (l *leveret) jumped() bool {
	pc := l.core.pc
	if slices.Contains(l.jumps, pc) {
		return false
	}
	l.jumps = append(l.jumps, pc)
	return true
}

// consumed moves the cursor to next and forgets the jumps.
func (l *leveret) consumed(next int) {
	l.sp = next
	l.jumps = l.jumps[:0]
	l.core.advance()
}

// NewBacktracker creates a backtracker with DefaultConfig. A nil program
// panics.
func NewBacktracker(prog *program.Program) *Backtracker {
	b, err := NewBacktrackerWithConfig(prog, DefaultConfig())
	if err != nil {
		panic(err)
	}
	return b
}

// NewBacktrackerWithConfig creates a backtracker with the given configuration.
func NewBacktrackerWithConfig(prog *program.Program, config Config) (*Backtracker, error) {
	if prog == nil {
		return nil, ErrNilProgram
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Backtracker{prog: prog, config: config.withDefaults()}, nil
}

// Program returns the executed program.
func (b *Backtracker) Program() *program.Program { return b.prog }

// Kind returns KindBacktrack.
func (b *Backtracker) Kind() Kind { return KindBacktrack }

// Execute matches prog against input from its start.
func (b *Backtracker) Execute(input string, mode MatchMode) (Match, bool) {
	var st Stats
	return b.run(input, 0, mode, &st)
}

// ExecuteAt matches prog against input starting at byte offset at.
func (b *Backtracker) ExecuteAt(input string, at int, mode MatchMode) (Match, bool) {
	var st Stats
	return b.run(input, at, mode, &st)
}

// ExecuteWithStats is ExecuteAt that also reports the work done.
func (b *Backtracker) ExecuteWithStats(input string, at int, mode MatchMode) (Match, bool, Stats) {
	var st Stats
	m, ok := b.run(input, at, mode, &st)
	return m, ok, st
}

//nolint:gocyclo,cyclop // complexity is inherent to instruction dispatch
func (b *Backtracker) run(input string, at int, mode MatchMode, st *Stats) (Match, bool) {
	checkStart(input, at)
	prog := b.prog
	cur := leveret{core: newThreadCore(prog.Start(), prog.NumCaptures()), sp: at}
	var stack []leveret

	var memo *visitSet
	if b.config.Memoize {
		memo = newVisitSet(prog.Len(), len(input), b.config.MaxMemoBits)
	}

	// restore resumes the most recently suspended alternative. It returns
	// false when none remain.
	restore := func() bool {
		n := len(stack)
		if n == 0 {
			return false
		}
		cur = stack[n-1]
		stack[n-1] = leveret{}
		stack = stack[:n-1]
		return true
	}

	for {
		st.Steps++
		if memo != nil && !memo.shouldVisit(int(cur.core.pc), cur.sp) {
			if !restore() {
				return Match{}, false
			}
			continue
		}

		in := prog.At(cur.core.pc)

		// Consuming instructions need more input.
		if cur.sp == len(input) && in.Op().IsConsuming() {
			if !restore() {
				return Match{}, false
			}
			continue
		}

		switch in := in.(type) {
		case program.InstNop, program.InstLabel:
			cur.core.advance()

		case program.InstAccept:
			if cur.sp == len(input) || mode == PartialFromFront {
				return Match{End: cur.sp, Captures: cur.core.captures}, true
			}
			// Input remains in whole-string mode: this thread is not a match.
			if !restore() {
				return Match{}, false
			}

		case program.InstAny:
			cur.consumed(program.NextCharacter(input, cur.sp))

		case program.InstChar:
			next := program.NextCharacter(input, cur.sp)
			if input[cur.sp:next] != in.Value {
				if !restore() {
					return Match{}, false
				}
				continue
			}
			cur.consumed(next)

		case program.InstScalar:
			r, width := program.ScalarAt(input, cur.sp)
			if r != in.Value {
				if !restore() {
					return Match{}, false
				}
				continue
			}
			cur.consumed(cur.sp + width)

		case program.InstClass:
			next, ok := in.Class.MatchAt(input, cur.sp)
			if !ok {
				if !restore() {
					return Match{}, false
				}
				continue
			}
			checkClassAdvance(in, cur.sp, next, len(input))
			cur.consumed(next)

		case program.InstSplit:
			if !cur.jumped() {
				if !restore() {
					return Match{}, false
				}
				continue
			}
			alt := leveret{core: cur.core.clone(), sp: cur.sp, jumps: slices.Clone(cur.jumps)}
			alt.core.goTo(prog.Lookup(in.Disfavored))
			stack = append(stack, alt)
			st.MaxThreads = max(st.MaxThreads, len(stack))
			cur.core.advance()

		case program.InstGoto:
			if !cur.jumped() {
				if !restore() {
					return Match{}, false
				}
				continue
			}
			cur.core.goTo(prog.Lookup(in.Target))

		case program.InstBeginCapture:
			cur.core.beginCapture(in.ID, cur.sp)
			cur.core.advance()

		case program.InstEndCapture:
			cur.core.endCapture(in.ID, cur.sp)
			cur.core.advance()

		default:
			panic(fmt.Sprintf("vm: unknown instruction %T at %04d", in, cur.core.pc))
		}
	}
}
