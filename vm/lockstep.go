package vm

import (
	"fmt"

	"github.com/coregx/twinvm/internal/conv"
	"github.com/coregx/twinvm/internal/sparse"
	"github.com/coregx/twinvm/program"
)

// LockStep is the breadth-first engine. It keeps a bale of threads parked
// on consuming or accept instructions, all at one shared input position,
// and advances them together one unit at a time. Threads that fail to
// match are dropped for good; nothing is ever retried.
//
// Worst case time: O(n * m) with Config.Dedup.
// Worst case space: O(m) with Config.Dedup.
//
// The bale is kept in priority order: epsilon-closure explores the favored
// side of a split first and suspended sides most-recent first, the same
// order in which the Backtracker would try them. The first accepting thread
// in the bale therefore wins.
type LockStep struct {
	prog   *program.Program
	config Config
}

// hatchling is a lock-step thread. wake is the position at which the
// thread is next examined. It equals the shared cursor for threads parked
// on a matching instruction. A thread whose last unit ended beyond the next
// shared position (units differ in width: characters, scalars and class
// matches) has already consumed and advanced its pc, and waits in its
// priority slot until the cursor reaches wake.
type hatchling struct {
	core  threadCore
	wake  int
	start int
}

// NewLockStep creates a lock-step engine with DefaultConfig. A nil program
// panics.
func NewLockStep(prog *program.Program) *LockStep {
	l, err := NewLockStepWithConfig(prog, DefaultConfig())
	if err != nil {
		panic(err)
	}
	return l
}

// NewLockStepWithConfig creates a lock-step engine with the given configuration.
func NewLockStepWithConfig(prog *program.Program, config Config) (*LockStep, error) {
	if prog == nil {
		return nil, ErrNilProgram
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &LockStep{prog: prog, config: config.withDefaults()}, nil
}

// Program returns the executed program.
func (l *LockStep) Program() *program.Program { return l.prog }

// Kind returns KindLockStep.
func (l *LockStep) Kind() Kind { return KindLockStep }

// Execute matches prog against input from its start.
func (l *LockStep) Execute(input string, mode MatchMode) (Match, bool) {
	var st Stats
	return l.run(input, 0, mode, &st)
}

// ExecuteAt matches prog against input starting at byte offset at.
func (l *LockStep) ExecuteAt(input string, at int, mode MatchMode) (Match, bool) {
	var st Stats
	return l.run(input, at, mode, &st)
}

// ExecuteWithStats is ExecuteAt that also reports the work done.
func (l *LockStep) ExecuteWithStats(input string, at int, mode MatchMode) (Match, bool, Stats) {
	var st Stats
	m, ok := l.run(input, at, mode, &st)
	return m, ok, st
}

func (l *LockStep) run(input string, at int, mode MatchMode, st *Stats) (Match, bool) {
	checkStart(input, at)
	s := l.newSearch(input, st)

	s.reset()
	bale := s.readThrough(nil, newThreadCore(l.prog.Start(), l.prog.NumCaptures()), at, at)
	sp := at

	var best Match
	found := false
	for {
		st.MaxThreads = max(st.MaxThreads, len(bale))

		// In partial mode an accepting thread beats every thread behind it;
		// only the higher-priority threads in front of it keep running.
		if mode == PartialFromFront {
			if i := s.firstAccept(bale, sp); i >= 0 {
				best, found = Match{End: sp, Captures: bale[i].core.captures}, true
				bale = bale[:i]
			}
		}
		if sp == len(input) || len(bale) == 0 {
			break
		}
		bale, sp = s.advance(bale, sp, -1)
	}

	if mode == PartialFromFront {
		return best, found
	}
	if sp != len(input) {
		return Match{}, false
	}
	if i := s.firstAccept(bale, sp); i >= 0 {
		return Match{End: sp, Captures: bale[i].core.captures}, true
	}
	return Match{}, false
}

// SearchWithStats finds the leftmost match that starts at or after at, in
// a single pass over the input. A fresh thread is seeded at every scalar
// boundary behind all existing threads, so earlier starts keep priority.
// Seeding stops once a thread accepts. Invalid UTF-8 bytes count as one
// scalar each.
func (l *LockStep) SearchWithStats(input string, at int) (int, Match, bool, Stats) {
	var st Stats
	checkStart(input, at)
	s := l.newSearch(input, &st)
	seed := func(bale []hatchling, sp int) []hatchling {
		return s.readThrough(bale, newThreadCore(l.prog.Start(), l.prog.NumCaptures()), sp, sp)
	}

	s.reset()
	bale := seed(nil, at)
	sp := at

	var (
		best  Match
		start int
		found bool
	)
	for {
		st.MaxThreads = max(st.MaxThreads, len(bale))
		if i := s.firstAccept(bale, sp); i >= 0 {
			best, start, found = Match{End: sp, Captures: bale[i].core.captures}, bale[i].start, true
			bale = bale[:i]
		}
		if sp == len(input) || (found && len(bale) == 0) {
			break
		}
		if found {
			bale, sp = s.advance(bale, sp, -1)
			continue
		}
		_, width := program.ScalarAt(input, sp)
		bale, sp = s.advance(bale, sp, sp+width)
		bale = seed(bale, sp)
	}
	return start, best, found, st
}

// search is the mutable state of one execution.
type search struct {
	prog  *program.Program
	input string
	stats *Stats
	seen  *sparse.SparseSet // nil without Dedup
	work  []threadCore
	ends  []int
}

func (l *LockStep) newSearch(input string, st *Stats) *search {
	s := &search{prog: l.prog, input: input, stats: st}
	if l.config.Dedup {
		s.seen = sparse.NewSparseSet(l.prog.Len())
	}
	return s
}

// reset starts a new position for dedup purposes.
func (s *search) reset() {
	if s.seen != nil {
		s.seen.Clear()
	}
}

func (s *search) firstAccept(bale []hatchling, sp int) int {
	for i, h := range bale {
		if h.wake == sp && s.prog.At(h.core.pc).Op() == program.OpAccept {
			return i
		}
	}
	return -1
}

// readThrough runs the epsilon-closure of a thread that started matching at
// start and is now at position sp. It appends every resulting thread,
// parked on a consuming or accept instruction, to out in priority order.
func (s *search) readThrough(out []hatchling, core threadCore, start, sp int) []hatchling {
	prog := s.prog
	s.work = append(s.work[:0], core)
	for len(s.work) > 0 {
		n := len(s.work)
		h := s.work[n-1]
		s.work[n-1] = threadCore{}
		s.work = s.work[:n-1]

		alive := true
		for {
			if s.seen != nil && !s.seen.Insert(conv.IntToUint32(int(h.pc))) {
				alive = false
				break
			}
			in := prog.At(h.pc)
			if in.Op().IsMatching() {
				break
			}
			s.stats.Steps++
			switch in := in.(type) {
			case program.InstNop, program.InstLabel:
				h.advance()
			case program.InstSplit:
				disfavored := h.clone()
				disfavored.goTo(prog.Lookup(in.Disfavored))
				s.work = append(s.work, disfavored)
				h.advance()
			case program.InstGoto:
				h.goTo(prog.Lookup(in.Target))
			case program.InstBeginCapture:
				h.beginCapture(in.ID, sp)
				h.advance()
			case program.InstEndCapture:
				h.endCapture(in.ID, sp)
				h.advance()
			default:
				panic(fmt.Sprintf("vm: unknown instruction %T at %04d", in, h.pc))
			}
		}
		if alive {
			out = append(out, hatchling{core: h, wake: sp, start: start})
		}
	}
	return out
}

// advance moves the bale from position sp to the next position any thread
// reaches, or to bound if that is closer and not negative. It returns the
// new bale and its position.
func (s *search) advance(bale []hatchling, sp, bound int) ([]hatchling, int) {
	ends := s.ends[:0]
	next := -1
	for _, h := range bale {
		end := h.wake
		if end == sp {
			s.stats.Steps++
			end = s.consume(s.prog.At(h.core.pc), sp)
		}
		ends = append(ends, end)
		if end >= 0 && (next < 0 || end < next) {
			next = end
		}
	}
	s.ends = ends
	if bound >= 0 && (next < 0 || bound < next) {
		next = bound
	}
	if next < 0 {
		return nil, sp
	}

	s.reset()
	out := make([]hatchling, 0, len(bale))
	for i, h := range bale {
		end := ends[i]
		if end < 0 {
			continue
		}
		if h.wake == sp {
			h.core.advance()
		}
		if end == next {
			out = s.readThrough(out, h.core, h.start, next)
			continue
		}
		out = append(out, hatchling{core: h.core, wake: end, start: h.start})
	}
	return out, next
}

// consume applies a matching instruction at sp and returns the position
// after the consumed unit, or -1 if the thread dies.
func (s *search) consume(in program.Inst, sp int) int {
	input := s.input
	switch in := in.(type) {
	case program.InstAccept:
		return -1
	case program.InstAny:
		return program.NextCharacter(input, sp)
	case program.InstChar:
		next := program.NextCharacter(input, sp)
		if input[sp:next] != in.Value {
			return -1
		}
		return next
	case program.InstScalar:
		r, width := program.ScalarAt(input, sp)
		if r != in.Value {
			return -1
		}
		return sp + width
	case program.InstClass:
		next, ok := in.Class.MatchAt(input, sp)
		if !ok {
			return -1
		}
		checkClassAdvance(in, sp, next, len(input))
		return next
	default:
		panic(fmt.Sprintf("vm: %v should have been read through", in))
	}
}
