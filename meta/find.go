package meta

import (
	"log/slog"
	"sync/atomic"
	"unicode/utf8"

	"github.com/coregx/twinvm/prefilter"
	"github.com/coregx/twinvm/vm"
)

// Exec runs the engine once from the start of input in the given mode.
// It returns nil when there is no match.
func (e *Engine) Exec(input string, mode vm.MatchMode) *Match {
	atomic.AddUint64(&e.stats.Searches, 1)
	return e.run(input, 0, mode)
}

// IsMatch reports whether the whole input matches.
func (e *Engine) IsMatch(input string) bool {
	return e.Exec(input, vm.WholeString) != nil
}

// MatchPrefix returns the match that begins at the start of input, or nil.
// The match need not reach the end of input.
func (e *Engine) MatchPrefix(input string) *Match {
	return e.Exec(input, vm.PartialFromFront)
}

// Find returns the leftmost match in input, or nil.
func (e *Engine) Find(input string) *Match {
	return e.FindAt(input, 0)
}

// FindAt returns the leftmost match that starts at or after byte offset at,
// or nil. Offsets in the result refer to the whole input.
func (e *Engine) FindAt(input string, at int) *Match {
	if at < 0 || at > len(input) {
		return nil
	}
	atomic.AddUint64(&e.stats.Searches, 1)
	s := e.newScan(input)
	m := s.find(at)
	if m == nil {
		s.finish(0)
	} else {
		s.finish(1)
	}
	return m
}

// FindAll returns successive non-overlapping matches. If n >= 0 it returns
// at most n matches. An empty match that starts where the previous match
// ended is skipped, as in package regexp.
func (e *Engine) FindAll(input string, n int) []*Match {
	if n == 0 {
		return nil
	}
	atomic.AddUint64(&e.stats.Searches, 1)
	s := e.newScan(input)

	var out []*Match
	pos, lastEnd := 0, -1
	for (n < 0 || len(out) < n) && pos <= len(input) {
		m := s.find(pos)
		if m == nil {
			break
		}
		if m.IsEmpty() && m.Start() == lastEnd {
			pos = nextBoundary(input, m.Start())
			continue
		}
		out = append(out, m)
		if m.IsEmpty() {
			pos = nextBoundary(input, m.End())
		} else {
			pos = m.End()
		}
		lastEnd = m.End()
	}
	s.finish(len(out))
	return out
}

func (e *Engine) run(input string, at int, mode vm.MatchMode) *Match {
	m, ok, st := e.exec.ExecuteWithStats(input, at, mode)
	atomic.AddUint64(&e.stats.EngineRuns, 1)
	atomic.AddUint64(&e.stats.Steps, uint64(st.Steps)) //nolint:gosec // step counts are non-negative
	if !ok {
		return nil
	}
	return NewMatch(at, m.End, input, m.Captures)
}

func (e *Engine) search(input string, at int) *Match {
	start, m, ok, st := e.searcher.SearchWithStats(input, at)
	atomic.AddUint64(&e.stats.EngineRuns, 1)
	atomic.AddUint64(&e.stats.Steps, uint64(st.Steps)) //nolint:gosec // step counts are non-negative
	if !ok {
		return nil
	}
	return NewMatch(start, m.End, input, m.Captures)
}

// scan is the state of one unanchored search over an input.
type scan struct {
	e        *Engine
	input    string
	haystack []byte
	tracker  *prefilter.Tracker
	runs     int
}

func (e *Engine) newScan(input string) *scan {
	s := &scan{e: e, input: input}
	if e.prefilter != nil {
		s.haystack = []byte(input)
		s.tracker = prefilter.NewTracker(e.prefilter)
	}
	return s
}

// find returns the leftmost match starting at or after pos.
func (s *scan) find(pos int) *Match {
	e := s.e
	for pos <= len(s.input) {
		filtered := s.tracker != nil && s.tracker.IsActive()
		if filtered {
			cand := s.tracker.Find(s.haystack, pos)
			if cand < 0 {
				return nil
			}
			atomic.AddUint64(&e.stats.PrefilterCandidates, 1)
			pos = cand
		}

		s.runs++
		if e.searcher != nil {
			// One pass covers every start from pos on.
			m := e.search(s.input, pos)
			if filtered {
				if m != nil {
					s.tracker.ConfirmMatch()
				} else {
					atomic.AddUint64(&e.stats.PrefilterMisses, 1)
				}
			}
			return m
		}
		if m := e.run(s.input, pos, vm.PartialFromFront); m != nil {
			if filtered {
				s.tracker.ConfirmMatch()
			}
			return m
		}
		if filtered {
			atomic.AddUint64(&e.stats.PrefilterMisses, 1)
		}
		pos = nextBoundary(s.input, pos)
	}
	return nil
}

func (s *scan) finish(matches int) {
	abandoned := s.tracker != nil && !s.tracker.IsActive()
	if abandoned {
		atomic.AddUint64(&s.e.stats.PrefilterAbandoned, 1)
	}
	s.e.logger.Debug("search finished",
		slog.Int("input_len", len(s.input)),
		slog.Int("engine_runs", s.runs),
		slog.Int("matches", matches),
		slog.Bool("prefilter_abandoned", abandoned),
	)
}

// nextBoundary returns the scalar boundary after pos. Invalid UTF-8 bytes
// count as one scalar each.
func nextBoundary(input string, pos int) int {
	if pos >= len(input) {
		return pos + 1
	}
	_, width := utf8.DecodeRuneInString(input[pos:])
	return pos + width
}
