package vm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

// restartedSearch runs the backtracker anchored at every scalar boundary
// from at on and returns the first match.
func restartedSearch(bt *Backtracker, input string, at int) (int, outcome) {
	for pos := at; pos <= len(input); {
		if m, ok := bt.ExecuteAt(input, pos, PartialFromFront); ok {
			return pos, outcomeOf(m, true)
		}
		if pos == len(input) {
			break
		}
		_, width := utf8.DecodeRuneInString(input[pos:])
		pos += width
	}
	return -1, outcome{}
}

func TestSearchAgreesWithRestartedExecution(t *testing.T) {
	patterns := []string{
		"a+", "(a|ab)(c|bcd)", "x*", `(\w+)@(\w+)\.com`, "e\u0301", "(a*)*b",
		"b|ab", "[0-9]+", "", "(a+)+b", "c.t", "(?:(a)|b)+?c", "\u00e9|e",
	}
	inputs := []string{
		"", "a", "xaab", "abcd", "zz bob@mail.com z", "ce\u0301t", "\u00e9e",
		"12ab345", "\xffab", "aaab", "bbac",
	}
	for _, pattern := range patterns {
		prog := compileForTest(t, pattern)
		bt, ls := NewBacktracker(prog), NewLockStep(prog)
		for _, input := range inputs {
			for _, at := range []int{0, len(input) / 2} {
				if at < len(input) && !utf8.RuneStart(input[at]) {
					continue
				}
				wantStart, want := restartedSearch(bt, input, at)
				start, m, ok, _ := ls.SearchWithStats(input, at)
				got := outcomeOf(m, ok)
				if !ok {
					start = -1
				}
				if start != wantStart {
					t.Errorf("%s on %q at %d: start = %d, want %d", pattern, input, at, start, wantStart)
				}
				if diff := cmp.Diff(want, got); diff != "" {
					t.Errorf("%s on %q at %d (-restarted +search):\n%s", pattern, input, at, diff)
				}
			}
		}
	}
}

func TestSearchIsSinglePass(t *testing.T) {
	prog := compileForTest(t, `(\w+)@(\w+)\.com`)
	ls := NewLockStep(prog)
	for _, n := range []int{100, 1000, 4000} {
		input := strings.Repeat("w", n)
		_, _, ok, st := ls.SearchWithStats(input, 0)
		if ok {
			t.Fatalf("matched %d w's", n)
		}
		if limit := 4 * (n + 1) * prog.Len(); st.Steps > limit {
			t.Errorf("n=%d: %d steps, want at most %d", n, st.Steps, limit)
		}
		if st.MaxThreads > prog.Len() {
			t.Errorf("n=%d: bale grew to %d threads for %d instructions", n, st.MaxThreads, prog.Len())
		}
	}
}

func BenchmarkSearch(b *testing.B) {
	prog := compileForTest(b, `(\w+)@(\w+)\.com`)
	ls := NewLockStep(prog)
	input := strings.Repeat("w", 2000) + " bob@mail.com"
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, ok, _ := ls.SearchWithStats(input, 0); !ok {
			b.Fatal("no match")
		}
	}
}
