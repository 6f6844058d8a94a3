package vm

import (
	"testing"

	"github.com/coregx/twinvm/program"
)

func compileForTest(t testing.TB, pattern string) *program.Program {
	t.Helper()
	prog, err := program.NewDefaultCompiler().Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return prog
}

// outcome flattens a result into comparable, exported fields.
type outcome struct {
	OK     bool
	End    int
	Groups [][]Span
}

func outcomeOf(m Match, ok bool) outcome {
	if !ok {
		return outcome{}
	}
	o := outcome{OK: true, End: m.End}
	for _, c := range m.Captures {
		o.Groups = append(o.Groups, c.Spans())
	}
	return o
}

// namedEngine pairs an engine with a label for subtests.
type namedEngine struct {
	name string
	eng  Engine
}

func allEngines(t testing.TB, prog *program.Program) []namedEngine {
	t.Helper()
	noDedup := DefaultConfig()
	noDedup.Dedup = false
	ls, err := NewLockStepWithConfig(prog, noDedup)
	if err != nil {
		t.Fatal(err)
	}
	return []namedEngine{
		{"backtrack", NewBacktracker(prog)},
		{"lockstep", NewLockStep(prog)},
		{"lockstep-nodedup", ls},
	}
}

func mustPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected panic", name)
		}
	}()
	f()
}
