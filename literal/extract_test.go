package literal

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/coregx/twinvm/program"
)

type lit struct {
	S        string
	Complete bool
}

func extracted(t *testing.T, e *Extractor, prog *program.Program) []lit {
	t.Helper()
	seq := e.ExtractPrefixes(prog)
	var out []lit
	for i := 0; i < seq.Len(); i++ {
		l := seq.Get(i)
		out = append(out, lit{string(l.Bytes), l.Complete})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].S < out[j].S })
	return out
}

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern string
		want    []lit
	}{
		{"hello", []lit{{"hello", true}}},
		{`hello\d+`, []lit{
			{"hello0", false}, {"hello1", false}, {"hello2", false}, {"hello3", false}, {"hello4", false},
			{"hello5", false}, {"hello6", false}, {"hello7", false}, {"hello8", false}, {"hello9", false},
		}},
		{`hello\w`, []lit{{"hello", false}}},
		{"foo|bar", []lit{{"bar", true}, {"foo", true}}},
		{"a*b", []lit{{"a", false}, {"b", true}}},
		{"(foo)+bar", []lit{{"foo", false}}},
		{"(?i)ab", []lit{{"AB", true}, {"Ab", true}, {"aB", true}, {"ab", true}}},
		{"[xy]z", []lit{{"xz", true}, {"yz", true}}},
		{"é+", []lit{{"é", false}}},
		{"a?", nil},
		{".abc", nil},
		{"[a-z]+", nil},
		{"", nil},
		{"x*", nil},
		{"(a*)*b", []lit{{"a", false}, {"b", true}}},
	}
	e := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := extracted(t, e, program.MustCompile(tt.pattern))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExtractPrefixes(%q) mismatch (-want +got):\n%s", tt.pattern, diff)
			}
		})
	}
}

func TestExtractPrefixes_Limits(t *testing.T) {
	t.Run("too many literals", func(t *testing.T) {
		got := extracted(t, New(DefaultConfig()), program.MustCompile("[a-j][a-j]"))
		if got != nil {
			t.Errorf("expected no literals, got %d", len(got))
		}
	})

	t.Run("literal length", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxLiteralLen = 4
		got := extracted(t, New(cfg), program.MustCompile("abcdefgh"))
		if diff := cmp.Diff([]lit{{"abcd", false}}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("class expansion disabled", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxClassSize = 0
		got := extracted(t, New(cfg), program.MustCompile("k[xy]"))
		if diff := cmp.Diff([]lit{{"k", false}}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestExtractPrefixes_HandBuilt(t *testing.T) {
	e := New(DefaultConfig())

	b := program.NewBuilder()
	b.Class(program.ClassFunc(func(string, int) (int, bool) { return 0, false }))
	b.Accept()
	if got := extracted(t, e, b.MustBuild()); got != nil {
		t.Errorf("opaque class: got %v", got)
	}

	// The second alternative is dead, so only the first contributes.
	b = program.NewBuilder()
	dead := b.MakeLabel()
	b.Split(dead)
	b.Scalar('q')
	b.Accept()
	b.BindLabel(dead)
	b.Class(program.NewRuneClass())
	b.Accept()
	if diff := cmp.Diff([]lit{{"q", true}}, extracted(t, e, b.MustBuild())); diff != "" {
		t.Errorf("dead route mismatch (-want +got):\n%s", diff)
	}

	// A goto cycle that never consumes terminates.
	b = program.NewBuilder()
	loop := b.MakeLabel()
	b.Char("z")
	b.BindLabel(loop)
	b.Goto(loop)
	b.Accept()
	if diff := cmp.Diff([]lit{{"z", false}}, extracted(t, e, b.MustBuild())); diff != "" {
		t.Errorf("goto cycle mismatch (-want +got):\n%s", diff)
	}
}
