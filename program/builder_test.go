package program

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestBuilderErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(b *Builder)
		want  error
		addr  Addr
	}{
		{
			name:  "empty",
			build: func(b *Builder) {},
			want:  ErrEmptyProgram,
			addr:  -1,
		},
		{
			name:  "missing accept",
			build: func(b *Builder) { b.Char("a") },
			want:  ErrMissingAccept,
			addr:  0,
		},
		{
			name: "unresolved split target",
			build: func(b *Builder) {
				l := b.MakeLabel()
				b.Split(l)
				b.Accept()
			},
			want: ErrUnresolvedLabel,
			addr: 0,
		},
		{
			name: "unresolved goto target",
			build: func(b *Builder) {
				b.Char("a")
				b.Goto(Label(3))
				b.Accept()
			},
			want: ErrUnresolvedLabel,
			addr: 1,
		},
		{
			name: "label bound twice",
			build: func(b *Builder) {
				l := b.MakeLabel()
				b.BindLabel(l)
				b.BindLabel(l)
				b.Accept()
			},
			want: ErrDuplicateLabel,
			addr: 1,
		},
		{
			name: "binding an unknown label",
			build: func(b *Builder) {
				b.BindLabel(Label(5))
				b.Accept()
			},
			want: ErrUnresolvedLabel,
			addr: 0,
		},
		{
			name: "empty character literal",
			build: func(b *Builder) {
				b.Char("")
				b.Accept()
			},
			want: ErrInvalidInstruction,
			addr: 0,
		},
		{
			name: "nil class",
			build: func(b *Builder) {
				b.Class(nil)
				b.Accept()
			},
			want: ErrInvalidInstruction,
			addr: 0,
		},
		{
			name: "nil instruction",
			build: func(b *Builder) {
				b.Emit(nil)
				b.Accept()
			},
			want: ErrInvalidInstruction,
			addr: 0,
		},
		{
			name: "negative capture id",
			build: func(b *Builder) {
				b.BeginCapture(-1)
				b.Accept()
			},
			want: ErrInvalidCapture,
			addr: 0,
		},
		{
			name: "capture id beyond declared count",
			build: func(b *Builder) {
				b.SetNumCaptures(1)
				b.BeginCapture(1)
				b.EndCapture(1)
				b.Accept()
			},
			want: ErrInvalidCapture,
			addr: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			tt.build(b)
			prog, err := b.Build()
			if prog != nil {
				t.Fatalf("Build() returned a program:\n%s", prog)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Build() error = %v, want %v", err, tt.want)
			}
			var be *BuildError
			if !errors.As(err, &be) {
				t.Fatalf("error %T is not a *BuildError", err)
			}
			if be.Addr != tt.addr {
				t.Errorf("BuildError.Addr = %d, want %d", be.Addr, tt.addr)
			}
		})
	}
}

func TestBuilderLabels(t *testing.T) {
	b := NewBuilder()
	loop, exit := b.MakeLabel(), b.MakeLabel()
	if loop != 0 || exit != 1 {
		t.Fatalf("labels = %d, %d; want 0, 1", loop, exit)
	}
	b.BindLabel(loop)
	b.Split(exit)
	b.Char("a")
	b.Goto(loop)
	b.BindLabel(exit)
	b.Accept()
	prog := b.MustBuild()

	if got := prog.Lookup(loop); got != 0 {
		t.Errorf("Lookup(loop) = %d, want 0", got)
	}
	if got := prog.Lookup(exit); got != 4 {
		t.Errorf("Lookup(exit) = %d, want 4", got)
	}
	if _, ok := prog.At(prog.Lookup(exit)).(InstLabel); !ok {
		t.Errorf("label resolves to %v, want its marker", prog.At(4))
	}
	if prog.NumLabels() != 2 || prog.Len() != 6 || prog.Start() != 0 {
		t.Errorf("NumLabels=%d Len=%d Start=%d", prog.NumLabels(), prog.Len(), prog.Start())
	}
}

func TestBuilderCaptureCount(t *testing.T) {
	b := NewBuilder()
	b.BeginCapture(2)
	b.Char("x")
	b.EndCapture(2)
	b.Accept()
	if got := b.MustBuild().NumCaptures(); got != 3 {
		t.Errorf("inferred NumCaptures = %d, want 3", got)
	}

	b = NewBuilder()
	b.SetNumCaptures(4)
	b.Accept()
	if got := b.MustBuild().NumCaptures(); got != 4 {
		t.Errorf("declared NumCaptures = %d, want 4", got)
	}
}

func TestProgramAccessorsPanic(t *testing.T) {
	b := NewBuilder()
	b.Accept()
	prog := b.MustBuild()

	for name, f := range map[string]func(){
		"At(-1)":    func() { prog.At(-1) },
		"At(Len)":   func() { prog.At(Addr(prog.Len())) },
		"Lookup(0)": func() { prog.Lookup(0) },
	} {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("%s did not panic", name)
				}
			}()
			f()
		})
	}
}

func TestInstructionsIsACopy(t *testing.T) {
	prog := MustCompile("ab")
	insts := prog.Instructions()
	insts[0] = InstAccept{}
	if _, ok := prog.At(0).(InstChar); !ok {
		t.Errorf("mutating Instructions() changed the program: %v", prog.At(0))
	}
}

func TestMustBuildPanics(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrEmptyProgram) {
			t.Errorf("recovered %v, want ErrEmptyProgram", r)
		}
	}()
	NewBuilder().MustBuild()
}

func TestOpClassification(t *testing.T) {
	tests := []struct {
		in        Inst
		consuming bool
		matching  bool
	}{
		{InstNop{}, false, false},
		{InstAccept{}, false, true},
		{InstAny{}, true, true},
		{InstChar{Value: "a"}, true, true},
		{InstScalar{Value: 'a'}, true, true},
		{InstClass{Class: AnyExceptNewline}, true, true},
		{InstSplit{}, false, false},
		{InstGoto{}, false, false},
		{InstLabel{}, false, false},
		{InstBeginCapture{}, false, false},
		{InstEndCapture{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.in.Op().String(), func(t *testing.T) {
			if got := tt.in.Op().IsConsuming(); got != tt.consuming {
				t.Errorf("IsConsuming() = %v, want %v", got, tt.consuming)
			}
			if got := tt.in.Op().IsMatching(); got != tt.matching {
				t.Errorf("IsMatching() = %v, want %v", got, tt.matching)
			}
		})
	}
}

func TestBuildErrorMessage(t *testing.T) {
	err := &BuildError{Addr: 7, Err: ErrMissingAccept}
	if got := err.Error(); !strings.Contains(got, "at 0007") {
		t.Errorf("Error() = %q", got)
	}
	err = &BuildError{Addr: -1, Err: ErrEmptyProgram}
	if got := err.Error(); strings.Contains(got, " at ") {
		t.Errorf("Error() = %q", got)
	}
}

func ExampleBuilder() {
	// a*
	b := NewBuilder()
	loop, exit := b.MakeLabel(), b.MakeLabel()
	b.BindLabel(loop)
	b.Split(exit)
	b.Char("a")
	b.Goto(loop)
	b.BindLabel(exit)
	b.Accept()
	fmt.Print(b.MustBuild())
	// Output:
	// ; 6 instructions, 0 captures
	// 0000 L0:
	// 0001     split L1
	// 0002     char "a"
	// 0003     goto L0
	// 0004 L1:
	// 0005     accept
}
