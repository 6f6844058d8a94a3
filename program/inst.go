package program

import (
	"fmt"
	"strconv"
)

// Addr is the index of an instruction within a Program.
type Addr int

// Label names a position in a Program. Labels are resolved to addresses
// when the program is built.
type Label int

// Op identifies the kind of an instruction.
type Op uint8

const (
	// OpNop does nothing.
	OpNop Op = iota

	// OpAccept ends a successful thread.
	OpAccept

	// OpAny consumes one character.
	OpAny

	// OpChar consumes one character equal to a literal grapheme cluster.
	OpChar

	// OpScalar consumes one scalar equal to a literal rune.
	OpScalar

	// OpClass consumes whatever unit its Class accepts.
	OpClass

	// OpSplit forks: the next instruction is favored over the label.
	OpSplit

	// OpGoto jumps to a label.
	OpGoto

	// OpLabel marks the address a label resolves to.
	OpLabel

	// OpBeginCapture opens a span of a capture group.
	OpBeginCapture

	// OpEndCapture closes the innermost open span of a capture group.
	OpEndCapture
)

// String returns a human-readable representation of the Op
func (o Op) String() string {
	switch o {
	case OpNop:
		return "nop"
	case OpAccept:
		return "accept"
	case OpAny:
		return "any"
	case OpChar:
		return "char"
	case OpScalar:
		return "scalar"
	case OpClass:
		return "class"
	case OpSplit:
		return "split"
	case OpGoto:
		return "goto"
	case OpLabel:
		return "label"
	case OpBeginCapture:
		return "begin-capture"
	case OpEndCapture:
		return "end-capture"
	default:
		return fmt.Sprintf("Unknown(%d)", o)
	}
}

// IsConsuming reports whether instructions of this kind consume input.
func (o Op) IsConsuming() bool {
	switch o {
	case OpAny, OpChar, OpScalar, OpClass:
		return true
	}
	return false
}

// IsMatching reports whether a thread parks on instructions of this kind:
// every consuming instruction plus accept.
func (o Op) IsMatching() bool {
	return o == OpAccept || o.IsConsuming()
}

// Inst is a single bytecode instruction. The set of implementations is
// closed; engines switch over the concrete types.
type Inst interface {
	Op() Op
	String() string
	inst()
}

// InstNop does nothing.
type InstNop struct{}

// InstAccept ends a successful thread.
type InstAccept struct{}

// InstAny consumes one character.
type InstAny struct{}

// InstChar consumes one character equal to Value. Value holds a single
// grapheme cluster.
type InstChar struct {
	Value string
}

// InstScalar consumes one Unicode scalar equal to Value.
type InstScalar struct {
	Value rune
}

// InstClass consumes whatever Class accepts at the cursor.
type InstClass struct {
	Class Class
}

// InstSplit forks a thread. The fallthrough continuation is favored, the
// one at Disfavored is tried second.
type InstSplit struct {
	Disfavored Label
}

// InstGoto jumps to Target.
type InstGoto struct {
	Target Label
}

// InstLabel marks the position of a label.
type InstLabel struct {
	ID Label
}

// InstBeginCapture opens capture group ID at the cursor.
type InstBeginCapture struct {
	ID int
}

// InstEndCapture closes the innermost open entry of capture group ID.
type InstEndCapture struct {
	ID int
}

func (InstNop) Op() Op          { return OpNop }
func (InstAccept) Op() Op       { return OpAccept }
func (InstAny) Op() Op          { return OpAny }
func (InstChar) Op() Op         { return OpChar }
func (InstScalar) Op() Op       { return OpScalar }
func (InstClass) Op() Op        { return OpClass }
func (InstSplit) Op() Op        { return OpSplit }
func (InstGoto) Op() Op         { return OpGoto }
func (InstLabel) Op() Op        { return OpLabel }
func (InstBeginCapture) Op() Op { return OpBeginCapture }
func (InstEndCapture) Op() Op   { return OpEndCapture }

func (InstNop) inst()          {}
func (InstAccept) inst()       {}
func (InstAny) inst()          {}
func (InstChar) inst()         {}
func (InstScalar) inst()       {}
func (InstClass) inst()        {}
func (InstSplit) inst()        {}
func (InstGoto) inst()         {}
func (InstLabel) inst()        {}
func (InstBeginCapture) inst() {}
func (InstEndCapture) inst()   {}

func (InstNop) String() string    { return "nop" }
func (InstAccept) String() string { return "accept" }
func (InstAny) String() string    { return "any" }

func (i InstChar) String() string {
	return "char " + strconv.Quote(i.Value)
}

func (i InstScalar) String() string {
	return fmt.Sprintf("scalar %U", i.Value)
}

func (i InstClass) String() string {
	if s, ok := i.Class.(fmt.Stringer); ok {
		return "class " + s.String()
	}
	return "class <func>"
}

func (i InstSplit) String() string        { return fmt.Sprintf("split L%d", i.Disfavored) }
func (i InstGoto) String() string         { return fmt.Sprintf("goto L%d", i.Target) }
func (i InstLabel) String() string        { return fmt.Sprintf("L%d:", i.ID) }
func (i InstBeginCapture) String() string { return fmt.Sprintf("begin-capture %d", i.ID) }
func (i InstEndCapture) String() string   { return fmt.Sprintf("end-capture %d", i.ID) }
