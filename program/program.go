package program

import (
	"fmt"
	"strings"
)

// Program is an immutable sequence of instructions produced by a Builder
// or the Compiler.
//
// Invariants established by Build:
//   - the last instruction is accept
//   - every label referenced by split or goto is bound to an address
//   - every capture id lies in [0, NumCaptures())
//
// A Program is never mutated after construction and is safe for concurrent
// use by any number of engines.
type Program struct {
	insts       []Inst
	labels      []Addr // indexed by Label
	numCaptures int
}

// Start returns the entry address. Execution always begins at 0.
func (p *Program) Start() Addr {
	return 0
}

// Len returns the number of instructions.
func (p *Program) Len() int {
	return len(p.insts)
}

// At returns the instruction at pc. An address outside the program is a
// broken contract and panics.
func (p *Program) At(pc Addr) Inst {
	if pc < 0 || int(pc) >= len(p.insts) {
		panic(fmt.Sprintf("program: address %d out of range [0, %d)", pc, len(p.insts)))
	}
	return p.insts[pc]
}

// Lookup resolves a label to the address of its marker instruction.
// Unknown labels panic; Build guarantees every referenced label resolves.
func (p *Program) Lookup(l Label) Addr {
	if l < 0 || int(l) >= len(p.labels) {
		panic(fmt.Sprintf("program: unresolved label L%d", l))
	}
	return p.labels[l]
}

// NumCaptures returns the declared number of capture groups.
func (p *Program) NumCaptures() int {
	return p.numCaptures
}

// NumLabels returns the number of labels.
func (p *Program) NumLabels() int {
	return len(p.labels)
}

// Instructions returns a copy of the instruction sequence.
func (p *Program) Instructions() []Inst {
	out := make([]Inst, len(p.insts))
	copy(out, p.insts)
	return out
}

// String returns a disassembly listing, one instruction per line.
func (p *Program) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; %d instructions, %d captures\n", len(p.insts), p.numCaptures)
	for pc, in := range p.insts {
		if _, ok := in.(InstLabel); ok {
			fmt.Fprintf(&sb, "%04d %s\n", pc, in)
			continue
		}
		fmt.Fprintf(&sb, "%04d     %s\n", pc, in)
	}
	return sb.String()
}
