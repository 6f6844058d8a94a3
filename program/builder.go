package program

// Builder assembles a Program instruction by instruction. Labels are
// created up front with MakeLabel and bound where they belong with
// BindLabel, so forward jumps need no patching.
//
// Example:
//
//	b := program.NewBuilder()
//	loop, exit := b.MakeLabel(), b.MakeLabel()
//	b.BindLabel(loop)
//	b.Split(exit)
//	b.Char("a")
//	b.Goto(loop)
//	b.BindLabel(exit)
//	b.Accept()
//	prog, err := b.Build() // a*
type Builder struct {
	insts       []Inst
	labels      []Addr
	numCaptures int
	declared    bool
	err         error
}

const unbound Addr = -1

// NewBuilder creates a new program builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new program builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		insts: make([]Inst, 0, capacity),
	}
}

// Len returns the number of instructions emitted so far.
func (b *Builder) Len() int {
	return len(b.insts)
}

// MakeLabel allocates a new, unbound label.
func (b *Builder) MakeLabel() Label {
	b.labels = append(b.labels, unbound)
	return Label(len(b.labels) - 1)
}

// BindLabel emits the marker for l at the current address.
func (b *Builder) BindLabel(l Label) Addr {
	pc := Addr(len(b.insts))
	switch {
	case l < 0 || int(l) >= len(b.labels):
		b.fail(pc, ErrUnresolvedLabel)
	case b.labels[l] != unbound:
		b.fail(pc, ErrDuplicateLabel)
	default:
		b.labels[l] = pc
	}
	return b.Emit(InstLabel{ID: l})
}

// Emit appends an instruction and returns its address.
func (b *Builder) Emit(in Inst) Addr {
	pc := Addr(len(b.insts))
	b.insts = append(b.insts, in)
	return pc
}

// Nop emits a nop.
func (b *Builder) Nop() Addr { return b.Emit(InstNop{}) }

// Accept emits accept. Every program must end with one.
func (b *Builder) Accept() Addr { return b.Emit(InstAccept{}) }

// Any emits an instruction consuming any one character.
func (b *Builder) Any() Addr { return b.Emit(InstAny{}) }

// Char emits a character literal. c must be one grapheme cluster.
func (b *Builder) Char(c string) Addr { return b.Emit(InstChar{Value: c}) }

// Scalar emits a unicode-scalar literal.
func (b *Builder) Scalar(r rune) Addr { return b.Emit(InstScalar{Value: r}) }

// Class emits a character-class test.
func (b *Builder) Class(c Class) Addr { return b.Emit(InstClass{Class: c}) }

// Split emits a fork whose disfavored branch continues at alt.
func (b *Builder) Split(alt Label) Addr { return b.Emit(InstSplit{Disfavored: alt}) }

// Goto emits a jump to target.
func (b *Builder) Goto(target Label) Addr { return b.Emit(InstGoto{Target: target}) }

// BeginCapture emits the start of capture group id.
func (b *Builder) BeginCapture(id int) Addr { return b.Emit(InstBeginCapture{ID: id}) }

// EndCapture emits the end of capture group id.
func (b *Builder) EndCapture(id int) Addr { return b.Emit(InstEndCapture{ID: id}) }

// SetNumCaptures declares the capture count. Without a declaration the
// count is one more than the largest capture id used.
func (b *Builder) SetNumCaptures(n int) {
	b.numCaptures = n
	b.declared = true
}

func (b *Builder) fail(pc Addr, err error) {
	if b.err == nil {
		b.err = &BuildError{Addr: pc, Err: err}
	}
}

// Build validates the assembled instructions and returns the Program.
// The Builder may not be reused afterwards.
func (b *Builder) Build() (*Program, error) {
	if b.err != nil {
		return nil, b.err
	}
	if len(b.insts) == 0 {
		return nil, &BuildError{Addr: -1, Err: ErrEmptyProgram}
	}
	last := Addr(len(b.insts) - 1)
	if _, ok := b.insts[last].(InstAccept); !ok {
		return nil, &BuildError{Addr: last, Err: ErrMissingAccept}
	}

	maxID := -1
	for i, in := range b.insts {
		pc := Addr(i)
		switch in := in.(type) {
		case InstSplit:
			if err := b.checkLabel(pc, in.Disfavored); err != nil {
				return nil, err
			}
		case InstGoto:
			if err := b.checkLabel(pc, in.Target); err != nil {
				return nil, err
			}
		case InstChar:
			if in.Value == "" {
				return nil, &BuildError{Addr: pc, Err: ErrInvalidInstruction}
			}
		case InstClass:
			if in.Class == nil {
				return nil, &BuildError{Addr: pc, Err: ErrInvalidInstruction}
			}
		case InstBeginCapture:
			if in.ID < 0 {
				return nil, &BuildError{Addr: pc, Err: ErrInvalidCapture}
			}
			maxID = max(maxID, in.ID)
		case InstEndCapture:
			if in.ID < 0 {
				return nil, &BuildError{Addr: pc, Err: ErrInvalidCapture}
			}
			maxID = max(maxID, in.ID)
		case nil:
			return nil, &BuildError{Addr: pc, Err: ErrInvalidInstruction}
		}
	}

	numCaptures := maxID + 1
	if b.declared {
		if maxID >= b.numCaptures {
			return nil, &BuildError{Addr: -1, Err: ErrInvalidCapture}
		}
		numCaptures = b.numCaptures
	}

	return &Program{
		insts:       b.insts,
		labels:      b.labels,
		numCaptures: numCaptures,
	}, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Program {
	p, err := b.Build()
	if err != nil {
		panic(err)
	}
	return p
}

func (b *Builder) checkLabel(pc Addr, l Label) error {
	if l < 0 || int(l) >= len(b.labels) || b.labels[l] == unbound {
		return &BuildError{Addr: pc, Err: ErrUnresolvedLabel}
	}
	return nil
}
