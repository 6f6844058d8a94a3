// Package program defines the bytecode consumed by the twinvm execution
// engines: a closed instruction set, an immutable Program with label
// resolution, a Builder that assembles and validates programs, and a
// compiler from regexp/syntax trees.
package program

import (
	"errors"
	"fmt"
)

// Common program errors
var (
	// ErrEmptyProgram indicates a program with no instructions
	ErrEmptyProgram = errors.New("empty program")

	// ErrMissingAccept indicates the last instruction is not accept
	ErrMissingAccept = errors.New("last instruction must be accept")

	// ErrUnresolvedLabel indicates a referenced label that was never bound
	ErrUnresolvedLabel = errors.New("unresolved label")

	// ErrDuplicateLabel indicates a label bound more than once
	ErrDuplicateLabel = errors.New("label bound more than once")

	// ErrInvalidCapture indicates a capture id outside the declared range
	ErrInvalidCapture = errors.New("capture id out of range")

	// ErrInvalidInstruction indicates an instruction with an unusable payload
	ErrInvalidInstruction = errors.New("invalid instruction")

	// ErrInvalidPattern indicates the regex pattern could not be parsed
	ErrInvalidPattern = errors.New("invalid regex pattern")

	// ErrUnsupported indicates a regex construct with no bytecode equivalent
	ErrUnsupported = errors.New("unsupported regex construct")

	// ErrTooComplex indicates the pattern nests deeper than the compiler allows
	ErrTooComplex = errors.New("pattern too complex")
)

// BuildError reports a program that violates the bytecode invariants.
type BuildError struct {
	Addr Addr // -1 when the error is not tied to one instruction
	Err  error
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.Addr >= 0 {
		return fmt.Sprintf("program build error at %04d: %v", e.Addr, e.Err)
	}
	return fmt.Sprintf("program build error: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *BuildError) Unwrap() error {
	return e.Err
}

// CompileError wraps compilation errors with the offending pattern
type CompileError struct {
	Pattern string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("program compilation failed for pattern %q: %v", e.Pattern, e.Err)
	}
	return fmt.Sprintf("program compilation failed: %v", e.Err)
}

// Unwrap returns the underlying error
func (e *CompileError) Unwrap() error {
	return e.Err
}
