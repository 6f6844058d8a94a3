// Package gen emits Go source that rebuilds a program.Program through
// program.Builder, so a pattern can be compiled once at generation time and
// embedded in a binary without the compiler.
package gen

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"unicode/utf8"

	"github.com/dave/jennifer/jen"

	"github.com/coregx/twinvm/program"
)

const programPath = "github.com/coregx/twinvm/program"

var (
	// ErrUnsupportedClass indicates a character class with no source form.
	// Only *program.RuneClass and program.AnyExceptNewline can be emitted.
	ErrUnsupportedClass = errors.New("gen: class cannot be emitted as source")

	// ErrInvalidConfig indicates a bad package or function name.
	ErrInvalidConfig = errors.New("gen: invalid config")
)

// Config names the generated code.
type Config struct {
	// Package is the package clause of the generated file.
	// Default: "main"
	Package string

	// Func is the name of the generated constructor.
	// Default: "Program"
	Func string

	// Pattern, when set, is quoted in the doc comment of Func.
	Pattern string
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Package: "main", Func: "Program"}
}

func (c Config) validate() error {
	if !token.IsIdentifier(c.Package) {
		return fmt.Errorf("%w: package %q", ErrInvalidConfig, c.Package)
	}
	if !token.IsIdentifier(c.Func) {
		return fmt.Errorf("%w: func %q", ErrInvalidConfig, c.Func)
	}
	return nil
}

// Generate renders a Go file declaring
//
//	func <Func>() *program.Program
//
// that builds an equivalent program instruction by instruction.
func Generate(prog *program.Program, config Config) ([]byte, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	body, err := builderCalls(prog)
	if err != nil {
		return nil, err
	}

	f := jen.NewFile(config.Package)
	f.HeaderComment("Code generated by twinvm gen. DO NOT EDIT.")

	if config.Pattern != "" {
		f.Comment(fmt.Sprintf("%s returns the compiled program for %q.", config.Func, config.Pattern))
	} else {
		f.Comment(fmt.Sprintf("%s returns the embedded program.", config.Func))
	}
	f.Func().Id(config.Func).Params().Op("*").Qual(programPath, "Program").Block(body...)

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("gen: render: %w", err)
	}
	return buf.Bytes(), nil
}

func builderCalls(prog *program.Program) ([]jen.Code, error) {
	b := jen.Id("b")
	code := []jen.Code{
		jen.Id("b").Op(":=").Qual(programPath, "NewBuilderWithCapacity").Call(jen.Lit(prog.Len())),
	}

	// A fresh builder hands out labels 0, 1, ... in order, so l[i] is the
	// label numbered i in prog.
	if n := prog.NumLabels(); n > 0 {
		code = append(code,
			jen.Id("l").Op(":=").Make(jen.Index().Qual(programPath, "Label"), jen.Lit(n)),
			jen.For(jen.Id("i").Op(":=").Range().Id("l")).Block(
				jen.Id("l").Index(jen.Id("i")).Op("=").Add(b.Clone().Dot("MakeLabel").Call()),
			),
		)
	}
	code = append(code, b.Clone().Dot("SetNumCaptures").Call(jen.Lit(prog.NumCaptures())))

	label := func(l program.Label) jen.Code {
		return jen.Id("l").Index(jen.Lit(int(l)))
	}
	for pc, in := range prog.Instructions() {
		var call *jen.Statement
		switch in := in.(type) {
		case program.InstNop:
			call = b.Clone().Dot("Nop").Call()
		case program.InstAccept:
			call = b.Clone().Dot("Accept").Call()
		case program.InstAny:
			call = b.Clone().Dot("Any").Call()
		case program.InstChar:
			call = b.Clone().Dot("Char").Call(jen.Lit(in.Value))
		case program.InstScalar:
			call = b.Clone().Dot("Scalar").Call(runeLit(in.Value))
		case program.InstClass:
			class, err := classExpr(in.Class)
			if err != nil {
				return nil, fmt.Errorf("%w at %04d: %v", ErrUnsupportedClass, pc, in)
			}
			call = b.Clone().Dot("Class").Call(class)
		case program.InstSplit:
			call = b.Clone().Dot("Split").Call(label(in.Disfavored))
		case program.InstGoto:
			call = b.Clone().Dot("Goto").Call(label(in.Target))
		case program.InstLabel:
			call = b.Clone().Dot("BindLabel").Call(label(in.ID))
		case program.InstBeginCapture:
			call = b.Clone().Dot("BeginCapture").Call(jen.Lit(in.ID))
		case program.InstEndCapture:
			call = b.Clone().Dot("EndCapture").Call(jen.Lit(in.ID))
		default:
			return nil, fmt.Errorf("gen: unknown instruction %T at %04d", in, pc)
		}
		code = append(code, call)
	}
	return append(code, jen.Return(b.Clone().Dot("MustBuild").Call())), nil
}

func classExpr(c program.Class) (jen.Code, error) {
	if program.IsAnyExceptNewline(c) {
		return jen.Qual(programPath, "AnyExceptNewline"), nil
	}
	rc, ok := c.(*program.RuneClass)
	if !ok {
		return nil, ErrUnsupportedClass
	}
	var args []jen.Code
	for _, r := range rc.Ranges() {
		args = append(args, runeLit(r))
	}
	return jen.Qual(programPath, "NewRuneClass").Call(args...), nil
}

// runeLit quotes valid scalars and falls back to a number for the rest,
// which strconv would replace with U+FFFD.
func runeLit(r rune) jen.Code {
	if utf8.ValidRune(r) {
		return jen.LitRune(r)
	}
	return jen.Lit(int(r))
}
