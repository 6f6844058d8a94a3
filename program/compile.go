package program

import (
	"errors"
	"fmt"
	"regexp/syntax"
	"unicode"

	"github.com/rivo/uniseg"
)

// CompilerConfig configures pattern compilation
type CompilerConfig struct {
	// ScalarLiterals emits unicode-scalar literals instead of character
	// literals. With character literals a literal only matches a whole
	// grapheme cluster, so "e" does not match the first scalar of "é".
	ScalarLiterals bool

	// MaxRecursionDepth limits recursion during compilation to prevent stack overflow
	// Default: 100
	MaxRecursionDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		ScalarLiterals:    false,
		MaxRecursionDepth: 100,
	}
}

// Compiler translates regexp/syntax trees into Programs.
//
// Ordered choice is encoded with split: the fallthrough is the preferred
// continuation. Greedy loops prefer another iteration, lazy loops prefer to
// exit, and alternation prefers the leftmost branch.
type Compiler struct {
	config  CompilerConfig
	builder *Builder
	depth   int
}

// NewCompiler creates a new compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRecursionDepth == 0 {
		config.MaxRecursionDepth = 100
	}
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a new compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile parses pattern with Perl syntax and compiles it.
func (c *Compiler) Compile(pattern string) (*Program, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, &CompileError{
			Pattern: pattern,
			Err:     fmt.Errorf("%w: %w", ErrInvalidPattern, err),
		}
	}
	prog, err := c.CompileRegexp(re)
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) && ce.Pattern == "" {
			ce.Pattern = pattern
		}
		return nil, err
	}
	return prog, nil
}

// CompileRegexp compiles a parsed syntax tree. Counted repetitions are
// expanded through syntax.Regexp.Simplify.
func (c *Compiler) CompileRegexp(re *syntax.Regexp) (*Program, error) {
	c.builder = NewBuilder()
	c.depth = 0

	if err := c.compile(re.Simplify()); err != nil {
		return nil, err
	}
	c.builder.Accept()
	c.builder.SetNumCaptures(re.MaxCap())

	prog, err := c.builder.Build()
	if err != nil {
		return nil, &CompileError{Err: err}
	}
	return prog, nil
}

// MustCompile compiles pattern with the default configuration and panics
// on error.
func MustCompile(pattern string) *Program {
	prog, err := NewDefaultCompiler().Compile(pattern)
	if err != nil {
		panic(err)
	}
	return prog
}

//nolint:gocyclo,cyclop // one case per syntax operator
func (c *Compiler) compile(re *syntax.Regexp) error {
	c.depth++
	if c.depth > c.config.MaxRecursionDepth {
		return &CompileError{Err: ErrTooComplex}
	}
	defer func() { c.depth-- }()

	b := c.builder
	switch re.Op {
	case syntax.OpEmptyMatch:
		return nil
	case syntax.OpNoMatch:
		b.Class(NewRuneClass())
		return nil
	case syntax.OpLiteral:
		c.compileLiteral(re.Rune, re.Flags&syntax.FoldCase != 0)
		return nil
	case syntax.OpCharClass:
		b.Class(NewRuneClass(re.Rune...))
		return nil
	case syntax.OpAnyChar:
		b.Any()
		return nil
	case syntax.OpAnyCharNotNL:
		b.Class(AnyExceptNewline)
		return nil
	case syntax.OpCapture:
		id := re.Cap - 1
		b.BeginCapture(id)
		if err := c.compile(re.Sub[0]); err != nil {
			return err
		}
		b.EndCapture(id)
		return nil
	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if err := c.compile(sub); err != nil {
				return err
			}
		}
		return nil
	case syntax.OpAlternate:
		return c.compileAlternate(re.Sub)
	case syntax.OpStar:
		return c.compileStar(re.Sub[0], re.Flags&syntax.NonGreedy != 0)
	case syntax.OpPlus:
		return c.compilePlus(re.Sub[0], re.Flags&syntax.NonGreedy != 0)
	case syntax.OpQuest:
		return c.compileQuest(re.Sub[0], re.Flags&syntax.NonGreedy != 0)
	default:
		return &CompileError{Err: fmt.Errorf("%w: %s", ErrUnsupported, opName(re.Op))}
	}
}

func opName(op syntax.Op) string {
	switch op {
	case syntax.OpBeginLine, syntax.OpBeginText:
		return "start anchor"
	case syntax.OpEndLine, syntax.OpEndText:
		return "end anchor"
	case syntax.OpWordBoundary, syntax.OpNoWordBoundary:
		return "word boundary"
	case syntax.OpRepeat:
		return "counted repetition"
	default:
		return fmt.Sprintf("op %d", op)
	}
}

// compileLiteral emits one instruction per character of the literal, or
// per scalar when ScalarLiterals is set. Case-folded scalars with more than
// one form become rune classes.
func (c *Compiler) compileLiteral(runes []rune, fold bool) {
	b := c.builder
	if fold || c.config.ScalarLiterals {
		for _, r := range runes {
			if fold {
				if orbit := foldOrbit(r); len(orbit) > 2 {
					b.Class(NewRuneClass(orbit...))
					continue
				}
			}
			if c.config.ScalarLiterals {
				b.Scalar(r)
			} else {
				b.Char(string(r))
			}
		}
		return
	}

	rest := string(runes)
	state := -1
	for rest != "" {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		b.Char(cluster)
	}
}

// foldOrbit returns the simple case-folding orbit of r as lo, hi pairs.
func foldOrbit(r rune) []rune {
	out := []rune{r, r}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		out = append(out, f, f)
	}
	return out
}

// compileAlternate lays out
//
//	    split L1
//	    <sub 0>
//	    goto done
//	L1: split L2
//	    <sub 1>
//	    goto done
//	L2: <sub n-1>
//	done:
func (c *Compiler) compileAlternate(subs []*syntax.Regexp) error {
	b := c.builder
	done := b.MakeLabel()
	for i, sub := range subs {
		if i == len(subs)-1 {
			if err := c.compile(sub); err != nil {
				return err
			}
			break
		}
		next := b.MakeLabel()
		b.Split(next)
		if err := c.compile(sub); err != nil {
			return err
		}
		b.Goto(done)
		b.BindLabel(next)
	}
	b.BindLabel(done)
	return nil
}

func (c *Compiler) compileStar(sub *syntax.Regexp, lazy bool) error {
	b := c.builder
	loop, exit := b.MakeLabel(), b.MakeLabel()
	b.BindLabel(loop)
	if lazy {
		body := b.MakeLabel()
		b.Split(body)
		b.Goto(exit)
		b.BindLabel(body)
	} else {
		b.Split(exit)
	}
	if err := c.compile(sub); err != nil {
		return err
	}
	b.Goto(loop)
	b.BindLabel(exit)
	return nil
}

func (c *Compiler) compilePlus(sub *syntax.Regexp, lazy bool) error {
	b := c.builder
	loop := b.MakeLabel()
	b.BindLabel(loop)
	if err := c.compile(sub); err != nil {
		return err
	}
	if lazy {
		b.Split(loop)
		return nil
	}
	exit := b.MakeLabel()
	b.Split(exit)
	b.Goto(loop)
	b.BindLabel(exit)
	return nil
}

func (c *Compiler) compileQuest(sub *syntax.Regexp, lazy bool) error {
	b := c.builder
	skip := b.MakeLabel()
	if lazy {
		body := b.MakeLabel()
		b.Split(body)
		b.Goto(skip)
		b.BindLabel(body)
	} else {
		b.Split(skip)
	}
	if err := c.compile(sub); err != nil {
		return err
	}
	b.BindLabel(skip)
	return nil
}
