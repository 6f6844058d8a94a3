package literal

import (
	"unicode/utf8"

	"github.com/coregx/twinvm/program"
)

// ExtractorConfig limits prefix extraction.
type ExtractorConfig struct {
	// MaxLiterals bounds the number of alternative literals. Programs that
	// would need more yield an empty Seq. Default: 64.
	MaxLiterals int

	// MaxLiteralLen bounds the length of each literal. Longer prefixes are
	// cut and marked incomplete. Default: 64.
	MaxLiteralLen int

	// MaxClassSize is the largest number of scalars a RuneClass may hold
	// to be expanded into one literal per scalar, so [Hh] and \d expand
	// while \w ends the prefix. Default: 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor walks program bytecode from its start and collects the byte
// strings every match must begin with.
type Extractor struct {
	config ExtractorConfig
}

// New creates an Extractor.
func New(config ExtractorConfig) *Extractor {
	def := DefaultConfig()
	if config.MaxLiterals <= 0 {
		config.MaxLiterals = def.MaxLiterals
	}
	if config.MaxLiteralLen <= 0 {
		config.MaxLiteralLen = def.MaxLiteralLen
	}
	if config.MaxClassSize < 0 {
		config.MaxClassSize = 0
	}
	return &Extractor{config: config}
}

// path is a partially followed route through the program.
type path struct {
	pc     program.Addr
	prefix []byte
}

// ExtractPrefixes returns the literals every match of prog starts with.
//
// Each route from the start is followed through epsilon instructions.
// Splits fork the route while nothing has been collected yet; once bytes
// have been collected the first split, any, or wide class ends the
// literal. A route that can accept, or reach any or a wide class, before
// collecting a byte makes the whole result empty: such a program has no
// required prefix.
func (e *Extractor) ExtractPrefixes(prog *program.Program) *Seq {
	var (
		out       []Literal
		work      = []path{{pc: prog.Start()}}
		seenEmpty = make(map[program.Addr]bool)
		maxSteps  = prog.Len() * (e.config.MaxLiteralLen + 1)
	)
	for len(work) > 0 {
		p := work[len(work)-1]
		work = work[:len(work)-1]

		lit, keep, ok := e.follow(prog, p, &work, seenEmpty, maxSteps)
		if !ok {
			return NewSeq()
		}
		if keep {
			out = append(out, lit)
		}
		if len(out)+len(work) > e.config.MaxLiterals {
			return NewSeq()
		}
	}
	return NewSeq(out...)
}

// follow walks a single route. It returns the literal the route yields and
// whether to keep it; ok is false when extraction must give up entirely.
func (e *Extractor) follow(prog *program.Program, p path, work *[]path, seenEmpty map[program.Addr]bool, maxSteps int) (lit Literal, keep, ok bool) {
	stop := func(complete bool) (Literal, bool, bool) {
		if len(p.prefix) == 0 {
			return Literal{}, false, false
		}
		return NewLiteral(p.prefix, complete), true, true
	}

	for steps := 0; ; steps++ {
		if steps > maxSteps {
			return stop(false)
		}
		if len(p.prefix) == 0 {
			if seenEmpty[p.pc] {
				// Another route already continues from here.
				return Literal{}, false, true
			}
			seenEmpty[p.pc] = true
		}
		if len(p.prefix) >= e.config.MaxLiteralLen {
			p.prefix = p.prefix[:e.config.MaxLiteralLen]
			return stop(false)
		}

		switch in := prog.At(p.pc).(type) {
		case program.InstNop, program.InstLabel, program.InstBeginCapture, program.InstEndCapture:
			p.pc++
		case program.InstGoto:
			p.pc = prog.Lookup(in.Target)
		case program.InstSplit:
			if len(p.prefix) > 0 {
				return stop(false)
			}
			*work = append(*work, path{pc: prog.Lookup(in.Disfavored)})
			p.pc++
		case program.InstChar:
			p.prefix = append(p.prefix, in.Value...)
			p.pc++
		case program.InstScalar:
			p.prefix = utf8.AppendRune(p.prefix, in.Value)
			p.pc++
		case program.InstClass:
			runes, expandable := e.expand(in.Class)
			if !expandable {
				return stop(false)
			}
			if len(runes) == 0 {
				// An empty class never matches: the route is dead.
				return Literal{}, false, true
			}
			for i := len(runes) - 1; i > 0; i-- {
				prefix := utf8.AppendRune(append([]byte(nil), p.prefix...), runes[i])
				*work = append(*work, path{pc: p.pc + 1, prefix: prefix})
			}
			p.prefix = utf8.AppendRune(p.prefix, runes[0])
			p.pc++
		case program.InstAccept:
			return stop(true)
		default:
			return stop(false)
		}
	}
}

// expand lists the scalars of a small RuneClass. Classes of other kinds, or
// ones that would also match invalid UTF-8, are not expandable.
func (e *Extractor) expand(c program.Class) ([]rune, bool) {
	rc, ok := c.(*program.RuneClass)
	if !ok || rc.Contains(utf8.RuneError) {
		return nil, false
	}
	ranges := rc.Ranges()
	var runes []rune
	for i := 0; i < len(ranges); i += 2 {
		for r := ranges[i]; r <= ranges[i+1]; r++ {
			if !utf8.ValidRune(r) {
				continue
			}
			if len(runes) == e.config.MaxClassSize {
				return nil, false
			}
			runes = append(runes, r)
		}
	}
	return runes, true
}
