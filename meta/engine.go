package meta

import (
	"log/slog"
	"sync/atomic"

	"github.com/coregx/twinvm/literal"
	"github.com/coregx/twinvm/prefilter"
	"github.com/coregx/twinvm/program"
	"github.com/coregx/twinvm/vm"
)

// Engine pairs a compiled program with an execution engine and an optional
// prefilter.
//
// Thread safety: the program, engine and prefilter are immutable after
// construction and every search keeps its own state, so all search methods
// may be called concurrently. Statistics are updated atomically.
//
// Example:
//
//	engine, err := meta.Compile(`(\w+)@(\w+)\.com`)
//	if err != nil {
//	    return err
//	}
//	if m := engine.Find("mail bob@example.com"); m != nil {
//	    println(m.String()) // "bob@example.com"
//	}
type Engine struct {
	// stats must stay first for 64-bit alignment of its atomics on 32-bit
	// platforms.
	stats Stats

	pattern   string
	prog      *program.Program
	exec      vm.Engine
	searcher  vm.Searcher // nil when exec only runs anchored
	prefilter prefilter.Prefilter
	config    Config
	logger    *slog.Logger
}

// Stats counts work done by an Engine since construction or ResetStats.
type Stats struct {
	// Searches counts calls that search the input (Find, FindAt, FindAll,
	// IsMatch, MatchPrefix, Exec).
	Searches uint64

	// EngineRuns counts executions of the underlying engine.
	EngineRuns uint64

	// Steps sums vm.Stats.Steps over all engine runs.
	Steps uint64

	// PrefilterCandidates counts positions proposed by the prefilter.
	PrefilterCandidates uint64

	// PrefilterMisses counts candidates where the engine found no match.
	PrefilterMisses uint64

	// PrefilterAbandoned counts searches that retired the prefilter for
	// proposing too many misses.
	PrefilterAbandoned uint64
}

// Compile compiles pattern with DefaultConfig.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles pattern with a custom configuration.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	prog, err := program.NewCompiler(config.Compiler).Compile(pattern)
	if err != nil {
		return nil, err
	}
	e, err := newEngine(prog, config)
	if err != nil {
		return nil, err
	}
	e.pattern = pattern
	e.logCompiled()
	return e, nil
}

// NewEngine wraps an already built program, for example one assembled with
// program.Builder.
func NewEngine(prog *program.Program, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	e, err := newEngine(prog, config)
	if err != nil {
		return nil, err
	}
	e.logCompiled()
	return e, nil
}

func newEngine(prog *program.Program, config Config) (*Engine, error) {
	exec, err := vm.New(config.Engine, prog, config.VM)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	e := &Engine{
		prog:   prog,
		exec:   exec,
		config: config,
		logger: logger,
	}
	e.searcher, _ = exec.(vm.Searcher)
	if config.EnablePrefilter {
		prefixes := literal.New(config.Literals).ExtractPrefixes(prog)
		e.prefilter = prefilter.NewBuilder(prefixes).Build()
	}
	return e, nil
}

func (e *Engine) logCompiled() {
	pf := "none"
	if e.prefilter != nil {
		pf = e.prefilter.String()
	}
	e.logger.Debug("compiled program",
		slog.String("pattern", e.pattern),
		slog.Int("instructions", e.prog.Len()),
		slog.Int("captures", e.prog.NumCaptures()),
		slog.String("engine", e.exec.Kind().String()),
		slog.String("prefilter", pf),
	)
}

// Pattern returns the source pattern, or "" for engines built with
// NewEngine.
func (e *Engine) Pattern() string {
	return e.pattern
}

// Program returns the compiled program.
func (e *Engine) Program() *program.Program {
	return e.prog
}

// Kind returns the kind of the execution engine.
func (e *Engine) Kind() vm.Kind {
	return e.exec.Kind()
}

// Prefilter returns the prefilter, or nil when searches try every position.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// NumCaptures returns the number of capture groups in the program.
func (e *Engine) NumCaptures() int {
	return e.prog.NumCaptures()
}

// Stats returns a snapshot of the execution statistics.
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:            atomic.LoadUint64(&e.stats.Searches),
		EngineRuns:          atomic.LoadUint64(&e.stats.EngineRuns),
		Steps:               atomic.LoadUint64(&e.stats.Steps),
		PrefilterCandidates: atomic.LoadUint64(&e.stats.PrefilterCandidates),
		PrefilterMisses:     atomic.LoadUint64(&e.stats.PrefilterMisses),
		PrefilterAbandoned:  atomic.LoadUint64(&e.stats.PrefilterAbandoned),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.EngineRuns, 0)
	atomic.StoreUint64(&e.stats.Steps, 0)
	atomic.StoreUint64(&e.stats.PrefilterCandidates, 0)
	atomic.StoreUint64(&e.stats.PrefilterMisses, 0)
	atomic.StoreUint64(&e.stats.PrefilterAbandoned, 0)
}
