// Command twinvm compiles a pattern and runs it on both engines.
//
// Usage:
//
//	twinvm [flags] PATTERN [INPUT...]
//
// Inputs are taken from the arguments, or one per line from stdin. Each
// input is matched from its start in the selected mode (or searched with
// -find) on every selected engine. When both engines run, any disagreement
// is reported and makes the command fail.
//
// Exit status is 0 if some input matched, 1 if none did, 2 on errors.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/coregx/twinvm/gen"
	"github.com/coregx/twinvm/meta"
	"github.com/coregx/twinvm/vm"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	engine  string
	mode    vm.MatchMode
	find    bool
	dump    bool
	gen     bool
	pkg     string
	fn      string
	stats   bool
	metrics bool
	verbose bool
	memoize bool
	dedup   bool
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var (
		opts options
		mode string
	)
	fs := flag.NewFlagSet("twinvm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.engine, "engine", "both", "engine to run: backtrack, lockstep or both")
	fs.StringVar(&mode, "mode", "whole", "match mode: whole or partial")
	fs.BoolVar(&opts.find, "find", false, "search for all matches instead of matching from the start")
	fs.BoolVar(&opts.dump, "dump", false, "print the compiled program and exit")
	fs.BoolVar(&opts.gen, "gen", false, "print Go source that rebuilds the program and exit")
	fs.StringVar(&opts.pkg, "pkg", "main", "package name for -gen")
	fs.StringVar(&opts.fn, "func", "Program", "function name for -gen")
	fs.BoolVar(&opts.stats, "stats", false, "print work counters per engine")
	fs.BoolVar(&opts.metrics, "metrics", false, "print Prometheus counters for every engine at exit")
	fs.BoolVar(&opts.verbose, "v", false, "log compilation and search details")
	fs.BoolVar(&opts.memoize, "memoize", false, "memoize the backtracker")
	fs.BoolVar(&opts.dedup, "dedup", true, "deduplicate lock-step threads")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: twinvm [flags] PATTERN [INPUT...]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return opts, nil, errors.New("missing pattern")
	}
	m, err := vm.ParseMatchMode(mode)
	if err != nil {
		return opts, nil, err
	}
	opts.mode = m
	return opts, fs.Args(), nil
}

func (o options) kinds() ([]vm.Kind, error) {
	if o.engine == "both" {
		return []vm.Kind{vm.KindBacktrack, vm.KindLockStep}, nil
	}
	k, err := vm.ParseKind(o.engine)
	if err != nil {
		return nil, err
	}
	return []vm.Kind{k}, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, rest, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitMatch
		}
		fmt.Fprintln(stderr, "twinvm:", err)
		return exitError
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	kinds, err := opts.kinds()
	if err != nil {
		logger.Error("bad -engine", slog.Any("error", err))
		return exitError
	}

	pattern := rest[0]
	engines := make([]*meta.Engine, 0, len(kinds))
	for _, kind := range kinds {
		cfg := meta.DefaultConfig()
		cfg.Engine = kind
		cfg.VM.Memoize = opts.memoize
		cfg.VM.Dedup = opts.dedup
		cfg.Logger = logger.With(slog.String("engine", kind.String()))
		e, err := meta.CompileWithConfig(pattern, cfg)
		if err != nil {
			logger.Error("compile failed", slog.String("pattern", pattern), slog.Any("error", err))
			return exitError
		}
		engines = append(engines, e)
	}

	prog := engines[0].Program()
	switch {
	case opts.dump:
		fmt.Fprint(stdout, prog.String())
		return exitMatch
	case opts.gen:
		src, err := gen.Generate(prog, gen.Config{Package: opts.pkg, Func: opts.fn, Pattern: pattern})
		if err != nil {
			logger.Error("generate failed", slog.Any("error", err))
			return exitError
		}
		stdout.Write(src) //nolint:errcheck // best effort, like fmt.Print
		return exitMatch
	}

	inputs := rest[1:]
	if len(inputs) == 0 {
		inputs, err = readLines(stdin)
		if err != nil {
			logger.Error("read stdin", slog.Any("error", err))
			return exitError
		}
	}

	matched, diverged := false, false
	for _, input := range inputs {
		results := make([]string, len(engines))
		for i, e := range engines {
			before := e.Stats()
			var ok bool
			results[i], ok = describe(e, input, opts)
			matched = matched || ok
			fmt.Fprintf(stdout, "%s\t%q\t%s\n", e.Kind(), input, results[i])
			if opts.stats {
				st := e.Stats()
				fmt.Fprintf(stdout, "%s\tsteps=%d runs=%d candidates=%d\n", e.Kind(),
					st.Steps-before.Steps,
					st.EngineRuns-before.EngineRuns,
					st.PrefilterCandidates-before.PrefilterCandidates)
			}
		}
		for _, r := range results[1:] {
			if r != results[0] {
				diverged = true
				logger.Error("engines disagree", slog.String("input", input),
					slog.String(engines[0].Kind().String(), results[0]),
					slog.String(engines[1].Kind().String(), r))
			}
		}
	}

	if opts.metrics {
		if err := writeMetrics(stdout, engines); err != nil {
			logger.Error("metrics", slog.Any("error", err))
			return exitError
		}
	}

	switch {
	case diverged:
		return exitError
	case matched:
		return exitMatch
	default:
		return exitNoMatch
	}
}

// describe runs one engine on input and renders the outcome.
func describe(e *meta.Engine, input string, opts options) (string, bool) {
	if opts.find {
		matches := e.FindAll(input, -1)
		if len(matches) == 0 {
			return "no match", false
		}
		parts := make([]string, len(matches))
		for i, m := range matches {
			parts[i] = formatMatch(m)
		}
		return strings.Join(parts, " "), true
	}

	m := e.Exec(input, opts.mode)
	if m == nil {
		return "no match", false
	}
	return formatMatch(m), true
}

func formatMatch(m *meta.Match) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%d,%d)", m.Start(), m.End())
	for i := 0; i < m.NumGroups(); i++ {
		if span, ok := m.Group(i); ok {
			fmt.Fprintf(&sb, " $%d=%v", i, span)
		} else {
			fmt.Fprintf(&sb, " $%d=-", i)
		}
	}
	return sb.String()
}

func writeMetrics(w io.Writer, engines []*meta.Engine) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(meta.NewCollector(engines...)); err != nil {
		return err
	}
	families, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
