package meta

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/coregx/twinvm/vm"
)

func TestCollector(t *testing.T) {
	e, err := Compile("b")
	if err != nil {
		t.Fatal(err)
	}
	if got := len(e.FindAll("abab", -1)); got != 2 {
		t.Fatalf("FindAll found %d matches, want 2", got)
	}

	c := NewCollector(e)
	if n := testutil.CollectAndCount(c); n != 6 {
		t.Errorf("CollectAndCount = %d, want 6", n)
	}

	const want = `
# HELP twinvm_searches_total Searches started.
# TYPE twinvm_searches_total counter
twinvm_searches_total{engine="lockstep",pattern="b"} 1
# HELP twinvm_engine_runs_total Executions of the underlying engine.
# TYPE twinvm_engine_runs_total counter
twinvm_engine_runs_total{engine="lockstep",pattern="b"} 2
# HELP twinvm_prefilter_candidates_total Start positions proposed by the prefilter.
# TYPE twinvm_prefilter_candidates_total counter
twinvm_prefilter_candidates_total{engine="lockstep",pattern="b"} 2
# HELP twinvm_prefilter_misses_total Prefilter candidates that did not match.
# TYPE twinvm_prefilter_misses_total counter
twinvm_prefilter_misses_total{engine="lockstep",pattern="b"} 0
`
	err = testutil.CollectAndCompare(c, strings.NewReader(want),
		"twinvm_searches_total",
		"twinvm_engine_runs_total",
		"twinvm_prefilter_candidates_total",
		"twinvm_prefilter_misses_total",
	)
	if err != nil {
		t.Error(err)
	}
}

func TestCollectorRegistration(t *testing.T) {
	var engines []*Engine
	for _, kind := range []vm.Kind{vm.KindBacktrack, vm.KindLockStep} {
		cfg := DefaultConfig()
		cfg.Engine = kind
		e, err := CompileWithConfig("a+", cfg)
		if err != nil {
			t.Fatal(err)
		}
		engines = append(engines, e)
	}

	reg := prometheus.NewPedanticRegistry()
	if err := reg.Register(NewCollector(engines...)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("Gather: %v", err)
	}

	dup := prometheus.NewPedanticRegistry()
	dup.MustRegister(NewCollector(engines[0], engines[0]))
	if _, err := dup.Gather(); err == nil {
		t.Error("Gather with duplicate series should fail")
	}
}
