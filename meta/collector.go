package meta

import "github.com/prometheus/client_golang/prometheus"

// Collector exports the Stats of a fixed set of engines as Prometheus
// counters labelled by pattern and engine kind.
//
//	reg := prometheus.NewRegistry()
//	reg.MustRegister(meta.NewCollector(engine))
type Collector struct {
	engines []*Engine

	searches   *prometheus.Desc
	runs       *prometheus.Desc
	steps      *prometheus.Desc
	candidates *prometheus.Desc
	misses     *prometheus.Desc
	abandoned  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector reading the given engines. Two engines
// with the same pattern and kind yield duplicate series and fail
// registration.
func NewCollector(engines ...*Engine) *Collector {
	labels := []string{"pattern", "engine"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName("twinvm", "", name), help, labels, nil)
	}
	return &Collector{
		engines:    append([]*Engine(nil), engines...),
		searches:   desc("searches_total", "Searches started."),
		runs:       desc("engine_runs_total", "Executions of the underlying engine."),
		steps:      desc("steps_total", "Instructions executed by the engine."),
		candidates: desc("prefilter_candidates_total", "Start positions proposed by the prefilter."),
		misses:     desc("prefilter_misses_total", "Prefilter candidates that did not match."),
		abandoned:  desc("prefilter_abandoned_total", "Searches that retired the prefilter."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.searches
	ch <- c.runs
	ch <- c.steps
	ch <- c.candidates
	ch <- c.misses
	ch <- c.abandoned
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, e := range c.engines {
		st := e.Stats()
		labels := []string{e.pattern, e.Kind().String()}
		counter := func(d *prometheus.Desc, v uint64) {
			ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
		}
		counter(c.searches, st.Searches)
		counter(c.runs, st.EngineRuns)
		counter(c.steps, st.Steps)
		counter(c.candidates, st.PrefilterCandidates)
		counter(c.misses, st.PrefilterMisses)
		counter(c.abandoned, st.PrefilterAbandoned)
	}
}
