// Package metrics exports generalization search statistics as Prometheus
// collectors.
package metrics

import (
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/gitrdm/proxgen/pkg/generalize"
)

const (
	namespace = "proxgen"

	RuleLabel    = "rule"
	ModeLabel    = "mode"
	ResultLabel  = "result"
	PhaseLabel   = "phase"
	OutcomeLabel = "outcome"

	Succeeded = "succeeded"
	Failed    = "failed"
)

// Metrics holds the collectors registered for one registry.
type Metrics struct {
	Rules          *prometheus.CounterVec
	Branches       prometheus.Counter
	LinearConfigs  prometheus.Counter
	MaxQueue       prometheus.Gauge
	Conjunctions   *prometheus.CounterVec
	ConjBranches   prometheus.Counter
	Rejected       prometheus.Counter
	Merges         prometheus.Counter
	Solutions      prometheus.Counter
	Cache          *prometheus.CounterVec
	PhaseDurations *prometheus.HistogramVec
	Problems       *prometheus.CounterVec

	mu       sync.Mutex
	maxQueue int
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Rules: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_applications_total",
			Help:      "Applications of the TRI, DEC and SOL rules",
		}, []string{RuleLabel}),
		Branches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "configurations_total",
			Help:      "Configurations created by the rule engine",
		}),
		LinearConfigs: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "linear_configurations_total",
			Help:      "Configurations that reached an empty problem set",
		}),
		MaxQueue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "max_branch_queue",
			Help:      "Largest branch queue seen",
		}),
		Conjunctions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conjunctions_total",
			Help:      "Special conjunction runs by mode",
		}, []string{ModeLabel}),
		ConjBranches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conjunction_branches_total",
			Help:      "Branches explored by the special conjunction",
		}),
		Rejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_decompositions_total",
			Help:      "Decompositions dropped by the consistency check",
		}),
		Merges: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Solved AUTs absorbed by MERGE",
		}),
		Solutions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solutions_total",
			Help:      "Distinct solutions emitted",
		}),
		Cache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "common_proximates_cache_total",
			Help:      "Common proximates memo lookups by result",
		}, []string{ResultLabel}),
		PhaseDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Time spent in the search and post-processing phases",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{PhaseLabel}),
		Problems: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "problems_total",
			Help:      "Problems solved by outcome",
		}, []string{OutcomeLabel}),
	}
}

// Observe adds a statistics snapshot, typically of one solve.
func (m *Metrics) Observe(st generalize.Stats) {
	m.Rules.WithLabelValues("tri").Add(float64(st.Trivial))
	m.Rules.WithLabelValues("dec").Add(float64(st.Decompose))
	m.Rules.WithLabelValues("sol").Add(float64(st.Solve))
	m.Branches.Add(float64(st.Branches))
	m.LinearConfigs.Add(float64(st.LinearConfigs))
	m.Conjunctions.WithLabelValues("solution").Add(float64(st.Conjunctions))
	m.Conjunctions.WithLabelValues("check").Add(float64(st.ConsistencyChecks))
	m.ConjBranches.Add(float64(st.ConjBranches))
	m.Rejected.Add(float64(st.RejectedDecomposes))
	m.Merges.Add(float64(st.Merges))
	m.Solutions.Add(float64(st.Solutions))
	m.Cache.WithLabelValues("hit").Add(float64(st.CacheHits))
	m.Cache.WithLabelValues("miss").Add(float64(st.CacheMisses))
	m.observeDuration("search", st.SearchTime)
	m.observeDuration("post", st.PostTime)
	m.raiseMaxQueue(st.MaxQueue)
}

// ObserveOutcome counts one solved or failed problem.
func (m *Metrics) ObserveOutcome(err error) {
	if err != nil {
		m.Problems.WithLabelValues(Failed).Inc()
		return
	}
	m.Problems.WithLabelValues(Succeeded).Inc()
}

func (m *Metrics) observeDuration(phase string, d time.Duration) {
	if d > 0 {
		m.PhaseDurations.WithLabelValues(phase).Observe(d.Seconds())
	}
}

func (m *Metrics) raiseMaxQueue(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > m.maxQueue {
		m.maxQueue = n
		m.MaxQueue.Set(float64(n))
	}
}

// WriteText writes every metric family gathered from g in the Prometheus
// text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
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
