/****************************************************************************
BSD 3-Clause License

Copyright (c) 2021, 🍀☀🌕🌥 🌊
All rights reserved.
****************************************************************************/

// Package metrics implements the container's bookkeeping counters and
// latency histogram (§3.4/§4.9), grounded on the teacher's
// container/core/value_store.go statistics fields (readCount/writeCount/
// serializationCount as atomic.Uint64), extended with a reservoir-sampled
// histogram and mirrored to Prometheus per SPEC_FULL.md §4.11.
package metrics

import (
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const reservoirCapacity = 1024

// Kind identifies one of the six operation counters §3.4 names.
type Kind int

const (
	KindRead Kind = iota
	KindWrite
	KindSerialize
	KindDeserialize
	KindCopy
	KindMove
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindWrite:
		return "write"
	case KindSerialize:
		return "serialize"
	case KindDeserialize:
		return "deserialize"
	case KindCopy:
		return "copy"
	case KindMove:
		return "move"
	default:
		return "unknown"
	}
}

// Snapshot is the point-in-time view of a Registry's bookkeeping (§3.4).
type Snapshot struct {
	Counts         map[Kind]uint64
	NanosTotal     map[Kind]uint64
	P50, P95, P99, P999 time.Duration
}

// Registry holds the atomic counters and the latency reservoir for one
// container instance, plus an optional Prometheus mirror.
type Registry struct {
	enabled atomic.Bool

	counts     [6]atomic.Uint64
	nanosTotal [6]atomic.Uint64

	mu        sync.Mutex
	reservoir []time.Duration
	seen      uint64
	rng       *rand.Rand

	promCounters *prometheus.CounterVec
	promHist     prometheus.Histogram
}

// New creates a Registry with metrics enabled by default.
func New() *Registry {
	r := &Registry{rng: rand.New(rand.NewSource(1))}
	r.enabled.Store(true)
	return r
}

// Enable toggles metrics collection globally for this registry; when
// disabled, RecordOp is a no-op (§4.9).
func (r *Registry) Enable(on bool) { r.enabled.Store(on) }

// EnablePrometheus lazily registers a CounterVec and Histogram against reg,
// mirroring the in-process counters (SPEC_FULL.md §4.11). Safe to call more
// than once; only the first call registers collectors.
func (r *Registry) EnablePrometheus(reg prometheus.Registerer, namespace string) error {
	if r.promCounters != nil {
		return nil
	}
	counters := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "container_operations_total",
		Help:      "Count of container operations by kind.",
	}, []string{"kind"})
	hist := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "container_operation_latency_seconds",
		Help:      "Latency of container operations.",
		Buckets:   prometheus.DefBuckets,
	})
	if err := reg.Register(counters); err != nil {
		return err
	}
	if err := reg.Register(hist); err != nil {
		return err
	}
	r.promCounters = counters
	r.promHist = hist
	return nil
}

// RecordOp increments the counter for kind and adds elapsed to both the
// cumulative nanosecond total and the latency reservoir.
func (r *Registry) RecordOp(kind Kind, elapsed time.Duration) {
	if !r.enabled.Load() {
		return
	}
	r.counts[kind].Add(1)
	r.nanosTotal[kind].Add(uint64(elapsed.Nanoseconds()))

	if r.promCounters != nil {
		r.promCounters.WithLabelValues(kind.String()).Inc()
		r.promHist.Observe(elapsed.Seconds())
	}

	r.observe(elapsed)
}

// observe implements reservoir sampling (capacity 1024, Algorithm R).
func (r *Registry) observe(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seen++
	if len(r.reservoir) < reservoirCapacity {
		r.reservoir = append(r.reservoir, d)
		return
	}
	j := r.rng.Int63n(int64(r.seen))
	if j < reservoirCapacity {
		r.reservoir[j] = d
	}
}

// Snapshot returns the current counters and percentile estimates.
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Counts:     make(map[Kind]uint64, 6),
		NanosTotal: make(map[Kind]uint64, 6),
	}
	for k := KindRead; k <= KindMove; k++ {
		s.Counts[k] = r.counts[k].Load()
		s.NanosTotal[k] = r.nanosTotal[k].Load()
	}

	r.mu.Lock()
	sorted := make([]time.Duration, len(r.reservoir))
	copy(sorted, r.reservoir)
	r.mu.Unlock()

	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	s.P50 = percentile(sorted, 0.50)
	s.P95 = percentile(sorted, 0.95)
	s.P99 = percentile(sorted, 0.99)
	s.P999 = percentile(sorted, 0.999)
	return s
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
