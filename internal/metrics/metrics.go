// Package metrics records per-endpoint request latencies in a bounded rolling
// window and computes nearest-rank p95 snapshots.
package metrics

import (
	"math"
	"sort"
	"sync"
)

// DefaultWindow is the number of recent samples retained per series.
const DefaultWindow = 1000

// EndpointStats is the external representation of one series.
type EndpointStats struct {
	// Count is the all-time number of recorded requests; it keeps growing
	// even as old samples fall out of the window.
	Count int64 `json:"count"`

	// P95Ms is the 95th-percentile latency over the current window, in
	// milliseconds, rounded to 2 decimal places. 0 for an empty window.
	P95Ms float64 `json:"p95_ms"`
}

// series holds the samples and lifetime count for one endpoint name.
// Invariant: len(samples) <= window, count >= len(samples).
type series struct {
	samples []float64
	count   int64
}

// Recorder aggregates duration samples keyed by endpoint name
// ("METHOD /route/pattern"). One coarse mutex guards the whole map; recording
// is cheap relative to request work, so contention is not a concern.
type Recorder struct {
	mu     sync.Mutex
	series map[string]*series
	window int
}

// NewRecorder creates a recorder retaining up to window samples per series.
// window <= 0 falls back to DefaultWindow.
func NewRecorder(window int) *Recorder {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Recorder{
		series: make(map[string]*series),
		window: window,
	}
}

// Record appends a duration sample (milliseconds) to the named series,
// evicting the oldest samples beyond the window, and bumps the all-time count.
func (r *Recorder) Record(name string, durationMs float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.series[name]
	if !ok {
		s = &series{}
		r.series[name] = s
	}

	s.samples = append(s.samples, durationMs)
	if overflow := len(s.samples) - r.window; overflow > 0 {
		// Copy down instead of re-slicing so evicted samples are freed
		s.samples = append(s.samples[:0], s.samples[overflow:]...)
	}
	s.count++
}

// Snapshot returns stats for every known series, with p95 computed over the
// current window only.
func (r *Recorder) Snapshot() map[string]EndpointStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := make(map[string]EndpointStats, len(r.series))
	for name, s := range r.series {
		snap[name] = EndpointStats{
			Count: s.count,
			P95Ms: round2(p95(s.samples)),
		}
	}
	return snap
}

// p95 computes the nearest-rank 95th percentile of samples.
func p95(samples []float64) float64 {
	if len(samples) == 0 {
		return 0.0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	idx := int(math.Round(0.95*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// round2 rounds to 2 decimal places for the external representation.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
