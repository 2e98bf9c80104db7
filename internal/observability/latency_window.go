package observability

import (
	"math"
	"sort"
	"sync"
	"time"
)

// LatencySnapshot summarizes the most recent turn round trips. It backs the
// perf endpoint so a developer can eyeball backend health without scraping
// Prometheus.
type LatencySnapshot struct {
	GeneratedAt time.Time `json:"generated_at"`
	WindowSize  int       `json:"window_size"`
	Samples     int       `json:"samples"`
	LastMS      float64   `json:"last_ms"`
	AvgMS       float64   `json:"avg_ms"`
	P50MS       float64   `json:"p50_ms"`
	P95MS       float64   `json:"p95_ms"`
}

// latencyWindow is a fixed-size ring of latency samples.
type latencyWindow struct {
	mu     sync.RWMutex
	values []float64
	next   int
	filled bool
	last   float64
}

func newLatencyWindow(maxSamples int) *latencyWindow {
	if maxSamples <= 0 {
		maxSamples = 256
	}
	return &latencyWindow{values: make([]float64, maxSamples)}
}

func (w *latencyWindow) Observe(ms float64) {
	if ms < 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	w.values[w.next] = ms
	w.last = ms
	w.next++
	if w.next >= len(w.values) {
		w.next = 0
		w.filled = true
	}
}

func (w *latencyWindow) Snapshot() LatencySnapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	n := w.next
	if w.filled {
		n = len(w.values)
	}

	snap := LatencySnapshot{
		GeneratedAt: time.Now().UTC(),
		WindowSize:  len(w.values),
		Samples:     n,
	}
	if n == 0 {
		return snap
	}

	samples := make([]float64, n)
	copy(samples, w.values[:n])
	sort.Float64s(samples)

	sum := 0.0
	for _, v := range samples {
		sum += v
	}

	snap.LastMS = round2(w.last)
	snap.AvgMS = round2(sum / float64(n))
	snap.P50MS = round2(quantile(samples, 0.50))
	snap.P95MS = round2(quantile(samples, 0.95))
	return snap
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := q * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
