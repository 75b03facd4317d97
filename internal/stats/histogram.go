package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// DefaultPercentiles are the quantiles reported for the latency distribution.
var DefaultPercentiles = []float64{1, 25, 50, 75, 90, 99, 99.9, 99.99, 99.999}

// Percentile is one point of a latency distribution, in nanoseconds.
type Percentile struct {
	Quantile float64 `json:"quantile"`
	Value    int64   `json:"value_ns"`
}

// SafeHistogram is a thread-safe wrapper around hdrhistogram
type SafeHistogram struct {
	hist *hdrhistogram.Histogram
	mu   sync.Mutex
}

func NewSafeHistogram() *SafeHistogram {
	// 1ns to 10min, 3 significant figures
	h := hdrhistogram.New(1, int64(10*time.Minute), 3)
	return &SafeHistogram{hist: h}
}

// RecordValue records a latency in nanoseconds. Values above the trackable
// range are clamped to it.
func (h *SafeHistogram) RecordValue(v int64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v < 0 {
		v = 0
	}
	if hi := h.hist.HighestTrackableValue(); v > hi {
		v = hi
	}
	return h.hist.RecordValue(v)
}

// RecordSamples records a whole sample slice.
func (h *SafeHistogram) RecordSamples(samples []float64) error {
	for _, s := range samples {
		if err := h.RecordValue(int64(s)); err != nil {
			return err
		}
	}
	return nil
}

func (h *SafeHistogram) ValueAtQuantile(q float64) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.ValueAtQuantile(q)
}

func (h *SafeHistogram) TotalCount() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.TotalCount()
}

// Distribution returns the value at each requested quantile.
func (h *SafeHistogram) Distribution(quantiles []float64) []Percentile {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Percentile, 0, len(quantiles))
	for _, q := range quantiles {
		out = append(out, Percentile{Quantile: q, Value: h.hist.ValueAtQuantile(q)})
	}
	return out
}
