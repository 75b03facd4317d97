package report

import (
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"reqbench/internal/runner"
	"reqbench/internal/stats"
)

// Report is the coordinator's view of a finished run.
type Report struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Config    runner.Config          `json:"config"`
	Clients   []*runner.ClientResult `json:"clients"`
	Global    Summary                `json:"global"`

	SampleCount   int64              `json:"sample_count"`
	MedianLatency int64              `json:"median_latency_ns"`
	Distribution  []stats.Percentile `json:"distribution"`

	// Persisted is the sample list destined for the output file.
	Persisted []float64 `json:"-"`
}

// Build walks the results in client index order, accumulating the global
// averages and selecting the samples to persist: the last client's, or all
// clients' concatenated when MergeSamples is set.
func Build(cfg runner.Config, results []*runner.ClientResult) (*Report, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no client results")
	}

	rep := &Report{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Config:    cfg,
		Clients:   results,
	}

	var agg Aggregate
	hist := stats.NewSafeHistogram()
	for i, r := range results {
		if r == nil {
			return nil, fmt.Errorf("missing result for client %d", i)
		}
		agg.Add(r)
		if err := hist.RecordSamples(r.Samples); err != nil {
			return nil, fmt.Errorf("record samples for client %d: %w", i, err)
		}

		if cfg.MergeSamples {
			rep.Persisted = append(rep.Persisted, r.Samples...)
		} else if i == len(results)-1 {
			rep.Persisted = r.Samples
		}
	}

	rep.Global = agg.Summary(len(results))
	rep.SampleCount = hist.TotalCount()
	rep.MedianLatency = hist.ValueAtQuantile(50)
	rep.Distribution = hist.Distribution(stats.DefaultPercentiles)
	return rep, nil
}

// Print writes the per-client lines followed by the averaged global lines.
func (rep *Report) Print(w io.Writer) {
	for _, r := range rep.Clients {
		PrintClient(w, r)
	}
	PrintSummary(w, rep.Global)
}

// PrintClient writes one client's statistics tagged with its index.
func PrintClient(w io.Writer, r *runner.ClientResult) {
	fmt.Fprintf(w, "Runtime for thread %d is %f\n", r.ID, r.Runtime)
	fmt.Fprintf(w, "throughput for thread %d is %f\n", r.ID, r.Throughput)
	fmt.Fprintf(w, "max_latency for thread %d is %f\n", r.ID, r.MaxLatency)
	fmt.Fprintf(w, "avg_latency for thread %d is %f\n", r.ID, r.AvgLatency)
	fmt.Fprintf(w, "std_latency for thread %d is %f\n", r.ID, r.StdLatency)
	fmt.Fprintf(w, "req_sec for thread %d is %f\n", r.ID, r.ReqSec)
}

// PrintSummary writes the five averaged global statistics.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\n\nthroughput is %f\n", s.Throughput)
	fmt.Fprintf(w, "max_latency is %f\n", s.MaxLatency)
	fmt.Fprintf(w, "avg_latency is %f\n", s.AvgLatency)
	fmt.Fprintf(w, "std_latency is %f\n", s.StdLatency)
	fmt.Fprintf(w, "req_sec is %f\n", s.ReqSec)
}

// PrintDistribution writes the merged latency percentiles in milliseconds.
func (rep *Report) PrintDistribution(w io.Writer) {
	fmt.Fprintf(w, "\n⏱️  LATENCY DISTRIBUTION (ms) [all clients, %d samples]\n", rep.SampleCount)
	fmt.Fprintf(w, "   Median   : %.3f\n", nsToMs(rep.MedianLatency))
	for _, p := range rep.Distribution {
		fmt.Fprintf(w, "   P%-7s : %.3f\n", fmt.Sprint(p.Quantile), nsToMs(p.Value))
	}
}

func nsToMs(ns int64) float64 {
	return float64(ns) / float64(time.Millisecond)
}
