package storage

import (
	"time"

	"reqbench/internal/report"
	"reqbench/internal/runner"
	"reqbench/internal/stats"
)

type HistoryItem struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Config    runner.Config      `json:"config"`
	Summary   report.Summary     `json:"summary"`
	Samples   int64              `json:"sample_count"`
	Median    int64              `json:"median_latency_ns"`
	Latency   []stats.Percentile `json:"distribution"`
}

// NewHistoryItem captures the parts of a report worth keeping across runs.
// Raw samples are left out; they live in the output file and CSV report.
func NewHistoryItem(rep *report.Report) HistoryItem {
	return HistoryItem{
		ID:        rep.ID,
		Timestamp: rep.Timestamp,
		Config:    rep.Config,
		Summary:   rep.Global,
		Samples:   rep.SampleCount,
		Median:    rep.MedianLatency,
		Latency:   rep.Distribution,
	}
}
