package report

import "reqbench/internal/runner"

// Summary holds the five averaged global statistics.
type Summary struct {
	Clients    int     `json:"clients"`
	Throughput float64 `json:"throughput_ns"`
	MaxLatency float64 `json:"max_latency_ns"`
	AvgLatency float64 `json:"avg_latency_ns"`
	StdLatency float64 `json:"std_latency_ns"`
	ReqSec     float64 `json:"req_sec"`
}

// Aggregate accumulates running sums of per-client statistics. It is owned by
// the coordinator and only used after every client has finished.
type Aggregate struct {
	throughput float64
	maxLatency float64
	avgLatency float64
	stdLatency float64
	reqSec     float64
}

func (a *Aggregate) Add(r *runner.ClientResult) {
	a.throughput += r.Throughput
	a.maxLatency += r.MaxLatency
	a.avgLatency += r.AvgLatency
	a.stdLatency += r.StdLatency
	a.reqSec += r.ReqSec
}

// Summary divides each running sum by clients.
func (a *Aggregate) Summary(clients int) Summary {
	if clients <= 0 {
		return Summary{}
	}
	n := float64(clients)
	return Summary{
		Clients:    clients,
		Throughput: a.throughput / n,
		MaxLatency: a.maxLatency / n,
		AvgLatency: a.avgLatency / n,
		StdLatency: a.stdLatency / n,
		ReqSec:     a.reqSec / n,
	}
}

// Count is the number of results added so far.