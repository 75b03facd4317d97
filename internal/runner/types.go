package runner

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultEndpoint   = "tcp://localhost:5555"
	DefaultRuns       = 10
	DefaultClients    = 2
	DefaultPayload    = "Hello"
	DefaultReplySize  = 10
	DefaultOutputFile = "output.txt"
)

// Config is read once at startup and never mutated afterwards.
type Config struct {
	Endpoint string `json:"endpoint"`
	Runs     int    `json:"runs"`
	Clients  int    `json:"clients"`

	// Warmup requests are sent before timing starts and are not recorded.
	Warmup    int    `json:"warmup"`
	Payload   string `json:"payload"`
	ReplySize int    `json:"reply_size"`

	OutputFile   string `json:"output_file"`
	MergeSamples bool   `json:"merge_samples"`
	// OutPrefix enables CSV/JSON auto-reports when set.
	OutPrefix string `json:"out_prefix,omitempty"`
}

// DefaultConfig mirrors the reference harness: 2 clients, 10 runs each.
func DefaultConfig() Config {
	return Config{
		Endpoint:   DefaultEndpoint,
		Runs:       DefaultRuns,
		Clients:    DefaultClients,
		Payload:    DefaultPayload,
		ReplySize:  DefaultReplySize,
		OutputFile: DefaultOutputFile,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Endpoint == "":
		return errors.New("endpoint is required")
	case c.Runs < 1:
		return fmt.Errorf("runs must be at least 1, got %d", c.Runs)
	case c.Clients < 1:
		return fmt.Errorf("clients must be at least 1, got %d", c.Clients)
	case c.Warmup < 0:
		return fmt.Errorf("warmup must not be negative, got %d", c.Warmup)
	case c.ReplySize < 1:
		return fmt.Errorf("reply size must be at least 1, got %d", c.ReplySize)
	}
	return nil
}

// ClientResult is owned by its worker until the worker returns it, and is
// read-only afterwards.
type ClientResult struct {
	ID int `json:"client"`
	// Samples holds per-request latency in nanoseconds, in request order.
	Samples []float64 `json:"-"`
	// Runtime is the wall-clock time of the timed loop in nanoseconds.
	Runtime float64 `json:"runtime_ns"`
	Runs    int     `json:"runs"`

	Throughput float64 `json:"throughput_ns"`
	MaxLatency float64 `json:"max_latency_ns"`
	AvgLatency float64 `json:"avg_latency_ns"`
	StdLatency float64 `json:"std_latency_ns"`
	ReqSec     float64 `json:"req_sec"`
}

// ClientUpdate is emitted once per client as soon as it finishes.
type ClientUpdate struct {
	ID      int
	Elapsed time.Duration
	Result  *ClientResult
}

// StatsUpdateChan carries completion updates to progress views.
type StatsUpdateChan chan ClientUpdate

// OpCanceled labels a client stopped because the run was cancelled, either by
// another client's failure or by the caller.
const OpCanceled = "canceled"

// ClientError identifies which client failed and in which phase.
type ClientError struct {
	Client int
	Op     string
	Err    error
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("client %d: %s: %v", e.Client, e.Op, e.Err)
}

func (e *ClientError) Unwrap() error { return e.Err }
