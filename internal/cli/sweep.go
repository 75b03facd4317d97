package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"reqbench/internal/report"
	"reqbench/internal/runner"
	"reqbench/internal/storage"
)

// SweepRow is the outcome of one client count in a sweep.
type SweepRow struct {
	Clients int
	Report  *report.Report
}

// ParseCounts parses a comma separated list of client counts such as "1,2,4,8".
func ParseCounts(s string) ([]int, error) {
	var counts []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid client count %q: %w", part, err)
		}
		if n < 1 {
			return nil, fmt.Errorf("client count must be at least 1, got %d", n)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no client counts given")
	}
	return counts, nil
}

// Sweep runs the benchmark once per client count with the same per-client
// run count and prints one row per count. The sample file is not written.
func Sweep(ctx context.Context, cfg runner.Config, counts []int, opts Options) ([]SweepRow, error) {
	opts = opts.withDefaults()

	fmt.Fprintf(opts.Out, "\n📈 REQBENCH SWEEP\n")
	fmt.Fprintf(opts.Out, "======================================================================\n")
	fmt.Fprintf(opts.Out, "Endpoint : %s | Runs per client: %d\n", cfg.Endpoint, cfg.Runs)
	fmt.Fprintf(opts.Out, "======================================================================\n")
	fmt.Fprintf(opts.Out, "%8s %16s %14s %10s %10s %14s\n",
		"clients", "throughput(ns)", "avg(ns)", "p50(ms)", "p99(ms)", "req/sec")

	rows := make([]SweepRow, 0, len(counts))
	for _, n := range counts {
		c := cfg
		c.Clients = n
		if err := c.Validate(); err != nil {
			return rows, err
		}

		results, err := runner.NewRunner(c, opts.Dialer, nil, opts.Log).Run(ctx)
		if err != nil {
			return rows, fmt.Errorf("sweep with %d clients: %w", n, err)
		}
		rep, err := report.Build(c, results)
		if err != nil {
			return rows, err
		}

		fmt.Fprintf(opts.Out, "%8d %16.0f %14.0f %10.3f %10.3f %14.2f\n",
			n,
			rep.Global.Throughput,
			rep.Global.AvgLatency,
			quantileMs(rep, 50),
			quantileMs(rep, 99),
			rep.Global.ReqSec,
		)

		if opts.Store != nil {
			if err := opts.Store.Save(storage.NewHistoryItem(rep)); err != nil {
				opts.Log.Warn("failed to save history", zap.Error(err))
			}
		}
		rows = append(rows, SweepRow{Clients: n, Report: rep})
	}
	fmt.Fprintf(opts.Out, "======================================================================\n")
	return rows, nil
}

func quantileMs(rep *report.Report, q float64) float64 {
	for _, p := range rep.Distribution {
		if p.Quantile == q {
			return float64(p.Value) / 1e6
		}
	}
	return 0
}
