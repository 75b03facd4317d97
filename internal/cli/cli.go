package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"reqbench/internal/report"
	"reqbench/internal/runner"
	"reqbench/internal/storage"
	"reqbench/internal/transport"
)

// Options carries the collaborators of a run. Zero values are usable.
type Options struct {
	Out    io.Writer
	Log    *zap.Logger
	Store  *storage.Store
	Dialer transport.Dialer
}

func (o Options) withDefaults() Options {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.Dialer == nil {
		o.Dialer = transport.NewZMQDialer()
	}
	return o
}

// Start runs the benchmark headless: it launches every client, waits for all
// of them, then prints and persists the results.
func Start(ctx context.Context, cfg runner.Config, opts Options) (*report.Report, error) {
	opts = opts.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	printHeader(opts.Out, cfg)

	results, err := runWithProgress(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}
	return Finish(cfg, results, opts)
}

func runWithProgress(ctx context.Context, cfg runner.Config, opts Options) ([]*runner.ClientResult, error) {
	updates := make(runner.StatsUpdateChan, cfg.Clients)
	r := runner.NewRunner(cfg, opts.Dialer, updates, opts.Log)

	opts.Log.Info("starting benchmark",
		zap.String("endpoint", cfg.Endpoint),
		zap.Int("runs", cfg.Runs),
		zap.Int("clients", cfg.Clients),
	)

	type outcome struct {
		results []*runner.ClientResult
		err     error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := r.Run(ctx)
		done <- outcome{res, err}
	}()

	finished := 0
	progress := func(u runner.ClientUpdate) {
		finished++
		pct := float64(finished) / float64(cfg.Clients)
		fmt.Fprintf(opts.Out, "\r%s %3.0f%% | clients %d/%d | last: thread %d after %s",
			progressBar(pct, 20), pct*100,
			finished, cfg.Clients,
			u.ID, u.Elapsed.Round(time.Millisecond),
		)
	}
	for {
		select {
		case u := <-updates:
			progress(u)
		case o := <-done:
			for len(updates) > 0 {
				progress(<-updates)
			}
			if finished > 0 {
				fmt.Fprintln(opts.Out)
			}
			return o.results, o.err
		}
	}
}

// Finish builds the report from joined results, prints it, writes the sample
// file and the optional reports and history entry.
func Finish(cfg runner.Config, results []*runner.ClientResult, opts Options) (*report.Report, error) {
	opts = opts.withDefaults()

	rep, err := report.Build(cfg, results)
	if err != nil {
		return nil, err
	}

	rep.Print(opts.Out)
	rep.PrintDistribution(opts.Out)

	if cfg.OutputFile != "" {
		if err := report.WriteSamplesFile(cfg.OutputFile, rep.Persisted); err != nil {
			if cfg.MergeSamples {
				return nil, fmt.Errorf("write merged samples of %d clients: %w", len(results), err)
			}
			return nil, fmt.Errorf("write samples of client %d: %w", len(results)-1, err)
		}
		opts.Log.Info("samples written", zap.String("file", cfg.OutputFile), zap.Int("samples", len(rep.Persisted)))
	}

	if err := handleAutoReport(opts.Out, rep, cfg); err != nil {
		return nil, err
	}

	if opts.Store != nil {
		if err := opts.Store.Save(storage.NewHistoryItem(rep)); err != nil {
			// A failed history write does not fail the run.
			opts.Log.Warn("failed to save history", zap.Error(err))
		} else {
			opts.Log.Debug("history saved", zap.String("id", rep.ID), zap.String("path", opts.Store.Path()))
		}
	}

	return rep, nil
}

func printHeader(w io.Writer, cfg runner.Config) {
	fmt.Fprintf(w, "\n🚀 STARTING REQBENCH\n")
	fmt.Fprintf(w, "======================================================================\n")
	fmt.Fprintf(w, "Endpoint   : %s\n", cfg.Endpoint)
	fmt.Fprintf(w, "Clients    : %d\n", cfg.Clients)
	fmt.Fprintf(w, "Runs       : %d per client (+%d warmup)\n", cfg.Runs, cfg.Warmup)
	fmt.Fprintf(w, "Payload    : %q (reply buffer %d bytes)\n", cfg.Payload, cfg.ReplySize)
	fmt.Fprintf(w, "Output     : %s\n", cfg.OutputFile)
	fmt.Fprintf(w, "======================================================================\n\n")
}

func progressBar(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("-", width-filled) + "]"
}

func handleAutoReport(w io.Writer, rep *report.Report, cfg runner.Config) error {
	if cfg.OutPrefix == "" {
		return nil
	}

	fmt.Fprintf(w, "\n💾 Generating reports with prefix: %s\n", cfg.OutPrefix)
	if err := rep.ExportAll(cfg.OutPrefix); err != nil {
		return fmt.Errorf("export reports: %w", err)
	}
	fmt.Fprintf(w, "✅ Reports saved to %s.csv and %s_summary.json\n", cfg.OutPrefix, cfg.OutPrefix)
	return nil
}
