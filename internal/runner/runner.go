package runner

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reqbench/internal/transport"
)

type Runner struct {
	Cfg    Config
	Dialer transport.Dialer
	Log    *zap.Logger

	// Event Channel
	Updates StatsUpdateChan
}

func NewRunner(cfg Config, dialer transport.Dialer, updates StatsUpdateChan, log *zap.Logger) *Runner {
	if dialer == nil {
		dialer = transport.NewZMQDialer()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		Cfg:     cfg,
		Dialer:  dialer,
		Log:     log,
		Updates: updates,
	}
}

// Run starts one goroutine per client and blocks until all of them finish.
// Results are indexed by client ID regardless of completion order. The first
// client failure cancels the remaining clients and is returned.
func (r *Runner) Run(ctx context.Context) ([]*ClientResult, error) {
	if err := r.Cfg.Validate(); err != nil {
		return nil, err
	}

	payloads, err := NewTemplateEngine().RenderPayloads(r.Cfg.Payload, r.Cfg.Clients)
	if err != nil {
		return nil, err
	}

	results := make([]*ClientResult, r.Cfg.Clients)
	g, gctx := errgroup.WithContext(ctx)
	start := time.Now()

	for i := 0; i < r.Cfg.Clients; i++ {
		id := i
		cfg := r.Cfg
		payload := payloads[i]
		g.Go(func() error {
			res, err := runClient(gctx, id, cfg, payload, r.Dialer)
			if err != nil {
				r.Log.Error("client failed", zap.Int("client", id), zap.Error(err))
				return err
			}
			results[id] = res
			r.Log.Debug("client finished",
				zap.Int("client", id),
				zap.Float64("runtime_ns", res.Runtime),
				zap.Float64("avg_latency_ns", res.AvgLatency),
			)
			r.sendUpdate(ClientUpdate{ID: id, Elapsed: time.Since(start), Result: res})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Runner) sendUpdate(u ClientUpdate) {
	if r.Updates == nil {
		return
	}
	// Non-blocking send
	select {
	case r.Updates <- u:
	default:
		// Drop update if channel full, views only use it for progress
	}
}
