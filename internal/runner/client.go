package runner

import (
	"context"
	"errors"
	"time"

	"reqbench/internal/stats"
	"reqbench/internal/transport"
)

// runClient executes one client's round-trip loop on a private connection.
// Nothing it touches is shared with other clients until it returns.
func runClient(ctx context.Context, id int, cfg Config, payload []byte, dialer transport.Dialer) (*ClientResult, error) {
	res := &ClientResult{
		ID:      id,
		Runs:    cfg.Runs,
		Samples: make([]float64, cfg.Runs),
	}

	conn, err := dialer.Dial(ctx, cfg.Endpoint)
	if err != nil {
		return nil, clientErr(id, transport.OpConnect, err)
	}

	// zmq4 reads ignore ctx, so a blocked Request is released by closing the socket.
	stop := context.AfterFunc(ctx, func() { conn.Close() })

	buf := make([]byte, cfg.ReplySize)

	for i := 0; i < cfg.Warmup; i++ {
		if _, err := conn.Request(payload, buf); err != nil {
			return nil, abort(ctx, id, conn, stop, err)
		}
	}

	benchmarkStart := time.Now()
	for i := 0; i < cfg.Runs; i++ {
		if err := ctx.Err(); err != nil {
			return nil, abort(ctx, id, conn, stop, err)
		}

		requestStart := time.Now()
		_, err := conn.Request(payload, buf)
		elapsed := time.Since(requestStart)
		if err != nil {
			return nil, abort(ctx, id, conn, stop, err)
		}
		res.Samples[i] = float64(elapsed.Nanoseconds())
	}
	res.Runtime = float64(time.Since(benchmarkStart).Nanoseconds())

	if !stop() {
		return nil, clientErr(id, OpCanceled, ctx.Err())
	}
	if err := conn.Close(); err != nil {
		return nil, clientErr(id, transport.OpClose, err)
	}

	res.finalize()
	return res, nil
}

// finalize derives the summary statistics. Called exactly once per result.
func (r *ClientResult) finalize() {
	r.MaxLatency = stats.Max(r.Samples)
	r.AvgLatency = stats.Mean(r.Samples)
	r.StdLatency = stats.StdDev(r.AvgLatency, r.Samples)
	r.Throughput = r.Runtime / float64(r.Runs)
	if r.Throughput > 0 {
		r.ReqSec = 1.0 / (r.Throughput / float64(time.Second))
	}
}

// abort closes conn and labels err. Once ctx is done the cancellation is
// reported instead of the request error.
func abort(ctx context.Context, id int, conn transport.Requester, stop func() bool, err error) error {
	if stop() {
		conn.Close()
	}
	if ctx.Err() != nil {
		return clientErr(id, OpCanceled, ctx.Err())
	}
	return clientErr(id, transport.OpSend, err)
}

// clientErr labels err with the client index. A phase carried by a
// transport.OpError takes precedence over the fallback op.
func clientErr(id int, op string, err error) error {
	var opErr *transport.OpError
	if errors.As(err, &opErr) {
		op, err = opErr.Op, opErr.Err
	}
	return &ClientError{Client: id, Op: op, Err: err}
}
