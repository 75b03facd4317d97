package transport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-zeromq/zmq4"
)

// Requester performs synchronous request-reply round trips over one connection.
type Requester interface {
	// Request sends payload and blocks until the reply arrives. The reply is
	// copied into buf and truncated to its length; n is the full reply size.
	Request(payload, buf []byte) (n int, err error)
	Close() error
}

// Dialer opens a new private connection to the endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Requester, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context, endpoint string) (Requester, error)

func (f DialerFunc) Dial(ctx context.Context, endpoint string) (Requester, error) {
	return f(ctx, endpoint)
}

// NormalizeEndpoint turns a bare host:port into a tcp:// endpoint.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "tcp://" + endpoint
}

// ZMQDialer opens ZeroMQ REQ sockets.
type ZMQDialer struct {
	// Retry is the interval between connection attempts while the endpoint is not up yet.
	Retry time.Duration
	// MaxRetries bounds reconnection attempts; -1 retries forever.
	MaxRetries int
}

func NewZMQDialer() *ZMQDialer {
	return &ZMQDialer{
		Retry:      250 * time.Millisecond,
		MaxRetries: 10,
	}
}

func (d *ZMQDialer) Dial(ctx context.Context, endpoint string) (Requester, error) {
	sock := zmq4.NewReq(ctx,
		zmq4.WithDialerRetry(d.Retry),
		zmq4.WithDialerMaxRetries(d.MaxRetries),
	)
	if err := sock.Dial(NormalizeEndpoint(endpoint)); err != nil {
		sock.Close()
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}
	return &zmqRequester{sock: sock}, nil
}

type zmqRequester struct {
	sock zmq4.Socket
}

func (r *zmqRequester) Request(payload, buf []byte) (int, error) {
	if err := r.sock.Send(zmq4.NewMsg(payload)); err != nil {
		return 0, &OpError{Op: OpSend, Err: err}
	}
	msg, err := r.sock.Recv()
	if err != nil {
		return 0, &OpError{Op: OpRecv, Err: err}
	}
	reply := msg.Bytes()
	copy(buf, reply)
	return len(reply), nil
}

func (r *zmqRequester) Close() error {
	return r.sock.Close()
}
