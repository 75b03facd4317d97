package dummy

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"github.com/go-zeromq/zmq4"
)

const DefaultReply = "World"

type ServerConfig struct {
	// Endpoint to bind, e.g. tcp://*:5555. Port 0 picks a free port.
	Endpoint string
	Reply    string

	// Delay is added before every reply; Jitter adds up to that much more at random.
	Delay  time.Duration
	Jitter time.Duration
}

// Server is a ZeroMQ REP endpoint that answers every request with a fixed reply.
type Server struct {
	cfg    ServerConfig
	sock   zmq4.Socket
	cancel context.CancelFunc
	done   chan struct{}

	mu       sync.Mutex
	requests uint64
}

// Start binds the endpoint and serves in the background until ctx is done or Close is called.
func Start(ctx context.Context, cfg ServerConfig) (*Server, error) {
	if cfg.Reply == "" {
		cfg.Reply = DefaultReply
	}
	ctx, cancel := context.WithCancel(ctx)
	sock := zmq4.NewRep(ctx)
	if err := sock.Listen(cfg.Endpoint); err != nil {
		cancel()
		sock.Close()
		return nil, fmt.Errorf("listen %s: %w", cfg.Endpoint, err)
	}

	s := &Server{
		cfg:    cfg,
		sock:   sock,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.serve(ctx)
	return s, nil
}

func (s *Server) serve(ctx context.Context) {
	defer close(s.done)
	reply := zmq4.NewMsgString(s.cfg.Reply)
	for {
		if _, err := s.sock.Recv(); err != nil {
			// A peer going away surfaces here too; only shutdown ends the loop.
			if ctx.Err() != nil {
				return
			}
			time.Sleep(10 * time.Millisecond)
			continue
		}
		s.mu.Lock()
		s.requests++
		s.mu.Unlock()

		if d := s.delay(); d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return
			}
		}
		if err := s.sock.Send(reply); err != nil && ctx.Err() != nil {
			return
		}
	}
}

func (s *Server) delay() time.Duration {
	d := s.cfg.Delay
	if s.cfg.Jitter > 0 {
		d += time.Duration(rand.Int63n(int64(s.cfg.Jitter)))
	}
	return d
}

// Endpoint returns the bound tcp:// endpoint, with the real port when 0 was requested.
func (s *Server) Endpoint() string {
	addr, ok := s.sock.Addr().(*net.TCPAddr)
	if !ok || addr == nil {
		return s.cfg.Endpoint
	}
	host := addr.IP.String()
	if addr.IP == nil || addr.IP.IsUnspecified() {
		host = "127.0.0.1"
	}
	return fmt.Sprintf("tcp://%s", net.JoinHostPort(host, fmt.Sprint(addr.Port)))
}

// Requests reports how many requests the server has received.
func (s *Server) Requests() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Server) Close() error {
	s.cancel()
	err := s.sock.Close()
	<-s.done
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
