package dummy

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqbench/internal/transport"
)

func TestServerEchoesFixedReply(t *testing.T) {
	srv, err := Start(context.Background(), ServerConfig{Endpoint: "tcp://127.0.0.1:0"})
	require.NoError(t, err)
	defer srv.Close()

	assert.True(t, strings.HasPrefix(srv.Endpoint(), "tcp://127.0.0.1:"))
	assert.NotEqual(t, "tcp://127.0.0.1:0", srv.Endpoint())

	conn, err := transport.NewZMQDialer().Dial(context.Background(), srv.Endpoint())
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 3)
	for i := 0; i < 3; i++ {
		n, err := conn.Request([]byte("Hello"), buf)
		require.NoError(t, err)
		assert.Equal(t, len(DefaultReply), n)
		assert.Equal(t, "Wor", string(buf))
	}
	assert.Equal(t, uint64(3), srv.Requests())
}

func TestServerDelay(t *testing.T) {
	srv, err := Start(context.Background(), ServerConfig{
		Endpoint: "tcp://127.0.0.1:0",
		Reply:    "pong",
		Delay:    20 * time.Millisecond,
	})
	require.NoError(t, err)
	defer srv.Close()

	conn, err := transport.NewZMQDialer().Dial(context.Background(), srv.Endpoint())
	require.NoError(t, err)
	defer conn.Close()

	buf := make([]byte, 10)
	start := time.Now()
	n, err := conn.Request([]byte("ping"), buf)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Equal(t, "pong", string(buf[:n]))
}

func TestStartRejectsBadEndpoint(t *testing.T) {
	_, err := Start(context.Background(), ServerConfig{Endpoint: "bogus://nowhere"})
	assert.Error(t, err)
}
