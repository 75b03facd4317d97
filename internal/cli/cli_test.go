package cli

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqbench/internal/dummy"
	"reqbench/internal/report"
	"reqbench/internal/runner"
	"reqbench/internal/storage"
	"reqbench/internal/transport"
)

var failingDialer = transport.DialerFunc(func(ctx context.Context, endpoint string) (transport.Requester, error) {
	return nil, errors.New("connection refused")
})

func startEndpoint(t *testing.T) *dummy.Server {
	t.Helper()
	srv, err := dummy.Start(context.Background(), dummy.ServerConfig{Endpoint: "tcp://127.0.0.1:0"})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func TestStartSingleClientScenario(t *testing.T) {
	srv := startEndpoint(t)
	dir := t.TempDir()

	cfg := runner.DefaultConfig()
	cfg.Endpoint = srv.Endpoint()
	cfg.Runs = 3
	cfg.Clients = 1
	cfg.OutputFile = filepath.Join(dir, "output.txt")

	var out bytes.Buffer
	rep, err := Start(context.Background(), cfg, Options{Out: &out})
	require.NoError(t, err)

	res := rep.Clients[0]
	assert.Less(t, res.MaxLatency, 1e9)
	assert.Less(t, res.AvgLatency, 1e9)
	assert.GreaterOrEqual(t, res.StdLatency, 0.0)
	assert.Less(t, res.StdLatency, 1e9)
	assert.Greater(t, res.ReqSec, 0.0)
	assert.False(t, math.IsInf(res.ReqSec, 0))

	samples, err := report.ReadSamplesFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Len(t, samples, 3)
	assert.Equal(t, uint64(3), srv.Requests())

	assert.Contains(t, out.String(), "Runtime for thread 0 is ")
	assert.Contains(t, out.String(), "req_sec for thread 0 is ")
	assert.Contains(t, out.String(), "\n\nthroughput is ")
	assert.Contains(t, out.String(), "req_sec is ")
}

func TestStartPersistsLastClientAndHistory(t *testing.T) {
	srv := startEndpoint(t)
	dir := t.TempDir()

	store, err := storage.NewStore(filepath.Join(dir, "history.db"))
	require.NoError(t, err)
	defer store.Close()

	cfg := runner.DefaultConfig()
	cfg.Endpoint = srv.Endpoint()
	cfg.Runs = 5
	cfg.Clients = 3
	cfg.OutputFile = filepath.Join(dir, "output.txt")
	cfg.OutPrefix = filepath.Join(dir, "report")

	rep, err := Start(context.Background(), cfg, Options{Out: &bytes.Buffer{}, Store: store})
	require.NoError(t, err)

	samples, err := report.ReadSamplesFile(cfg.OutputFile)
	require.NoError(t, err)
	require.Len(t, samples, 5)
	for i, v := range rep.Clients[2].Samples {
		assert.InDelta(t, v, samples[i], 1e-6)
	}

	assert.FileExists(t, cfg.OutPrefix+".csv")
	assert.FileExists(t, cfg.OutPrefix+"_summary.json")

	items, err := store.List()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, rep.ID, items[0].ID)
	assert.Equal(t, 3, items[0].Summary.Clients)
}

func TestStartConnectFailureNamesClient(t *testing.T) {
	cfg := runner.DefaultConfig()
	cfg.Endpoint = "tcp://127.0.0.1:1"
	cfg.OutputFile = filepath.Join(t.TempDir(), "output.txt")

	_, err := Start(context.Background(), cfg, Options{Out: &bytes.Buffer{}, Dialer: failingDialer})
	require.Error(t, err)

	var ce *runner.ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "connect", ce.Op)
	assert.NoFileExists(t, cfg.OutputFile)
}

func TestFinishWriteFailure(t *testing.T) {
	cfg := runner.DefaultConfig()
	cfg.OutputFile = filepath.Join(t.TempDir(), "no-such-dir", "output.txt")
	results := []*runner.ClientResult{{ID: 0, Runs: 1, Samples: []float64{1}}}

	_, err := Finish(cfg, results, Options{Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write samples of client 0")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFinishMergedWriteFailure(t *testing.T) {
	cfg := runner.DefaultConfig()
	cfg.MergeSamples = true
	cfg.OutputFile = filepath.Join(t.TempDir(), "no-such-dir", "output.txt")
	results := []*runner.ClientResult{
		{ID: 0, Runs: 1, Samples: []float64{1}},
		{ID: 1, Runs: 1, Samples: []float64{2}},
	}

	_, err := Finish(cfg, results, Options{Out: &bytes.Buffer{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write merged samples of 2 clients")
	assert.NotContains(t, err.Error(), "client 1")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSweep(t *testing.T) {
	srv := startEndpoint(t)

	cfg := runner.DefaultConfig()
	cfg.Endpoint = srv.Endpoint()
	cfg.Runs = 2

	var out bytes.Buffer
	rows, err := Sweep(context.Background(), cfg, []int{1, 2}, Options{Out: &out})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Clients)
	assert.Len(t, rows[1].Report.Clients, 2)
	assert.Equal(t, uint64(2+4), srv.Requests())
	assert.Contains(t, out.String(), "REQBENCH SWEEP")
}

func TestParseCounts(t *testing.T) {
	counts, err := ParseCounts("1, 2,4,,8")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 4, 8}, counts)

	_, err = ParseCounts("1,zero")
	assert.Error(t, err)
	_, err = ParseCounts("0")
	assert.EqualError(t, err, "client count must be at least 1, got 0")
	_, err = ParseCounts("")
	assert.Error(t, err)
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "[██--]", progressBar(0.5, 4))
	assert.Equal(t, "[████]", progressBar(1.5, 4))
	assert.Equal(t, "[----]", progressBar(-1, 4))
}
