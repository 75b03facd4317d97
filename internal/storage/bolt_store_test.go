package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reqbench/internal/report"
	"reqbench/internal/runner"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func item(id string, ts time.Time, reqSec float64) HistoryItem {
	return HistoryItem{
		ID:        id,
		Timestamp: ts,
		Config:    runner.DefaultConfig(),
		Summary:   report.Summary{Clients: 2, ReqSec: reqSec},
	}
}

func TestSaveAndListNewestFirst(t *testing.T) {
	s := openStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	require.NoError(t, s.Save(item("aaaa-1", base, 10)))
	require.NoError(t, s.Save(item("bbbb-2", base.Add(time.Minute), 20)))
	require.NoError(t, s.Save(item("cccc-3", base.Add(-time.Minute), 30)))

	items, err := s.List()
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "bbbb-2", items[0].ID)
	assert.Equal(t, "aaaa-1", items[1].ID)
	assert.Equal(t, "cccc-3", items[2].ID)
	assert.Equal(t, 20.0, items[0].Summary.ReqSec)
	assert.Equal(t, runner.DefaultEndpoint, items[0].Config.Endpoint)
}

func TestGetByIDAndPrefix(t *testing.T) {
	s := openStore(t)
	now := time.Now()
	require.NoError(t, s.Save(item("0123abcd-ffff", now, 1)))
	require.NoError(t, s.Save(item("0123abce-eeee", now.Add(time.Second), 2)))

	got, err := s.Get("0123abcd-ffff")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Summary.ReqSec)

	got, err = s.Get("0123abce")
	require.NoError(t, err)
	assert.Equal(t, "0123abce-eeee", got.ID)

	_, err = s.Get("0123")
	assert.ErrorContains(t, err, "ambiguous")

	_, err = s.Get("nope-nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNewHistoryItemFromReport(t *testing.T) {
	res := &runner.ClientResult{ID: 0, Runs: 2, Samples: []float64{1000, 3000}, AvgLatency: 2000}
	rep, err := report.Build(runner.DefaultConfig(), []*runner.ClientResult{res})
	require.NoError(t, err)

	hi := NewHistoryItem(rep)
	assert.Equal(t, rep.ID, hi.ID)
	assert.Equal(t, 2000.0, hi.Summary.AvgLatency)
	assert.Len(t, hi.Latency, len(rep.Distribution))

	s := openStore(t)
	require.NoError(t, s.Save(hi))
	got, err := s.Get(hi.ID)
	require.NoError(t, err)
	assert.Equal(t, hi.Median, got.Median)
	assert.Equal(t, int64(2), got.Samples)
}
