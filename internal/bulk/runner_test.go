package bulk

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRunner(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{name: "one", n: 1},
		{name: "max", n: MaxConcurrency},
		{name: "zero", n: 0, wantErr: true},
		{name: "too many", n: MaxConcurrency + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRunner[int](tt.n)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConcurrency)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.n, r.Concurrency())
		})
	}

	assert.Equal(t, DefaultConcurrency, NewRunnerWithDefaults[int]().Concurrency())
}

func TestRunner_Run(t *testing.T) {
	ids := []int64{11, 12, 13, 14, 15, 16, 17}

	t.Run("all succeed", func(t *testing.T) {
		var calls atomic.Int32
		report, err := NewRunnerWithDefaults[int64]().Run(context.Background(), ids, func(_ context.Context, _ int64) error {
			calls.Add(1)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int32(7), calls.Load())
		assert.Equal(t, 7, report.Succeeded)
		assert.Empty(t, report.Failures)
		assert.NoError(t, report.Err())
	})

	t.Run("failures do not stop the others", func(t *testing.T) {
		boom := errors.New("not found")
		report, err := NewRunnerWithDefaults[int64]().Run(context.Background(), ids, func(_ context.Context, id int64) error {
			if id%3 == 0 {
				return boom
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 5, report.Succeeded)
		require.Len(t, report.Failures, 2)
		assert.Equal(t, int64(12), report.Failures[0].Item)
		assert.Equal(t, int64(15), report.Failures[1].Item)
		assert.Equal(t, 1, report.Failures[0].Index)

		joined := report.Err()
		require.ErrorIs(t, joined, boom)
		assert.Contains(t, joined.Error(), "12: not found")
	})

	t.Run("empty items", func(t *testing.T) {
		_, err := NewRunnerWithDefaults[int64]().Run(context.Background(), nil, func(context.Context, int64) error { return nil })
		assert.ErrorIs(t, err, ErrEmptyItems)
	})

	t.Run("nil callback", func(t *testing.T) {
		_, err := NewRunnerWithDefaults[int64]().Run(context.Background(), ids, nil)
		assert.ErrorIs(t, err, ErrNilCallback)
	})
}

func TestRunner_RespectsConcurrencyLimit(t *testing.T) {
	r, err := NewRunner[int](2)
	require.NoError(t, err)

	var inFlight, peak atomic.Int32
	_, err = r.Run(context.Background(), make([]int, 10), func(context.Context, int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRunner_CancelSkipsRemaining(t *testing.T) {
	r, err := NewRunner[int](1)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	report, err := r.Run(ctx, []int{1, 2, 3, 4, 5}, func(_ context.Context, item int) error {
		if item == 2 {
			cancel()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 5, report.Succeeded+len(report.Failures)+report.Skipped)
	require.ErrorIs(t, report.Err(), context.Canceled)
}

func TestRunner_Progress(t *testing.T) {
	var (
		mu    sync.Mutex
		snaps []ProgressSnapshot
	)
	r := NewRunnerWithDefaults[int]().WithProgressCallback(func(s ProgressSnapshot) {
		mu.Lock()
		defer mu.Unlock()
		snaps = append(snaps, s)
	})

	_, err := r.Run(context.Background(), []int{1, 2, 3, 4}, func(_ context.Context, item int) error {
		if item == 4 {
			return errors.New("nope")
		}
		return nil
	})
	require.NoError(t, err)

	require.Len(t, snaps, 4)
	last := snaps[0]
	for _, s := range snaps {
		if s.Done > last.Done {
			last = s
		}
	}
	assert.True(t, last.Complete())
	assert.Equal(t, 3, last.Succeeded)
	assert.Equal(t, 1, last.Failed)
	assert.InDelta(t, 100.0, last.PercentComplete, 0.001)
}

func TestProgress_Snapshot(t *testing.T) {
	p := NewProgress(4)
	assert.Zero(t, p.Snapshot().PercentComplete)

	p.Add(true)
	s := p.Add(false)
	assert.Equal(t, 2, s.Done)
	assert.InDelta(t, 50.0, s.PercentComplete, 0.001)
	assert.False(t, s.Complete())

	assert.Zero(t, NewProgress(0).Snapshot().PercentComplete)
}
