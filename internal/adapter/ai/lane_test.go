package ai_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranqi-ly/soul-matrix-ai/internal/adapter/ai"
)

func TestLane_NilWhenDisabled(t *testing.T) {
	assert.Nil(t, ai.NewLane(0))
	assert.Nil(t, ai.NewLane(-time.Second))
}

func TestLane_NilLaneRunsDirectly(t *testing.T) {
	var l *ai.Lane
	ran := false
	err := l.Do(context.Background(), func() error { ran = true; return nil })
	require.NoError(t, err)
	assert.True(t, ran)
	l.Close()
}

func TestLane_RunsJobsInSubmissionOrder(t *testing.T) {
	l := ai.NewLane(time.Millisecond)
	defer l.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		// Submit sequentially so FIFO order is well defined, collect async.
		done := make(chan struct{})
		go func() {
			defer wg.Done()
			_ = l.Do(context.Background(), func() error {
				mu.Lock()
				order = append(order, i)
				mu.Unlock()
				return nil
			})
			close(done)
		}()
		<-done
	}
	wg.Wait()
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestLane_EnforcesSpacingFloor(t *testing.T) {
	const interval = 40 * time.Millisecond
	l := ai.NewLane(interval)
	defer l.Close()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Do(context.Background(), func() error { return nil }))
	}
	// First call is immediate, the next two each wait out the interval.
	assert.GreaterOrEqual(t, time.Since(start), 2*interval-5*time.Millisecond)
}

func TestLane_CancelledCallerDoesNotConsumeSlot(t *testing.T) {
	l := ai.NewLane(10 * time.Millisecond)
	defer l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := l.Do(ctx, func() error {
		t.Fatal("cancelled job must not run")
		return nil
	})
	assert.Error(t, err)
}
