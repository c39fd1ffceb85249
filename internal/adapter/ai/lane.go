package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Lane serializes outbound model calls through a single worker with a
// minimum spacing between call starts. It exists to respect provider call
// quotas: calls are never concurrent, only pipelined FIFO behind the spacing
// floor. A nil *Lane runs calls directly with no serialization.
type Lane struct {
	jobs    chan laneJob
	limiter *rate.Limiter
	done    chan struct{}
}

type laneJob struct {
	ctx context.Context
	fn  func() error
	out chan error
}

// NewLane starts the single worker. A minInterval <= 0 disables the lane:
// callers get back nil and run unserialized.
func NewLane(minInterval time.Duration) *Lane {
	if minInterval <= 0 {
		return nil
	}
	l := &Lane{
		jobs:    make(chan laneJob, 64),
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		done:    make(chan struct{}),
	}
	go l.work()
	return l
}

func (l *Lane) work() {
	for {
		select {
		case <-l.done:
			return
		case j := <-l.jobs:
			// A caller that gave up while queued must not consume a slot.
			if j.ctx.Err() != nil {
				j.out <- j.ctx.Err()
				continue
			}
			if err := l.limiter.Wait(j.ctx); err != nil {
				j.out <- err
				continue
			}
			j.out <- j.fn()
		}
	}
}

// Do enqueues fn and blocks until it has run, FIFO behind earlier calls.
// There is no mid-flight cancellation: once fn starts it runs to completion
// even if ctx expires, and only the wait is abandoned.
func (l *Lane) Do(ctx context.Context, fn func() error) error {
	if l == nil {
		return fn()
	}
	j := laneJob{ctx: ctx, fn: fn, out: make(chan error, 1)}
	select {
	case l.jobs <- j:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-j.out:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the worker. Queued jobs are dropped.
func (l *Lane) Close() {
	if l != nil {
		close(l.done)
	}
}
