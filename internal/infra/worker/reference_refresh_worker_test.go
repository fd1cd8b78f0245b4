package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/leadboard/internal/infra/worker"
	"github.com/xavierca1/leadboard/internal/logger"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) LoadReference(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestRefreshesImmediatelyAndOnTick(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &countingRefresher{err: errors.New("agents down")}
	w := worker.NewReferenceRefreshWorker(r, 10*time.Millisecond, logger.NewNop())

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return r.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}

func TestZeroIntervalRefreshesOnce(t *testing.T) {
	r := &countingRefresher{}
	w := worker.NewReferenceRefreshWorker(r, 0, logger.NewNop())

	w.Start(context.Background())

	assert.Equal(t, int32(1), r.calls.Load())
}
