package scheduler

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ternarybob/arbor"
)

func TestScheduler(t *testing.T) {
	t.Run("Invalid cron expression errors", func(t *testing.T) {
		svc := NewService(func(ctx context.Context) bool { return true }, arbor.NewLogger())

		assert.Error(t, svc.Start("not a cron expression"))
		assert.False(t, svc.IsRunning())
	})

	t.Run("Start and stop", func(t *testing.T) {
		svc := NewService(func(ctx context.Context) bool { return true }, arbor.NewLogger())

		assert.NoError(t, svc.Start("0 9 * * *"))
		assert.True(t, svc.IsRunning())
		assert.Error(t, svc.Start("0 9 * * *"), "double start must error")

		svc.Stop()
		assert.False(t, svc.IsRunning())
	})

	t.Run("Tick runs the pipeline once", func(t *testing.T) {
		var runs int32
		svc := NewService(func(ctx context.Context) bool {
			atomic.AddInt32(&runs, 1)
			return true
		}, arbor.NewLogger())

		svc.tick()

		assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
		assert.NotNil(t, svc.LastRun())
	})

	t.Run("Overlapping tick is skipped", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		var runs int32

		svc := NewService(func(ctx context.Context) bool {
			atomic.AddInt32(&runs, 1)
			close(started)
			<-release
			return true
		}, arbor.NewLogger())

		done := make(chan struct{})
		go func() {
			svc.tick()
			close(done)
		}()
		<-started

		// Second tick while the first run is still in flight
		svc.tick()
		close(release)
		<-done

		assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
	})
}
