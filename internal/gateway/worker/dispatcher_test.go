package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestDispatcher(t *testing.T) {
	t.Run("runs submitted tasks", func(t *testing.T) {
		d := NewDispatcher(2, 8, time.Second, zerolog.Nop())
		d.Start()

		var ran atomic.Int32
		for i := 0; i < 5; i++ {
			d.Submit("work", func(context.Context) error {
				ran.Add(1)
				return nil
			})
		}

		d.Stop()
		require.EqualValues(t, 5, ran.Load())
	})

	t.Run("failed task does not stop the pool", func(t *testing.T) {
		d := NewDispatcher(1, 8, time.Second, zerolog.Nop())
		d.Start()

		var ran atomic.Int32
		d.Submit("work-1", func(context.Context) error {
			return errors.New("downstream is down")
		})
		d.Submit("work-2", func(context.Context) error {
			ran.Add(1)
			return nil
		})

		d.Stop()
		require.EqualValues(t, 1, ran.Load())
	})

	t.Run("panicking task does not kill the worker", func(t *testing.T) {
		d := NewDispatcher(1, 8, time.Second, zerolog.Nop())
		d.Start()

		var ran atomic.Int32
		d.Submit("work-1", func(context.Context) error {
			panic("boom")
		})
		d.Submit("work-2", func(context.Context) error {
			ran.Add(1)
			return nil
		})

		d.Stop()
		require.EqualValues(t, 1, ran.Load())
	})

	t.Run("drops tasks when the queue is full", func(t *testing.T) {
		d := NewDispatcher(1, 1, time.Second, zerolog.Nop())
		d.Start()

		started := make(chan struct{})
		release := make(chan struct{})
		var ran atomic.Int32

		d.Submit("work-1", func(context.Context) error {
			close(started)
			<-release
			ran.Add(1)
			return nil
		})
		<-started // the worker is now busy

		d.Submit("work-2", func(context.Context) error { // queued
			ran.Add(1)
			return nil
		})
		d.Submit("work-3", func(context.Context) error { // dropped
			ran.Add(1)
			return nil
		})

		close(release)
		d.Stop()
		require.EqualValues(t, 2, ran.Load())
	})

	t.Run("task context carries the timeout", func(t *testing.T) {
		d := NewDispatcher(1, 1, 50*time.Millisecond, zerolog.Nop())
		d.Start()

		var deadlineSet atomic.Bool
		d.Submit("work", func(ctx context.Context) error {
			_, ok := ctx.Deadline()
			deadlineSet.Store(ok)
			return nil
		})

		d.Stop()
		require.True(t, deadlineSet.Load())
	})
}
