package broadcast_test

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/linguakit/pkg/broadcast"
)

func TestMemoryBroadcaster(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all subscribers", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](10)
		defer b.Close()
		ctx := context.Background()

		sub1 := b.Subscribe(ctx)
		defer sub1.Close()
		sub2 := b.Subscribe(ctx)
		defer sub2.Close()

		require.NoError(t, b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"}))

		for _, sub := range []broadcast.Subscriber[string]{sub1, sub2} {
			select {
			case msg := <-sub.Receive(ctx):
				assert.Equal(t, "hello", msg.Data)
			case <-time.After(time.Second):
				t.Fatal("timeout waiting for message")
			}
		}
	})

	t.Run("slow consumer misses messages instead of blocking", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[int](1)
		defer b.Close()
		ctx := context.Background()

		sub := b.Subscribe(ctx)
		defer sub.Close()

		// Second broadcast overflows the buffer of 1 and is dropped for
		// this subscriber; neither call may block.
		done := make(chan struct{})
		go func() {
			defer close(done)
			require.NoError(t, b.Broadcast(ctx, broadcast.Message[int]{Data: 1}))
			require.NoError(t, b.Broadcast(ctx, broadcast.Message[int]{Data: 2}))
		}()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("broadcast blocked on a slow consumer")
		}

		msg := <-sub.Receive(ctx)
		assert.Equal(t, 1, msg.Data)
	})

	t.Run("context cancellation detaches the subscriber", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		assert.Eventually(t, func() bool {
			select {
			case _, open := <-sub.Receive(context.Background()):
				return !open
			default:
				return false
			}
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("broadcast after close returns error", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())

		err := b.Broadcast(context.Background(), broadcast.Message[string]{Data: "x"})
		assert.ErrorIs(t, err, broadcast.ErrBroadcasterClosed)
	})

	t.Run("subscribe after close yields a closed channel", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, open := <-sub.Receive(context.Background())
		assert.False(t, open)
	})

	t.Run("subscriber close is idempotent", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[string](10)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NoError(t, sub.Close())
		require.NoError(t, sub.Close())
	})

	t.Run("manual close releases the context watcher", func(t *testing.T) {
		b := broadcast.NewMemoryBroadcaster[string](10)
		defer b.Close()

		before := runtime.NumGoroutine()
		for range 100 {
			sub := b.Subscribe(context.Background())
			require.NoError(t, sub.Close())
		}

		assert.Eventually(t, func() bool {
			return runtime.NumGoroutine() < before+50
		}, time.Second, 10*time.Millisecond, "watcher goroutines must exit after Close")
	})

	t.Run("concurrent broadcasters and subscribers", func(t *testing.T) {
		t.Parallel()

		b := broadcast.NewMemoryBroadcaster[int](100)
		defer b.Close()
		ctx := context.Background()

		var wg sync.WaitGroup
		for range 5 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				sub := b.Subscribe(ctx)
				defer sub.Close()
				for range 10 {
					_ = b.Broadcast(ctx, broadcast.Message[int]{Data: 1})
				}
			}()
		}
		wg.Wait()
	})
}
