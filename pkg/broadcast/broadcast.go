package broadcast

import (
	"context"
	"sync"
)

// Message wraps the broadcast payload, leaving room for metadata without
// breaking the subscriber API.
type Message[T any] struct {
	Data T
}

// Broadcaster fans messages out to all current subscribers.
type Broadcaster[T any] interface {
	// Broadcast delivers msg to every subscriber able to receive it right
	// now. Subscribers with full buffers are skipped.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Subscribe registers a new subscriber bound to ctx. Cancelling ctx
	// detaches the subscriber.
	Subscribe(ctx context.Context) Subscriber[T]

	// Close detaches all subscribers and rejects further broadcasts.
	Close() error
}

// Subscriber receives broadcast messages.
type Subscriber[T any] interface {
	// Receive returns the subscriber's message channel. The channel is
	// closed when the subscriber or broadcaster closes, or ctx is done.
	Receive(ctx context.Context) <-chan Message[T]

	// Close detaches the subscriber from its broadcaster.
	Close() error
}

// MemoryBroadcaster is the in-memory Broadcaster implementation. Delivery
// is non-blocking per subscriber; each subscriber has its own buffered
// channel sized at construction time.
type MemoryBroadcaster[T any] struct {
	mu      sync.RWMutex
	subs    map[*memorySubscriber[T]]struct{}
	bufSize int
	closed  bool
}

// NewMemoryBroadcaster creates a broadcaster whose subscribers buffer up to
// bufSize messages each. A non-positive bufSize falls back to 1 so delivery
// stays non-blocking.
func NewMemoryBroadcaster[T any](bufSize int) *MemoryBroadcaster[T] {
	if bufSize < 1 {
		bufSize = 1
	}
	return &MemoryBroadcaster[T]{
		subs:    make(map[*memorySubscriber[T]]struct{}),
		bufSize: bufSize,
	}
}

// Broadcast delivers msg to every current subscriber. Subscribers whose
// buffers are full miss this message; the call never blocks on a slow
// consumer.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, msg Message[T]) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBroadcasterClosed
	}

	for sub := range b.subs {
		select {
		case sub.ch <- msg:
		default:
			// Drop for this subscriber rather than block the fan-out.
		}
	}
	return nil
}

// Subscribe registers a subscriber bound to ctx. The subscription is torn
// down when ctx is cancelled or Close is called on either side.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := &memorySubscriber[T]{
		ch:     make(chan Message[T], b.bufSize),
		done:   make(chan struct{}),
		parent: b,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.markClosed()
		return sub
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				sub.Close()
			case <-sub.done:
			}
		}()
	}

	return sub
}

// Close detaches all subscribers, closes their channels and rejects further
// broadcasts. Close is idempotent.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subs {
		sub.markClosed()
	}
	b.subs = make(map[*memorySubscriber[T]]struct{})
	return nil
}

// remove detaches a single subscriber; called from Subscriber.Close.
func (b *MemoryBroadcaster[T]) remove(sub *memorySubscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub)
}

type memorySubscriber[T any] struct {
	ch     chan Message[T]
	done   chan struct{}
	parent *MemoryBroadcaster[T]
	mu     sync.Mutex
	closed bool
}

// Receive returns the subscriber's channel. Callers typically range over it.
func (s *memorySubscriber[T]) Receive(ctx context.Context) <-chan Message[T] {
	return s.ch
}

// Close detaches the subscriber and closes its channel. Close is idempotent.
func (s *memorySubscriber[T]) Close() error {
	s.parent.remove(s)
	s.markClosed()
	return nil
}

func (s *memorySubscriber[T]) markClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
		close(s.done)
	}
}
