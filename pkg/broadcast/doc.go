// Package broadcast provides a generic single-topic fan-out with non-blocking
// delivery.
//
// Every message is pushed to all currently connected subscribers. There is no
// per-subscriber addressing, no replay and no delivery guarantee: a subscriber
// whose buffer is full simply misses the message, so a slow consumer can
// never block the broadcaster or its peers. Subscribers self-filter on the
// message payload.
//
// # Usage
//
//	b := broadcast.NewMemoryBroadcaster[Event](100)
//	defer b.Close()
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	go func() {
//		for msg := range sub.Receive(ctx) {
//			handle(msg.Data)
//		}
//	}()
//
//	b.Broadcast(ctx, broadcast.Message[Event]{Data: ev})
//
// Subscriptions are cleaned up automatically when their context is cancelled.
// All types are safe for concurrent use.
package broadcast
