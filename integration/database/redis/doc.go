// Package redis provides Redis client initialization and the Redis-backed
// shared translation cache.
//
// The Cache implements cache.SharedCache with the same contract as the
// in-process TTL cache but shared across all instances of the service, so
// a translation completed by one instance's background job is immediately
// visible to the cache tier of every other instance.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	shared := redis.NewCache(client, redis.WithTTL(30*time.Minute))
//
// Cache errors never surface: a broken Redis degrades reads to store
// read-through, not to request failures.
package redis
