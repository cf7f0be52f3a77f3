// Package mongo provides MongoDB client initialization and a document-backed
// translation catalog store.
//
// The client wrapper carries application-level retry logic for cloud
// deployments, particularly MongoDB Atlas cold starts, so brief startup
// hiccups do not fail the application.
//
// Store implements catalog.Store on two collections: translation_keys holds
// key records with a monotonically allocated numeric id, translations holds
// one document per (key_id, language). All writes are upserts, so
// concurrent duplicate writers converge on a single record.
//
//	client, err := mongo.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Disconnect(ctx)
//
//	store := mongo.NewStore(client.Database("linguakit"))
//	if err := store.EnsureIndexes(ctx); err != nil {
//		log.Fatal(err)
//	}
package mongo
