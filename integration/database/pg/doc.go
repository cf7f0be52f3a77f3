// Package pg provides PostgreSQL connection management, schema migrations
// and the relational catalog.Store backend.
//
// Connect wraps pgxpool with application-level retry logic so services
// restarting alongside the database do not crash-loop on transient
// connection errors. Migrate applies the embedded goose migrations.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err) // misconfiguration is fatal at startup
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool); err != nil {
//		log.Fatal(err)
//	}
//
//	store := pg.NewStore(pool)
//
// The store relies on ON CONFLICT upserts keyed by the natural unique keys
// (key) and (key_id, language), so concurrent duplicate background jobs
// converge to a single row instead of raising uniqueness violations.
package pg
