// Package config provides type-safe environment variable loading with
// caching using Go generics. Each configuration type is loaded once and
// cached for subsequent calls.
//
// The package automatically loads .env files on first use and parses
// environment variables into struct fields via caarlos0/env.
//
//	type PGConfig struct {
//		ConnectionString string `env:"PG_CONN_URL,required"`
//		MaxOpenConns     int32  `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//	}
//
//	var cfg PGConfig
//	config.MustLoad(&cfg) // refuse to start on missing required values
//
// Misconfiguration is fatal at bind time on purpose: a translation service
// with a broken store connection should refuse to start rather than fail
// translations one request at a time.
package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type → parsed config value
)

// Load parses environment variables into cfg, which must be a non-nil
// pointer to a struct. The result is cached per concrete type; repeated
// calls return the first successfully loaded value.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return fmt.Errorf("config: nil config pointer")
	}

	dotenvOnce.Do(func() {
		// Missing .env files are fine; real deployments use the process env.
		_ = godotenv.Load()
	})

	typ := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", typ, err)
	}

	actual, _ := cache.LoadOrStore(typ, *cfg)
	*cfg = actual.(T)
	return nil
}

// MustLoad is Load that panics on failure. Use it during startup where a
// missing required variable must stop the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
