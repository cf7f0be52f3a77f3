package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/linguakit/core/config"
)

type sampleConfig struct {
	Name  string `env:"LINGUAKIT_TEST_NAME" envDefault:"default-name"`
	Count int    `env:"LINGUAKIT_TEST_COUNT" envDefault:"3"`
}

type requiredConfig struct {
	Secret string `env:"LINGUAKIT_TEST_REQUIRED,required"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		var cfg sampleConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "default-name", cfg.Name)
		assert.Equal(t, 3, cfg.Count)
	})

	t.Run("reads environment overrides", func(t *testing.T) {
		t.Setenv("LINGUAKIT_TEST_OVERRIDE", "from-env")

		type overrideConfig struct {
			Value string `env:"LINGUAKIT_TEST_OVERRIDE" envDefault:"fallback"`
		}
		var cfg overrideConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "from-env", cfg.Value)
	})

	t.Run("caches per type", func(t *testing.T) {
		var first sampleConfig
		require.NoError(t, config.Load(&first))

		// Changing the environment after the first load has no effect.
		t.Setenv("LINGUAKIT_TEST_NAME", "changed")
		var second sampleConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, first, second)
	})

	t.Run("fails on missing required value", func(t *testing.T) {
		var cfg requiredConfig
		assert.Error(t, config.Load(&cfg))
	})

	t.Run("rejects nil pointer", func(t *testing.T) {
		assert.Error(t, config.Load[sampleConfig](nil))
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("panics on missing required value", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg requiredConfig
			config.MustLoad(&cfg)
		})
	})
}
