package chunker_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/linguakit/core/chunker"
)

// recordingAdapter echoes inputs back and records every call, which lets
// tests inspect segment boundaries exactly.
type recordingAdapter struct {
	mu      sync.Mutex
	singles []string
	batches []map[string]string
}

func (a *recordingAdapter) Translate(ctx context.Context, text, targetLang, sourceLang string) string {
	a.mu.Lock()
	a.singles = append(a.singles, text)
	a.mu.Unlock()
	return text
}

func (a *recordingAdapter) TranslateBatch(ctx context.Context, items map[string]string, targetLang, sourceLang string) map[string]string {
	a.mu.Lock()
	a.batches = append(a.batches, items)
	a.mu.Unlock()
	out := make(map[string]string, len(items))
	for k, v := range items {
		out[k] = v
	}
	return out
}

func TestChunker_Translate(t *testing.T) {
	t.Parallel()

	t.Run("short text passes through unchanged", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner, chunker.WithChunkLength(100))

		got := c.Translate(context.Background(), "short text", "fr", "en")
		assert.Equal(t, "short text", got)
		require.Len(t, inner.singles, 1, "exactly one inner call")
		assert.Equal(t, "short text", inner.singles[0])
	})

	t.Run("text at the limit is not split", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner, chunker.WithChunkLength(10))

		text := strings.Repeat("a", 10)
		c.Translate(context.Background(), text, "fr", "en")
		require.Len(t, inner.singles, 1)
	})

	t.Run("long text is split and fully covered", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner, chunker.WithChunkLength(50))

		text := strings.Repeat("lorem ipsum dolor sit amet ", 20)
		got := c.Translate(context.Background(), text, "fr", "en")

		// Echo adapter + zero overlap: concatenation reproduces the input
		// with no characters dropped at boundaries.
		assert.Equal(t, text, got)
		assert.Greater(t, len(inner.singles), 1)
		for _, seg := range inner.singles {
			assert.LessOrEqual(t, len([]rune(seg)), 50)
		}
	})

	t.Run("prefers whitespace breaks near the boundary", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner, chunker.WithChunkLength(30))

		text := strings.Repeat("word ", 20)
		c.Translate(context.Background(), text, "fr", "en")

		for i, seg := range inner.singles {
			if i == len(inner.singles)-1 {
				continue
			}
			assert.True(t, strings.HasSuffix(seg, " "), "segment %d should break after whitespace: %q", i, seg)
		}
	})

	t.Run("unbroken text splits hard at the boundary", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner, chunker.WithChunkLength(10))

		text := strings.Repeat("x", 25)
		got := c.Translate(context.Background(), text, "fr", "en")
		assert.Equal(t, text, got)
		assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, inner.singles)
	})

	t.Run("overlap repeats trailing runes of the previous segment", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner,
			chunker.WithChunkLength(10),
			chunker.WithOverlap(3),
		)

		text := strings.Repeat("x", 20)
		c.Translate(context.Background(), text, "fr", "en")

		require.GreaterOrEqual(t, len(inner.singles), 2)
		first, second := inner.singles[0], inner.singles[1]
		assert.Equal(t, first[len(first)-3:], second[:3], "next segment starts overlap runes before the previous end")
	})

	t.Run("multibyte runes are never split mid-character", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner, chunker.WithChunkLength(10))

		text := strings.Repeat("日本語テキスト", 5)
		got := c.Translate(context.Background(), text, "fr", "ja")
		assert.Equal(t, text, got)
		for _, seg := range inner.singles {
			assert.True(t, strings.HasPrefix(text, seg) || strings.Contains(text, seg))
		}
	})
}

func TestChunker_TranslateBatch(t *testing.T) {
	t.Parallel()

	t.Run("small items go through the native batch call", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner, chunker.WithChunkLength(100))

		items := map[string]string{"a": "one", "b": "two"}
		out := c.TranslateBatch(context.Background(), items, "fr", "en")

		assert.Equal(t, items, out)
		require.Len(t, inner.batches, 1)
		assert.Empty(t, inner.singles)
	})

	t.Run("oversized items take the chunked single path", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner, chunker.WithChunkLength(10))

		long := strings.Repeat("y", 25)
		items := map[string]string{"short": "hi", "long": long}
		out := c.TranslateBatch(context.Background(), items, "fr", "en")

		assert.Equal(t, "hi", out["short"])
		assert.Equal(t, long, out["long"])
		require.Len(t, inner.batches, 1)
		assert.Equal(t, map[string]string{"short": "hi"}, inner.batches[0])
		assert.NotEmpty(t, inner.singles)
	})

	t.Run("batch of only oversized items skips the inner batch call", func(t *testing.T) {
		t.Parallel()

		inner := &recordingAdapter{}
		c := chunker.Wrap(inner, chunker.WithChunkLength(5))

		out := c.TranslateBatch(context.Background(), map[string]string{"k": "0123456789"}, "fr", "en")
		assert.Equal(t, "0123456789", out["k"])
		assert.Empty(t, inner.batches)
	})
}
