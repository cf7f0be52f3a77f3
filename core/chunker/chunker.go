// Package chunker decorates a translation adapter with transparent
// splitting of oversized inputs.
//
// Texts within the configured chunk length pass through untouched, so for
// typical UI strings the decorator is a no-op. Longer texts are split into
// segments at most ChunkLength runes long, preferring a whitespace break
// near the boundary to avoid mid-word splits, translated independently and
// concatenated in order. The decorator changes nothing about what gets
// translated, only how large inputs are partitioned, and composes with any
// adapter implementation.
package chunker

import (
	"context"
	"strings"
	"unicode"

	"github.com/dmitrymomot/linguakit/core/translator"
)

// Heuristic defaults. Lookback and MinFragment have no deeper rationale
// than "worked well in practice"; they are options, not invariants.
const (
	DefaultChunkLength = 4000
	DefaultLookback    = 40
	DefaultMinFragment = 10
	DefaultOverlap     = 0
)

// Chunker wraps an inner adapter and implements translator.Adapter itself.
type Chunker struct {
	inner       translator.Adapter
	chunkLength int
	lookback    int
	minFragment int
	overlap     int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkLength sets the maximum segment length in runes.
func WithChunkLength(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.chunkLength = n
		}
	}
}

// WithLookback sets how far before a boundary to search for whitespace.
func WithLookback(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.lookback = n
		}
	}
}

// WithMinFragment sets the minimum segment length a whitespace break may
// produce; closer breaks are ignored to avoid pathologically tiny
// fragments.
func WithMinFragment(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.minFragment = n
		}
	}
}

// WithOverlap makes each segment start n runes before the previous
// segment's end, giving the model a little shared context across cuts.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlap = n
		}
	}
}

// Wrap decorates inner with chunked translation of oversized inputs.
func Wrap(inner translator.Adapter, opts ...Option) *Chunker {
	c := &Chunker{
		inner:       inner,
		chunkLength: DefaultChunkLength,
		lookback:    DefaultLookback,
		minFragment: DefaultMinFragment,
		overlap:     DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate delegates short texts unchanged and routes long ones through
// the segment splitter, concatenating the translated segments in order.
func (c *Chunker) Translate(ctx context.Context, text, targetLang, sourceLang string) string {
	runes := []rune(text)
	if len(runes) <= c.chunkLength {
		return c.inner.Translate(ctx, text, targetLang, sourceLang)
	}

	var sb strings.Builder
	for _, seg := range c.split(runes) {
		sb.WriteString(c.inner.Translate(ctx, seg, targetLang, sourceLang))
	}
	return sb.String()
}

// TranslateBatch forwards items within the limit to the inner batch call
// in one go and routes oversized items through the chunked single path.
func (c *Chunker) TranslateBatch(ctx context.Context, items map[string]string, targetLang, sourceLang string) map[string]string {
	small := make(map[string]string, len(items))
	out := make(map[string]string, len(items))

	for key, text := range items {
		if len([]rune(text)) <= c.chunkLength {
			small[key] = text
			continue
		}
		out[key] = c.Translate(ctx, text, targetLang, sourceLang)
	}

	if len(small) > 0 {
		for key, text := range c.inner.TranslateBatch(ctx, small, targetLang, sourceLang) {
			out[key] = text
		}
	}
	return out
}

// split partitions runes into segments of at most chunkLength, breaking at
// the nearest preceding whitespace within lookback runes of the boundary
// unless that would leave a fragment shorter than minFragment. Consecutive
// segments overlap by overlap runes.
func (c *Chunker) split(runes []rune) []string {
	var segs []string

	start := 0
	for start < len(runes) {
		end := start + c.chunkLength
		if end >= len(runes) {
			segs = append(segs, string(runes[start:]))
			break
		}

		cut := end
		for i := end; i > end-c.lookback && i > start; i-- {
			if unicode.IsSpace(runes[i-1]) {
				if i-start > c.minFragment {
					cut = i
				}
				break
			}
		}
		segs = append(segs, string(runes[start:cut]))

		next := cut - c.overlap
		if next <= start {
			// Overlap must never stall the walk.
			next = cut
		}
		start = next
	}

	return segs
}
