package ner

import (
	"context"
	"encoding/json"

	"github.com/veridex/veridex/internal/cache"
	"github.com/veridex/veridex/internal/normalize"
	"github.com/veridex/veridex/internal/worker"
)

// CachedRecognizer wraps a Recognizer with a response cache keyed by content
// fingerprint and a provider-keyed rate limiter. Re-running ingestion over a
// corpus does not re-spend API calls on pages whose text has not changed.
type CachedRecognizer struct {
	inner   Recognizer
	cache   cache.Cache
	limiter *worker.Limiter
}

// NewCachedRecognizer wraps inner. Either cache or limiter may be nil.
func NewCachedRecognizer(inner Recognizer, c cache.Cache, limiter *worker.Limiter) *CachedRecognizer {
	return &CachedRecognizer{inner: inner, cache: c, limiter: limiter}
}

// Name returns the wrapped provider name
func (r *CachedRecognizer) Name() string { return r.inner.Name() }

// Recognize returns cached spans when available, otherwise calls through
func (r *CachedRecognizer) Recognize(ctx context.Context, text string) ([]Span, error) {
	key := cache.Key("ner", r.inner.Name(), normalize.Fingerprint(text))

	if r.cache != nil {
		if data, ok := r.cache.Get(key); ok {
			var spans []Span
			if err := json.Unmarshal(data, &spans); err == nil {
				return spans, nil
			}
			// corrupt entry: fall through and overwrite
		}
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx, r.inner.Name()); err != nil {
			return nil, err
		}
	}

	spans, err := r.inner.Recognize(ctx, text)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if data, err := json.Marshal(spans); err == nil {
			_ = r.cache.Set(key, data, 0)
		}
	}
	return spans, nil
}
