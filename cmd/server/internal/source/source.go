// Package source supplies the token listing. The chain assembled in
// main is fallback(cache(script)): an external fetch process, a redis
// cache in front of it, and static seed data when everything else
// fails. Each layer degrades transparently so callers never see a
// source error.
package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/hyperstack-labs/hyperpulse/pkg/models"
)

// QuoteSource is one layer of the listing chain.
type QuoteSource interface {
	Fetch(ctx context.Context) ([]models.TokenQuote, error)
}

// StaticSource serves a fixed listing.
type StaticSource struct {
	quotes []models.TokenQuote
}

func NewStatic(quotes []models.TokenQuote) *StaticSource {
	return &StaticSource{quotes: quotes}
}

func (s *StaticSource) Fetch(ctx context.Context) ([]models.TokenQuote, error) {
	quotes := make([]models.TokenQuote, len(s.quotes))
	copy(quotes, s.quotes)
	return quotes, nil
}

// FallbackSource wraps another source and swallows its failures,
// serving the static listing instead. Fetch never returns an error.
type FallbackSource struct {
	inner  QuoteSource
	static []models.TokenQuote
	logger *zap.Logger
}

func WithFallback(inner QuoteSource, static []models.TokenQuote, logger *zap.Logger) *FallbackSource {
	return &FallbackSource{inner: inner, static: static, logger: logger}
}

func (f *FallbackSource) Fetch(ctx context.Context) ([]models.TokenQuote, error) {
	quotes, err := f.inner.Fetch(ctx)
	if err != nil {
		f.logger.Warn("Quote source failed, serving fallback data", zap.Error(err))
		return f.staticCopy(), nil
	}
	if len(quotes) == 0 {
		f.logger.Warn("Quote source returned no tokens, serving fallback data")
		return f.staticCopy(), nil
	}
	return quotes, nil
}

func (f *FallbackSource) staticCopy() []models.TokenQuote {
	quotes := make([]models.TokenQuote, len(f.static))
	copy(quotes, f.static)
	return quotes
}
