// Package app contains application services and port definitions for the pricing context.
package app

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/devJaja/kivo-scanner/business/pricing/domain"
	"github.com/devJaja/kivo-scanner/internal/cache"
)

// CachedReader memoizes quote results for a short TTL so that the
// finder variants, which re-quote the same routes every pass, hit the
// node at most once per route per window. Only successful quotes are
// cached; skips are retried on the next call.
type CachedReader struct {
	inner QuoteReader
	cache *cache.Cache[string, domain.Quote]
	ttl   time.Duration
}

// ReaderOption configures a CachedReader.
type ReaderOption func(*readerOptions)

type readerOptions struct {
	clock cache.Clock
}

// WithClock injects the cache clock. Tests use cache.NewFakeClock to
// drive TTL expiry deterministically.
func WithClock(c cache.Clock) ReaderOption {
	return func(o *readerOptions) { o.clock = c }
}

// NewCachedReader wraps inner with a TTL cache.
func NewCachedReader(inner QuoteReader, ttl time.Duration, opts ...ReaderOption) *CachedReader {
	var o readerOptions
	for _, opt := range opts {
		opt(&o)
	}

	cacheOpts := []cache.Option{cache.WithCleanupInterval(0)}
	if o.clock != nil {
		cacheOpts = append(cacheOpts, cache.WithClock(o.clock))
	}

	return &CachedReader{
		inner: inner,
		cache: cache.New[string, domain.Quote](ttl, cacheOpts...),
		ttl:   ttl,
	}
}

// BestQuote returns the cached quote for the route if it is still
// fresh, otherwise delegates to the underlying reader.
func (r *CachedReader) BestQuote(ctx context.Context, chainID uint64, tokenIn, tokenOut common.Address, amountIn *big.Int) domain.Result {
	key := quoteKey(chainID, "", tokenIn, tokenOut, amountIn)
	if q, ok := r.cache.Get(ctx, key); ok {
		return domain.Ok(q)
	}

	res := r.inner.BestQuote(ctx, chainID, tokenIn, tokenOut, amountIn)
	if res.OK() {
		r.cache.Set(ctx, key, *res.Quote, r.ttl)
	}
	return res
}

// VenueQuote returns the cached quote for the venue route if it is
// still fresh, otherwise delegates to the underlying reader.
func (r *CachedReader) VenueQuote(ctx context.Context, chainID uint64, venue string, tokenIn, tokenOut common.Address, amountIn *big.Int) domain.Result {
	key := quoteKey(chainID, venue, tokenIn, tokenOut, amountIn)
	if q, ok := r.cache.Get(ctx, key); ok {
		return domain.Ok(q)
	}

	res := r.inner.VenueQuote(ctx, chainID, venue, tokenIn, tokenOut, amountIn)
	if res.OK() {
		r.cache.Set(ctx, key, *res.Quote, r.ttl)
	}
	return res
}

// Close releases the underlying cache.
func (r *CachedReader) Close() {
	r.cache.Close()
}

func quoteKey(chainID uint64, venue string, tokenIn, tokenOut common.Address, amountIn *big.Int) string {
	return fmt.Sprintf("%d:%s:%s:%s:%s", chainID, venue, tokenIn.Hex(), tokenOut.Hex(), amountIn.String())
}

var _ QuoteReader = (*CachedReader)(nil)
