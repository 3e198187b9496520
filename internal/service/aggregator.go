package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/memeworks/memebuilder-back/internal/cache"
	"github.com/memeworks/memebuilder-back/internal/config"
)

const (
	trendingCacheKey = "trending:reddit:hot"
	gifCacheKey      = "gifs:"

	trendingFetchLimit = 25
	gifDefaultLimit    = 20
	gifMaxLimit        = 50
)

// Aggregator serves trending and GIF content through a cache-aside policy.
// Cached values are the serialized lists themselves and are returned
// verbatim on a hit, so repeated reads inside the TTL are byte-identical.
type Aggregator struct {
	cache    cache.Cache
	trending TrendingFetcher
	gifs     GifFetcher
	logger   *zap.SugaredLogger

	subreddit   string
	trendingTTL time.Duration
	gifTTL      time.Duration
	maxAttempts int
	backoffBase time.Duration
	sleep       func(time.Duration)
}

func NewAggregator(
	cfg *config.Config,
	c cache.Cache,
	trending TrendingFetcher,
	gifs GifFetcher,
	l *zap.SugaredLogger,
) *Aggregator {
	return &Aggregator{
		cache:       c,
		trending:    trending,
		gifs:        gifs,
		logger:      l,
		subreddit:   cfg.RedditSubreddit,
		trendingTTL: time.Duration(cfg.TrendingCacheTTL) * time.Second,
		gifTTL:      time.Duration(cfg.GifCacheTTL) * time.Second,
		maxAttempts: cfg.UpstreamMaxRetries,
		backoffBase: time.Duration(cfg.UpstreamBackoffSeconds) * time.Second,
	}
}

// Trending returns the serialized trending feed, from cache when fresh.
func (a *Aggregator) Trending(ctx context.Context) (json.RawMessage, error) {
	if cached, ok := a.cache.Get(ctx, trendingCacheKey); ok {
		return cached, nil
	}

	var items []TrendingItem
	err := retryWithBackoff(a.maxAttempts, a.backoffBase, a.sleep, func() error {
		var fetchErr error
		items, fetchErr = a.trending.FetchHot(ctx, a.subreddit, trendingFetchLimit)
		return fetchErr
	})
	if err != nil {
		return nil, &UpstreamError{Err: errors.Wrap(err, "fetch trending feed")}
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return nil, errors.Wrap(err, "serialize trending feed")
	}

	// Empty upstream results are never cached: a transient empty feed must
	// not suppress real content for a full TTL.
	if len(items) > 0 {
		a.cache.Set(ctx, trendingCacheKey, payload, a.trendingTTL)
	}

	return payload, nil
}

// SearchGifs returns serialized GIF results for query, from cache when
// fresh. limit defaults to 20 and is capped at 50.
func (a *Aggregator) SearchGifs(ctx context.Context, query string, limit int) (json.RawMessage, error) {
	if query == "" {
		return nil, NewValidationError("query parameter is required")
	}
	if limit <= 0 {
		limit = gifDefaultLimit
	}
	if limit > gifMaxLimit {
		limit = gifMaxLimit
	}

	key := gifCacheKey + query
	if cached, ok := a.cache.Get(ctx, key); ok {
		return cached, nil
	}

	var gifs []GifItem
	err := retryWithBackoff(a.maxAttempts, a.backoffBase, a.sleep, func() error {
		var fetchErr error
		gifs, fetchErr = a.gifs.Search(ctx, query, limit)
		return fetchErr
	})
	if err != nil {
		return nil, &UpstreamError{Err: errors.Wrap(err, "search gifs")}
	}

	payload, err := json.Marshal(gifs)
	if err != nil {
		return nil, errors.Wrap(err, "serialize gifs")
	}

	if len(gifs) > 0 {
		a.cache.Set(ctx, key, payload, a.gifTTL)
	}

	return payload, nil
}
