package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/memeworks/memebuilder-back/internal/db"
)

// newTestDB opens a private in-memory sqlite database with foreign keys
// enabled, so cascade and SET NULL behavior matches postgres.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gdb))
	return gdb
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func seedUser(t *testing.T, gdb *gorm.DB) uint64 {
	t.Helper()
	user := db.User{Username: "memelord", Email: "memelord@example.com"}
	require.NoError(t, gdb.Create(&user).Error)
	return user.ID
}

func seedTemplate(t *testing.T, gdb *gorm.DB) uint64 {
	t.Helper()
	template := db.MemeTemplate{Name: "Plain Template", ImageURL: "https://example.com/t.jpg"}
	require.NoError(t, gdb.Create(&template).Error)
	return template.ID
}

////////

type fakeCacheEntry struct {
	value     []byte
	expiresAt time.Time
}

type fakeCache struct {
	entries map[string]fakeCacheEntry
	now     time.Time
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: map[string]fakeCacheEntry{},
		now:     time.Now(),
	}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	entry, ok := f.entries[key]
	if !ok || f.now.After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	f.entries[key] = fakeCacheEntry{value: value, expiresAt: f.now.Add(ttl)}
}

func (f *fakeCache) advance(d time.Duration) { f.now = f.now.Add(d) }

////////

type stubTrendingFetcher struct {
	items    []TrendingItem
	err      error
	failures int
	calls    int
}

func (s *stubTrendingFetcher) FetchHot(ctx context.Context, subreddit string, limit int) ([]TrendingItem, error) {
	s.calls++
	if s.failures > 0 {
		s.failures--
		return nil, fmt.Errorf("transient upstream failure")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

type stubGifFetcher struct {
	gifs      []GifItem
	err       error
	calls     int
	lastLimit int
}

func (s *stubGifFetcher) Search(ctx context.Context, query string, limit int) ([]GifItem, error) {
	s.calls++
	s.lastLimit = limit
	if s.err != nil {
		return nil, s.err
	}
	return s.gifs, nil
}

func newTestAggregator(c *fakeCache, trending TrendingFetcher, gifs GifFetcher) *Aggregator {
	return &Aggregator{
		cache:       c,
		trending:    trending,
		gifs:        gifs,
		logger:      testLogger(),
		subreddit:   "memes",
		trendingTTL: time.Hour,
		gifTTL:      30 * time.Minute,
		maxAttempts: 3,
		backoffBase: 0,
		sleep:       func(time.Duration) {},
	}
}
