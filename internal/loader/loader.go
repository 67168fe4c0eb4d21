// Package loader turns a source into a normalized ledger, reusing a cached
// copy while it is fresh.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"fjacquet/sheet-ledger/internal/cache"
	"fjacquet/sheet-ledger/internal/ledger"
	"fjacquet/sheet-ledger/internal/logging"
	"fjacquet/sheet-ledger/internal/metrics"
	"fjacquet/sheet-ledger/internal/parsererror"
	"fjacquet/sheet-ledger/internal/sheets"

	"golang.org/x/sync/singleflight"
)

// Result is a loaded ledger and when its source was last read.
type Result struct {
	Ledger    ledger.Ledger
	FetchedAt time.Time
	Cached    bool
}

// Loader fetches, normalizes and caches ledgers. It is safe for concurrent
// use; concurrent loads of one source share a single fetch.
type Loader struct {
	fetcher      sheets.Fetcher
	normalizer   *ledger.Normalizer
	cache        *cache.TTLCache[ledger.Ledger]
	group        singleflight.Group
	recorder     metrics.Recorder
	sourceKind   string
	fetchTimeout time.Duration
	logger       logging.Logger

	mu          sync.Mutex
	generations map[string]uint64
	epoch       uint64
}

// Option configures a Loader.
type Option func(*Loader)

// WithCache replaces the default cache.
func WithCache(c *cache.TTLCache[ledger.Ledger]) Option {
	return func(l *Loader) {
		l.cache = c
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(l *Loader) {
		l.recorder = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger logging.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithSourceKind labels metrics with the kind of source being read.
func WithSourceKind(kind string) Option {
	return func(l *Loader) {
		l.sourceKind = kind
	}
}

// WithFetchTimeout bounds a shared fetch. Zero leaves it to the fetcher.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *Loader) {
		l.fetchTimeout = d
	}
}

// New creates a Loader around fetcher. Without options it caches for
// cache.DefaultTTL and records no metrics.
func New(fetcher sheets.Fetcher, opts ...Option) *Loader {
	l := &Loader{
		fetcher:     fetcher,
		recorder:    metrics.NopRecorder{},
		sourceKind:  "unknown",
		generations: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.cache == nil {
		l.cache = cache.NewTTLCache[ledger.Ledger](cache.DefaultTTL, cache.DefaultMaxEntries)
	}
	l.logger = logging.OrDefault(l.logger).WithField(logging.FieldComponent, logging.ComponentLoader)
	l.normalizer = ledger.NewNormalizer(l.logger)
	return l
}

// Load returns the ledger for src, from cache when fresh. Failed loads are
// never cached, so the next call retries the source.
func (l *Loader) Load(ctx context.Context, src sheets.Source) (Result, error) {
	key := src.Key()

	if entry, ok := l.cache.Get(key); ok {
		l.recorder.RecordCacheHit()
		l.logger.Debug("Ledger cache hit",
			logging.F(logging.FieldSource, src.String()),
			logging.F(logging.FieldFetchedAt, entry.FetchedAt))
		return Result{Ledger: entry.Value, FetchedAt: entry.FetchedAt, Cached: true}, nil
	}
	l.recorder.RecordCacheMiss()

	// A shared fetch outlives any single caller; each caller still stops
	// waiting when its own context ends.
	gen := l.generation(key)
	ch := l.group.DoChan(key+"@"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		if entry, ok := l.cache.Get(key); ok {
			return Result{Ledger: entry.Value, FetchedAt: entry.FetchedAt, Cached: true}, nil
		}
		fetchCtx, cancel := l.sharedContext(ctx)
		defer cancel()
		return l.fetch(fetchCtx, src, key, gen)
	})

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return Result{}, r.Err
		}
		if r.Shared {
			l.logger.Debug("Joined in-flight ledger load", logging.F(logging.FieldSource, src.String()))
		}
		return r.Val.(Result), nil
	}
}

func (l *Loader) sharedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	detached := context.WithoutCancel(ctx)
	if l.fetchTimeout > 0 {
		return context.WithTimeout(detached, l.fetchTimeout)
	}
	return detached, func() {}
}

// generation changes whenever src's cached ledger is refreshed, so loads
// after a refresh never join or store a fetch started before it.
func (l *Loader) generation(key string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.epoch + l.generations[key]
}

func (l *Loader) fetch(ctx context.Context, src sheets.Source, key string, gen uint64) (Result, error) {
	start := time.Now()

	table, err := l.fetcher.Fetch(ctx, src)
	if err != nil {
		l.recorder.RecordLoad(l.sourceKind, metrics.StatusFetchFailed)
		l.logger.WithError(err).Warn("Failed to fetch ledger", logging.F(logging.FieldSource, src.String()))
		return Result{}, fmt.Errorf("failed to load %s: %w", src, err)
	}

	led, err := l.normalizer.Normalize(table)
	if err != nil {
		l.recorder.RecordLoad(l.sourceKind, metrics.StatusInvalidSheet)
		l.recorder.RecordNormalizationError(ErrorKind(err))
		l.logger.WithError(err).Warn("Sheet failed validation", logging.F(logging.FieldSource, src.String()))
		return Result{}, err
	}

	entry, stored := l.store(key, gen, led)
	if !stored {
		entry.FetchedAt = start
		l.logger.Debug("Ledger refreshed during fetch, not caching", logging.F(logging.FieldSource, src.String()))
	}
	elapsed := time.Since(start)

	l.recorder.RecordLoad(l.sourceKind, metrics.StatusSuccess)
	l.recorder.RecordFetchDuration(l.sourceKind, elapsed)
	l.recorder.RecordLedgerSize(led.Len())
	l.logger.Info("Loaded ledger",
		logging.F(logging.FieldSource, src.String()),
		logging.F(logging.FieldRows, led.Len()),
		logging.F(logging.FieldDuration, elapsed.Milliseconds()))

	return Result{Ledger: led, FetchedAt: entry.FetchedAt}, nil
}

// store caches led unless key was refreshed after the fetch began.
func (l *Loader) store(key string, gen uint64, led ledger.Ledger) (cache.Entry[ledger.Ledger], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.epoch+l.generations[key] != gen {
		return cache.Entry[ledger.Ledger]{Key: key, Value: led}, false
	}
	return l.cache.Set(key, led), true
}

// Refresh drops the cached ledger for src so the next Load refetches it,
// even while an earlier fetch is still in flight.
func (l *Loader) Refresh(src sheets.Source) bool {
	key := src.Key()
	l.mu.Lock()
	l.generations[key]++
	l.mu.Unlock()

	dropped := l.cache.Invalidate(key)
	l.logger.Debug("Invalidated cached ledger",
		logging.F(logging.FieldSource, src.String()),
		logging.F(logging.FieldCacheHit, dropped))
	return dropped
}

// RefreshAll empties the cache and returns how many ledgers were dropped.
func (l *Loader) RefreshAll() int {
	l.mu.Lock()
	l.epoch++
	l.mu.Unlock()

	n := l.cache.Clear()
	l.logger.Debug("Cleared ledger cache", logging.F(logging.FieldCount, n))
	return n
}

// ErrorKind returns a short label for a normalization error, used in
// metrics. Errors that are not normalization errors map to "other".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, parsererror.ErrMissingColumns):
		return "missing_columns"
	case errors.Is(err, parsererror.ErrUnparseableDates):
		return "unparseable_dates"
	case errors.Is(err, parsererror.ErrInvalidType):
		return "invalid_type"
	case errors.Is(err, parsererror.ErrUnparseableAmounts):
		return "unparseable_amounts"
	default:
		return "other"
	}
}
