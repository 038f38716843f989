// Package cache holds the single in-memory snapshot of the author dataset
// and decides when it has to be refreshed from upstream.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/msafzal/scholarsite/internal/scholar"
)

// Fetcher performs one full upstream fetch and normalization.
type Fetcher interface {
	FetchAuthor(ctx context.Context) (scholar.Dataset, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context) (scholar.Dataset, error)

func (f FetcherFunc) FetchAuthor(ctx context.Context) (scholar.Dataset, error) { return f(ctx) }

// Source reports where a dataset returned by Lookup came from.
type Source string

const (
	SourceHit       Source = "hit"
	SourceRefreshed Source = "refreshed"
	SourceStale     Source = "stale"
	SourceDefault   Source = "default"
)

// Entry is the cached snapshot. It is only ever replaced as a whole.
type Entry struct {
	Dataset   scholar.Dataset
	FetchedAt time.Time
	Revision  uuid.UUID
}

// Cache owns exactly one Entry. Reads within the freshness window never
// touch the upstream; a failed refresh keeps serving the previous Entry.
type Cache struct {
	fetcher Fetcher
	window  time.Duration
	timeout time.Duration
	now     func() time.Time
	logger  zerolog.Logger

	mu    sync.RWMutex
	entry *Entry
	group singleflight.Group
}

type Option func(*Cache)

func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) { c.logger = l }
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithTimeout bounds a single refresh attempt. Zero leaves the attempt
// bounded only by the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) { c.timeout = d }
}

func New(fetcher Fetcher, window time.Duration, opts ...Option) *Cache {
	c := &Cache{
		fetcher: fetcher,
		window:  window,
		now:     time.Now,
		logger:  zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Get returns the best dataset available. It never fails.
func (c *Cache) Get(ctx context.Context) scholar.Dataset {
	ds, _ := c.Lookup(ctx)
	return ds
}

// Lookup is Get plus the Source of the returned dataset.
func (c *Cache) Lookup(ctx context.Context) (scholar.Dataset, Source) {
	if e, ok := c.Snapshot(); ok && c.fresh(e) {
		c.logger.Debug().Str("revision", e.Revision.String()).Msg("returning cached data")
		return e.Dataset, SourceHit
	}

	// The refresh is shared by every waiting reader, so one caller going away
	// must not cancel it. WithTimeout in refresh is the only bound.
	ctx = context.WithoutCancel(ctx)
	v, err, shared := c.group.Do("dataset", func() (any, error) {
		if e, ok := c.Snapshot(); ok && c.fresh(e) {
			return &e, nil
		}
		return c.refresh(ctx)
	})
	if err == nil {
		e := v.(*Entry)
		return e.Dataset, SourceRefreshed
	}

	if e, ok := c.Snapshot(); ok {
		c.logger.Warn().Err(err).Bool("shared", shared).Time("fetched_at", e.FetchedAt).Msg("refresh failed, serving stale data")
		return e.Dataset, SourceStale
	}
	c.logger.Warn().Err(err).Bool("shared", shared).Msg("refresh failed, serving default data")
	return scholar.DefaultDataset(), SourceDefault
}

func (c *Cache) refresh(ctx context.Context) (e *Entry, err error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			e, err = nil, fmt.Errorf("%w: panic during fetch: %v", scholar.ErrUpstreamUnavailable, r)
		}
	}()

	started := c.now()
	ds, err := c.fetcher.FetchAuthor(ctx)
	if err != nil {
		return nil, err
	}

	e = &Entry{Dataset: ds, FetchedAt: started, Revision: uuid.New()}
	c.mu.Lock()
	c.entry = e
	c.mu.Unlock()

	c.logger.Info().
		Str("revision", e.Revision.String()).
		Int("publications", len(ds.Publications)).
		Dur("took", c.now().Sub(started)).
		Msg("refreshed scholar data")
	return e, nil
}

// Snapshot returns the current entry without refreshing it.
func (c *Cache) Snapshot() (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil {
		return Entry{}, false
	}
	return *c.entry, true
}

func (c *Cache) fresh(e Entry) bool {
	return c.now().Sub(e.FetchedAt) < c.window
}

// Window returns the configured freshness window.
func (c *Cache) Window() time.Duration {
	return c.window
}
