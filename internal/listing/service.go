// Package listing fetches collections from the backend and falls back to
// the last snapshot when the backend cannot be reached.
package listing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexisbeaulieu97/careerdesk/internal/catalog"
	"github.com/alexisbeaulieu97/careerdesk/internal/logger"
	"github.com/alexisbeaulieu97/careerdesk/internal/record"
	"github.com/alexisbeaulieu97/careerdesk/internal/snapshot"
)

// DefaultPrefetchLimit bounds concurrent requests during Prefetch.
const DefaultPrefetchLimit = 3

// Fetcher loads a collection from the backend.
type Fetcher interface {
	List(ctx context.Context, col catalog.Collection) ([]record.Record, error)
}

// SnapshotStore persists the last good copy of each collection.
type SnapshotStore interface {
	Put(collection string, records []record.Record, fetchedAt time.Time) error
	Get(collection string) (snapshot.Snapshot, error)
}

// Result is one fetched collection. Stale results come from the snapshot
// store and carry the fetch error that caused the fallback.
type Result struct {
	Collection string
	Records    []record.Record
	FetchedAt  time.Time
	Stale      bool
	Err        error
}

// Service coordinates fetching and snapshotting.
type Service struct {
	fetcher Fetcher
	store   SnapshotStore
	log     *logger.Logger
	now     func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithSnapshots enables the offline fallback.
func WithSnapshots(store SnapshotStore) Option {
	return func(s *Service) { s.store = store }
}

// WithLogger attaches a logger.
func WithLogger(log *logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a Service.
func NewService(fetcher Fetcher, opts ...Option) *Service {
	s := &Service{fetcher: fetcher, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch loads col. On failure it serves the snapshot, if any, marked stale.
// Cancellation is never masked by a snapshot.
func (s *Service) Fetch(ctx context.Context, col catalog.Collection) (Result, error) {
	log := s.log.With("collection", col.Name)

	records, err := s.fetcher.List(ctx, col)
	if err == nil {
		fetchedAt := s.now()
		if s.store != nil {
			if putErr := s.store.Put(col.Name, records, fetchedAt); putErr != nil {
				log.Error(putErr, "failed to write snapshot")
			}
		}
		return Result{Collection: col.Name, Records: records, FetchedAt: fetchedAt}, nil
	}

	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		return Result{}, err
	}

	if s.store != nil {
		snap, snapErr := s.store.Get(col.Name)
		if snapErr == nil {
			log.With("fetched_at", snap.FetchedAt).Warn("serving stale snapshot")
			return Result{Collection: col.Name, Records: snap.Records, FetchedAt: snap.FetchedAt, Stale: true, Err: err}, nil
		}
		if !errors.Is(snapErr, snapshot.ErrMiss) {
			log.Error(snapErr, "failed to read snapshot")
		}
	}

	log.Error(err, "fetch failed")
	return Result{}, fmt.Errorf("failed to load %s: %w", col.Name, err)
}

// Prefetch loads several collections concurrently, at most limit at a time.
// Per-collection failures are reported in Result.Err; only cancellation
// aborts the whole batch. Results keep the order of cols.
func (s *Service) Prefetch(ctx context.Context, cols []catalog.Collection, limit int) ([]Result, error) {
	if limit < 1 {
		limit = DefaultPrefetchLimit
	}

	results := make([]Result, len(cols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, col := range cols {
		i, col := i, col
		g.Go(func() error {
			res, err := s.Fetch(gctx, col)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				res = Result{Collection: col.Name, Err: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
