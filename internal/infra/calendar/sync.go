package calendar

import (
	"context"
	"log/slog"
	"time"

	"sensea-booking/internal/pkg/clock"
	"sensea-booking/internal/usecase/queries"

	"golang.org/x/sync/singleflight"
)

// CacheStore is the persistence port for the mirrored feed.
type CacheStore interface {
	LastFetchedAt(ctx context.Context) (*time.Time, error)
	// ReplaceFeed reconciles the cache against the feed snapshot: rows whose
	// UID is absent from events are deleted, the rest upserted.
	ReplaceFeed(ctx context.Context, events []Event, fetchedAt time.Time) error
	EventsBetween(ctx context.Context, start, end time.Time) ([]queries.BusyInterval, error)
	HasOverlap(ctx context.Context, start, end time.Time) (bool, error)
}

// TTLSource provides the refresh interval; it is read per call so the
// administrator can tune it without a restart.
type TTLSource interface {
	CalendarCacheTTL(ctx context.Context) time.Duration
}

// SyncCache keeps the local mirror within its TTL and answers availability
// questions from it. A feed outage never blocks booking: refresh failures are
// logged and the last synced state keeps serving.
type SyncCache struct {
	feed    Feed
	store   CacheStore
	ttl     TTLSource
	clock   clock.Clock
	loc     *time.Location
	group   singleflight.Group
	enabled bool
}

func NewSyncCache(feed Feed, store CacheStore, ttl TTLSource, clk clock.Clock, loc *time.Location, enabled bool) *SyncCache {
	return &SyncCache{
		feed:    feed,
		store:   store,
		ttl:     ttl,
		clock:   clk,
		loc:     loc,
		enabled: enabled,
	}
}

func (c *SyncCache) BusyIntervalsForDate(ctx context.Context, dayStart, dayEnd time.Time) ([]queries.BusyInterval, error) {
	if !c.enabled {
		return nil, nil
	}
	c.refreshIfStale(ctx)
	return c.store.EventsBetween(ctx, dayStart, dayEnd)
}

func (c *SyncCache) IsIntervalBlocked(ctx context.Context, start, end time.Time) (bool, error) {
	if !c.enabled {
		return false, nil
	}
	c.refreshIfStale(ctx)
	return c.store.HasOverlap(ctx, start, end)
}

// refreshIfStale re-syncs the mirror when the TTL has lapsed. Concurrent
// callers share one fetch via singleflight; everyone else proceeds on
// whatever state the winner leaves behind.
func (c *SyncCache) refreshIfStale(ctx context.Context) {
	last, err := c.store.LastFetchedAt(ctx)
	if err != nil {
		slog.Warn("failed to read calendar cache age", "error", err)
		return
	}

	now := c.clock.Now()
	if last != nil && now.Sub(*last) < c.ttl.CalendarCacheTTL(ctx) {
		return
	}

	_, err, _ = c.group.Do("refresh", func() (any, error) {
		return nil, c.Refresh(ctx)
	})
	if err != nil {
		slog.Warn("calendar refresh failed, serving cached state", "error", err)
	}
}

// Refresh fetches and reconciles unconditionally.
func (c *SyncCache) Refresh(ctx context.Context) error {
	data, err := c.feed.Fetch(ctx)
	if err != nil {
		return err
	}

	events := ParseFeed(data, c.loc)
	if err := c.store.ReplaceFeed(ctx, events, c.clock.Now()); err != nil {
		return err
	}

	slog.Debug("calendar cache refreshed", "events", len(events))
	return nil
}
