// Package cache provides a read-through snapshot cache in front of a region
// source.
//
// The whole catalog is cached as one snapshot. A snapshot is served until its
// TTL elapses or Invalidate is called; the next read then reloads it from the
// source. Concurrent reloads are collapsed into a single source call, which is not
// cancelled when the caller that started it gives up. A failed
// reload keeps nothing and returns the source error.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/repositories"
)

type Option func(*RegionReader)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(r *RegionReader) {
		r.now = now
	}
}

type snapshot struct {
	regions  []*models.RegionalProfile
	byID     map[string]*models.RegionalProfile
	loadedAt time.Time
}

type RegionReader struct {
	source repositories.RegionReader
	ttl    time.Duration
	now    func() time.Time

	mu    sync.RWMutex
	snap  *snapshot
	group singleflight.Group
}

var _ repositories.RegionReader = (*RegionReader)(nil)

// New wraps source. A ttl <= 0 keeps a snapshot until Invalidate is called.
func New(source repositories.RegionReader, ttl time.Duration, opts ...Option) *RegionReader {
	r := &RegionReader{
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *RegionReader) GetAll(ctx context.Context) ([]*models.RegionalProfile, error) {
	snap, err := r.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.regions, nil
}

func (r *RegionReader) GetByID(ctx context.Context, id string) (*models.RegionalProfile, error) {
	snap, err := r.current(ctx)
	if err != nil {
		return nil, err
	}
	region, ok := snap.byID[id]
	if !ok {
		return nil, fmt.Errorf("region %q: %w", id, repositories.ErrNotFound)
	}
	return region, nil
}

// Invalidate drops the cached snapshot.
func (r *RegionReader) Invalidate() {
	r.mu.Lock()
	r.snap = nil
	r.mu.Unlock()
}

// LoadedAt reports when the current snapshot was fetched; ok is false when
// nothing is cached.
func (r *RegionReader) LoadedAt() (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.snap == nil {
		return time.Time{}, false
	}
	return r.snap.loadedAt, true
}

func (r *RegionReader) current(ctx context.Context) (*snapshot, error) {
	r.mu.RLock()
	snap := r.snap
	r.mu.RUnlock()
	if snap != nil && r.fresh(snap) {
		return snap, nil
	}

	// The shared load must outlive any single caller; each caller still stops
	// waiting when its own context ends.
	loadCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan("catalog", func() (interface{}, error) {
		regions, err := r.source.GetAll(loadCtx)
		if err != nil {
			return nil, err
		}
		snap := newSnapshot(regions, r.now())
		r.mu.Lock()
		r.snap = snap
		r.mu.Unlock()
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*snapshot), nil
	}
}

func (r *RegionReader) fresh(snap *snapshot) bool {
	if r.ttl <= 0 {
		return true
	}
	return r.now().Sub(snap.loadedAt) < r.ttl
}

func newSnapshot(regions []*models.RegionalProfile, at time.Time) *snapshot {
	byID := make(map[string]*models.RegionalProfile, len(regions))
	for _, region := range regions {
		if region != nil {
			byID[region.ID] = region
		}
	}
	return &snapshot{regions: regions, byID: byID, loadedAt: at}
}
