package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/repositories"
)

type countingSource struct {
	calls   atomic.Int32
	err     error
	regions []*models.RegionalProfile
	delay   time.Duration
}

func (s *countingSource) GetAll(context.Context) ([]*models.RegionalProfile, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.regions, nil
}

func (s *countingSource) GetByID(context.Context, string) (*models.RegionalProfile, error) {
	return nil, errors.New("not used by the cache")
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newSource() *countingSource {
	return &countingSource{regions: []*models.RegionalProfile{
		{ID: "mapo", Name: "Mapo-gu"},
		{ID: "jongno", Name: "Jongno-gu"},
	}}
}

func TestRegionReader_ServesSnapshotWithinTTL(t *testing.T) {
	ctx := context.Background()
	src := newSource()
	clock := &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
	r := New(src, time.Minute, WithClock(clock.Now))

	_, ok := r.LoadedAt()
	assert.False(t, ok)

	for i := 0; i < 3; i++ {
		regions, err := r.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, regions, 2)
	}
	region, err := r.GetByID(ctx, "jongno")
	require.NoError(t, err)
	assert.Equal(t, "Jongno-gu", region.Name)
	assert.Equal(t, int32(1), src.calls.Load())

	at, ok := r.LoadedAt()
	require.True(t, ok)
	assert.Equal(t, clock.Now(), at)

	clock.Advance(59 * time.Second)
	_, err = r.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())

	clock.Advance(time.Second)
	_, err = r.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestRegionReader_Invalidate(t *testing.T) {
	ctx := context.Background()
	src := newSource()
	r := New(src, 0)

	_, err := r.GetAll(ctx)
	require.NoError(t, err)
	_, err = r.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.calls.Load())

	r.Invalidate()
	_, ok := r.LoadedAt()
	assert.False(t, ok)

	_, err = r.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestRegionReader_NotFound(t *testing.T) {
	r := New(newSource(), time.Minute)
	_, err := r.GetByID(context.Background(), "gangnam")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestRegionReader_SourceErrorIsNotCached(t *testing.T) {
	ctx := context.Background()
	src := newSource()
	src.err = errors.New("connection refused")
	r := New(src, time.Minute)

	_, err := r.GetAll(ctx)
	assert.EqualError(t, err, "connection refused")

	src.err = nil
	regions, err := r.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, regions, 2)
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestRegionReader_CollapsesConcurrentLoads(t *testing.T) {
	src := newSource()
	src.delay = 50 * time.Millisecond
	r := New(src, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			regions, err := r.GetAll(context.Background())
			assert.NoError(t, err)
			assert.Len(t, regions, 2)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, src.calls.Load(), int32(2))
}

// gatedSource blocks GetAll until release is closed and honours the context
// it was given, like a database-backed source would.
type gatedSource struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (s *gatedSource) GetAll(ctx context.Context) ([]*models.RegionalProfile, error) {
	if s.calls.Add(1) == 1 {
		close(s.started)
	}
	<-s.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []*models.RegionalProfile{{ID: "mapo", Name: "Mapo-gu"}}, nil
}

func (s *gatedSource) GetByID(context.Context, string) (*models.RegionalProfile, error) {
	return nil, errors.New("not used by the cache")
}

func TestRegionReader_CancelledCallerDoesNotFailOthers(t *testing.T) {
	src := &gatedSource{started: make(chan struct{}), release: make(chan struct{})}
	r := New(src, time.Minute)

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := r.GetAll(ctxA)
		errA <- err
	}()
	<-src.started

	type result struct {
		regions []*models.RegionalProfile
		err     error
	}
	resB := make(chan result, 1)
	go func() {
		regions, err := r.GetAll(context.Background())
		resB <- result{regions, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	assert.ErrorIs(t, <-errA, context.Canceled)

	close(src.release)
	got := <-resB
	require.NoError(t, got.err)
	assert.Len(t, got.regions, 1)

	regions, err := r.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, regions, 1)
}
