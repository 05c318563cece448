// Package recommender serves ranking requests: it reads a catalog snapshot,
// runs the scoring engine and reports what happened.
package recommender

import (
	"context"
	"fmt"
	"time"

	"github.com/lucsky/cuid"

	"github.com/chrisdamba/regionrank/internal/logger"
	"github.com/chrisdamba/regionrank/internal/metrics"
	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/repositories"
	"github.com/chrisdamba/regionrank/internal/scoring"
)

type Response struct {
	RequestID   string
	UserID      string
	GeneratedAt time.Time
	Candidates  int
	Results     []models.RecommendationResult
}

type Service struct {
	catalog repositories.RegionReader
	engine  *scoring.Recommender
	log     logger.Logger
	metrics *metrics.Recorder

	newID func() string
	now   func() time.Time
}

type Option func(*Service)

func WithMetrics(m *metrics.Recorder) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithIDGenerator overrides the cuid request ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(catalog repositories.RegionReader, engine *scoring.Recommender, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		catalog: catalog,
		engine:  engine,
		log:     log,
		newID:   cuid.New,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine exposes the scoring engine, e.g. for tier descriptions in output.
func (s *Service) Engine() *scoring.Recommender {
	return s.engine
}

// Recommend ranks the current catalog for one user.
func (s *Service) Recommend(ctx context.Context, user *models.UserProfile, mods models.RequestModifiers) (*Response, error) {
	if user == nil {
		return nil, fmt.Errorf("user profile is required")
	}
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return s.rank(user, catalog, mods), nil
}

// RecommendBatch ranks one catalog snapshot for every user. onResponse, when
// set, is called after each user in input order; returning an error stops the
// batch.
func (s *Service) RecommendBatch(ctx context.Context, users []*models.UserProfile, mods models.RequestModifiers, onResponse func(*Response) error) (int, error) {
	catalog, err := s.loadCatalog(ctx)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, user := range users {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if user == nil {
			continue
		}
		resp := s.rank(user, catalog, mods)
		done++
		if onResponse != nil {
			if err := onResponse(resp); err != nil {
				return done, err
			}
		}
	}
	return done, nil
}

func (s *Service) loadCatalog(ctx context.Context) ([]*models.RegionalProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	catalog, err := s.catalog.GetAll(ctx)
	if s.metrics != nil {
		s.metrics.ObserveCatalogLoad(err)
	}
	if err != nil {
		s.log.Error("failed to load region catalog", logger.Error(err))
		return nil, fmt.Errorf("failed to load region catalog: %w", err)
	}
	return catalog, nil
}

func (s *Service) rank(user *models.UserProfile, catalog []*models.RegionalProfile, mods models.RequestModifiers) *Response {
	requestID := s.newID()
	start := s.now()
	results := s.engine.Rank(user, catalog, mods)
	elapsed := s.now().Sub(start)

	if s.metrics != nil {
		s.metrics.ObserveRanking(elapsed, len(catalog), results)
	}

	log := s.log.With(logger.String("request_id", requestID), logger.String("user_id", user.ID))
	for _, res := range results {
		if res.Breakdown.Defaults != 0 {
			log.Debug("neutral defaults applied",
				logger.String("region_id", res.RegionID),
				logger.Strings("dimensions", res.Breakdown.Defaults.Names()),
			)
		}
	}
	log.Info("ranking completed",
		logger.Int("candidates", len(catalog)),
		logger.Int("returned", len(results)),
		logger.Duration("duration", elapsed),
		logger.String("combine_mode", string(s.engine.Mode())),
	)

	return &Response{
		RequestID:   requestID,
		UserID:      user.ID,
		GeneratedAt: start,
		Candidates:  len(catalog),
		Results:     results,
	}
}
