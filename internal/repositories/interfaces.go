package repositories

import (
	"context"
	"errors"

	"github.com/chrisdamba/regionrank/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrReadOnly = errors.New("repository is read-only")
)

// RegionReader is the read side used at ranking time. GetAll returns a
// snapshot that callers treat as immutable.
type RegionReader interface {
	GetAll(ctx context.Context) ([]*models.RegionalProfile, error)
	GetByID(ctx context.Context, id string) (*models.RegionalProfile, error)
}

type RegionRepository interface {
	RegionReader
	BulkCreate(ctx context.Context, regions []*models.RegionalProfile) error
	Create(ctx context.Context, region *models.RegionalProfile) error
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type UserRepository interface {
	BulkCreate(ctx context.Context, users []*models.UserProfile) error
	Create(ctx context.Context, user *models.UserProfile) error
	GetAll(ctx context.Context) ([]*models.UserProfile, error)
	GetByID(ctx context.Context, id string) (*models.UserProfile, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
