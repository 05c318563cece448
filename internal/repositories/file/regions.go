package file

import (
	"context"
	"fmt"

	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/repositories"
)

var _ repositories.RegionRepository = (*RegionRepository)(nil)

// LoadRegions reads a catalog document: a top-level list of regions.
func LoadRegions(path string) ([]*models.RegionalProfile, error) {
	var regions []*models.RegionalProfile
	if err := decodeFile(path, &regions); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(regions))
	out := regions[:0]
	for i, r := range regions {
		if r == nil {
			continue
		}
		if r.ID == "" {
			return nil, fmt.Errorf("%s: region %d has no id", path, i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%s: duplicate region id %q", path, r.ID)
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out, nil
}

func SaveRegions(path string, regions []*models.RegionalProfile) error {
	return encodeFile(path, regions)
}

// RegionRepository serves a catalog file. Every read decodes the file again,
// so wrap it in a cache for repeated use.
type RegionRepository struct {
	path string
}

func NewRegionRepository(path string) *RegionRepository {
	return &RegionRepository{path: path}
}

func (r *RegionRepository) GetAll(ctx context.Context) ([]*models.RegionalProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadRegions(r.path)
}

func (r *RegionRepository) GetByID(ctx context.Context, id string) (*models.RegionalProfile, error) {
	regions, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, region := range regions {
		if region.ID == id {
			return region, nil
		}
	}
	return nil, fmt.Errorf("region %q: %w", id, repositories.ErrNotFound)
}

func (r *RegionRepository) Count(ctx context.Context) (int, error) {
	regions, err := r.GetAll(ctx)
	return len(regions), err
}

func (r *RegionRepository) BulkCreate(context.Context, []*models.RegionalProfile) error {
	return repositories.ErrReadOnly
}

func (r *RegionRepository) Create(context.Context, *models.RegionalProfile) error {
	return repositories.ErrReadOnly
}

func (r *RegionRepository) DeleteAll(context.Context) error {
	return repositories.ErrReadOnly
}
