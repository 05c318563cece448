package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/repositories"
)

type RegionRepository struct {
	pool *pgxpool.Pool
}

func NewRegionRepository(pool *pgxpool.Pool) *RegionRepository {
	return &RegionRepository{pool: pool}
}

const upsertRegion = `
    INSERT INTO regions (
        id, name, commercial_activity, specialization, economic_power, demographic,
        age_distribution, gender_distribution, consumption_pattern, avg_income,
        specialized_industries, updated_at
    ) VALUES (
        $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now()
    )
    ON CONFLICT (id) DO UPDATE SET
        name = EXCLUDED.name,
        commercial_activity = EXCLUDED.commercial_activity,
        specialization = EXCLUDED.specialization,
        economic_power = EXCLUDED.economic_power,
        demographic = EXCLUDED.demographic,
        age_distribution = EXCLUDED.age_distribution,
        gender_distribution = EXCLUDED.gender_distribution,
        consumption_pattern = EXCLUDED.consumption_pattern,
        avg_income = EXCLUDED.avg_income,
        specialized_industries = EXCLUDED.specialized_industries,
        updated_at = now()`

const selectRegion = `
    SELECT
        id, name, commercial_activity, specialization, economic_power, demographic,
        age_distribution, gender_distribution, consumption_pattern, avg_income,
        specialized_industries
    FROM regions`

func regionArgs(region *models.RegionalProfile) []any {
	return []any{
		region.ID,
		region.Name,
		region.QualityComponents.CommercialActivity,
		region.QualityComponents.Specialization,
		region.QualityComponents.EconomicPower,
		region.QualityComponents.Demographic,
		nonNilMap(region.AgeDistribution),
		nonNilMap(region.GenderDistribution),
		nonNilMap(region.ConsumptionPattern),
		region.AvgIncome,
		nonNilSlice(region.SpecializedIndustries),
	}
}

func (r *RegionRepository) BulkCreate(ctx context.Context, regions []*models.RegionalProfile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, region := range regions {
		if region == nil {
			continue
		}
		batch.Queue(upsertRegion, regionArgs(region)...)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert regions: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *RegionRepository) Create(ctx context.Context, region *models.RegionalProfile) error {
	_, err := r.pool.Exec(ctx, upsertRegion, regionArgs(region)...)
	return err
}

func (r *RegionRepository) GetAll(ctx context.Context) ([]*models.RegionalProfile, error) {
	rows, err := r.pool.Query(ctx, selectRegion+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regions := make([]*models.RegionalProfile, 0)
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}
	return regions, rows.Err()
}

func (r *RegionRepository) GetByID(ctx context.Context, id string) (*models.RegionalProfile, error) {
	region, err := scanRegion(r.pool.QueryRow(ctx, selectRegion+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("region %q: %w", id, repositories.ErrNotFound)
	}
	return region, err
}

func (r *RegionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM regions").Scan(&count)
	return count, err
}

func (r *RegionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE regions")
	return err
}

func scanRegion(row pgx.Row) (*models.RegionalProfile, error) {
	region := &models.RegionalProfile{}
	err := row.Scan(
		&region.ID,
		&region.Name,
		&region.QualityComponents.CommercialActivity,
		&region.QualityComponents.Specialization,
		&region.QualityComponents.EconomicPower,
		&region.QualityComponents.Demographic,
		&region.AgeDistribution,
		&region.GenderDistribution,
		&region.ConsumptionPattern,
		&region.AvgIncome,
		&region.SpecializedIndustries,
	)
	if err != nil {
		return nil, err
	}
	return region, nil
}

func nonNilMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return map[string]float64{}
	}
	return m
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
