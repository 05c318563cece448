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

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const upsertUser = `
    INSERT INTO user_profiles (
        id, age, gender, income, spending_categories, preferred_industries
    ) VALUES (
        $1, $2, $3, $4, $5, $6
    )
    ON CONFLICT (id) DO UPDATE SET
        age = EXCLUDED.age,
        gender = EXCLUDED.gender,
        income = EXCLUDED.income,
        spending_categories = EXCLUDED.spending_categories,
        preferred_industries = EXCLUDED.preferred_industries`

const selectUser = `
    SELECT id, age, gender, income, spending_categories, preferred_industries
    FROM user_profiles`

func (r *UserRepository) BulkCreate(ctx context.Context, users []*models.UserProfile) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, user := range users {
		if user == nil {
			continue
		}
		_, err = tx.Exec(ctx, upsertUser,
			user.ID,
			user.Age,
			string(user.Gender),
			user.Income,
			nonNilMap(user.SpendingCategories),
			nonNilSlice(user.PreferredIndustries),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert user %q: %w", user.ID, err)
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) Create(ctx context.Context, user *models.UserProfile) error {
	_, err := r.pool.Exec(ctx, upsertUser,
		user.ID,
		user.Age,
		string(user.Gender),
		user.Income,
		nonNilMap(user.SpendingCategories),
		nonNilSlice(user.PreferredIndustries),
	)
	return err
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*models.UserProfile, error) {
	rows, err := r.pool.Query(ctx, selectUser+" ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.UserProfile
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.UserProfile, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, selectUser+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %q: %w", id, repositories.ErrNotFound)
	}
	return user, err
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM user_profiles").Scan(&count)
	return count, err
}

func (r *UserRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE user_profiles")
	return err
}

func scanUser(row pgx.Row) (*models.UserProfile, error) {
	var gender string
	user := &models.UserProfile{}
	err := row.Scan(
		&user.ID,
		&user.Age,
		&gender,
		&user.Income,
		&user.SpendingCategories,
		&user.PreferredIndustries,
	)
	if err != nil {
		return nil, err
	}
	user.Gender = models.Gender(gender)
	return user, nil
}
