package output

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/chrisdamba/regionrank/internal/models"
	"github.com/chrisdamba/regionrank/internal/repositories/postgres"
)

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresOutput inserts records into the table named after the topic.
// Rewriting the same request and rank replaces the earlier row.
type PostgresOutput struct {
	ctx   context.Context
	db    execer
	close func()
}

func NewPostgresOutput(ctx context.Context, cfg models.DatabaseConfig) (*PostgresOutput, error) {
	pool, err := postgres.NewPool(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresOutput{ctx: ctx, db: pool, close: pool.Close}, nil
}

func topicToTable(topic string) string {
	return strings.NewReplacer("-", "_", ".", "_").Replace(strings.ToLower(topic))
}

func insertStatement(topic string) string {
	return fmt.Sprintf(`
		INSERT INTO %s (
			request_id, user_id, rank, region_id, region,
			quality_score, matching_score, final_score, tier, reasons, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (request_id, rank) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			region_id = EXCLUDED.region_id,
			region = EXCLUDED.region,
			quality_score = EXCLUDED.quality_score,
			matching_score = EXCLUDED.matching_score,
			final_score = EXCLUDED.final_score,
			tier = EXCLUDED.tier,
			reasons = EXCLUDED.reasons,
			created_at = EXCLUDED.created_at`,
		pgx.Identifier{topicToTable(topic)}.Sanitize())
}

func (p *PostgresOutput) WriteMessage(topic string, msg []byte) error {
	rec, err := decodeRecord(msg)
	if err != nil {
		return err
	}

	reasons := rec.Reasons
	if reasons == nil {
		reasons = []string{}
	}

	_, err = p.db.Exec(p.ctx, insertStatement(topic),
		rec.RequestID, rec.UserID, rec.Rank, rec.RegionID, rec.Region,
		rec.QualityScore, rec.MatchingScore, rec.FinalScore, rec.Tier, reasons,
		time.Unix(rec.Timestamp, 0).UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", topicToTable(topic), err)
	}
	return nil
}

func (p *PostgresOutput) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
