package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weighpoint/weighpoint/internal/domain"
)

// RatingsRepository provides persistence helpers for the risk-ratings
// dataset produced by the aggregation run.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// Replace atomically swaps the ratings dataset for a freshly aggregated
// generation. Readers either see the previous generation or the new one,
// never a mix.
func (r *RatingsRepository) Replace(ctx context.Context, ratings []domain.RiskRating, generatedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace ratings: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM risk_ratings`); err != nil {
		return fmt.Errorf("clear ratings: %w", err)
	}

	columns := []string{
		"subject_type", "subject_key", "incident_count", "total_penalty",
		"raw_score", "normalized_score", "generated_at",
	}
	_, err = tx.CopyFrom(ctx, pgx.Identifier{"risk_ratings"}, columns,
		pgx.CopyFromSlice(len(ratings), func(i int) ([]interface{}, error) {
			rt := ratings[i]
			return []interface{}{
				rt.SubjectType, rt.SubjectKey, rt.IncidentCount, rt.TotalPenalty,
				rt.RawScore, rt.NormalizedScore, generatedAt,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy ratings: %w", err)
	}

	return tx.Commit(ctx)
}

// List returns the full ratings dataset, ordered for deterministic loads.
func (r *RatingsRepository) List(ctx context.Context) ([]domain.RiskRating, error) {
	const query = `
        SELECT subject_type, subject_key, incident_count, total_penalty,
               raw_score, normalized_score
        FROM risk_ratings
        ORDER BY subject_type, normalized_score DESC, subject_key
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []domain.RiskRating
	for rows.Next() {
		var rt domain.RiskRating
		if err := rows.Scan(
			&rt.SubjectType, &rt.SubjectKey, &rt.IncidentCount, &rt.TotalPenalty,
			&rt.RawScore, &rt.NormalizedScore,
		); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ratings, nil
}

// GeneratedAt reports the timestamp of the loaded ratings generation, or
// ErrNotFound when no aggregation has run yet.
func (r *RatingsRepository) GeneratedAt(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := r.pool.QueryRow(ctx, `SELECT MAX(generated_at) FROM risk_ratings`).Scan(&ts)
	if err != nil {
		return time.Time{}, ErrNotFound
	}
	return ts, nil
}
