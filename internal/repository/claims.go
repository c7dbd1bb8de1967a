package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weighpoint/weighpoint/internal/domain"
)

// ClaimsRepository provides persistence helpers for the historical
// cargo-claims dataset.
type ClaimsRepository struct {
	pool *pgxpool.Pool
}

// BulkInsert loads claim rows with COPY and returns the inserted count.
func (r *ClaimsRepository) BulkInsert(ctx context.Context, claims []domain.ClaimRecord) (int64, error) {
	if len(claims) == 0 {
		return 0, nil
	}

	columns := []string{
		"ship_from_city", "ship_from_state", "ship_to_city", "ship_to_state",
		"liable_party", "incident", "penalty", "occurred_at",
	}
	count, err := r.pool.CopyFrom(ctx, pgx.Identifier{"claims"}, columns,
		pgx.CopyFromSlice(len(claims), func(i int) ([]interface{}, error) {
			c := claims[i]
			return []interface{}{
				c.ShipFromCity, c.ShipFromState, c.ShipToCity, c.ShipToState,
				c.LiableParty, c.Incident, c.Penalty, c.OccurredAt,
			}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy claims: %w", err)
	}
	return count, nil
}

// List returns every claim row in insertion order, for the aggregation run.
func (r *ClaimsRepository) List(ctx context.Context) ([]domain.ClaimRecord, error) {
	const query = `
        SELECT ship_from_city, ship_from_state, ship_to_city, ship_to_state,
               liable_party, incident, penalty, occurred_at
        FROM claims
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []domain.ClaimRecord
	for rows.Next() {
		var c domain.ClaimRecord
		if err := rows.Scan(
			&c.ShipFromCity, &c.ShipFromState, &c.ShipToCity, &c.ShipToState,
			&c.LiableParty, &c.Incident, &c.Penalty, &c.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return claims, nil
}

// Count reports the number of stored claims.
func (r *ClaimsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM claims`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return count, nil
}
