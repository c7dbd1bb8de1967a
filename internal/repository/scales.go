package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weighpoint/weighpoint/internal/domain"
)

// ScalesRepository provides persistence helpers for the CAT scale dataset.
type ScalesRepository struct {
	pool *pgxpool.Pool
}

// BulkInsert loads scale rows with COPY and returns the inserted count.
func (r *ScalesRepository) BulkInsert(ctx context.Context, scales []domain.CatScale) (int64, error) {
	if len(scales) == 0 {
		return 0, nil
	}

	columns := []string{
		"scale_number", "truckstop_name", "city", "state", "address",
		"latitude", "longitude",
	}
	count, err := r.pool.CopyFrom(ctx, pgx.Identifier{"cat_scales"}, columns,
		pgx.CopyFromSlice(len(scales), func(i int) ([]interface{}, error) {
			s := scales[i]
			return []interface{}{
				s.Number, s.TruckstopName, s.City, s.State, s.Address,
				s.Location.Lat, s.Location.Lon,
			}, nil
		}))
	if err != nil {
		return 0, fmt.Errorf("copy cat scales: %w", err)
	}
	return count, nil
}

// List returns every scale location, ordered by name for stable output.
func (r *ScalesRepository) List(ctx context.Context) ([]domain.CatScale, error) {
	const query = `
        SELECT scale_number, truckstop_name, city, state, address, latitude, longitude
        FROM cat_scales
        ORDER BY truckstop_name, scale_number
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cat scales: %w", err)
	}
	defer rows.Close()

	var scales []domain.CatScale
	for rows.Next() {
		var s domain.CatScale
		if err := rows.Scan(
			&s.Number, &s.TruckstopName, &s.City, &s.State, &s.Address,
			&s.Location.Lat, &s.Location.Lon,
		); err != nil {
			return nil, fmt.Errorf("scan cat scale: %w", err)
		}
		scales = append(scales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scales, nil
}
