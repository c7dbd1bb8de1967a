package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weighpoint/weighpoint/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates the dataset-specific repositories.
type Repository struct {
	Claims  *ClaimsRepository
	Scales  *ScalesRepository
	Ratings *RatingsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Claims:  &ClaimsRepository{pool: pool},
		Scales:  &ScalesRepository{pool: pool},
		Ratings: &RatingsRepository{pool: pool},
	}
}
