package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
	"github.com/Clark-Hu/cinema-catalog/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = domain.ErrNotFound

// ErrInUse is returned when a row cannot be removed because other rows still
// reference it.
var ErrInUse = domain.ErrInUse

const pgForeignKeyViolation = "23503"

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Movies    *MoviesRepository
	Actors    *ActorsRepository
	Directors *DirectorsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies:    &MoviesRepository{pool: pool},
		Actors:    &ActorsRepository{pool: pool},
		Directors: &DirectorsRepository{pool: pool},
	}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
