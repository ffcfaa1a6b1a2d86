package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

// DirectorsRepository provides persistence helpers for director entities.
type DirectorsRepository struct {
	pool *pgxpool.Pool
}

const directorColumns = `id, name, created_at, updated_at`

// Add inserts a new director row.
func (r *DirectorsRepository) Add(ctx context.Context, director domain.Director) error {
	if _, err := r.pool.Exec(ctx, `INSERT INTO directors (id, name) VALUES ($1,$2)`, director.ID, director.Name); err != nil {
		return fmt.Errorf("insert director: %w", err)
	}
	return nil
}

// GetByID fetches a director by its identifier.
func (r *DirectorsRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Director, error) {
	query := fmt.Sprintf(`SELECT %s FROM directors WHERE id = $1`, directorColumns)
	director, err := scanDirector(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Director{}, ErrNotFound
		}
		return domain.Director{}, err
	}
	return director, nil
}

// GetAll returns every director.
func (r *DirectorsRepository) GetAll(ctx context.Context) ([]domain.Director, error) {
	query := fmt.Sprintf(`SELECT %s FROM directors ORDER BY created_at, id`, directorColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	directors := make([]domain.Director, 0)
	for rows.Next() {
		director, err := scanDirector(rows)
		if err != nil {
			return nil, err
		}
		directors = append(directors, director)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return directors, nil
}

// Update renames a director and returns the stored row.
func (r *DirectorsRepository) Update(ctx context.Context, director domain.Director) (domain.Director, error) {
	query := fmt.Sprintf(`
        UPDATE directors
        SET name = $2,
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, directorColumns)

	updated, err := scanDirector(r.pool.QueryRow(ctx, query, director.ID, director.Name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Director{}, ErrNotFound
		}
		return domain.Director{}, err
	}
	return updated, nil
}

// Delete removes a director. It reports whether a row existed and returns
// ErrInUse while movies still reference the director.
func (r *DirectorsRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM directors WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrInUse
		}
		return false, fmt.Errorf("delete director: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanDirector(row pgx.Row) (domain.Director, error) {
	var director domain.Director
	if err := row.Scan(&director.ID, &director.Name, &director.CreatedAt, &director.UpdatedAt); err != nil {
		return domain.Director{}, err
	}
	return director, nil
}
