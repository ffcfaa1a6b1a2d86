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

// MoviesRepository provides persistence helpers for movie aggregates.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    name,
    description,
    year,
    director_id,
    created_at,
    updated_at
`

// Add inserts the movie, any actors in movie.Actors not stored yet, and the
// movie/actor associations in one transaction.
func (r *MoviesRepository) Add(ctx context.Context, movie domain.Movie) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO movies (id, name, description, year, director_id)
            VALUES ($1,$2,$3,$4,$5)
        `
		if _, err := tx.Exec(ctx, query, movie.ID, movie.Name, movie.Description, movie.Year, movie.DirectorID); err != nil {
			if isForeignKeyViolation(err) {
				return ErrNotFound
			}
			return fmt.Errorf("insert movie: %w", err)
		}
		return attachActors(ctx, tx, movie.ID, movie.Actors)
	})
}

// GetByID fetches a movie without its actors.
func (r *MoviesRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Movie, error) {
	return getMovie(ctx, r.pool, id)
}

// GetWithActors fetches a movie together with its attached actors.
func (r *MoviesRepository) GetWithActors(ctx context.Context, id uuid.UUID) (domain.Movie, error) {
	movie, err := getMovie(ctx, r.pool, id)
	if err != nil {
		return domain.Movie{}, err
	}
	cast, err := loadCast(ctx, r.pool, &id)
	if err != nil {
		return domain.Movie{}, err
	}
	if actors, ok := cast[id]; ok {
		movie.Actors = actors
	}
	return movie, nil
}

// GetAll returns every movie with its actors attached.
func (r *MoviesRepository) GetAll(ctx context.Context) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY created_at, id`, movieColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	cast, err := loadCast(ctx, r.pool, nil)
	if err != nil {
		return nil, err
	}
	for i := range movies {
		if actors, ok := cast[movies[i].ID]; ok {
			movies[i].Actors = actors
		}
	}
	return movies, nil
}

// Update writes the movie's scalar fields and replaces its actor set with
// movie.Actors, inserting actors that are not stored yet. Everything happens
// in one transaction; ErrNotFound is returned when the movie row is gone.
func (r *MoviesRepository) Update(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	var updated domain.Movie
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := fmt.Sprintf(`
            UPDATE movies
            SET name = $2,
                description = $3,
                year = $4,
                updated_at = now()
            WHERE id = $1
            RETURNING %s
        `, movieColumns)

		row := tx.QueryRow(ctx, query, movie.ID, movie.Name, movie.Description, movie.Year)
		stored, err := scanMovie(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		keep := movie.ActorIDs()
		if _, err := tx.Exec(ctx,
			`DELETE FROM movie_actors WHERE movie_id = $1 AND NOT (actor_id = ANY($2::uuid[]))`,
			movie.ID, keep,
		); err != nil {
			return fmt.Errorf("detach actors: %w", err)
		}
		if err := attachActors(ctx, tx, movie.ID, movie.Actors); err != nil {
			return err
		}

		cast, err := loadCast(ctx, tx, &movie.ID)
		if err != nil {
			return err
		}
		if actors, ok := cast[movie.ID]; ok {
			stored.Actors = actors
		}
		updated = stored
		return nil
	})
	if err != nil {
		return domain.Movie{}, err
	}
	return updated, nil
}

// Delete removes a movie and its actor associations. It reports whether a row existed.
func (r *MoviesRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete movie: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteMany parses each external id independently, skips the ones that are
// not valid UUIDs, and removes the remaining movies in one statement. It
// returns the number of rows removed.
func (r *MoviesRepository) DeleteMany(ctx context.Context, rawIDs []string) (int64, error) {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ids = append(ids, parsed)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `DELETE FROM movies WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete movies: %w", err)
	}
	return tag.RowsAffected(), nil
}

func getMovie(ctx context.Context, q querier, id uuid.UUID) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE id = $1`, movieColumns)
	movie, err := scanMovie(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, err
	}
	return movie, nil
}

func attachActors(ctx context.Context, q querier, movieID uuid.UUID, actors []domain.Actor) error {
	for _, actor := range actors {
		if err := insertActorIfMissing(ctx, q, actor); err != nil {
			return err
		}
		if err := linkActor(ctx, q, movieID, actor.ID); err != nil {
			return err
		}
	}
	return nil
}

// loadCast maps movie id to its actors, ordered by name. A nil movieID loads
// the cast of every movie.
func loadCast(ctx context.Context, q querier, movieID *uuid.UUID) (map[uuid.UUID][]domain.Actor, error) {
	query := `
        SELECT ma.movie_id,
               a.id, a.name, a.age, a.country, a.biography, a.created_at, a.updated_at
        FROM movie_actors ma
        JOIN actors a ON a.id = ma.actor_id
    `
	args := make([]any, 0, 1)
	if movieID != nil {
		query += ` WHERE ma.movie_id = $1`
		args = append(args, *movieID)
	}
	query += ` ORDER BY ma.movie_id, a.name, a.id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cast := make(map[uuid.UUID][]domain.Actor)
	for rows.Next() {
		var (
			mid   uuid.UUID
			actor domain.Actor
		)
		if err := rows.Scan(
			&mid,
			&actor.ID,
			&actor.Name,
			&actor.Age,
			&actor.Country,
			&actor.Biography,
			&actor.CreatedAt,
			&actor.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cast[mid] = append(cast[mid], actor)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cast, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Name,
		&movie.Description,
		&movie.Year,
		&movie.DirectorID,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	movie.Actors = make([]domain.Actor, 0)
	return movie, nil
}
