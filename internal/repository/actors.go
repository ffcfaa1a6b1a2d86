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

// ActorsRepository provides persistence helpers for actor entities.
type ActorsRepository struct {
	pool *pgxpool.Pool
}

const actorColumns = `
    id,
    name,
    age,
    country,
    biography,
    created_at,
    updated_at
`

// Add inserts the actor and associates it with every movie in actor.MovieIDs
// within a single transaction.
func (r *ActorsRepository) Add(ctx context.Context, actor domain.Actor) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
            INSERT INTO actors (id, name, age, country, biography)
            VALUES ($1,$2,$3,$4,$5)
        `
		if _, err := tx.Exec(ctx, query, actor.ID, actor.Name, actor.Age, actor.Country, actor.Biography); err != nil {
			return fmt.Errorf("insert actor: %w", err)
		}
		for _, movieID := range actor.MovieIDs {
			if err := linkActor(ctx, tx, movieID, actor.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID fetches an actor without its movie associations.
func (r *ActorsRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Actor, error) {
	return getActor(ctx, r.pool, id)
}

// GetWithMovies fetches an actor together with the ids of the movies it appears in.
func (r *ActorsRepository) GetWithMovies(ctx context.Context, id uuid.UUID) (domain.Actor, error) {
	actor, err := getActor(ctx, r.pool, id)
	if err != nil {
		return domain.Actor{}, err
	}
	links, err := loadMovieLinks(ctx, r.pool, &id)
	if err != nil {
		return domain.Actor{}, err
	}
	if ids, ok := links[id]; ok {
		actor.MovieIDs = ids
	}
	return actor, nil
}

// GetAll returns every actor with its movie ids.
func (r *ActorsRepository) GetAll(ctx context.Context) ([]domain.Actor, error) {
	query := fmt.Sprintf(`SELECT %s FROM actors ORDER BY created_at, id`, actorColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	actors := make([]domain.Actor, 0)
	for rows.Next() {
		actor, err := scanActor(rows)
		if err != nil {
			return nil, err
		}
		actors = append(actors, actor)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := loadMovieLinks(ctx, r.pool, nil)
	if err != nil {
		return nil, err
	}
	for i := range actors {
		if ids, ok := links[actors[i].ID]; ok {
			actors[i].MovieIDs = ids
		}
	}
	return actors, nil
}

// Update overwrites the scalar fields of an actor. Associations are untouched.
func (r *ActorsRepository) Update(ctx context.Context, actor domain.Actor) (domain.Actor, error) {
	query := fmt.Sprintf(`
        UPDATE actors
        SET name = $2,
            age = $3,
            country = $4,
            biography = $5,
            updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, actorColumns)

	row := r.pool.QueryRow(ctx, query, actor.ID, actor.Name, actor.Age, actor.Country, actor.Biography)
	updated, err := scanActor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Actor{}, ErrNotFound
		}
		return domain.Actor{}, err
	}
	return updated, nil
}

// Delete removes an actor and its associations. It reports whether a row existed.
func (r *ActorsRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM actors WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete actor: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func getActor(ctx context.Context, q querier, id uuid.UUID) (domain.Actor, error) {
	query := fmt.Sprintf(`SELECT %s FROM actors WHERE id = $1`, actorColumns)
	actor, err := scanActor(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Actor{}, ErrNotFound
		}
		return domain.Actor{}, err
	}
	return actor, nil
}

// insertActorIfMissing stores a synthesized actor; an existing row with the
// same id is left unchanged.
func insertActorIfMissing(ctx context.Context, q querier, actor domain.Actor) error {
	const query = `
        INSERT INTO actors (id, name, age, country, biography)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (id) DO NOTHING
    `
	if _, err := q.Exec(ctx, query, actor.ID, actor.Name, actor.Age, actor.Country, actor.Biography); err != nil {
		return fmt.Errorf("insert actor %s: %w", actor.ID, err)
	}
	return nil
}

func linkActor(ctx context.Context, q querier, movieID, actorID uuid.UUID) error {
	const query = `
        INSERT INTO movie_actors (movie_id, actor_id)
        VALUES ($1,$2)
        ON CONFLICT DO NOTHING
    `
	if _, err := q.Exec(ctx, query, movieID, actorID); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		return fmt.Errorf("link actor %s to movie %s: %w", actorID, movieID, err)
	}
	return nil
}

// loadMovieLinks maps actor id to the ids of its movies. A nil actorID loads
// every association.
func loadMovieLinks(ctx context.Context, q querier, actorID *uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	query := `SELECT actor_id, movie_id FROM movie_actors`
	args := make([]any, 0, 1)
	if actorID != nil {
		query += ` WHERE actor_id = $1`
		args = append(args, *actorID)
	}
	query += ` ORDER BY actor_id, movie_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var aid, mid uuid.UUID
		if err := rows.Scan(&aid, &mid); err != nil {
			return nil, err
		}
		links[aid] = append(links[aid], mid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

func scanActor(row pgx.Row) (domain.Actor, error) {
	var actor domain.Actor
	err := row.Scan(
		&actor.ID,
		&actor.Name,
		&actor.Age,
		&actor.Country,
		&actor.Biography,
		&actor.CreatedAt,
		&actor.UpdatedAt,
	)
	if err != nil {
		return domain.Actor{}, err
	}
	actor.MovieIDs = make([]uuid.UUID, 0)
	return actor, nil
}
