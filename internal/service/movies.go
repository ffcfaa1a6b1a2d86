package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

// ActorEntry references an existing actor by id or describes one to create
// alongside a movie.
type ActorEntry struct {
	ID        *uuid.UUID `json:"id"`
	Name      string     `json:"name"`
	Age       int        `json:"age"`
	Country   *string    `json:"country"`
	Biography *string    `json:"biography"`
}

// MovieCreateRequest is the payload for POST /movies.
type MovieCreateRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Year        int          `json:"year"`
	DirectorID  uuid.UUID    `json:"directorId"`
	Actors      []ActorEntry `json:"actors"`
}

// MovieUpdateRequest is the payload for PUT /movies/{id}.
type MovieUpdateRequest struct {
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Year           int          `json:"year"`
	ActorsToAdd    []ActorEntry `json:"actorsToAdd"`
	ActorsToRemove []uuid.UUID  `json:"actorsToRemove"`
}

// MovieService manages the movie aggregate and its cast.
type MovieService struct {
	movies    MovieRepository
	directors DirectorRepository
	actors    ActorRepository
	opts      Options
}

// NewMovieService builds a MovieService. Deleting an absent movie succeeds
// unless opts.DeletePolicy is strict.
func NewMovieService(movies MovieRepository, directors DirectorRepository, actors ActorRepository, opts Options) *MovieService {
	return &MovieService{
		movies:    movies,
		directors: directors,
		actors:    actors,
		opts:      opts.withDefaults(DeleteIgnoreMissing),
	}
}

// Create validates the request, resolves the director and every actor entry,
// and stores the movie with its cast in one write.
func (s *MovieService) Create(ctx context.Context, req MovieCreateRequest) (MovieResponse, error) {
	var v violations
	v.check(hasText(req.Name), "Name is required.")
	v.check(hasText(req.Description), "Description is required.")
	v.check(req.Year > 0 && req.Year <= s.opts.Now().Year(), "Year must be a valid positive year up to the current year.")
	v.check(req.DirectorID != uuid.Nil, "Director Id is required.")
	if err := v.err(); err != nil {
		return MovieResponse{}, err
	}

	if _, err := s.directors.GetByID(ctx, req.DirectorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return MovieResponse{}, errDirectorMissing()
		}
		return MovieResponse{}, err
	}

	movie := domain.Movie{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Year:        req.Year,
		DirectorID:  req.DirectorID,
		Actors:      make([]domain.Actor, 0, len(req.Actors)),
	}
	for _, entry := range req.Actors {
		actor, _, err := s.resolveOrCreate(ctx, entry)
		if err != nil {
			return MovieResponse{}, err
		}
		if movie.HasActor(actor.ID) {
			continue
		}
		movie.Actors = append(movie.Actors, actor)
	}

	if err := s.movies.Add(ctx, movie); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return MovieResponse{}, errDirectorMissing()
		}
		return MovieResponse{}, err
	}

	s.opts.Logger.DebugContext(ctx, "movie created", "movie_id", movie.ID, "actors", len(movie.Actors))
	return toMovieResponse(movie), nil
}

// GetByID returns a movie with its actor ids.
func (s *MovieService) GetByID(ctx context.Context, id uuid.UUID) (MovieResponse, error) {
	movie, err := s.movies.GetWithActors(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return MovieResponse{}, domain.NewKindError(domain.KindNotFound, fmt.Sprintf("The movie with the %s not found", id))
		}
		return MovieResponse{}, err
	}
	return toMovieResponse(movie), nil
}

// GetAll lists movies, optionally filtered by a case-insensitive name fragment.
func (s *MovieService) GetAll(ctx context.Context, name string) ([]MovieResponse, error) {
	movies, err := s.movies.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]MovieResponse, 0, len(movies))
	for _, movie := range movies {
		if name != "" && !containsFold(movie.Name, name) {
			continue
		}
		out = append(out, toMovieResponse(movie))
	}
	return out, nil
}

// Update applies the scalar fields and the requested cast changes. The next
// state is computed and validated in memory first; nothing is written unless
// every removal refers to a current member.
func (s *MovieService) Update(ctx context.Context, id uuid.UUID, req MovieUpdateRequest) (MovieResponse, error) {
	current, err := s.movies.GetWithActors(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return MovieResponse{}, domain.NewKindError(domain.KindNotFound, "Movie not found")
		}
		return MovieResponse{}, err
	}

	next := current
	next.Name = req.Name
	next.Description = req.Description
	next.Year = req.Year

	var v violations
	remove := make(map[uuid.UUID]struct{}, len(req.ActorsToRemove))
	for _, actorID := range req.ActorsToRemove {
		v.check(current.HasActor(actorID), fmt.Sprintf("Actor %s not found in movie's actor list.", actorID))
		remove[actorID] = struct{}{}
	}
	if err := v.err(); err != nil {
		return MovieResponse{}, err
	}

	next.Actors = make([]domain.Actor, 0, len(current.Actors)+len(req.ActorsToAdd))
	for _, actor := range current.Actors {
		if _, drop := remove[actor.ID]; drop {
			continue
		}
		next.Actors = append(next.Actors, actor)
	}

	for _, entry := range req.ActorsToAdd {
		if !hasText(entry.Name) {
			continue
		}
		if entry.ID != nil && next.HasActor(*entry.ID) {
			continue
		}
		actor, _, err := s.resolveOrCreate(ctx, entry)
		if err != nil {
			return MovieResponse{}, err
		}
		if next.HasActor(actor.ID) {
			continue
		}
		next.Actors = append(next.Actors, actor)
	}

	updated, err := s.movies.Update(ctx, next)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return MovieResponse{}, domain.NewKindError(domain.KindUpdateFailed, "Failed to update the movie.")
		}
		return MovieResponse{}, err
	}

	s.opts.Logger.DebugContext(ctx, "movie updated",
		"movie_id", id,
		"removed", len(remove),
		"actors", len(updated.Actors),
	)
	return toMovieResponse(updated), nil
}

// Delete removes a movie and its actor associations.
func (s *MovieService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.movies.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted && s.opts.DeletePolicy == DeleteStrict {
		return domain.NewKindError(domain.KindDeleteFailed, "Failed to delete the movie.")
	}
	return nil
}

// DeleteMany removes every movie whose id parses and exists. Other ids are
// skipped without error.
func (s *MovieService) DeleteMany(ctx context.Context, ids []string) (DeleteManyResponse, error) {
	removed, err := s.movies.DeleteMany(ctx, ids)
	if err != nil {
		return DeleteManyResponse{}, err
	}

	s.opts.Logger.DebugContext(ctx, "bulk movie delete", "requested", len(ids), "removed", removed)
	if removed > 0 {
		return DeleteManyResponse{Message: "Deleted all movies."}, nil
	}
	return DeleteManyResponse{Message: "No movies were deleted."}, nil
}

// resolveOrCreate returns the stored actor when entry.ID names one. Otherwise
// it builds a new actor from the entry, keeping the supplied id if any, and
// reports created=true. The new actor is persisted by the movie write.
func (s *MovieService) resolveOrCreate(ctx context.Context, entry ActorEntry) (domain.Actor, bool, error) {
	if entry.ID != nil && *entry.ID != uuid.Nil {
		existing, err := s.actors.GetByID(ctx, *entry.ID)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.Actor{}, false, err
		}
	}

	if !hasText(entry.Name) {
		return domain.Actor{}, false, domain.NewValidationError("Actor name is required.")
	}

	id := uuid.New()
	if entry.ID != nil && *entry.ID != uuid.Nil {
		id = *entry.ID
	}
	return domain.Actor{
		ID:        id,
		Name:      entry.Name,
		Age:       entry.Age,
		Country:   optionalText(entry.Country),
		Biography: optionalText(entry.Biography),
		MovieIDs:  make([]uuid.UUID, 0),
	}, true, nil
}

func errDirectorMissing() error {
	return domain.NewKindError(domain.KindReferenceNotFound, "Director not found. You have to Add the Director first!")
}
