package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

// ActorInput creates a standalone actor attached to an existing movie.
type ActorInput struct {
	Name      string    `json:"name"`
	Age       int       `json:"age"`
	Country   string    `json:"country"`
	Biography string    `json:"biography"`
	MovieID   uuid.UUID `json:"movieId"`
}

// ActorPatch replaces the descriptive fields of an actor.
type ActorPatch struct {
	Name      string  `json:"name"`
	Age       int     `json:"age"`
	Country   *string `json:"country"`
	Biography *string `json:"biography"`
}

// ActorFilter narrows GetAll. Both filters must match when set.
type ActorFilter struct {
	Name    string
	MovieID *uuid.UUID
}

// ActorService manages actors and their membership in movies.
type ActorService struct {
	actors ActorRepository
	movies MovieRepository
	opts   Options
}

// NewActorService builds an ActorService. Deletes are strict unless
// opts.DeletePolicy says otherwise.
func NewActorService(actors ActorRepository, movies MovieRepository, opts Options) *ActorService {
	return &ActorService{actors: actors, movies: movies, opts: opts.withDefaults(DeleteStrict)}
}

// AddActor validates the input, attaches a new actor to the referenced movie
// and stores both in one write.
func (s *ActorService) AddActor(ctx context.Context, in ActorInput) (ActorResponse, error) {
	var v violations
	v.check(hasText(in.Name), "Name is required.")
	v.check(hasText(in.Country), "Country is required.")
	v.check(hasText(in.Biography), "Biography is required.")
	v.check(in.Age >= 0 && in.Age <= s.opts.Now().Year(), "Age must be a valid positive value")
	v.check(in.MovieID != uuid.Nil, "Movie Id is required")
	if err := v.err(); err != nil {
		return ActorResponse{}, err
	}

	movie, err := s.movies.GetByID(ctx, in.MovieID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ActorResponse{}, domain.NewKindError(domain.KindReferenceNotFound, "Movie with the specified ID not found.")
		}
		return ActorResponse{}, err
	}

	country, biography := in.Country, in.Biography
	actor := domain.Actor{
		ID:        uuid.New(),
		Name:      in.Name,
		Age:       in.Age,
		Country:   &country,
		Biography: &biography,
		MovieIDs:  []uuid.UUID{movie.ID},
	}
	if err := s.actors.Add(ctx, actor); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ActorResponse{}, domain.NewKindError(domain.KindReferenceNotFound, "Movie with the specified ID not found.")
		}
		return ActorResponse{}, err
	}

	s.opts.Logger.DebugContext(ctx, "actor added", "actor_id", actor.ID, "movie_id", movie.ID)
	return toActorResponse(actor), nil
}

// GetAll lists actors with their movie ids.
func (s *ActorService) GetAll(ctx context.Context, filter ActorFilter) ([]ActorResponse, error) {
	actors, err := s.actors.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ActorResponse, 0, len(actors))
	for _, actor := range actors {
		if filter.Name != "" && !containsFold(actor.Name, filter.Name) {
			continue
		}
		if filter.MovieID != nil && !actor.InMovie(*filter.MovieID) {
			continue
		}
		out = append(out, toActorResponse(actor))
	}
	return out, nil
}

// GetByID returns an actor with its movie ids.
func (s *ActorService) GetByID(ctx context.Context, id uuid.UUID) (ActorResponse, error) {
	actor, err := s.actors.GetWithMovies(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ActorResponse{}, domain.NewKindError(domain.KindNotFound, fmt.Sprintf("The actor with the ID %s not found", id))
		}
		return ActorResponse{}, err
	}
	return toActorResponse(actor), nil
}

// Delete removes an actor and its movie associations.
func (s *ActorService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.actors.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted && s.opts.DeletePolicy == DeleteStrict {
		return domain.NewKindError(domain.KindDeleteFailed, "Failed to delete the actor.")
	}
	return nil
}

// Update overwrites name, age, country and biography. Movie membership is
// left as it is.
func (s *ActorService) Update(ctx context.Context, id uuid.UUID, patch ActorPatch) (ActorResponse, error) {
	existing, err := s.actors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ActorResponse{}, domain.NewKindError(domain.KindNotFound, "Actor not found")
		}
		return ActorResponse{}, err
	}

	existing.Name = patch.Name
	existing.Age = patch.Age
	existing.Country = optionalText(patch.Country)
	existing.Biography = optionalText(patch.Biography)

	if _, err := s.actors.Update(ctx, existing); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ActorResponse{}, domain.NewKindError(domain.KindUpdateFailed, "Failed to update the actor.")
		}
		return ActorResponse{}, err
	}

	updated, err := s.actors.GetWithMovies(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ActorResponse{}, domain.NewKindError(domain.KindUpdateFailed, "Failed to update the actor.")
		}
		return ActorResponse{}, err
	}
	return toActorResponse(updated), nil
}
