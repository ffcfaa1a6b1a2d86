package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

// DirectorInput is the payload for creating or renaming a director.
type DirectorInput struct {
	Name string `json:"name"`
}

// DirectorService manages directors.
type DirectorService struct {
	directors DirectorRepository
	opts      Options
}

// NewDirectorService builds a DirectorService. Deletes are strict unless
// opts.DeletePolicy says otherwise.
func NewDirectorService(directors DirectorRepository, opts Options) *DirectorService {
	return &DirectorService{directors: directors, opts: opts.withDefaults(DeleteStrict)}
}

// Add validates and stores a new director.
func (s *DirectorService) Add(ctx context.Context, in DirectorInput) (DirectorResponse, error) {
	var v violations
	v.check(hasText(in.Name), "Name is required.")
	if err := v.err(); err != nil {
		return DirectorResponse{}, err
	}

	director := domain.Director{ID: uuid.New(), Name: in.Name}
	if err := s.directors.Add(ctx, director); err != nil {
		return DirectorResponse{}, err
	}
	return toDirectorResponse(director), nil
}

// GetByID returns a single director.
func (s *DirectorService) GetByID(ctx context.Context, id uuid.UUID) (DirectorResponse, error) {
	director, err := s.directors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return DirectorResponse{}, domain.NewKindError(domain.KindNotFound, fmt.Sprintf("The director with the %s not found", id))
		}
		return DirectorResponse{}, err
	}
	return toDirectorResponse(director), nil
}

// GetAll lists directors, optionally filtered by a case-insensitive name fragment.
func (s *DirectorService) GetAll(ctx context.Context, name string) ([]DirectorResponse, error) {
	directors, err := s.directors.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]DirectorResponse, 0, len(directors))
	for _, director := range directors {
		if name != "" && !containsFold(director.Name, name) {
			continue
		}
		out = append(out, toDirectorResponse(director))
	}
	return out, nil
}

// Delete removes a director. A director still referenced by movies is never
// removed.
func (s *DirectorService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.directors.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrInUse) {
			return domain.NewKindError(domain.KindDeleteFailed, "Failed to delete the director.")
		}
		return err
	}
	if !deleted && s.opts.DeletePolicy == DeleteStrict {
		return domain.NewKindError(domain.KindDeleteFailed, "Failed to delete the director.")
	}
	return nil
}

// Update renames a director and returns its post-update state.
func (s *DirectorService) Update(ctx context.Context, id uuid.UUID, in DirectorInput) (DirectorResponse, error) {
	existing, err := s.directors.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return DirectorResponse{}, domain.NewKindError(domain.KindNotFound, "Director not found")
		}
		return DirectorResponse{}, err
	}

	if !hasText(in.Name) {
		return DirectorResponse{}, domain.NewValidationError("Name is required.")
	}
	existing.Name = in.Name

	updated, err := s.directors.Update(ctx, existing)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return DirectorResponse{}, domain.NewKindError(domain.KindUpdateFailed, "Failed to update the director.")
		}
		return DirectorResponse{}, err
	}
	return toDirectorResponse(updated), nil
}
