// Package service holds the aggregate services for movies, directors and
// actors. Services validate input, resolve cross-entity references, mutate
// the in-memory aggregate and hand it to the repositories; every failure the
// caller can act on is returned as a *domain.ValidationError.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

// MovieRepository is the persistence contract MovieService and ActorService rely on.
type MovieRepository interface {
	Add(ctx context.Context, movie domain.Movie) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Movie, error)
	GetWithActors(ctx context.Context, id uuid.UUID) (domain.Movie, error)
	GetAll(ctx context.Context) ([]domain.Movie, error)
	Update(ctx context.Context, movie domain.Movie) (domain.Movie, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

// ActorRepository is the persistence contract for actors.
type ActorRepository interface {
	Add(ctx context.Context, actor domain.Actor) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Actor, error)
	GetWithMovies(ctx context.Context, id uuid.UUID) (domain.Actor, error)
	GetAll(ctx context.Context) ([]domain.Actor, error)
	Update(ctx context.Context, actor domain.Actor) (domain.Actor, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// DirectorRepository is the persistence contract for directors.
type DirectorRepository interface {
	Add(ctx context.Context, director domain.Director) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Director, error)
	GetAll(ctx context.Context) ([]domain.Director, error)
	Update(ctx context.Context, director domain.Director) (domain.Director, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// DeletePolicy decides what deleting an absent entity means.
type DeletePolicy string

const (
	// DeleteStrict reports a missing row as a DeleteFailed error.
	DeleteStrict DeletePolicy = "strict"
	// DeleteIgnoreMissing treats a missing row as already deleted.
	DeleteIgnoreMissing DeletePolicy = "ignore-missing"
)

// ParseDeletePolicy validates a policy name coming from configuration.
func ParseDeletePolicy(raw string) (DeletePolicy, error) {
	switch p := DeletePolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case DeleteStrict, DeleteIgnoreMissing:
		return p, nil
	default:
		return "", fmt.Errorf("unknown delete policy %q", raw)
	}
}

// Options carries the knobs shared by every service.
type Options struct {
	DeletePolicy DeletePolicy
	Now          func() time.Time
	Logger       *slog.Logger
}

func (o Options) withDefaults(policy DeletePolicy) Options {
	if o.DeletePolicy == "" {
		o.DeletePolicy = policy
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
