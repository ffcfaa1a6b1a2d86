package domain

import (
	"time"

	"github.com/google/uuid"
)

// Movie is the aggregate root: a film together with its director reference and
// the actors attached to it.
type Movie struct {
	ID          uuid.UUID
	Name        string
	Description string
	Year        int
	DirectorID  uuid.UUID
	Actors      []Actor
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ActorIDs returns the identifiers of the attached actors in their current order.
func (m Movie) ActorIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.Actors))
	for _, actor := range m.Actors {
		ids = append(ids, actor.ID)
	}
	return ids
}

// HasActor reports whether an actor with the given id is attached to the movie.
func (m Movie) HasActor(id uuid.UUID) bool {
	for _, actor := range m.Actors {
		if actor.ID == id {
			return true
		}
	}
	return false
}

// Director owns zero or more movies through Movie.DirectorID.
type Director struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor can appear in many movies. MovieIDs is only populated by the
// relation-eager repository reads.
type Actor struct {
	ID        uuid.UUID
	Name      string
	Age       int
	Country   *string
	Biography *string
	MovieIDs  []uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InMovie reports whether the actor is associated with the given movie.
func (a Actor) InMovie(movieID uuid.UUID) bool {
	for _, id := range a.MovieIDs {
		if id == movieID {
			return true
		}
	}
	return false
}
