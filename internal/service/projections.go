package service

import (
	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

// MovieResponse is the read view of a movie aggregate.
type MovieResponse struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Year        int         `json:"year"`
	DirectorID  uuid.UUID   `json:"directorId"`
	ActorIDs    []uuid.UUID `json:"actorIds"`
}

// ActorResponse is the read view of an actor.
type ActorResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Age       int         `json:"age"`
	Country   *string     `json:"country"`
	Biography *string     `json:"biography"`
	MovieIDs  []uuid.UUID `json:"movieIds"`
}

// DirectorResponse is the read view of a director.
type DirectorResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// DeleteManyResponse summarises a bulk delete.
type DeleteManyResponse struct {
	Message string `json:"message"`
}

func toMovieResponse(movie domain.Movie) MovieResponse {
	return MovieResponse{
		ID:          movie.ID,
		Name:        movie.Name,
		Description: movie.Description,
		Year:        movie.Year,
		DirectorID:  movie.DirectorID,
		ActorIDs:    movie.ActorIDs(),
	}
}

func toActorResponse(actor domain.Actor) ActorResponse {
	movieIDs := make([]uuid.UUID, len(actor.MovieIDs))
	copy(movieIDs, actor.MovieIDs)
	return ActorResponse{
		ID:        actor.ID,
		Name:      actor.Name,
		Age:       actor.Age,
		Country:   actor.Country,
		Biography: actor.Biography,
		MovieIDs:  movieIDs,
	}
}

func toDirectorResponse(director domain.Director) DirectorResponse {
	return DirectorResponse{ID: director.ID, Name: director.Name}
}
