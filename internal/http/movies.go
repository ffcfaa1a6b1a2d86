package httpserver

import (
	"net/http"
	"strings"

	"github.com/Clark-Hu/cinema-catalog/internal/service"
)

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))

	movies, err := s.movies.GetAll(r.Context(), name)
	if err != nil {
		s.respondServiceError(w, r, "list movies", err)
		return
	}
	if len(movies) == 0 {
		s.respondEmpty(w, "No movies found matching the filter.")
		return
	}
	s.respondJSON(w, http.StatusOK, movies)
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var req service.MovieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie, err := s.movies.Create(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, r, "create movie", err)
		return
	}
	s.respondJSON(w, http.StatusOK, movie)
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	movie, err := s.movies.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, "get movie", err)
		return
	}
	s.respondJSON(w, http.StatusOK, movie)
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req service.MovieUpdateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie, err := s.movies.Update(r.Context(), id, req)
	if err != nil {
		s.respondServiceError(w, r, "update movie", err)
		return
	}
	s.respondJSON(w, http.StatusOK, movie)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.movies.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, r, "delete movie", err)
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Movie deleted successfully."})
}

// handleDeleteMovies takes a JSON array of movie ids. Entries that are not
// valid ids are skipped by the service.
func (s *Server) handleDeleteMovies(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if err := decodeJSONBody(w, r, &ids); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	resp, err := s.movies.DeleteMany(r.Context(), ids)
	if err != nil {
		s.respondServiceError(w, r, "delete movies", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}
