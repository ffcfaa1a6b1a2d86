package httpserver

import (
	"net/http"
	"strings"

	"github.com/Clark-Hu/cinema-catalog/internal/service"
)

func (s *Server) handleListDirectors(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))

	directors, err := s.directors.GetAll(r.Context(), name)
	if err != nil {
		s.respondServiceError(w, r, "list directors", err)
		return
	}
	if len(directors) == 0 {
		s.respondEmpty(w, "No directors found matching the filter.")
		return
	}
	s.respondJSON(w, http.StatusOK, directors)
}

func (s *Server) handleCreateDirector(w http.ResponseWriter, r *http.Request) {
	var in service.DirectorInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	director, err := s.directors.Add(r.Context(), in)
	if err != nil {
		s.respondServiceError(w, r, "create director", err)
		return
	}
	s.respondJSON(w, http.StatusOK, director)
}

func (s *Server) handleGetDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	director, err := s.directors.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, "get director", err)
		return
	}
	s.respondJSON(w, http.StatusOK, director)
}

func (s *Server) handleUpdateDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var in service.DirectorInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	director, err := s.directors.Update(r.Context(), id, in)
	if err != nil {
		s.respondServiceError(w, r, "update director", err)
		return
	}
	s.respondJSON(w, http.StatusOK, director)
}

func (s *Server) handleDeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.directors.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, r, "delete director", err)
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Director deleted successfully."})
}
