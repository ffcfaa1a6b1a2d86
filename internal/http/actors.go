package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/service"
)

func buildActorFilter(query url.Values) (service.ActorFilter, error) {
	var filter service.ActorFilter

	filter.Name = strings.TrimSpace(query.Get("name"))
	if val := strings.TrimSpace(query.Get("movieId")); val != "" {
		movieID, err := uuid.Parse(val)
		if err != nil {
			return filter, fmt.Errorf("invalid movieId value")
		}
		filter.MovieID = &movieID
	}
	return filter, nil
}

func (s *Server) handleListActors(w http.ResponseWriter, r *http.Request) {
	filter, err := buildActorFilter(r.URL.Query())
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	actors, err := s.actors.GetAll(r.Context(), filter)
	if err != nil {
		s.respondServiceError(w, r, "list actors", err)
		return
	}
	if len(actors) == 0 {
		s.respondEmpty(w, "No actors found matching the filters.")
		return
	}
	s.respondJSON(w, http.StatusOK, actors)
}

func (s *Server) handleCreateActor(w http.ResponseWriter, r *http.Request) {
	var in service.ActorInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	actor, err := s.actors.AddActor(r.Context(), in)
	if err != nil {
		s.respondServiceError(w, r, "create actor", err)
		return
	}
	s.respondJSON(w, http.StatusOK, actor)
}

func (s *Server) handleGetActor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	actor, err := s.actors.GetByID(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, r, "get actor", err)
		return
	}
	s.respondJSON(w, http.StatusOK, actor)
}

func (s *Server) handleUpdateActor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch service.ActorPatch
	if err := decodeJSONBody(w, r, &patch); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	actor, err := s.actors.Update(r.Context(), id, patch)
	if err != nil {
		s.respondServiceError(w, r, "update actor", err)
		return
	}
	s.respondJSON(w, http.StatusOK, actor)
}

func (s *Server) handleDeleteActor(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.actors.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, r, "delete actor", err)
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Actor deleted successfully."})
}
