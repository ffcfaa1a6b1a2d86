package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Clark-Hu/cinema-catalog/internal/domain"
)

const maxRequestBody = 1 << 20 // 1 MiB

const (
	validationMessage = "Validation errors occurred."
	internalMessage   = "An unexpected error occurred. Please try again later."
)

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

type validationResponse struct {
	StatusCode       int      `json:"statusCode"`
	Message          string   `json:"message"`
	ValidationErrors []string `json:"validationErrors"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	return nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Error("failed to encode response", "err", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, errorResponse{
		StatusCode: status,
		Message:    message,
	})
}

func (s *Server) respondValidation(w http.ResponseWriter, messages []string) {
	s.respondJSON(w, http.StatusUnprocessableEntity, validationResponse{
		StatusCode:       http.StatusUnprocessableEntity,
		Message:          validationMessage,
		ValidationErrors: messages,
	})
}

// respondEmpty answers a list request that matched nothing.
func (s *Server) respondEmpty(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, message)
}

// respondServiceError maps service failures onto the wire. Every
// *domain.ValidationError is a 422; anything else is logged and hidden.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.logger.DebugContext(r.Context(), "request rejected", "op", op, "kind", verr.Kind.String(), "errors", verr.Errors)
		s.respondValidation(w, verr.Errors)
		return
	}
	s.logger.ErrorContext(r.Context(), "request failed", "op", op, "err", err)
	s.respondError(w, http.StatusInternalServerError, internalMessage)
}

func (s *Server) respondDecodeError(w http.ResponseWriter, err error) {
	var syntaxError *json.SyntaxError
	var typeError *json.UnmarshalTypeError
	var maxBytesError *http.MaxBytesError
	switch {
	case errors.As(err, &syntaxError):
		s.respondValidation(w, []string{"Malformed JSON payload"})
	case errors.As(err, &typeError):
		s.respondValidation(w, []string{fmt.Sprintf("Invalid value for field %s", typeError.Field)})
	case errors.Is(err, io.EOF):
		s.respondValidation(w, []string{"Request body cannot be empty"})
	case errors.Is(err, io.ErrUnexpectedEOF):
		s.respondValidation(w, []string{"Malformed JSON payload"})
	case errors.As(err, &maxBytesError):
		s.respondValidation(w, []string{"Request body is too large"})
	default:
		s.respondValidation(w, []string{"Unable to parse request body"})
	}
}

func parseIDParam(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	if raw == "" {
		return uuid.Nil, fmt.Errorf("missing id parameter")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id parameter")
	}
	return id, nil
}
