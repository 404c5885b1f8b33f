package server

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the envelope for every 4xx/5xx body.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (s *Service) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response body")
	}
}

func (s *Service) respondError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Message: message, Error: message}
	if err != nil {
		resp.Error = err.Error()
	}

	s.respondJSON(w, status, resp)
}

func (s *Service) decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
