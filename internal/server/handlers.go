package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ahofmann/scriptroom/internal/jobs"
)

type submitRequest struct {
	Topic  string `json:"topic" validate:"required"`
	Style  string `json:"style" validate:"required"`
	APIKey string `json:"api_key" validate:"required"`
}

type submitResponse struct {
	RequestID string `json:"request_id"`
}

type resultResponse struct {
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := strings.ToLower(verrs[0].Field())
			if field == "apikey" {
				field = "api_key"
			}
			errorResponse(w, http.StatusBadRequest, "missing required field: "+field)
			return
		}
		errorResponse(w, http.StatusBadRequest, "invalid request")
		return
	}

	if !s.checker.Valid(req.APIKey) {
		errorResponse(w, http.StatusForbidden, "invalid API key format")
		return
	}

	id, err := s.dispatcher.Submit(r.Context(), req.Topic, req.Style, req.APIKey)
	if err != nil {
		if errors.Is(err, jobs.ErrBusy) {
			errorResponse(w, http.StatusServiceUnavailable, "all workers busy, retry later")
			return
		}
		s.logger.Error("failed to submit job", "error", err)
		errorResponse(w, http.StatusInternalServerError, "failed to submit request")
		return
	}

	jsonResponse(w, http.StatusOK, submitResponse{RequestID: id})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("request_id")

	rec, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			errorResponse(w, http.StatusNotFound, "unknown request id")
			return
		}
		s.logger.Error("failed to load job", "job_id", id, "error", err)
		errorResponse(w, http.StatusInternalServerError, "failed to load request")
		return
	}

	resp := resultResponse{Status: string(rec.Status)}
	switch rec.Status {
	case jobs.StatusCompleted:
		resp.Result = rec.Result
	case jobs.StatusFailed:
		resp.Error = rec.Error
	}
	jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	jsonResponse(w, http.StatusOK, s.metrics.Snapshot())
}

func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func errorResponse(w http.ResponseWriter, status int, msg string) {
	jsonResponse(w, status, map[string]string{"error": msg})
}
