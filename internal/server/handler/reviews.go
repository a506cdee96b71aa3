// Package handler provides HTTP handlers for the review API.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sevigo/pullpilot/internal/auth"
	"github.com/sevigo/pullpilot/internal/core"
	"github.com/sevigo/pullpilot/internal/history"
)

const maxBodyBytes = 1 << 20

// ReviewService is the part of the orchestrator the HTTP API needs.
//
//go:generate mockgen -destination=../../../mocks/mock_review_service.go -package=mocks . ReviewService
type ReviewService interface {
	Submit(ctx context.Context, userID, repositoryID int64, prNumber int) (*core.ReviewJob, error)
	Get(ctx context.Context, userID, jobID int64) (*core.ReviewJob, error)
	Cancel(ctx context.Context, userID, jobID int64) (*core.ReviewJob, error)
	ListByRepository(ctx context.Context, userID, repositoryID int64) ([]*core.ReviewJob, error)
	DisconnectRepository(ctx context.Context, userID, repositoryID int64) (*core.Repository, error)
}

// ReviewHandler serves the review endpoints.
type ReviewHandler struct {
	service ReviewService
	logger  *slog.Logger
}

func NewReviewHandler(service ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{service: service, logger: logger}
}

// submitRequest accepts ids as JSON numbers or numeric strings.
type submitRequest struct {
	RepositoryID flexInt `json:"repositoryId"`
	PRNumber     flexInt `json:"prNumber"`
}

type flexInt struct {
	value int64
	set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %s", data)
	}
	f.value, f.set = n, true
	return nil
}

func (r submitRequest) validate() error {
	if !r.RepositoryID.set {
		return fmt.Errorf("%w: repositoryId is required", core.ErrValidation)
	}
	if !r.PRNumber.set {
		return fmt.Errorf("%w: prNumber is required", core.ErrValidation)
	}
	if r.RepositoryID.value <= 0 || r.PRNumber.value <= 0 {
		return fmt.Errorf("%w: repositoryId and prNumber must be positive integers", core.ErrValidation)
	}
	if r.PRNumber.value > int64(^uint32(0)>>1) {
		return fmt.Errorf("%w: prNumber is out of range", core.ErrValidation)
	}
	return nil
}

// Submit handles POST /reviews.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req submitRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		h.writeError(w, fmt.Errorf("%w: malformed body: %w", core.ErrValidation, err))
		return
	}
	if err := req.validate(); err != nil {
		h.writeError(w, err)
		return
	}

	job, err := h.service.Submit(r.Context(), userID, req.RepositoryID.value, int(req.PRNumber.value))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, job)
}

// Get handles GET /reviews/{id}.
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	job, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, job)
}

// Cancel handles POST /reviews/{id}/cancel. A job that already finished is
// returned unchanged.
func (h *ReviewHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	job, err := h.service.Cancel(r.Context(), userID, id)
	if err != nil && !(errors.Is(err, core.ErrJobTerminal) && job != nil) {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, job)
}

// ListByRepository handles GET /repositories/{id}/reviews. The raw history is
// returned unless view=latest asks for the reconciled one.
func (h *ReviewHandler) ListByRepository(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	repoID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	jobs, err := h.service.ListByRepository(r.Context(), userID, repoID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	switch view := r.URL.Query().Get("view"); view {
	case "", "all":
	case "latest":
		jobs = history.Reconcile(jobs)
	default:
		h.writeError(w, fmt.Errorf("%w: unknown view %q", core.ErrValidation, view))
		return
	}
	if jobs == nil {
		jobs = []*core.ReviewJob{}
	}
	h.writeJSON(w, http.StatusOK, jobs)
}

type disconnectResponse struct {
	Message    string           `json:"message"`
	Repository *core.Repository `json:"repository"`
}

// DisconnectRepository handles DELETE /repositories/{id}.
func (h *ReviewHandler) DisconnectRepository(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	repoID, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, err)
		return
	}

	repo, err := h.service.DisconnectRepository(r.Context(), userID, repoID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, disconnectResponse{Message: "Repository disconnected", Repository: repo})
}

func (h *ReviewHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeJSON(w, http.StatusUnauthorized, errorBody{Error: "authentication required"})
	}
	return id, ok
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", core.ErrValidation, name)
	}
	return id, nil
}

type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrRepositoryNotFound),
		errors.Is(err, core.ErrPullRequestNotFound),
		errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, core.ErrJobTerminal):
		// Cancel answers 200 with the snapshot; this only applies when none came back.
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *ReviewHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "error", err)
		msg = "internal server error"
	}
	h.writeJSON(w, status, errorBody{Error: msg})
}

func (h *ReviewHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to write response", "error", err)
	}
}
