// Package handler exposes the stakeholder service over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Mloh16/food-oasis/internal/stakeholder/models"
	"github.com/Mloh16/food-oasis/internal/stakeholder/service"
	domainerrors "github.com/Mloh16/food-oasis/pkg/domain-errors"
	"github.com/Mloh16/food-oasis/pkg/requestcontext"
)

// Handler serves the stakeholder routes.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

// New constructs a stakeholder handler.
func New(svc *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

// Register mounts the stakeholder routes. Search and single reads are
// public; rateLimit guards search, auth guards every mutation.
func (h *Handler) Register(r chi.Router, auth, rateLimit Middleware) {
	r.Route("/api/stakeholders", func(r chi.Router) {
		r.With(rateLimit).Get("/", h.search)
		r.Get("/{id}", h.get)

		r.Group(func(r chi.Router) {
			r.Use(auth)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.remove)
			r.Put("/{id}/assign", h.assign)
			r.Put("/{id}/needs-verification", h.needsVerification)
			r.Put("/{id}/claim", h.claim)
			r.Put("/{id}/verify", h.verify)
			r.Get("/{id}/reviews", h.reviewHistory)
		})
	})
	r.Get("/api/categories", h.categories)
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSearchFilter(r)
	if err != nil {
		h.writeError(w, r, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid search parameters"))
		return
	}
	results, err := h.svc.Search(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, v)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var v models.StakeholderVersion
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		h.writeError(w, r, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid request body"))
		return
	}
	id, err := h.svc.Create(r.Context(), &v, requestcontext.LoginID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var v models.StakeholderVersion
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		h.writeError(w, r, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid request body"))
		return
	}
	if err := h.svc.Update(r.Context(), id, &v, requestcontext.LoginID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Remove(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		AssignedLoginID int64 `json:"assignedLoginId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, r, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid request body"))
		return
	}
	if err := h.svc.Assign(r.Context(), id, body.AssignedLoginID, requestcontext.LoginID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) needsVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, r, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid request body"))
		return
	}
	if err := h.svc.NeedsVerification(r.Context(), id, requestcontext.LoginID(r.Context()), body.Message); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) claim(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		ClaimedLoginID int64 `json:"claimedLoginId"`
		SetClaimed     bool  `json:"setClaimed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, r, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid request body"))
		return
	}
	if err := h.svc.Claim(r.Context(), id, body.ClaimedLoginID, body.SetClaimed, requestcontext.LoginID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var body struct {
		SetVerified bool `json:"setVerified"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, r, domainerrors.Wrap(err, domainerrors.CodeValidation, "invalid request body"))
		return
	}
	if err := h.svc.Verify(r.Context(), id, body.SetVerified, requestcontext.LoginID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) reviewHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	entries, err := h.svc.ReviewHistory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, categories)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(w, r, domainerrors.New(domainerrors.CodeValidation, "invalid stakeholder id"))
		return 0, false
	}
	return id, true
}

func parseSearchFilter(r *http.Request) (*models.SearchFilter, error) {
	q := r.URL.Query()
	f := &models.SearchFilter{Name: q.Get("name")}

	if raw := q.Get("categoryIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, errors.New("categoryIds must be a comma-separated list of ids")
			}
			f.CategoryIDs = append(f.CategoryIDs, id)
		}
	}

	var err error
	if f.Latitude, err = parseFloat(q.Get("latitude")); err != nil {
		return nil, err
	}
	if f.Longitude, err = parseFloat(q.Get("longitude")); err != nil {
		return nil, err
	}
	if raw := q.Get("distance"); raw != "" {
		if f.Radius, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, errors.New("distance must be a number")
		}
	}

	f.IsInactive = parseTriState(q.Get("isInactive"))
	f.IsAssigned = parseTriState(q.Get("isAssigned"))
	f.IsSubmitted = parseTriState(q.Get("isSubmitted"))
	f.IsApproved = parseTriState(q.Get("isApproved"))
	f.IsRejected = parseTriState(q.Get("isRejected"))
	f.IsClaimed = parseTriState(q.Get("isClaimed"))

	if f.AssignedLoginID, err = parseID(q.Get("assignedLoginId")); err != nil {
		return nil, err
	}
	if f.ClaimedLoginID, err = parseID(q.Get("claimedLoginId")); err != nil {
		return nil, err
	}
	if f.VerificationStatusID, err = parseID(q.Get("verificationStatusId")); err != nil {
		return nil, err
	}
	return f, nil
}

func parseFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, errors.New("coordinates must be numbers")
	}
	return &v, nil
}

// parseTriState maps "true"/"false" to a constraint and anything else,
// including the original's "either", to no constraint.
func parseTriState(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

func parseID(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("ids must be integers")
	}
	return id, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := domainerrors.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domainerrors.CodeValidation:
		status = http.StatusBadRequest
	case domainerrors.CodeNotFound:
		status = http.StatusNotFound
	case domainerrors.CodeConflict:
		status = http.StatusConflict
	case domainerrors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case domainerrors.CodeForbidden:
		status = http.StatusForbidden
	}
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
	}
	h.writeJSON(w, status, map[string]string{
		"error":   string(code),
		"message": err.Error(),
	})
}
