// Package handlers exposes the portal booking contract over HTTP. Error
// responses carry a machine-readable kind so clients can map rejections
// onto their own error types without parsing messages.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AlejandroPortugal/portal-agenda/internal/interviews"
	"github.com/AlejandroPortugal/portal-agenda/internal/portal"
	"github.com/AlejandroPortugal/portal-agenda/pkg/logging"
)

// InterviewsHandler serves the interview booking routes.
type InterviewsHandler struct {
	svc    *portal.Service
	logger *logging.Logger
}

// NewInterviewsHandler creates the handler.
func NewInterviewsHandler(svc *portal.Service, logger *logging.Logger) *InterviewsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &InterviewsHandler{svc: svc, logger: logger}
}

// GetSchedule returns the owner's weekly slot.
// GET /api/v1/owners/{kind}/{id}/schedule
func (h *InterviewsHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFromPath(w, r)
	if !ok {
		return
	}
	sched, err := h.svc.WeeklySchedule(r.Context(), owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if sched == nil {
		writeError(w, http.StatusNotFound, "no weekly schedule configured", "no_schedule")
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

// ListByDate returns a day's interviews, optionally for one owner.
// GET /api/v1/interviews?date=YYYY-MM-DD&ownerKind=&ownerId=
func (h *InterviewsHandler) ListByDate(w http.ResponseWriter, r *http.Request) {
	rawDate := r.URL.Query().Get("date")
	if rawDate == "" {
		writeError(w, http.StatusBadRequest, "date query parameter is required", "validation")
		return
	}
	date, err := interviews.ParseDate(rawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", "validation")
		return
	}

	var owner *interviews.OwnerRef
	if kind := r.URL.Query().Get("ownerKind"); kind != "" {
		ref := interviews.OwnerRef{Kind: interviews.OwnerKind(kind), ID: r.URL.Query().Get("ownerId")}
		if !ref.Kind.Valid() || ref.ID == "" {
			writeError(w, http.StatusBadRequest, "ownerKind and ownerId must be set together", "validation")
			return
		}
		owner = &ref
	}

	list, err := h.svc.InterviewsByDate(r.Context(), date, owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope{Interviews: list})
}

// ListByGuardian returns a guardian's non-canceled interviews.
// GET /api/v1/guardians/{id}/interviews
func (h *InterviewsHandler) ListByGuardian(w http.ResponseWriter, r *http.Request) {
	guardianID := chi.URLParam(r, "id")
	if guardianID == "" {
		writeError(w, http.StatusBadRequest, "guardian id is required", "validation")
		return
	}
	list, err := h.svc.InterviewsByGuardian(r.Context(), guardianID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope{Interviews: list})
}

// Create books an interview.
// POST /api/v1/interviews
func (h *InterviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req interviews.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "validation")
		return
	}

	iv, err := h.svc.CreateInterview(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, iv)
}

// UpdateStatus transitions an interview to a terminal status. The acting
// owner arrives as identity headers.
// PATCH /api/v1/interviews/{id}/status
func (h *InterviewsHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "interview id must be a UUID", "validation")
		return
	}

	actor := interviews.OwnerRef{
		Kind: interviews.OwnerKind(r.Header.Get("X-Owner-Kind")),
		ID:   r.Header.Get("X-Owner-Id"),
	}
	if !actor.Kind.Valid() || actor.ID == "" {
		writeError(w, http.StatusBadRequest, "X-Owner-Kind and X-Owner-Id headers are required", "validation")
		return
	}

	var body struct {
		Status interviews.Status `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body", "validation")
		return
	}
	if !body.Status.Valid() {
		writeError(w, http.StatusBadRequest, "unknown status", "validation")
		return
	}

	if err := h.svc.UpdateInterviewStatus(r.Context(), id, body.Status, actor); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(body.Status)})
}

// Lookup serves the read-only reference tables.
// GET /api/v1/lookups/{kind}/{id}
func (h *InterviewsHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var (
		out any
		err error
	)
	switch chi.URLParam(r, "kind") {
	case "guardians":
		out, err = h.svc.Guardian(r.Context(), id)
	case "students":
		out, err = h.svc.Student(r.Context(), id)
	case "subjects":
		out, err = h.svc.Subject(r.Context(), id)
	case "reasons":
		out, err = h.svc.Reason(r.Context(), id)
	default:
		writeError(w, http.StatusNotFound, "unknown lookup kind", "validation")
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type listEnvelope struct {
	Interviews []interviews.Interview `json:"interviews"`
}

type errorPayload struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError maps domain errors onto HTTP statuses and error kinds.
func (h *InterviewsHandler) writeError(w http.ResponseWriter, err error) {
	var verr *interviews.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error(), "validation")
	case errors.Is(err, interviews.ErrDuplicate):
		writeError(w, http.StatusConflict, "already booked", "duplicate")
	case errors.Is(err, interviews.ErrCapacityExhausted):
		writeError(w, http.StatusConflict, "no capacity left on that date", "capacity_exhausted")
	case errors.Is(err, interviews.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "interview is no longer pending", "invalid_transition")
	case errors.Is(err, interviews.ErrNoSchedule):
		writeError(w, http.StatusUnprocessableEntity, "owner has no weekly schedule", "no_schedule")
	case errors.Is(err, interviews.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found", "")
	default:
		h.logger.Error("handler: internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func ownerFromPath(w http.ResponseWriter, r *http.Request) (interviews.OwnerRef, bool) {
	owner := interviews.OwnerRef{
		Kind: interviews.OwnerKind(chi.URLParam(r, "kind")),
		ID:   chi.URLParam(r, "id"),
	}
	if !owner.Kind.Valid() || owner.ID == "" {
		writeError(w, http.StatusBadRequest, "owner kind must be educator or psychologist", "validation")
		return interviews.OwnerRef{}, false
	}
	return owner, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, kind string) {
	writeJSON(w, status, errorPayload{Error: msg, Kind: kind})
}
