package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/application"
	"github.com/example/therapy-scheduler/internal/schedule"
)

var errInvalidDayFilter = errors.New("day must be an integer between 0 and 4")

type timetableService interface {
	GenerateWeek(ctx context.Context, principal application.Principal) (application.GenerateWeekResult, error)
	CreateSession(ctx context.Context, principal application.Principal, input application.SessionInput) (application.TherapySession, error)
	UpdateSession(ctx context.Context, principal application.Principal, sessionID string, input application.SessionInput) (application.TherapySession, error)
	DeleteSession(ctx context.Context, principal application.Principal, sessionID string) error
	ListSessions(ctx context.Context, filter application.SessionFilter) ([]application.TherapySession, error)
}

type SessionHandler struct {
	service   timetableService
	responder responder
	logger    *slog.Logger
}

func NewSessionHandler(service timetableService, logger *slog.Logger) *SessionHandler {
	base := defaultLogger(logger)
	return &SessionHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *SessionHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "SessionHandler", operation, attrs...)
}

// Generate regenerates the weekly timetable from the current staff,
// room and activity records.
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Generate", "principal_id", principal.StaffID)

	result, err := h.service.GenerateWeek(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "timetable generation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With(
		"session_count", len(result.Sessions),
		"unmet_quota_count", len(result.UnmetQuotas),
	).InfoContext(r.Context(), "timetable generated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, generateResponse{
		Sessions:    toSessionDTOs(result.Sessions),
		UnmetQuotas: toUnmetQuotaDTOs(result.UnmetQuotas),
	})
}

func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.StaffID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode session request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.StaffID)

	session, err := h.service.CreateSession(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "session creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("session_id", session.ID).InfoContext(r.Context(), "session created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, sessionResponse{Session: toSessionDTO(session)})
}

func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing session id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.StaffID, "session_id", sessionID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode session update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.StaffID, "session_id", sessionID)

	session, err := h.service.UpdateSession(r.Context(), principal, sessionID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "session update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "session updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, sessionResponse{Session: toSessionDTO(session)})
}

func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filter := application.SessionFilter{
		StaffID: strings.TrimSpace(r.URL.Query().Get("staff_id")),
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("day")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || !schedule.Weekday(value).Valid() {
			h.log(r.Context(), "List", "error_kind", "bad_request").ErrorContext(r.Context(), "invalid day filter", "day", raw)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidDayFilter)
			return
		}
		day := schedule.Weekday(value)
		filter.Day = &day
	}

	logger := h.log(r.Context(), "List")
	sessions, err := h.service.ListSessions(r.Context(), filter)
	if err != nil {
		logger.ErrorContext(r.Context(), "session list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(sessions)).InfoContext(r.Context(), "sessions listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSessionsResponse{Sessions: toSessionDTOs(sessions)})
}

func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing session id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.StaffID, "session_id", sessionID)
	if err := h.service.DeleteSession(r.Context(), principal, sessionID); err != nil {
		logger.ErrorContext(r.Context(), "session delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "session deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type sessionRequest struct {
	Day     int    `json:"day"`
	Start   string `json:"start"`
	End     string `json:"end"`
	StaffID string `json:"staff_id"`
	RoomID  string `json:"room_id"`
}

func (r sessionRequest) toInput() application.SessionInput {
	return application.SessionInput{
		Day:     schedule.Weekday(r.Day),
		Start:   strings.TrimSpace(r.Start),
		End:     strings.TrimSpace(r.End),
		StaffID: strings.TrimSpace(r.StaffID),
		RoomID:  strings.TrimSpace(r.RoomID),
	}
}

type sessionResponse struct {
	Session sessionDTO `json:"session"`
}

type listSessionsResponse struct {
	Sessions []sessionDTO `json:"sessions"`
}

type generateResponse struct {
	Sessions    []sessionDTO   `json:"sessions"`
	UnmetQuotas []unmetQuotaDTO `json:"unmet_quotas,omitempty"`
}

type sessionDTO struct {
	ID        string `json:"id"`
	Day       int    `json:"day"`
	Start     string `json:"start"`
	End       string `json:"end"`
	StaffID   string `json:"staff_id"`
	RoomID    string `json:"room_id"`
	Generated bool   `json:"generated"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type unmetQuotaDTO struct {
	StaffID   string `json:"staff_id"`
	FullName  string `json:"full_name"`
	Remaining int    `json:"remaining"`
}

func toSessionDTO(session application.TherapySession) sessionDTO {
	return sessionDTO{
		ID:        session.ID,
		Day:       int(session.Day),
		Start:     session.Start,
		End:       session.End,
		StaffID:   session.StaffID,
		RoomID:    session.RoomID,
		Generated: session.Generated,
		CreatedAt: session.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: session.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toSessionDTOs(sessions []application.TherapySession) []sessionDTO {
	if len(sessions) == 0 {
		return nil
	}
	out := make([]sessionDTO, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionDTO(session))
	}
	return out
}

func toUnmetQuotaDTOs(quotas []application.UnmetQuota) []unmetQuotaDTO {
	if len(quotas) == 0 {
		return nil
	}
	out := make([]unmetQuotaDTO, 0, len(quotas))
	for _, quota := range quotas {
		out = append(out, unmetQuotaDTO{
			StaffID:   quota.StaffID,
			FullName:  quota.FullName,
			Remaining: quota.Remaining,
		})
	}
	return out
}
