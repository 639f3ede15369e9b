package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/application"
	"github.com/example/therapy-scheduler/internal/schedule"
)

type staffService interface {
	CreateStaff(ctx context.Context, principal application.Principal, input application.StaffInput) (application.Staff, error)
	UpdateStaff(ctx context.Context, principal application.Principal, staffID string, input application.StaffInput) (application.Staff, error)
	GetStaff(ctx context.Context, staffID string) (application.Staff, error)
	ListStaff(ctx context.Context) ([]application.Staff, error)
	DeleteStaff(ctx context.Context, principal application.Principal, staffID string) error
}

type StaffHandler struct {
	service   staffService
	responder responder
	logger    *slog.Logger
}

func NewStaffHandler(service staffService, logger *slog.Logger) *StaffHandler {
	base := defaultLogger(logger)
	return &StaffHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *StaffHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "StaffHandler", operation, attrs...)
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.StaffID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode staff request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.StaffID)

	staff, err := h.service.CreateStaff(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "staff creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("staff_id", staff.ID).InfoContext(r.Context(), "staff created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, staffResponse{Staff: toStaffDTO(staff)})
}

func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	staffID, ok := StaffIDFromContext(r.Context())
	if !ok || strings.TrimSpace(staffID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing staff id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStaffID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.StaffID, "staff_id", staffID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode staff update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.StaffID, "staff_id", staffID)

	staff, err := h.service.UpdateStaff(r.Context(), principal, staffID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "staff update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "staff updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, staffResponse{Staff: toStaffDTO(staff)})
}

func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	staffID, ok := StaffIDFromContext(r.Context())
	if !ok || strings.TrimSpace(staffID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing staff id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStaffID)
		return
	}

	logger := h.log(r.Context(), "Get", "staff_id", staffID)
	staff, err := h.service.GetStaff(r.Context(), staffID)
	if err != nil {
		logger.ErrorContext(r.Context(), "staff lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, staffResponse{Staff: toStaffDTO(staff)})
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	staffList, err := h.service.ListStaff(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "staff list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(staffList)).InfoContext(r.Context(), "staff listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listStaffResponse{Staff: toStaffDTOs(staffList)})
}

func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	staffID, ok := StaffIDFromContext(r.Context())
	if !ok || strings.TrimSpace(staffID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing staff id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStaffID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.StaffID, "staff_id", staffID)
	if err := h.service.DeleteStaff(r.Context(), principal, staffID); err != nil {
		logger.ErrorContext(r.Context(), "staff delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "staff deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type workingHoursDTO struct {
	Day   int    `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
}

type staffRequest struct {
	FullName    string            `json:"full_name"`
	Role        string            `json:"role"`
	WeeklyQuota int               `json:"weekly_quota"`
	Hours       []workingHoursDTO `json:"hours"`
}

func (r staffRequest) toInput() application.StaffInput {
	input := application.StaffInput{
		FullName:    strings.TrimSpace(r.FullName),
		Role:        strings.TrimSpace(r.Role),
		WeeklyQuota: r.WeeklyQuota,
	}
	if len(r.Hours) > 0 {
		input.Hours = make(map[schedule.Weekday]schedule.WorkingHours, len(r.Hours))
		for _, wh := range r.Hours {
			input.Hours[schedule.Weekday(wh.Day)] = schedule.WorkingHours{Start: wh.Start, End: wh.End}
		}
	}
	return input
}

type staffResponse struct {
	Staff staffDTO `json:"staff"`
}

type listStaffResponse struct {
	Staff []staffDTO `json:"staff"`
}

type staffDTO struct {
	ID          string            `json:"id"`
	FullName    string            `json:"full_name"`
	Role        string            `json:"role,omitempty"`
	WeeklyQuota int               `json:"weekly_quota"`
	Hours       []workingHoursDTO `json:"hours"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

func toStaffDTO(staff application.Staff) staffDTO {
	dto := staffDTO{
		ID:          staff.ID,
		FullName:    staff.FullName,
		Role:        staff.Role,
		WeeklyQuota: staff.WeeklyQuota,
		CreatedAt:   staff.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:   staff.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	for _, day := range schedule.Weekdays {
		if wh, ok := staff.Hours[day]; ok {
			dto.Hours = append(dto.Hours, workingHoursDTO{Day: int(day), Start: wh.Start, End: wh.End})
		}
	}
	return dto
}

func toStaffDTOs(staffList []application.Staff) []staffDTO {
	if len(staffList) == 0 {
		return nil
	}
	out := make([]staffDTO, 0, len(staffList))
	for _, staff := range staffList {
		out = append(out, toStaffDTO(staff))
	}
	return out
}
