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

type activityService interface {
	CreateActivity(ctx context.Context, principal application.Principal, input application.ActivityInput) (application.Activity, error)
	UpdateActivity(ctx context.Context, principal application.Principal, activityID string, input application.ActivityInput) (application.Activity, error)
	GetActivity(ctx context.Context, activityID string) (application.Activity, error)
	ListActivities(ctx context.Context) ([]application.Activity, error)
	DeleteActivity(ctx context.Context, principal application.Principal, activityID string) error
}

type ActivityHandler struct {
	service   activityService
	responder responder
	logger    *slog.Logger
}

func NewActivityHandler(service activityService, logger *slog.Logger) *ActivityHandler {
	base := defaultLogger(logger)
	return &ActivityHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ActivityHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ActivityHandler", operation, attrs...)
}

func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "principal_id", principal.StaffID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode activity request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Create", "principal_id", principal.StaffID)

	activity, err := h.service.CreateActivity(r.Context(), principal, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "activity creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("activity_id", activity.ID).InfoContext(r.Context(), "activity created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, activityResponse{Activity: toActivityDTO(activity)})
}

func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID, ok := ActivityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(activityID) == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing activity id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActivityID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "principal_id", principal.StaffID, "activity_id", activityID, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode activity update", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "Update", "principal_id", principal.StaffID, "activity_id", activityID)

	activity, err := h.service.UpdateActivity(r.Context(), principal, activityID, req.toInput())
	if err != nil {
		logger.ErrorContext(r.Context(), "activity update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "activity updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, activityResponse{Activity: toActivityDTO(activity)})
}

func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID, ok := ActivityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(activityID) == "" {
		h.log(r.Context(), "Get", "error_kind", "bad_request").ErrorContext(r.Context(), "missing activity id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActivityID)
		return
	}

	logger := h.log(r.Context(), "Get", "activity_id", activityID)
	activity, err := h.service.GetActivity(r.Context(), activityID)
	if err != nil {
		logger.ErrorContext(r.Context(), "activity lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, activityResponse{Activity: toActivityDTO(activity)})
}

func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger := h.log(r.Context(), "List")
	activities, err := h.service.ListActivities(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "activity list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("result_count", len(activities)).InfoContext(r.Context(), "activities listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listActivitiesResponse{Activities: toActivityDTOs(activities)})
}

func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	activityID, ok := ActivityIDFromContext(r.Context())
	if !ok || strings.TrimSpace(activityID) == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing activity id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidActivityID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "principal_id", principal.StaffID, "activity_id", activityID)
	if err := h.service.DeleteActivity(r.Context(), principal, activityID); err != nil {
		logger.ErrorContext(r.Context(), "activity delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "activity deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type intervalDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// overrideDTO replaces or clears the default interval on one weekday.
// Cleared set means the day is explicitly open; Interval is ignored then.
type overrideDTO struct {
	Day      int          `json:"day"`
	Cleared  bool         `json:"cleared,omitempty"`
	Interval *intervalDTO `json:"interval,omitempty"`
}

type activityRequest struct {
	Name      string        `json:"name"`
	Blocking  bool          `json:"blocking"`
	Default   *intervalDTO  `json:"default"`
	Overrides []overrideDTO `json:"overrides"`
}

func (r activityRequest) toInput() application.ActivityInput {
	input := application.ActivityInput{
		Name:     strings.TrimSpace(r.Name),
		Blocking: r.Blocking,
	}
	if r.Default != nil {
		input.Default = &schedule.Interval{Start: r.Default.Start, End: r.Default.End}
	}
	if len(r.Overrides) > 0 {
		input.Overrides = make(map[schedule.Weekday]*schedule.Interval, len(r.Overrides))
		for _, override := range r.Overrides {
			day := schedule.Weekday(override.Day)
			if override.Cleared || override.Interval == nil {
				input.Overrides[day] = nil
				continue
			}
			input.Overrides[day] = &schedule.Interval{Start: override.Interval.Start, End: override.Interval.End}
		}
	}
	return input
}

type activityResponse struct {
	Activity activityDTO `json:"activity"`
}

type listActivitiesResponse struct {
	Activities []activityDTO `json:"activities"`
}

type activityDTO struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Blocking  bool          `json:"blocking"`
	Default   *intervalDTO  `json:"default,omitempty"`
	Overrides []overrideDTO `json:"overrides,omitempty"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

func toActivityDTO(activity application.Activity) activityDTO {
	dto := activityDTO{
		ID:        activity.ID,
		Name:      activity.Name,
		Blocking:  activity.Blocking,
		CreatedAt: activity.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: activity.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if activity.Default != nil {
		dto.Default = &intervalDTO{Start: activity.Default.Start, End: activity.Default.End}
	}
	for _, day := range schedule.Weekdays {
		interval, ok := activity.Overrides[day]
		if !ok {
			continue
		}
		if interval == nil {
			dto.Overrides = append(dto.Overrides, overrideDTO{Day: int(day), Cleared: true})
			continue
		}
		dto.Overrides = append(dto.Overrides, overrideDTO{
			Day:      int(day),
			Interval: &intervalDTO{Start: interval.Start, End: interval.End},
		})
	}
	return dto
}

func toActivityDTOs(activities []application.Activity) []activityDTO {
	if len(activities) == 0 {
		return nil
	}
	out := make([]activityDTO, 0, len(activities))
	for _, activity := range activities {
		out = append(out, toActivityDTO(activity))
	}
	return out
}
