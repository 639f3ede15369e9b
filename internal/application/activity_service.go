package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// ActivityService orchestrates validation and persistence for recurring
// facility activities.
type ActivityService struct {
	activities  persistence.ActivityRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewActivityService wires dependencies for activity operations.
func NewActivityService(activities persistence.ActivityRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ActivityService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ActivityService{
		activities:  activities,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ActivityService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ActivityService", operation, attrs...)
}

// CreateActivity validates the input and stores a new activity.
func (s *ActivityService) CreateActivity(ctx context.Context, principal Principal, input ActivityInput) (Activity, error) {
	if s == nil || s.activities == nil {
		return Activity{}, fmt.Errorf("activity repository not configured")
	}
	if !principal.IsAdmin {
		return Activity{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateActivityInput(input, vErr)
	if vErr.HasErrors() {
		return Activity{}, vErr
	}

	activity := Activity{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.Name),
		Blocking:  input.Blocking,
		Default:   input.Default,
		Overrides: input.Overrides,
	}
	if err := s.activities.CreateActivity(ctx, activityToRecord(activity)); err != nil {
		return Activity{}, mapRepoError(err)
	}

	s.log(ctx, "CreateActivity", "activity_id", activity.ID).InfoContext(ctx, "activity created")
	return s.GetActivity(ctx, activity.ID)
}

// UpdateActivity validates and rewrites an existing activity.
func (s *ActivityService) UpdateActivity(ctx context.Context, principal Principal, activityID string, input ActivityInput) (Activity, error) {
	if s == nil || s.activities == nil {
		return Activity{}, fmt.Errorf("activity repository not configured")
	}
	if !principal.IsAdmin {
		return Activity{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateActivityInput(input, vErr)
	if vErr.HasErrors() {
		return Activity{}, vErr
	}

	activity := Activity{
		ID:        activityID,
		Name:      strings.TrimSpace(input.Name),
		Blocking:  input.Blocking,
		Default:   input.Default,
		Overrides: input.Overrides,
	}
	if err := s.activities.UpdateActivity(ctx, activityToRecord(activity)); err != nil {
		return Activity{}, mapRepoError(err)
	}

	s.log(ctx, "UpdateActivity", "activity_id", activityID).InfoContext(ctx, "activity updated")
	return s.GetActivity(ctx, activityID)
}

// GetActivity retrieves one activity.
func (s *ActivityService) GetActivity(ctx context.Context, activityID string) (Activity, error) {
	if s == nil || s.activities == nil {
		return Activity{}, fmt.Errorf("activity repository not configured")
	}
	record, err := s.activities.GetActivity(ctx, activityID)
	if err != nil {
		return Activity{}, mapRepoError(err)
	}
	return activityFromRecord(record), nil
}

// ListActivities enumerates all activities.
func (s *ActivityService) ListActivities(ctx context.Context) ([]Activity, error) {
	if s == nil || s.activities == nil {
		return nil, fmt.Errorf("activity repository not configured")
	}
	records, err := s.activities.ListActivities(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	activities := make([]Activity, 0, len(records))
	for _, record := range records {
		activities = append(activities, activityFromRecord(record))
	}
	return activities, nil
}

// DeleteActivity removes an activity and its overrides.
func (s *ActivityService) DeleteActivity(ctx context.Context, principal Principal, activityID string) error {
	if s == nil || s.activities == nil {
		return fmt.Errorf("activity repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.activities.DeleteActivity(ctx, activityID); err != nil {
		return mapRepoError(err)
	}
	s.log(ctx, "DeleteActivity", "activity_id", activityID).InfoContext(ctx, "activity deleted")
	return nil
}

func validateActivityInput(input ActivityInput, vErr *ValidationError) {
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.Default != nil {
		validateClockRange(input.Default.Start, input.Default.End, "default", vErr)
	}
	for day, override := range input.Overrides {
		if !day.Valid() {
			vErr.add("overrides", fmt.Sprintf("invalid weekday %d", int(day)))
			continue
		}
		if override == nil {
			// Explicitly cleared day; nothing to check.
			continue
		}
		validateClockRange(override.Start, override.End, "overrides."+day.String(), vErr)
	}
}
