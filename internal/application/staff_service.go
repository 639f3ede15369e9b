package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
	"github.com/example/therapy-scheduler/internal/schedule"
)

// StaffService orchestrates validation and persistence for staff records.
type StaffService struct {
	staff       persistence.StaffRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewStaffService wires dependencies for staff operations.
func NewStaffService(staff persistence.StaffRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *StaffService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &StaffService{
		staff:       staff,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *StaffService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "StaffService", operation, attrs...)
}

// CreateStaff validates the input and stores a new staff record. Only
// administrators may create staff.
func (s *StaffService) CreateStaff(ctx context.Context, principal Principal, input StaffInput) (Staff, error) {
	if s == nil || s.staff == nil {
		return Staff{}, fmt.Errorf("staff repository not configured")
	}
	if !principal.IsAdmin {
		return Staff{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateStaffInput(input, vErr)
	if vErr.HasErrors() {
		return Staff{}, vErr
	}

	staff := Staff{
		ID:          s.idGenerator(),
		FullName:    strings.TrimSpace(input.FullName),
		Role:        strings.TrimSpace(input.Role),
		WeeklyQuota: input.WeeklyQuota,
		Hours:       input.Hours,
	}

	if err := s.staff.CreateStaff(ctx, staffToRecord(staff)); err != nil {
		return Staff{}, mapRepoError(err)
	}

	s.log(ctx, "CreateStaff", "staff_id", staff.ID).InfoContext(ctx, "staff created")
	return s.GetStaff(ctx, staff.ID)
}

// UpdateStaff validates and rewrites an existing staff record.
func (s *StaffService) UpdateStaff(ctx context.Context, principal Principal, staffID string, input StaffInput) (Staff, error) {
	if s == nil || s.staff == nil {
		return Staff{}, fmt.Errorf("staff repository not configured")
	}
	if !principal.IsAdmin {
		return Staff{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateStaffInput(input, vErr)
	if vErr.HasErrors() {
		return Staff{}, vErr
	}

	staff := Staff{
		ID:          staffID,
		FullName:    strings.TrimSpace(input.FullName),
		Role:        strings.TrimSpace(input.Role),
		WeeklyQuota: input.WeeklyQuota,
		Hours:       input.Hours,
	}

	if err := s.staff.UpdateStaff(ctx, staffToRecord(staff)); err != nil {
		return Staff{}, mapRepoError(err)
	}

	s.log(ctx, "UpdateStaff", "staff_id", staffID).InfoContext(ctx, "staff updated")
	return s.GetStaff(ctx, staffID)
}

// GetStaff retrieves one staff record.
func (s *StaffService) GetStaff(ctx context.Context, staffID string) (Staff, error) {
	if s == nil || s.staff == nil {
		return Staff{}, fmt.Errorf("staff repository not configured")
	}
	record, err := s.staff.GetStaff(ctx, staffID)
	if err != nil {
		return Staff{}, mapRepoError(err)
	}
	return staffFromRecord(record), nil
}

// ListStaff enumerates all staff records.
func (s *StaffService) ListStaff(ctx context.Context) ([]Staff, error) {
	if s == nil || s.staff == nil {
		return nil, fmt.Errorf("staff repository not configured")
	}
	records, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	staffList := make([]Staff, 0, len(records))
	for _, record := range records {
		staffList = append(staffList, staffFromRecord(record))
	}
	return staffList, nil
}

// DeleteStaff removes a staff record and everything that cascades from it.
func (s *StaffService) DeleteStaff(ctx context.Context, principal Principal, staffID string) error {
	if s == nil || s.staff == nil {
		return fmt.Errorf("staff repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.staff.DeleteStaff(ctx, staffID); err != nil {
		return mapRepoError(err)
	}
	s.log(ctx, "DeleteStaff", "staff_id", staffID).InfoContext(ctx, "staff deleted")
	return nil
}

func validateStaffInput(input StaffInput, vErr *ValidationError) {
	if strings.TrimSpace(input.FullName) == "" {
		vErr.add("full_name", "full name is required")
	}
	if input.WeeklyQuota < 0 {
		vErr.add("weekly_quota", "weekly quota cannot be negative")
	}
	for day, hours := range input.Hours {
		if !day.Valid() {
			vErr.add("hours", fmt.Sprintf("invalid weekday %d", int(day)))
			continue
		}
		validateClockRange(hours.Start, hours.End, "hours."+day.String(), vErr)
	}
}

// validateClockRange checks both bounds parse and run forwards.
func validateClockRange(start, end, field string, vErr *ValidationError) {
	startMin, err := schedule.ToMinutes(start)
	if err != nil {
		vErr.add(field, fmt.Sprintf("start %q is not a valid HH:mm time", start))
		return
	}
	endMin, err := schedule.ToMinutes(end)
	if err != nil {
		vErr.add(field, fmt.Sprintf("end %q is not a valid HH:mm time", end))
		return
	}
	if startMin >= endMin {
		vErr.add(field, "start must be before end")
	}
}
