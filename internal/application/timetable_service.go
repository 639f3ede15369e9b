package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
	"github.com/example/therapy-scheduler/internal/schedule"
)

// TimetableService runs weekly schedule generation and guards manual
// session management with the constraint validator.
type TimetableService struct {
	staff       persistence.StaffRepository
	rooms       persistence.RoomRepository
	activities  persistence.ActivityRepository
	sessions    persistence.SessionRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTimetableService wires dependencies for timetable operations.
func NewTimetableService(
	staff persistence.StaffRepository,
	rooms persistence.RoomRepository,
	activities persistence.ActivityRepository,
	sessions persistence.SessionRepository,
	idGenerator func() string,
	now func() time.Time,
	logger *slog.Logger,
) *TimetableService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TimetableService{
		staff:       staff,
		rooms:       rooms,
		activities:  activities,
		sessions:    sessions,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *TimetableService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TimetableService", operation, attrs...)
}

// GenerateWeek snapshots staff, rooms and activities, runs the greedy
// generator, and atomically replaces the stored generated week. Staff
// finishing below quota are reported, not treated as failures.
func (s *TimetableService) GenerateWeek(ctx context.Context, principal Principal) (GenerateWeekResult, error) {
	if s == nil || s.sessions == nil {
		return GenerateWeekResult{}, fmt.Errorf("session repository not configured")
	}
	if !principal.IsAdmin {
		return GenerateWeekResult{}, ErrUnauthorized
	}

	staffList, rooms, activities, err := s.snapshot(ctx)
	if err != nil {
		return GenerateWeekResult{}, err
	}

	coreStaff := make([]schedule.Staff, 0, len(staffList))
	for _, member := range staffList {
		coreStaff = append(coreStaff, staffToCore(member))
	}
	coreRooms := make([]schedule.Room, 0, len(rooms))
	for _, room := range rooms {
		coreRooms = append(coreRooms, roomToCore(room))
	}
	coreActivities := make([]schedule.Activity, 0, len(activities))
	for _, activity := range activities {
		coreActivities = append(coreActivities, activityToCore(activity))
	}

	generated, err := schedule.Generate(coreStaff, coreRooms, coreActivities, s.idGenerator)
	if err != nil {
		return GenerateWeekResult{}, err
	}

	records := make([]persistence.TherapySession, 0, len(generated))
	result := GenerateWeekResult{Sessions: make([]TherapySession, 0, len(generated))}
	perStaff := make(map[string]int, len(staffList))
	for _, session := range generated {
		perStaff[session.StaffID]++
		records = append(records, persistence.TherapySession{
			ID:        session.ID,
			Day:       int(session.Day),
			Start:     session.Start,
			End:       session.End,
			StaffID:   session.StaffID,
			RoomID:    session.RoomID,
			Generated: true,
		})
		result.Sessions = append(result.Sessions, TherapySession{
			ID:        session.ID,
			Day:       session.Day,
			Start:     session.Start,
			End:       session.End,
			StaffID:   session.StaffID,
			RoomID:    session.RoomID,
			Generated: true,
		})
	}

	for _, member := range staffList {
		if remaining := member.WeeklyQuota - perStaff[member.ID]; remaining > 0 {
			result.UnmetQuotas = append(result.UnmetQuotas, UnmetQuota{
				StaffID:   member.ID,
				FullName:  member.FullName,
				Remaining: remaining,
			})
		}
	}

	if err := s.sessions.ReplaceGenerated(ctx, records); err != nil {
		return GenerateWeekResult{}, mapRepoError(err)
	}

	s.log(ctx, "GenerateWeek",
		"sessions", len(result.Sessions),
		"unmet_quotas", len(result.UnmetQuotas),
	).InfoContext(ctx, "weekly schedule generated")
	return result, nil
}

// CreateSession validates a manually proposed session against all
// scheduling constraints before storing it.
func (s *TimetableService) CreateSession(ctx context.Context, principal Principal, input SessionInput) (TherapySession, error) {
	if s == nil || s.sessions == nil {
		return TherapySession{}, fmt.Errorf("session repository not configured")
	}
	if !principal.IsAdmin {
		return TherapySession{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	validateSessionInput(input, vErr)
	if vErr.HasErrors() {
		return TherapySession{}, vErr
	}

	session := TherapySession{
		ID:      s.idGenerator(),
		Day:     input.Day,
		Start:   input.Start,
		End:     input.End,
		StaffID: input.StaffID,
		RoomID:  input.RoomID,
	}

	if err := s.checkConstraints(ctx, session); err != nil {
		return TherapySession{}, err
	}

	if err := s.sessions.CreateSession(ctx, sessionToRecord(session)); err != nil {
		return TherapySession{}, mapRepoError(err)
	}

	s.log(ctx, "CreateSession", "session_id", session.ID).InfoContext(ctx, "session created")
	return s.GetSession(ctx, session.ID)
}

// UpdateSession re-validates an edited session, ignoring its own prior
// placement, and rewrites it.
func (s *TimetableService) UpdateSession(ctx context.Context, principal Principal, sessionID string, input SessionInput) (TherapySession, error) {
	if s == nil || s.sessions == nil {
		return TherapySession{}, fmt.Errorf("session repository not configured")
	}
	if !principal.IsAdmin {
		return TherapySession{}, ErrUnauthorized
	}

	existing, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return TherapySession{}, mapRepoError(err)
	}

	vErr := &ValidationError{}
	validateSessionInput(input, vErr)
	if vErr.HasErrors() {
		return TherapySession{}, vErr
	}

	session := TherapySession{
		ID:        sessionID,
		Day:       input.Day,
		Start:     input.Start,
		End:       input.End,
		StaffID:   input.StaffID,
		RoomID:    input.RoomID,
		Generated: existing.Generated,
	}

	if err := s.checkConstraints(ctx, session); err != nil {
		return TherapySession{}, err
	}

	if err := s.sessions.UpdateSession(ctx, sessionToRecord(session)); err != nil {
		return TherapySession{}, mapRepoError(err)
	}

	s.log(ctx, "UpdateSession", "session_id", sessionID).InfoContext(ctx, "session updated")
	return s.GetSession(ctx, sessionID)
}

// GetSession retrieves one session.
func (s *TimetableService) GetSession(ctx context.Context, sessionID string) (TherapySession, error) {
	if s == nil || s.sessions == nil {
		return TherapySession{}, fmt.Errorf("session repository not configured")
	}
	record, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return TherapySession{}, mapRepoError(err)
	}
	return sessionFromRecord(record), nil
}

// ListSessions enumerates stored sessions matching the filter, ordered by
// day, start, then ID.
func (s *TimetableService) ListSessions(ctx context.Context, filter SessionFilter) ([]TherapySession, error) {
	if s == nil || s.sessions == nil {
		return nil, fmt.Errorf("session repository not configured")
	}

	repoFilter := persistence.SessionFilter{StaffID: filter.StaffID}
	if filter.Day != nil {
		day := int(*filter.Day)
		repoFilter.Day = &day
	}

	records, err := s.sessions.ListSessions(ctx, repoFilter)
	if err != nil {
		return nil, mapRepoError(err)
	}
	sessions := make([]TherapySession, 0, len(records))
	for _, record := range records {
		sessions = append(sessions, sessionFromRecord(record))
	}
	return sessions, nil
}

// DeleteSession removes a session.
func (s *TimetableService) DeleteSession(ctx context.Context, principal Principal, sessionID string) error {
	if s == nil || s.sessions == nil {
		return fmt.Errorf("session repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.sessions.DeleteSession(ctx, sessionID); err != nil {
		return mapRepoError(err)
	}
	s.log(ctx, "DeleteSession", "session_id", sessionID).InfoContext(ctx, "session deleted")
	return nil
}

// checkConstraints runs the scheduling validator against the stored week.
func (s *TimetableService) checkConstraints(ctx context.Context, candidate TherapySession) error {
	staffList, rooms, activities, err := s.snapshot(ctx)
	if err != nil {
		return err
	}
	records, err := s.sessions.ListSessions(ctx, persistence.SessionFilter{})
	if err != nil {
		return mapRepoError(err)
	}

	coreStaff := make([]schedule.Staff, 0, len(staffList))
	for _, member := range staffList {
		coreStaff = append(coreStaff, staffToCore(member))
	}
	coreRooms := make([]schedule.Room, 0, len(rooms))
	for _, room := range rooms {
		coreRooms = append(coreRooms, roomToCore(room))
	}
	coreActivities := make([]schedule.Activity, 0, len(activities))
	for _, activity := range activities {
		coreActivities = append(coreActivities, activityToCore(activity))
	}
	existing := make([]schedule.Session, 0, len(records))
	for _, record := range records {
		existing = append(existing, sessionToCore(sessionFromRecord(record)))
	}

	result, err := schedule.Validate(sessionToCore(candidate), existing, coreStaff, coreRooms, coreActivities)
	if err != nil {
		if errors.Is(err, schedule.ErrMalformedTime) {
			vErr := &ValidationError{}
			vErr.add("time", "times must be valid HH:mm clock values")
			return vErr
		}
		return err
	}
	if !result.Valid() {
		return &ConstraintViolationError{Result: result}
	}
	return nil
}

func (s *TimetableService) snapshot(ctx context.Context) ([]Staff, []Room, []Activity, error) {
	if s.staff == nil || s.rooms == nil || s.activities == nil {
		return nil, nil, nil, fmt.Errorf("timetable repositories not configured")
	}

	staffRecords, err := s.staff.ListStaff(ctx)
	if err != nil {
		return nil, nil, nil, mapRepoError(err)
	}
	roomRecords, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, nil, nil, mapRepoError(err)
	}
	activityRecords, err := s.activities.ListActivities(ctx)
	if err != nil {
		return nil, nil, nil, mapRepoError(err)
	}

	staffList := make([]Staff, 0, len(staffRecords))
	for _, record := range staffRecords {
		staffList = append(staffList, staffFromRecord(record))
	}
	rooms := make([]Room, 0, len(roomRecords))
	for _, record := range roomRecords {
		rooms = append(rooms, roomFromRecord(record))
	}
	activities := make([]Activity, 0, len(activityRecords))
	for _, record := range activityRecords {
		activities = append(activities, activityFromRecord(record))
	}
	return staffList, rooms, activities, nil
}

func validateSessionInput(input SessionInput, vErr *ValidationError) {
	if !input.Day.Valid() {
		vErr.add("day", fmt.Sprintf("invalid weekday %d", int(input.Day)))
	}
	if input.StaffID == "" {
		vErr.add("staff_id", "staff is required")
	}
	if input.RoomID == "" {
		vErr.add("room_id", "room is required")
	}
	validateClockRange(input.Start, input.End, "time", vErr)
}
