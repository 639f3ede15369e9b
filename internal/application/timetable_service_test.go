package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
	"github.com/example/therapy-scheduler/internal/schedule"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC)
}

type timetableFixture struct {
	staff      *memStaffRepo
	rooms      *memRoomRepo
	activities *memActivityRepo
	sessions   *memSessionRepo
	service    *TimetableService
}

func newTimetableFixture(t *testing.T) *timetableFixture {
	t.Helper()
	f := &timetableFixture{
		staff:      newMemStaffRepo(),
		rooms:      newMemRoomRepo(),
		activities: newMemActivityRepo(),
		sessions:   newMemSessionRepo(),
	}
	f.service = NewTimetableService(
		f.staff, f.rooms, f.activities, f.sessions,
		sequentialIDGenerator("gen"), fixedNow, nil,
	)
	return f
}

func (f *timetableFixture) seedStaff(t *testing.T, id string, quota int, hours ...persistence.WorkingHours) {
	t.Helper()
	err := f.staff.CreateStaff(context.Background(), persistence.Staff{
		ID:          id,
		FullName:    "Therapist " + id,
		Role:        "therapist",
		WeeklyQuota: quota,
		Hours:       hours,
	})
	if err != nil {
		t.Fatalf("seed staff %s: %v", id, err)
	}
}

func (f *timetableFixture) seedRoom(t *testing.T, id string) {
	t.Helper()
	err := f.rooms.CreateRoom(context.Background(), persistence.Room{ID: id, Name: "Room " + id})
	if err != nil {
		t.Fatalf("seed room %s: %v", id, err)
	}
}

var admin = Principal{StaffID: "admin", IsAdmin: true}

func TestTimetableServiceGenerateWeek(t *testing.T) {
	t.Parallel()

	t.Run("fills the week and reports unmet quota", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		f.seedStaff(t, "s1", 3, persistence.WorkingHours{Day: 0, Start: "08:00", End: "10:00"})
		f.seedRoom(t, "r1")

		result, err := f.service.GenerateWeek(context.Background(), admin)
		if err != nil {
			t.Fatalf("GenerateWeek returned error: %v", err)
		}
		// A two hour window admits two back-to-back sessions before the
		// fatigue rule cuts the run off.
		if len(result.Sessions) != 2 {
			t.Fatalf("expected 2 sessions, got %d", len(result.Sessions))
		}
		if got := result.Sessions[0].Start; got != "08:00" {
			t.Errorf("first session start = %s, want 08:00", got)
		}
		if got := result.Sessions[1].Start; got != "08:45" {
			t.Errorf("second session start = %s, want 08:45", got)
		}
		if len(result.UnmetQuotas) != 1 {
			t.Fatalf("expected 1 unmet quota entry, got %d", len(result.UnmetQuotas))
		}
		if result.UnmetQuotas[0].StaffID != "s1" || result.UnmetQuotas[0].Remaining != 1 {
			t.Errorf("unexpected unmet quota entry: %+v", result.UnmetQuotas[0])
		}
	})

	t.Run("replaces generated sessions but keeps manual ones", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		f.seedStaff(t, "s1", 1, persistence.WorkingHours{Day: 0, Start: "08:00", End: "09:00"})
		f.seedRoom(t, "r1")

		manual := persistence.TherapySession{
			ID: "manual-1", Day: 3, Start: "10:00", End: "10:45",
			StaffID: "s1", RoomID: "r1",
		}
		if err := f.sessions.CreateSession(context.Background(), manual); err != nil {
			t.Fatalf("seed manual session: %v", err)
		}
		stale := persistence.TherapySession{
			ID: "old-gen", Day: 1, Start: "08:00", End: "08:45",
			StaffID: "s1", RoomID: "r1", Generated: true,
		}
		if err := f.sessions.CreateSession(context.Background(), stale); err != nil {
			t.Fatalf("seed stale session: %v", err)
		}

		if _, err := f.service.GenerateWeek(context.Background(), admin); err != nil {
			t.Fatalf("GenerateWeek returned error: %v", err)
		}

		stored, err := f.sessions.ListSessions(context.Background(), persistence.SessionFilter{})
		if err != nil {
			t.Fatalf("ListSessions returned error: %v", err)
		}
		var sawManual, sawStale bool
		for _, session := range stored {
			if session.ID == "manual-1" {
				sawManual = true
			}
			if session.ID == "old-gen" {
				sawStale = true
			}
		}
		if !sawManual {
			t.Error("manual session was removed by generation")
		}
		if sawStale {
			t.Error("stale generated session survived regeneration")
		}
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		_, err := f.service.GenerateWeek(context.Background(), Principal{StaffID: "s1"})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestTimetableServiceCreateSession(t *testing.T) {
	t.Parallel()

	t.Run("stores a valid session", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		f.seedStaff(t, "s1", 5, persistence.WorkingHours{Day: 0, Start: "08:00", End: "12:00"})
		f.seedRoom(t, "r1")

		session, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Sunday, Start: "09:00", End: "09:45",
			StaffID: "s1", RoomID: "r1",
		})
		if err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}
		if session.Generated {
			t.Error("manual session marked as generated")
		}
		if session.ID == "" {
			t.Error("session ID was not assigned")
		}
	})

	t.Run("rejects a room conflict with the violation code", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		f.seedStaff(t, "s1", 5, persistence.WorkingHours{Day: 0, Start: "08:00", End: "12:00"})
		f.seedStaff(t, "s2", 5, persistence.WorkingHours{Day: 0, Start: "08:00", End: "12:00"})
		f.seedRoom(t, "r1")

		if _, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Sunday, Start: "09:00", End: "09:45",
			StaffID: "s1", RoomID: "r1",
		}); err != nil {
			t.Fatalf("first CreateSession returned error: %v", err)
		}

		_, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Sunday, Start: "09:30", End: "10:15",
			StaffID: "s2", RoomID: "r1",
		})
		var cErr *ConstraintViolationError
		if !errors.As(err, &cErr) {
			t.Fatalf("expected ConstraintViolationError, got %v", err)
		}
		if cErr.Code() != schedule.ViolationRoomConflict {
			t.Errorf("violation code = %s, want %s", cErr.Code(), schedule.ViolationRoomConflict)
		}
	})

	t.Run("allows sessions that merely touch", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		f.seedStaff(t, "s1", 5, persistence.WorkingHours{Day: 0, Start: "08:00", End: "12:00"})
		f.seedRoom(t, "r1")

		if _, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Sunday, Start: "09:00", End: "09:45",
			StaffID: "s1", RoomID: "r1",
		}); err != nil {
			t.Fatalf("first CreateSession returned error: %v", err)
		}
		// 09:45 start touches the previous end; half-open intervals do
		// not overlap there, but the fatigue rule is a generation-time
		// concern only, so validation accepts this.
		if _, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Sunday, Start: "09:45", End: "10:30",
			StaffID: "s1", RoomID: "r1",
		}); err != nil {
			t.Fatalf("touching CreateSession returned error: %v", err)
		}
	})

	t.Run("aggregates field errors before touching the validator", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		_, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Weekday(9), Start: "26:00", End: "09:45",
		})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"day", "staff_id", "room_id", "time"} {
			if _, ok := vErr.FieldErrors[field]; !ok {
				t.Errorf("missing field error for %q", field)
			}
		}
	})

	t.Run("rejects non-admin callers", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		_, err := f.service.CreateSession(context.Background(), Principal{StaffID: "s1"}, SessionInput{})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestTimetableServiceUpdateSession(t *testing.T) {
	t.Parallel()

	t.Run("moving a session within its own slot succeeds", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		f.seedStaff(t, "s1", 5, persistence.WorkingHours{Day: 0, Start: "08:00", End: "12:00"})
		f.seedRoom(t, "r1")

		created, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Sunday, Start: "09:00", End: "09:45",
			StaffID: "s1", RoomID: "r1",
		})
		if err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}

		// The candidate overlaps its own stored copy; self-exclusion
		// must keep that from counting as a conflict.
		updated, err := f.service.UpdateSession(context.Background(), admin, created.ID, SessionInput{
			Day: schedule.Sunday, Start: "09:15", End: "10:00",
			StaffID: "s1", RoomID: "r1",
		})
		if err != nil {
			t.Fatalf("UpdateSession returned error: %v", err)
		}
		if updated.Start != "09:15" || updated.End != "10:00" {
			t.Errorf("session not moved: %+v", updated)
		}
	})

	t.Run("unknown session yields ErrNotFound", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		_, err := f.service.UpdateSession(context.Background(), admin, "ghost", SessionInput{
			Day: schedule.Sunday, Start: "09:00", End: "09:45",
			StaffID: "s1", RoomID: "r1",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("rejects a staff conflict against another session", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		f.seedStaff(t, "s1", 5, persistence.WorkingHours{Day: 0, Start: "08:00", End: "12:00"})
		f.seedRoom(t, "r1")
		f.seedRoom(t, "r2")

		first, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Sunday, Start: "09:00", End: "09:45",
			StaffID: "s1", RoomID: "r1",
		})
		if err != nil {
			t.Fatalf("first CreateSession returned error: %v", err)
		}
		second, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Sunday, Start: "10:00", End: "10:45",
			StaffID: "s1", RoomID: "r2",
		})
		if err != nil {
			t.Fatalf("second CreateSession returned error: %v", err)
		}

		_, err = f.service.UpdateSession(context.Background(), admin, second.ID, SessionInput{
			Day: schedule.Sunday, Start: first.Start, End: first.End,
			StaffID: "s1", RoomID: "r2",
		})
		var cErr *ConstraintViolationError
		if !errors.As(err, &cErr) {
			t.Fatalf("expected ConstraintViolationError, got %v", err)
		}
		if cErr.Code() != schedule.ViolationStaffConflict {
			t.Errorf("violation code = %s, want %s", cErr.Code(), schedule.ViolationStaffConflict)
		}
	})
}

func TestTimetableServiceListSessions(t *testing.T) {
	t.Parallel()
	f := newTimetableFixture(t)
	f.seedStaff(t, "s1", 5,
		persistence.WorkingHours{Day: 0, Start: "08:00", End: "12:00"},
		persistence.WorkingHours{Day: 2, Start: "08:00", End: "12:00"},
	)
	f.seedStaff(t, "s2", 5, persistence.WorkingHours{Day: 0, Start: "08:00", End: "12:00"})
	f.seedRoom(t, "r1")
	f.seedRoom(t, "r2")

	seed := []SessionInput{
		{Day: schedule.Tuesday, Start: "08:00", End: "08:45", StaffID: "s1", RoomID: "r1"},
		{Day: schedule.Sunday, Start: "10:00", End: "10:45", StaffID: "s1", RoomID: "r1"},
		{Day: schedule.Sunday, Start: "08:00", End: "08:45", StaffID: "s2", RoomID: "r2"},
	}
	for i, input := range seed {
		if _, err := f.service.CreateSession(context.Background(), admin, input); err != nil {
			t.Fatalf("seed session %d: %v", i, err)
		}
	}

	t.Run("orders by day then start", func(t *testing.T) {
		sessions, err := f.service.ListSessions(context.Background(), SessionFilter{})
		if err != nil {
			t.Fatalf("ListSessions returned error: %v", err)
		}
		if len(sessions) != 3 {
			t.Fatalf("expected 3 sessions, got %d", len(sessions))
		}
		if sessions[0].Day != schedule.Sunday || sessions[0].Start != "08:00" {
			t.Errorf("unexpected first session: %+v", sessions[0])
		}
		if sessions[2].Day != schedule.Tuesday {
			t.Errorf("unexpected last session: %+v", sessions[2])
		}
	})

	t.Run("filters by day and staff", func(t *testing.T) {
		day := schedule.Sunday
		sessions, err := f.service.ListSessions(context.Background(), SessionFilter{Day: &day, StaffID: "s1"})
		if err != nil {
			t.Fatalf("ListSessions returned error: %v", err)
		}
		if len(sessions) != 1 {
			t.Fatalf("expected 1 session, got %d", len(sessions))
		}
		if sessions[0].StaffID != "s1" || sessions[0].Day != schedule.Sunday {
			t.Errorf("unexpected session: %+v", sessions[0])
		}
	})
}

func TestTimetableServiceDeleteSession(t *testing.T) {
	t.Parallel()

	t.Run("removes an existing session", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		f.seedStaff(t, "s1", 5, persistence.WorkingHours{Day: 0, Start: "08:00", End: "12:00"})
		f.seedRoom(t, "r1")

		created, err := f.service.CreateSession(context.Background(), admin, SessionInput{
			Day: schedule.Sunday, Start: "09:00", End: "09:45",
			StaffID: "s1", RoomID: "r1",
		})
		if err != nil {
			t.Fatalf("CreateSession returned error: %v", err)
		}
		if err := f.service.DeleteSession(context.Background(), admin, created.ID); err != nil {
			t.Fatalf("DeleteSession returned error: %v", err)
		}
		if _, err := f.service.GetSession(context.Background(), created.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("unknown session yields ErrNotFound", func(t *testing.T) {
		t.Parallel()
		f := newTimetableFixture(t)
		if err := f.service.DeleteSession(context.Background(), admin, "ghost"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
