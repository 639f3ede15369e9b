package schedule

import (
	"errors"
	"testing"
)

func validationFixtures() ([]Staff, []Room, []Activity) {
	staff := []Staff{{
		ID:   "s1",
		Name: "Dana",
		Hours: map[Weekday]WorkingHours{
			Sunday: {Start: "08:00", End: "16:00"},
			Monday: {Start: "09:00", End: "13:00"},
		},
		WeeklyQuota: 10,
	}}
	rooms := []Room{{ID: "r1", Name: "Room 1"}}
	lunch := Interval{Start: "12:00", End: "13:00"}
	activities := []Activity{{ID: "a1", Name: "Lunch", Blocking: true, Default: &lunch}}
	return staff, rooms, activities
}

func TestValidate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a well-placed session", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		candidate := Session{ID: "c1", Day: Sunday, Start: "09:00", End: "09:45", StaffID: "s1", RoomID: "r1"}

		result, err := Validate(candidate, nil, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if !result.Valid() {
			t.Errorf("result = %+v, want valid", result)
		}
	})

	t.Run("unknown staff is reported before anything else", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		// Unknown room and blocked time too; staff must win.
		candidate := Session{Day: Sunday, Start: "12:00", End: "12:45", StaffID: "ghost", RoomID: "ghost"}

		result, err := Validate(candidate, nil, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if result.Code != ViolationStaffNotFound {
			t.Errorf("code = %s, want %s", result.Code, ViolationStaffNotFound)
		}
	})

	t.Run("unknown room is reported second", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		candidate := Session{Day: Sunday, Start: "12:00", End: "12:45", StaffID: "s1", RoomID: "ghost"}

		result, err := Validate(candidate, nil, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if result.Code != ViolationRoomNotFound {
			t.Errorf("code = %s, want %s", result.Code, ViolationRoomNotFound)
		}
	})

	t.Run("day without working hours is outside working hours", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		candidate := Session{Day: Thursday, Start: "09:00", End: "09:45", StaffID: "s1", RoomID: "r1"}

		result, err := Validate(candidate, nil, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if result.Code != ViolationOutsideWorkingHours {
			t.Errorf("code = %s, want %s", result.Code, ViolationOutsideWorkingHours)
		}
	})

	t.Run("session spilling past the working day is rejected", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		candidate := Session{Day: Monday, Start: "12:30", End: "13:15", StaffID: "s1", RoomID: "r1"}

		result, err := Validate(candidate, nil, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if result.Code != ViolationOutsideWorkingHours {
			t.Errorf("code = %s, want %s", result.Code, ViolationOutsideWorkingHours)
		}
	})

	t.Run("booked room wins over staff conflict", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		existing := []Session{{ID: "e1", Day: Sunday, Start: "09:00", End: "09:45", StaffID: "s1", RoomID: "r1"}}
		candidate := Session{ID: "c1", Day: Sunday, Start: "09:30", End: "10:15", StaffID: "s1", RoomID: "r1"}

		result, err := Validate(candidate, existing, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if result.Code != ViolationRoomConflict {
			t.Errorf("code = %s, want %s", result.Code, ViolationRoomConflict)
		}
	})

	t.Run("staff double-booking in another room is a staff conflict", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		rooms = append(rooms, Room{ID: "r2", Name: "Room 2"})
		existing := []Session{{ID: "e1", Day: Sunday, Start: "09:00", End: "09:45", StaffID: "s1", RoomID: "r1"}}
		candidate := Session{ID: "c1", Day: Sunday, Start: "09:30", End: "10:15", StaffID: "s1", RoomID: "r2"}

		result, err := Validate(candidate, existing, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if result.Code != ViolationStaffConflict {
			t.Errorf("code = %s, want %s", result.Code, ViolationStaffConflict)
		}
	})

	t.Run("overlapping a blocking activity names the activity", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		candidate := Session{ID: "c1", Day: Sunday, Start: "12:30", End: "13:15", StaffID: "s1", RoomID: "r1"}

		result, err := Validate(candidate, nil, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if result.Code != ViolationBlockedByActivity {
			t.Fatalf("code = %s, want %s", result.Code, ViolationBlockedByActivity)
		}
		if result.Activity != "Lunch" {
			t.Errorf("activity = %q, want Lunch", result.Activity)
		}
	})

	t.Run("edits do not conflict with their own prior version", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		existing := []Session{{ID: "e1", Day: Sunday, Start: "09:00", End: "09:45", StaffID: "s1", RoomID: "r1"}}
		// Same ID, shifted by 15 minutes; still overlapping its old self.
		candidate := Session{ID: "e1", Day: Sunday, Start: "09:15", End: "10:00", StaffID: "s1", RoomID: "r1"}

		result, err := Validate(candidate, existing, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if !result.Valid() {
			t.Errorf("result = %+v, want valid", result)
		}
	})

	t.Run("sessions touching a blocking activity are allowed", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		candidate := Session{ID: "c1", Day: Sunday, Start: "13:00", End: "13:45", StaffID: "s1", RoomID: "r1"}

		result, err := Validate(candidate, nil, staff, rooms, activities)
		if err != nil {
			t.Fatalf("Validate: %v", err)
		}
		if !result.Valid() {
			t.Errorf("result = %+v, want valid", result)
		}
	})

	t.Run("malformed candidate time is a hard error", func(t *testing.T) {
		t.Parallel()

		staff, rooms, activities := validationFixtures()
		candidate := Session{ID: "c1", Day: Sunday, Start: "nine", End: "09:45", StaffID: "s1", RoomID: "r1"}

		if _, err := Validate(candidate, nil, staff, rooms, activities); !errors.Is(err, ErrMalformedTime) {
			t.Errorf("error = %v, want ErrMalformedTime", err)
		}
	})
}
