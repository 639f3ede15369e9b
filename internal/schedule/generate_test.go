package schedule

import (
	"fmt"
	"reflect"
	"testing"
)

func sequentialIDs(prefix string) func() string {
	counter := 0
	return func() string {
		counter++
		return fmt.Sprintf("%s-%d", prefix, counter)
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	t.Run("fatigue rule limits a narrow morning to two sessions", func(t *testing.T) {
		t.Parallel()

		staff := []Staff{{
			ID:          "s1",
			Name:        "Dana",
			Hours:       map[Weekday]WorkingHours{Sunday: {Start: "08:00", End: "10:00"}},
			WeeklyQuota: 3,
		}}
		rooms := []Room{{ID: "r1", Name: "Room 1"}}

		sessions, err := Generate(staff, rooms, nil, sequentialIDs("sess"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		if len(sessions) != 2 {
			t.Fatalf("got %d sessions, want 2: %+v", len(sessions), sessions)
		}
		if sessions[0].Start != "08:00" || sessions[0].End != "08:45" {
			t.Errorf("first session %s-%s, want 08:00-08:45", sessions[0].Start, sessions[0].End)
		}
		if sessions[1].Start != "08:45" || sessions[1].End != "09:30" {
			t.Errorf("second session %s-%s, want 08:45-09:30", sessions[1].Start, sessions[1].End)
		}
	})

	t.Run("no session overlaps a blocking lunch on any day", func(t *testing.T) {
		t.Parallel()

		hours := map[Weekday]WorkingHours{}
		for _, day := range Weekdays {
			hours[day] = WorkingHours{Start: "08:00", End: "16:00"}
		}
		staff := []Staff{
			{ID: "s1", Hours: hours, WeeklyQuota: 40},
			{ID: "s2", Hours: hours, WeeklyQuota: 40},
		}
		rooms := []Room{{ID: "r1"}, {ID: "r2"}}
		lunch := Interval{Start: "12:00", End: "13:00"}
		activities := []Activity{{ID: "a1", Name: "Lunch", Blocking: true, Default: &lunch}}

		sessions, err := Generate(staff, rooms, activities, sequentialIDs("sess"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(sessions) == 0 {
			t.Fatal("expected sessions to be placed")
		}
		for _, session := range sessions {
			start, _ := ToMinutes(session.Start)
			end, _ := ToMinutes(session.End)
			if Overlaps(start, end, 720, 780) {
				t.Errorf("session %s %s-%s overlaps lunch", session.Day, session.Start, session.End)
			}
		}
	})

	t.Run("generated sessions never violate core invariants", func(t *testing.T) {
		t.Parallel()

		staff := []Staff{
			{ID: "s1", Hours: map[Weekday]WorkingHours{
				Sunday: {Start: "08:00", End: "14:00"},
				Monday: {Start: "09:00", End: "13:00"},
			}, WeeklyQuota: 6},
			{ID: "s2", Hours: map[Weekday]WorkingHours{
				Sunday: {Start: "10:00", End: "16:00"},
			}, WeeklyQuota: 4},
		}
		rooms := []Room{{ID: "r1"}, {ID: "r2"}}

		sessions, err := Generate(staff, rooms, nil, sequentialIDs("sess"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}

		perStaff := map[string]int{}
		for i, a := range sessions {
			perStaff[a.StaffID]++

			member, ok := findStaff(staff, a.StaffID)
			if !ok {
				t.Fatalf("session %s references unknown staff %s", a.ID, a.StaffID)
			}
			hours, works := member.Hours[a.Day]
			if !works {
				t.Errorf("session %s placed on %s but %s does not work that day", a.ID, a.Day, a.StaffID)
				continue
			}
			aStart, _ := ToMinutes(a.Start)
			aEnd, _ := ToMinutes(a.End)
			hStart, _ := ToMinutes(hours.Start)
			hEnd, _ := ToMinutes(hours.End)
			if aStart < hStart || aEnd > hEnd {
				t.Errorf("session %s %s-%s outside %s's hours %s-%s", a.ID, a.Start, a.End, a.StaffID, hours.Start, hours.End)
			}

			for _, b := range sessions[i+1:] {
				if a.Day != b.Day {
					continue
				}
				bStart, _ := ToMinutes(b.Start)
				bEnd, _ := ToMinutes(b.End)
				if !Overlaps(aStart, aEnd, bStart, bEnd) {
					continue
				}
				if a.RoomID == b.RoomID {
					t.Errorf("room %s double-booked by %s and %s", a.RoomID, a.ID, b.ID)
				}
				if a.StaffID == b.StaffID {
					t.Errorf("staff %s double-booked by %s and %s", a.StaffID, a.ID, b.ID)
				}
			}
		}

		for _, member := range staff {
			if perStaff[member.ID] > member.WeeklyQuota {
				t.Errorf("staff %s received %d sessions, quota %d", member.ID, perStaff[member.ID], member.WeeklyQuota)
			}
		}
	})

	t.Run("identical inputs produce identical output", func(t *testing.T) {
		t.Parallel()

		build := func() ([]Staff, []Room, []Activity) {
			hours := map[Weekday]WorkingHours{
				Sunday:  {Start: "08:00", End: "15:00"},
				Tuesday: {Start: "08:00", End: "15:00"},
			}
			lunch := Interval{Start: "12:00", End: "12:45"}
			return []Staff{
					{ID: "s1", Hours: hours, WeeklyQuota: 5},
					{ID: "s2", Hours: hours, WeeklyQuota: 5},
				},
				[]Room{{ID: "r1"}, {ID: "r2"}},
				[]Activity{{ID: "a1", Name: "Lunch", Blocking: true, Default: &lunch}}
		}

		staffA, roomsA, actsA := build()
		first, err := Generate(staffA, roomsA, actsA, sequentialIDs("sess"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		staffB, roomsB, actsB := build()
		second, err := Generate(staffB, roomsB, actsB, sequentialIDs("sess"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("runs differ:\nfirst:  %+v\nsecond: %+v", first, second)
		}
	})

	t.Run("staff with the most remaining quota is chosen first", func(t *testing.T) {
		t.Parallel()

		hours := map[Weekday]WorkingHours{Sunday: {Start: "08:00", End: "10:00"}}
		staff := []Staff{
			{ID: "low", Hours: hours, WeeklyQuota: 1},
			{ID: "high", Hours: hours, WeeklyQuota: 2},
		}
		rooms := []Room{{ID: "r1"}, {ID: "r2"}}

		sessions, err := Generate(staff, rooms, nil, sequentialIDs("sess"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(sessions) == 0 {
			t.Fatal("expected sessions")
		}
		if sessions[0].StaffID != "high" {
			t.Errorf("first session assigned to %s, want the higher-quota staff", sessions[0].StaffID)
		}
	})

	t.Run("quota ties keep staff input order", func(t *testing.T) {
		t.Parallel()

		hours := map[Weekday]WorkingHours{Sunday: {Start: "08:00", End: "09:00"}}
		staff := []Staff{
			{ID: "first", Hours: hours, WeeklyQuota: 1},
			{ID: "second", Hours: hours, WeeklyQuota: 1},
		}
		rooms := []Room{{ID: "r1"}}

		sessions, err := Generate(staff, rooms, nil, sequentialIDs("sess"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(sessions) == 0 {
			t.Fatal("expected a session")
		}
		if sessions[0].StaffID != "first" {
			t.Errorf("tie broken to %s, want input order", sessions[0].StaffID)
		}
	})

	t.Run("first room in input order is booked", func(t *testing.T) {
		t.Parallel()

		staff := []Staff{{
			ID:          "s1",
			Hours:       map[Weekday]WorkingHours{Sunday: {Start: "08:00", End: "09:00"}},
			WeeklyQuota: 1,
		}}
		rooms := []Room{{ID: "preferred"}, {ID: "other"}}

		sessions, err := Generate(staff, rooms, nil, sequentialIDs("sess"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(sessions) != 1 || sessions[0].RoomID != "preferred" {
			t.Errorf("sessions = %+v, want one session in the first room", sessions)
		}
	})

	t.Run("no staff and no rooms yield an empty week", func(t *testing.T) {
		t.Parallel()

		sessions, err := Generate(nil, nil, nil, sequentialIDs("sess"))
		if err != nil {
			t.Fatalf("Generate: %v", err)
		}
		if len(sessions) != 0 {
			t.Errorf("sessions = %+v, want none", sessions)
		}
	})
}
