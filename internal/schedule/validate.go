package schedule

import "fmt"

// ViolationCode labels the constraint a candidate session breaks.
type ViolationCode string

const (
	ViolationStaffNotFound       ViolationCode = "staff_not_found"
	ViolationRoomNotFound        ViolationCode = "room_not_found"
	ViolationOutsideWorkingHours ViolationCode = "outside_working_hours"
	ViolationRoomConflict        ViolationCode = "room_conflict"
	ViolationStaffConflict       ViolationCode = "staff_conflict"
	ViolationBlockedByActivity   ViolationCode = "blocked_by_activity"
)

// Result reports the outcome of validating one candidate session. A zero
// Code means the candidate satisfies every constraint.
type Result struct {
	Code ViolationCode
	// Activity carries the blocking activity's name when Code is
	// ViolationBlockedByActivity.
	Activity string
}

// Valid reports whether no constraint was violated.
func (r Result) Valid() bool {
	return r.Code == ""
}

// Message renders a human-readable reason for the violation.
func (r Result) Message() string {
	switch r.Code {
	case ViolationStaffNotFound:
		return "staff member does not exist"
	case ViolationRoomNotFound:
		return "room does not exist"
	case ViolationOutsideWorkingHours:
		return "session falls outside the staff member's working hours"
	case ViolationRoomConflict:
		return "room is already booked for an overlapping session"
	case ViolationStaffConflict:
		return "staff member already has an overlapping session"
	case ViolationBlockedByActivity:
		return fmt.Sprintf("session overlaps blocking activity %q", r.Activity)
	default:
		return ""
	}
}

// Validate checks a candidate session against every scheduling constraint,
// in a fixed order, stopping at the first violation: staff existence, room
// existence, working-hours containment, room double-booking, staff
// double-booking, then blocking activities. A session in existing that
// shares the candidate's ID is ignored, so edits do not conflict with
// their own prior version.
//
// Validate mutates nothing and returns an error only when a clock string
// in the input cannot be parsed.
func Validate(candidate Session, existing []Session, staff []Staff, rooms []Room, activities []Activity) (Result, error) {
	start, err := ToMinutes(candidate.Start)
	if err != nil {
		return Result{}, err
	}
	end, err := ToMinutes(candidate.End)
	if err != nil {
		return Result{}, err
	}

	member, ok := findStaff(staff, candidate.StaffID)
	if !ok {
		return Result{Code: ViolationStaffNotFound}, nil
	}
	if !roomExists(rooms, candidate.RoomID) {
		return Result{Code: ViolationRoomNotFound}, nil
	}

	hours, works := member.Hours[candidate.Day]
	if !works {
		return Result{Code: ViolationOutsideWorkingHours}, nil
	}
	workStart, err := ToMinutes(hours.Start)
	if err != nil {
		return Result{}, err
	}
	workEnd, err := ToMinutes(hours.End)
	if err != nil {
		return Result{}, err
	}
	if start < workStart || end > workEnd {
		return Result{Code: ViolationOutsideWorkingHours}, nil
	}

	placed, err := toPlacements(existing)
	if err != nil {
		return Result{}, err
	}
	others := placed[:0:0]
	for _, p := range placed {
		if candidate.ID != "" && p.id == candidate.ID {
			continue
		}
		others = append(others, p)
	}

	if !roomFree(candidate.RoomID, candidate.Day, start, end, others) {
		return Result{Code: ViolationRoomConflict}, nil
	}
	if !staffFree(candidate.StaffID, candidate.Day, start, end, others) {
		return Result{Code: ViolationStaffConflict}, nil
	}

	for _, activity := range activities {
		if !activity.Blocking {
			continue
		}
		interval, blocked := EffectiveInterval(activity, candidate.Day)
		if !blocked {
			continue
		}
		blockStart, err := ToMinutes(interval.Start)
		if err != nil {
			return Result{}, err
		}
		blockEnd, err := ToMinutes(interval.End)
		if err != nil {
			return Result{}, err
		}
		if Overlaps(start, end, blockStart, blockEnd) {
			return Result{Code: ViolationBlockedByActivity, Activity: activity.Name}, nil
		}
	}

	return Result{}, nil
}

func findStaff(staff []Staff, id string) (Staff, bool) {
	for _, member := range staff {
		if member.ID == id {
			return member, true
		}
	}
	return Staff{}, false
}

func roomExists(rooms []Room, id string) bool {
	for _, room := range rooms {
		if room.ID == id {
			return true
		}
	}
	return false
}
