package schedule

// placement is a Session with its interval resolved to minute offsets.
// The generator and validator both work over placements so clock strings
// are parsed exactly once per session.
type placement struct {
	id      string
	day     Weekday
	start   int
	end     int
	staffID string
	roomID  string
}

func toPlacements(sessions []Session) ([]placement, error) {
	placements := make([]placement, 0, len(sessions))
	for _, session := range sessions {
		start, err := ToMinutes(session.Start)
		if err != nil {
			return nil, err
		}
		end, err := ToMinutes(session.End)
		if err != nil {
			return nil, err
		}
		placements = append(placements, placement{
			id:      session.ID,
			day:     session.Day,
			start:   start,
			end:     end,
			staffID: session.StaffID,
			roomID:  session.RoomID,
		})
	}
	return placements, nil
}

func roomFree(roomID string, day Weekday, start, end int, placed []placement) bool {
	for _, p := range placed {
		if p.roomID == roomID && p.day == day && Overlaps(start, end, p.start, p.end) {
			return false
		}
	}
	return true
}

func staffFree(staffID string, day Weekday, start, end int, placed []placement) bool {
	for _, p := range placed {
		if p.staffID == staffID && p.day == day && Overlaps(start, end, p.start, p.end) {
			return false
		}
	}
	return true
}

// RoomFree reports whether no placed session books the room on the given
// day with an interval overlapping [start, end).
func RoomFree(roomID string, day Weekday, start, end int, placed []Session) (bool, error) {
	placements, err := toPlacements(placed)
	if err != nil {
		return false, err
	}
	return roomFree(roomID, day, start, end, placements), nil
}

// StaffFree reports whether no placed session occupies the staff member on
// the given day with an interval overlapping [start, end).
func StaffFree(staffID string, day Weekday, start, end int, placed []Session) (bool, error) {
	placements, err := toPlacements(placed)
	if err != nil {
		return false, err
	}
	return staffFree(staffID, day, start, end, placements), nil
}
