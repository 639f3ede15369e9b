package schedule

// Slot is a candidate session interval on one weekday, in minute offsets.
type Slot struct {
	Day   Weekday
	Start int
	End   int
}

// GenerateSlots enumerates every candidate slot for the week in ascending
// (weekday, start) order. For each day the window spans the earliest start
// to the latest end across all staff working that day; the window is
// stepped on the 15-minute grid, emitting 45-minute slots that fit inside
// the window and do not overlap any blocking activity's effective
// interval. Days nobody works produce no slots.
func GenerateSlots(staff []Staff, activities []Activity) ([]Slot, error) {
	var slots []Slot
	for _, day := range Weekdays {
		windowStart, windowEnd, ok, err := dayWindow(staff, day)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		blocked, err := blockedSpansFor(activities, day)
		if err != nil {
			return nil, err
		}

		for start := windowStart; start+SlotDuration <= windowEnd; start += SlotStep {
			end := start + SlotDuration
			if overlapsAny(start, end, blocked) {
				continue
			}
			slots = append(slots, Slot{Day: day, Start: start, End: end})
		}
	}
	return slots, nil
}

// dayWindow computes the union bounds of all staff working hours on the
// given day. ok is false when no staff member works that day.
func dayWindow(staff []Staff, day Weekday) (start, end int, ok bool, err error) {
	for _, member := range staff {
		hours, works := member.Hours[day]
		if !works {
			continue
		}
		hoursStart, err := ToMinutes(hours.Start)
		if err != nil {
			return 0, 0, false, err
		}
		hoursEnd, err := ToMinutes(hours.End)
		if err != nil {
			return 0, 0, false, err
		}
		if !ok {
			start, end, ok = hoursStart, hoursEnd, true
			continue
		}
		if hoursStart < start {
			start = hoursStart
		}
		if hoursEnd > end {
			end = hoursEnd
		}
	}
	return start, end, ok, nil
}

func overlapsAny(start, end int, spans []blockedSpan) bool {
	for _, span := range spans {
		if Overlaps(start, end, span.start, span.end) {
			return true
		}
	}
	return false
}
