package schedule

import "sort"

// staffState is the generator's ephemeral per-staff bookkeeping. It lives
// for one Generate call only.
type staffState struct {
	remaining int
	days      map[Weekday]*dayState
	hours     map[Weekday]workSpan
}

type workSpan struct {
	start int
	end   int
}

func (s *staffState) day(day Weekday) *dayState {
	state, ok := s.days[day]
	if !ok {
		state = &dayState{}
		s.days[day] = state
	}
	return state
}

// Generate runs the greedy weekly assignment. It walks every candidate
// slot in (weekday, start) order and, where a free room and an eligible
// staff member exist, places a session: the first free room in input
// order, and the eligible staff member with the most remaining quota
// (ties keep staff input order). Infeasible slots are skipped silently;
// staff may finish with unmet quota and that is not an error.
//
// newID supplies the identity for each created session. The only failure
// mode is a malformed clock string in the input, reported before any
// session is returned.
func Generate(staff []Staff, rooms []Room, activities []Activity, newID func() string) ([]Session, error) {
	slots, err := GenerateSlots(staff, activities)
	if err != nil {
		return nil, err
	}

	states := make(map[string]*staffState, len(staff))
	for _, member := range staff {
		hours := make(map[Weekday]workSpan, len(member.Hours))
		for day, wh := range member.Hours {
			start, err := ToMinutes(wh.Start)
			if err != nil {
				return nil, err
			}
			end, err := ToMinutes(wh.End)
			if err != nil {
				return nil, err
			}
			hours[day] = workSpan{start: start, end: end}
		}
		states[member.ID] = &staffState{
			remaining: member.WeeklyQuota,
			days:      make(map[Weekday]*dayState),
			hours:     hours,
		}
	}

	sessions := make([]Session, 0)
	placed := make([]placement, 0)

	for _, slot := range slots {
		room, ok := firstFreeRoom(rooms, slot, placed)
		if !ok {
			continue
		}

		candidates := eligibleStaff(staff, states, slot, placed)
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return states[candidates[i].ID].remaining > states[candidates[j].ID].remaining
		})

		chosen := candidates[0]
		state := states[chosen.ID]

		session := Session{
			ID:      newID(),
			Day:     slot.Day,
			Start:   FormatMinutes(slot.Start),
			End:     FormatMinutes(slot.End),
			StaffID: chosen.ID,
			RoomID:  room.ID,
		}
		sessions = append(sessions, session)
		placed = append(placed, placement{
			id:      session.ID,
			day:     slot.Day,
			start:   slot.Start,
			end:     slot.End,
			staffID: chosen.ID,
			roomID:  room.ID,
		})

		state.remaining--
		state.day(slot.Day).record(slot.Start, slot.End)
	}

	return sessions, nil
}

func firstFreeRoom(rooms []Room, slot Slot, placed []placement) (Room, bool) {
	for _, room := range rooms {
		if roomFree(room.ID, slot.Day, slot.Start, slot.End, placed) {
			return room, true
		}
	}
	return Room{}, false
}

func eligibleStaff(staff []Staff, states map[string]*staffState, slot Slot, placed []placement) []Staff {
	var candidates []Staff
	for _, member := range staff {
		state := states[member.ID]
		if state.remaining <= 0 {
			continue
		}
		span, works := state.hours[slot.Day]
		if !works || slot.Start < span.start || slot.End > span.end {
			continue
		}
		if !staffFree(member.ID, slot.Day, slot.Start, slot.End, placed) {
			continue
		}
		if !state.day(slot.Day).canTake(slot.Start) {
			continue
		}
		candidates = append(candidates, member)
	}
	return candidates
}
