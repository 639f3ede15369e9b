package schedule

// dayState tracks one staff member's fatigue on one weekday during a
// generation run. A staff member may take at most two sessions back to
// back; a rest of at least MinRestGap minutes between one session's end
// and the next session's start resets the count.
type dayState struct {
	hasLast     bool
	lastEnd     int
	consecutive int
}

// canTake reports whether a session starting at the given minute would
// respect the fatigue rule.
func (s *dayState) canTake(start int) bool {
	if !s.hasLast {
		return true
	}
	if start-s.lastEnd >= MinRestGap {
		return true
	}
	return s.consecutive < 2
}

// record notes a placed session. Callers must have checked canTake first.
func (s *dayState) record(start, end int) {
	if !s.hasLast || start-s.lastEnd >= MinRestGap {
		s.consecutive = 1
	} else {
		s.consecutive++
	}
	s.hasLast = true
	s.lastEnd = end
}
