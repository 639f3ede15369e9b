package schedule

import "fmt"

// Weekday identifies one of the facility's five working days. The facility
// week runs Sunday through Thursday.
type Weekday int

const (
	Sunday Weekday = iota
	Monday
	Tuesday
	Wednesday
	Thursday
)

// Weekdays lists the working days in iteration order. Slot generation and
// session ordering depend on this order being stable.
var Weekdays = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday}

var weekdayNames = [...]string{"sunday", "monday", "tuesday", "wednesday", "thursday"}

// String returns the lowercase English day name.
func (d Weekday) String() string {
	if d < Sunday || d > Thursday {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid reports whether d is one of the five working days.
func (d Weekday) Valid() bool {
	return d >= Sunday && d <= Thursday
}

// ParseWeekday resolves a lowercase day name to its Weekday value.
func ParseWeekday(name string) (Weekday, error) {
	for i, n := range weekdayNames {
		if n == name {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("schedule: unknown weekday %q", name)
}
