package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedTime indicates a clock string that is not "HH:mm".
var ErrMalformedTime = errors.New("schedule: malformed time")

// ToMinutes parses a 24-hour "HH:mm" clock string into minutes since
// midnight.
func ToMinutes(clock string) (int, error) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}
	return hours*60 + minutes, nil
}

// FormatMinutes renders minutes since midnight as an "HH:mm" clock string.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) share any minute. Intervals that merely touch, where one
// ends exactly when the other starts, do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
