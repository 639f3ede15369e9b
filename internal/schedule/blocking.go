package schedule

// blockResolution enumerates the ways an activity's schedule can resolve
// for one weekday. Keeping the outcomes closed makes the precedence rules
// (explicit clear beats override beats default) visible in one switch.
type blockResolution int

const (
	// blockNone: no override and no usable default.
	blockNone blockResolution = iota
	// blockCleared: an explicit per-day nil override; the day is open even
	// if a default interval exists.
	blockCleared
	// blockOverride: a per-day interval replaces the default.
	blockOverride
	// blockDefault: the activity's default interval applies.
	blockDefault
)

func resolveBlock(activity Activity, day Weekday) (blockResolution, Interval) {
	if override, ok := activity.Overrides[day]; ok {
		if override == nil {
			return blockCleared, Interval{}
		}
		return blockOverride, *override
	}
	if activity.Default != nil {
		return blockDefault, *activity.Default
	}
	return blockNone, Interval{}
}

// EffectiveInterval resolves the interval an activity occupies on the
// given day, applying per-day overrides before the default. The second
// return is false when the activity does not occupy the day at all.
func EffectiveInterval(activity Activity, day Weekday) (Interval, bool) {
	switch kind, interval := resolveBlock(activity, day); kind {
	case blockOverride, blockDefault:
		return interval, true
	default:
		return Interval{}, false
	}
}

// blockedSpan is an effective blocking interval in minute offsets.
type blockedSpan struct {
	start int
	end   int
}

// blockedSpansFor collects the effective intervals of all blocking
// activities on the given day, converted to minutes. Non-blocking
// activities are ignored.
func blockedSpansFor(activities []Activity, day Weekday) ([]blockedSpan, error) {
	var spans []blockedSpan
	for _, activity := range activities {
		if !activity.Blocking {
			continue
		}
		interval, ok := EffectiveInterval(activity, day)
		if !ok {
			continue
		}
		start, err := ToMinutes(interval.Start)
		if err != nil {
			return nil, err
		}
		end, err := ToMinutes(interval.End)
		if err != nil {
			return nil, err
		}
		spans = append(spans, blockedSpan{start: start, end: end})
	}
	return spans, nil
}
