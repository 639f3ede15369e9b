package schedule

// Scheduling constants, in minutes. Every generated slot starts on the
// 15-minute grid and runs for 45 minutes; a rest of at least 5 minutes
// resets a staff member's consecutive-session count.
const (
	SlotDuration = 45
	SlotStep     = 15
	MinRestGap   = 5
)

// Interval is a wall-clock time range within one day, expressed as
// half-open "HH:mm" bounds.
type Interval struct {
	Start string
	End   string
}

// WorkingHours bounds the sessions a staff member may take on one day.
type WorkingHours struct {
	Start string
	End   string
}

// Staff is the generator's view of one therapist: where they work each day
// and how many sessions they should receive across the week. Days absent
// from Hours are days the staff member does not work.
type Staff struct {
	ID          string
	Name        string
	Hours       map[Weekday]WorkingHours
	WeeklyQuota int
}

// Room is a treatment room. Rooms carry no availability window of their
// own; a room is free whenever it is not already booked.
type Room struct {
	ID   string
	Name string
}

// Activity is a recurring named period such as a meal or staff meeting.
// When Blocking is set, no session may overlap its effective interval.
//
// Overrides maps a weekday to either a replacement interval or, via a
// present nil entry, an explicit "not blocked this day" marker that wins
// over Default.
type Activity struct {
	ID        string
	Name      string
	Blocking  bool
	Default   *Interval
	Overrides map[Weekday]*Interval
}

// Session is a placed therapy session. Patients are attached elsewhere;
// the scheduler only binds a staff member and a room to a time.
type Session struct {
	ID      string
	Day     Weekday
	Start   string
	End     string
	StaffID string
	RoomID  string
}
