package persistence

import "time"

// WorkingHours bounds a staff member's availability on one weekday.
// Day is a weekday index, 0 (Sunday) through 4 (Thursday). Times are
// 24-hour "HH:mm" clock strings.
type WorkingHours struct {
	Day   int
	Start string
	End   string
}

// Staff represents a therapist record. Days absent from Hours are days
// the staff member does not work.
type Staff struct {
	ID          string
	FullName    string
	Role        string
	WeeklyQuota int
	Hours       []WorkingHours
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Room represents a treatment room catalog entry.
type Room struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivityOverride replaces or clears an activity's default interval on
// one weekday. Cleared set with nil Start/End means the day is explicitly
// open; otherwise Start/End carry the replacement interval.
type ActivityOverride struct {
	Day     int
	Cleared bool
	Start   *string
	End     *string
}

// Activity represents a recurring facility activity such as a meal or a
// staff meeting. Blocking activities exclude therapy sessions from their
// effective interval.
type Activity struct {
	ID           string
	Name         string
	Blocking     bool
	DefaultStart *string
	DefaultEnd   *string
	Overrides    []ActivityOverride
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TherapySession represents a placed therapy session. Generated marks
// sessions produced by the weekly generator, as opposed to sessions
// created by hand.
type TherapySession struct {
	ID        string
	Day       int
	Start     string
	End       string
	StaffID   string
	RoomID    string
	Generated bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Account stores login credentials for a staff member.
type Account struct {
	StaffID      string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthToken is a bearer token issued after authentication.
type AuthToken struct {
	Token     string
	StaffID   string
	ExpiresAt time.Time
	CreatedAt time.Time
}
