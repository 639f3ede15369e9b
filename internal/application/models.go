package application

import (
	"time"

	"github.com/example/therapy-scheduler/internal/schedule"
)

// Principal represents the authenticated staff member invoking a service
// method.
type Principal struct {
	StaffID string
	IsAdmin bool
}

// StaffInput captures caller provided staff fields.
type StaffInput struct {
	FullName    string
	Role        string
	WeeklyQuota int
	Hours       map[schedule.Weekday]schedule.WorkingHours
}

// Staff represents a persisted staff record.
type Staff struct {
	ID          string
	FullName    string
	Role        string
	WeeklyQuota int
	Hours       map[schedule.Weekday]schedule.WorkingHours
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoomInput captures caller provided room fields.
type RoomInput struct {
	Name     string
	Location string
}

// Room represents a treatment room catalog entry.
type Room struct {
	ID        string
	Name      string
	Location  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivityInput captures caller provided recurring activity fields. An
// entry in Overrides holding nil marks the day explicitly open.
type ActivityInput struct {
	Name      string
	Blocking  bool
	Default   *schedule.Interval
	Overrides map[schedule.Weekday]*schedule.Interval
}

// Activity represents a persisted recurring activity.
type Activity struct {
	ID        string
	Name      string
	Blocking  bool
	Default   *schedule.Interval
	Overrides map[schedule.Weekday]*schedule.Interval
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionInput captures caller provided therapy session fields for manual
// create and update.
type SessionInput struct {
	Day     schedule.Weekday
	Start   string
	End     string
	StaffID string
	RoomID  string
}

// TherapySession represents a persisted therapy session.
type TherapySession struct {
	ID        string
	Day       schedule.Weekday
	Start     string
	End       string
	StaffID   string
	RoomID    string
	Generated bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionFilter narrows session listings.
type SessionFilter struct {
	Day     *schedule.Weekday
	StaffID string
}

// UnmetQuota reports a staff member who finished generation below their
// weekly quota. Informational only; never an error.
type UnmetQuota struct {
	StaffID   string
	FullName  string
	Remaining int
}

// GenerateWeekResult carries the outcome of one generation run.
type GenerateWeekResult struct {
	Sessions    []TherapySession
	UnmetQuotas []UnmetQuota
}

// AuthenticateResult captures the outcome of a successful login.
type AuthenticateResult struct {
	Principal Principal
	Token     string
	ExpiresAt time.Time
}
