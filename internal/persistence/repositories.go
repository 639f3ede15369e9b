package persistence

import (
	"context"
	"time"
)

// StaffRepository exposes CRUD operations for staff records, including
// their per-weekday working hours.
type StaffRepository interface {
	CreateStaff(ctx context.Context, staff Staff) error
	UpdateStaff(ctx context.Context, staff Staff) error
	GetStaff(ctx context.Context, id string) (Staff, error)
	ListStaff(ctx context.Context) ([]Staff, error)
	DeleteStaff(ctx context.Context, id string) error
}

// RoomRepository exposes CRUD operations for treatment rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// ActivityRepository exposes CRUD operations for recurring activities and
// their per-day overrides.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, activity Activity) error
	UpdateActivity(ctx context.Context, activity Activity) error
	GetActivity(ctx context.Context, id string) (Activity, error)
	ListActivities(ctx context.Context) ([]Activity, error)
	DeleteActivity(ctx context.Context, id string) error
}

// SessionFilter narrows therapy session queries.
type SessionFilter struct {
	Day     *int
	StaffID string
}

// SessionRepository stores placed therapy sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session TherapySession) error
	UpdateSession(ctx context.Context, session TherapySession) error
	GetSession(ctx context.Context, id string) (TherapySession, error)
	ListSessions(ctx context.Context, filter SessionFilter) ([]TherapySession, error)
	DeleteSession(ctx context.Context, id string) error
	// ReplaceGenerated atomically deletes every generated session and
	// stores the supplied batch in its place. Hand-created sessions are
	// untouched.
	ReplaceGenerated(ctx context.Context, sessions []TherapySession) error
}

// AccountRepository stores staff login credentials.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account Account) error
	GetAccountByEmail(ctx context.Context, email string) (Account, error)
	GetAccount(ctx context.Context, staffID string) (Account, error)
}

// TokenRepository stores issued bearer tokens.
type TokenRepository interface {
	CreateToken(ctx context.Context, token AuthToken) error
	GetToken(ctx context.Context, token string) (AuthToken, error)
	DeleteToken(ctx context.Context, token string) error
	DeleteExpiredTokens(ctx context.Context, reference time.Time) error
}
