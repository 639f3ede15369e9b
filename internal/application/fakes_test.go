package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// In-memory repository fakes backing the service tests. They honor the
// same sentinel error contract as the SQLite implementations.

type memStaffRepo struct {
	mu    sync.Mutex
	staff map[string]persistence.Staff
}

func newMemStaffRepo() *memStaffRepo {
	return &memStaffRepo{staff: make(map[string]persistence.Staff)}
}

func (r *memStaffRepo) CreateStaff(_ context.Context, staff persistence.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[staff.ID]; ok {
		return persistence.ErrDuplicate
	}
	r.staff[staff.ID] = staff
	return nil
}

func (r *memStaffRepo) UpdateStaff(_ context.Context, staff persistence.Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[staff.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.staff[staff.ID] = staff
	return nil
}

func (r *memStaffRepo) GetStaff(_ context.Context, id string) (persistence.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.staff[id]
	if !ok {
		return persistence.Staff{}, persistence.ErrNotFound
	}
	return staff, nil
}

func (r *memStaffRepo) ListStaff(_ context.Context) ([]persistence.Staff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]persistence.Staff, 0, len(r.staff))
	for _, staff := range r.staff {
		list = append(list, staff)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *memStaffRepo) DeleteStaff(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.staff[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.staff, id)
	return nil
}

type memRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]persistence.Room
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{rooms: make(map[string]persistence.Room)}
}

func (r *memRoomRepo) CreateRoom(_ context.Context, room persistence.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.ID]; ok {
		return persistence.ErrDuplicate
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *memRoomRepo) UpdateRoom(_ context.Context, room persistence.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.rooms[room.ID] = room
	return nil
}

func (r *memRoomRepo) GetRoom(_ context.Context, id string) (persistence.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return persistence.Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func (r *memRoomRepo) ListRooms(_ context.Context) ([]persistence.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]persistence.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		list = append(list, room)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *memRoomRepo) DeleteRoom(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

type memActivityRepo struct {
	mu         sync.Mutex
	activities map[string]persistence.Activity
}

func newMemActivityRepo() *memActivityRepo {
	return &memActivityRepo{activities: make(map[string]persistence.Activity)}
}

func (r *memActivityRepo) CreateActivity(_ context.Context, activity persistence.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activities[activity.ID]; ok {
		return persistence.ErrDuplicate
	}
	r.activities[activity.ID] = activity
	return nil
}

func (r *memActivityRepo) UpdateActivity(_ context.Context, activity persistence.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activities[activity.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.activities[activity.ID] = activity
	return nil
}

func (r *memActivityRepo) GetActivity(_ context.Context, id string) (persistence.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	activity, ok := r.activities[id]
	if !ok {
		return persistence.Activity{}, persistence.ErrNotFound
	}
	return activity, nil
}

func (r *memActivityRepo) ListActivities(_ context.Context) ([]persistence.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]persistence.Activity, 0, len(r.activities))
	for _, activity := range r.activities {
		list = append(list, activity)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *memActivityRepo) DeleteActivity(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.activities[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.activities, id)
	return nil
}

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]persistence.TherapySession
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[string]persistence.TherapySession)}
}

func (r *memSessionRepo) CreateSession(_ context.Context, session persistence.TherapySession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; ok {
		return persistence.ErrDuplicate
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) UpdateSession(_ context.Context, session persistence.TherapySession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[session.ID]; !ok {
		return persistence.ErrNotFound
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *memSessionRepo) GetSession(_ context.Context, id string) (persistence.TherapySession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return persistence.TherapySession{}, persistence.ErrNotFound
	}
	return session, nil
}

func (r *memSessionRepo) ListSessions(_ context.Context, filter persistence.SessionFilter) ([]persistence.TherapySession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]persistence.TherapySession, 0, len(r.sessions))
	for _, session := range r.sessions {
		if filter.Day != nil && session.Day != *filter.Day {
			continue
		}
		if filter.StaffID != "" && session.StaffID != filter.StaffID {
			continue
		}
		list = append(list, session)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Day != list[j].Day {
			return list[i].Day < list[j].Day
		}
		if list[i].Start != list[j].Start {
			return list[i].Start < list[j].Start
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *memSessionRepo) DeleteSession(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *memSessionRepo) ReplaceGenerated(_ context.Context, sessions []persistence.TherapySession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, session := range r.sessions {
		if session.Generated {
			delete(r.sessions, id)
		}
	}
	for _, session := range sessions {
		r.sessions[session.ID] = session
	}
	return nil
}

type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]persistence.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]persistence.Account)}
}

func (r *memAccountRepo) CreateAccount(_ context.Context, account persistence.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.StaffID]; ok {
		return persistence.ErrDuplicate
	}
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return persistence.ErrDuplicate
		}
	}
	r.accounts[account.StaffID] = account
	return nil
}

func (r *memAccountRepo) GetAccountByEmail(_ context.Context, email string) (persistence.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return persistence.Account{}, persistence.ErrNotFound
}

func (r *memAccountRepo) GetAccount(_ context.Context, staffID string) (persistence.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[staffID]
	if !ok {
		return persistence.Account{}, persistence.ErrNotFound
	}
	return account, nil
}

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]persistence.AuthToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]persistence.AuthToken)}
}

func (r *memTokenRepo) CreateToken(_ context.Context, token persistence.AuthToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token.Token]; ok {
		return persistence.ErrDuplicate
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memTokenRepo) GetToken(_ context.Context, token string) (persistence.AuthToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.tokens[token]
	if !ok {
		return persistence.AuthToken{}, persistence.ErrNotFound
	}
	return record, nil
}

func (r *memTokenRepo) DeleteToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func (r *memTokenRepo) DeleteExpiredTokens(_ context.Context, reference time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for token, record := range r.tokens {
		if !reference.Before(record.ExpiresAt) {
			delete(r.tokens, token)
		}
	}
	return nil
}

// sequentialIDGenerator yields prefix-1, prefix-2, ... for deterministic
// assertions.
func sequentialIDGenerator(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
