package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// SessionRepository implements persistence.SessionRepository using SQLite.
type SessionRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewSessionRepository creates a new SQLite therapy session repository.
func NewSessionRepository(pool *ConnectionPool) *SessionRepository {
	return &SessionRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

func validateSession(session persistence.TherapySession) error {
	if session.ID == "" || session.StaffID == "" || session.RoomID == "" {
		return persistence.ErrConstraintViolation
	}
	if session.Day < 0 || session.Day > 4 {
		return persistence.ErrConstraintViolation
	}
	if strings.TrimSpace(session.Start) == "" || strings.TrimSpace(session.End) == "" {
		return persistence.ErrConstraintViolation
	}
	return nil
}

// CreateSession inserts a therapy session.
func (r *SessionRepository) CreateSession(ctx context.Context, session persistence.TherapySession) error {
	if err := validateSession(session); err != nil {
		return err
	}

	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	_, err := r.helper.Exec(ctx, `
		INSERT INTO therapy_sessions (id, day, start_time, end_time, staff_id, room_id, generated, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.Day,
		session.Start,
		session.End,
		session.StaffID,
		session.RoomID,
		boolToInt(session.Generated),
		session.CreatedAt.Format(time.RFC3339),
		session.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpdateSession rewrites an existing therapy session.
func (r *SessionRepository) UpdateSession(ctx context.Context, session persistence.TherapySession) error {
	if err := validateSession(session); err != nil {
		return err
	}

	session.UpdatedAt = time.Now().UTC()

	result, err := r.helper.Exec(ctx, `
		UPDATE therapy_sessions
		SET day = ?, start_time = ?, end_time = ?, staff_id = ?, room_id = ?, generated = ?, updated_at = ?
		WHERE id = ?`,
		session.Day,
		session.Start,
		session.End,
		session.StaffID,
		session.RoomID,
		boolToInt(session.Generated),
		session.UpdatedAt.Format(time.RFC3339),
		session.ID,
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetSession retrieves a therapy session by ID.
func (r *SessionRepository) GetSession(ctx context.Context, id string) (persistence.TherapySession, error) {
	row := r.helper.QueryRow(ctx, `
		SELECT id, day, start_time, end_time, staff_id, room_id, generated, created_at, updated_at
		FROM therapy_sessions
		WHERE id = ?`, id)

	session, err := scanSession(row)
	if err != nil {
		return persistence.TherapySession{}, r.mapper.MapError(err)
	}
	return session, nil
}

// ListSessions returns sessions matching the filter, ordered by day,
// start time, then ID.
func (r *SessionRepository) ListSessions(ctx context.Context, filter persistence.SessionFilter) ([]persistence.TherapySession, error) {
	query := `
		SELECT id, day, start_time, end_time, staff_id, room_id, generated, created_at, updated_at
		FROM therapy_sessions`

	var clauses []string
	var args []any
	if filter.Day != nil {
		clauses = append(clauses, "day = ?")
		args = append(args, *filter.Day)
	}
	if filter.StaffID != "" {
		clauses = append(clauses, "staff_id = ?")
		args = append(args, filter.StaffID)
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY day, start_time, id"

	rows, err := r.helper.Query(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var sessions []persistence.TherapySession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// DeleteSession removes a therapy session by ID.
func (r *SessionRepository) DeleteSession(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM therapy_sessions WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ReplaceGenerated deletes every generated session and stores the supplied
// batch in one transaction, so readers never observe a half-written week.
func (r *SessionRepository) ReplaceGenerated(ctx context.Context, sessions []persistence.TherapySession) error {
	now := time.Now().UTC()

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM therapy_sessions WHERE generated = 1`); err != nil {
			return r.mapper.MapError(err)
		}
		for _, session := range sessions {
			session.Generated = true
			if err := validateSession(session); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO therapy_sessions (id, day, start_time, end_time, staff_id, room_id, generated, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
				session.ID,
				session.Day,
				session.Start,
				session.End,
				session.StaffID,
				session.RoomID,
				now.Format(time.RFC3339),
				now.Format(time.RFC3339),
			)
			if err != nil {
				return r.mapper.MapError(err)
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (persistence.TherapySession, error) {
	var session persistence.TherapySession
	var generated int
	var createdAt, updatedAt string

	err := row.Scan(
		&session.ID,
		&session.Day,
		&session.Start,
		&session.End,
		&session.StaffID,
		&session.RoomID,
		&generated,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.TherapySession{}, err
	}

	session.Generated = generated != 0
	if session.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.TherapySession{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if session.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.TherapySession{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return session, nil
}
