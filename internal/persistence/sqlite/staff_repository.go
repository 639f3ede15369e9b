package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// StaffRepository implements persistence.StaffRepository using SQLite.
type StaffRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewStaffRepository creates a new SQLite staff repository.
func NewStaffRepository(pool *ConnectionPool) *StaffRepository {
	return &StaffRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateStaff inserts a staff record with its working hours.
func (r *StaffRepository) CreateStaff(ctx context.Context, staff persistence.Staff) error {
	if staff.ID == "" || strings.TrimSpace(staff.FullName) == "" {
		return persistence.ErrConstraintViolation
	}
	if staff.WeeklyQuota < 0 {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO staff (id, full_name, role, weekly_quota, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			staff.ID,
			staff.FullName,
			staff.Role,
			staff.WeeklyQuota,
			staff.CreatedAt.Format(time.RFC3339),
			staff.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return r.insertHours(ctx, tx, staff.ID, staff.Hours)
	})
}

// UpdateStaff replaces a staff record and its working hours.
func (r *StaffRepository) UpdateStaff(ctx context.Context, staff persistence.Staff) error {
	if staff.ID == "" || strings.TrimSpace(staff.FullName) == "" {
		return persistence.ErrConstraintViolation
	}
	if staff.WeeklyQuota < 0 {
		return persistence.ErrConstraintViolation
	}

	staff.UpdatedAt = time.Now().UTC()

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE staff
			SET full_name = ?, role = ?, weekly_quota = ?, updated_at = ?
			WHERE id = ?`,
			staff.FullName,
			staff.Role,
			staff.WeeklyQuota,
			staff.UpdatedAt.Format(time.RFC3339),
			staff.ID,
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

		if _, err := tx.ExecContext(ctx, `DELETE FROM staff_working_hours WHERE staff_id = ?`, staff.ID); err != nil {
			return r.mapper.MapError(err)
		}
		return r.insertHours(ctx, tx, staff.ID, staff.Hours)
	})
}

func (r *StaffRepository) insertHours(ctx context.Context, tx *sql.Tx, staffID string, hours []persistence.WorkingHours) error {
	for _, wh := range hours {
		if wh.Day < 0 || wh.Day > 4 {
			return persistence.ErrConstraintViolation
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO staff_working_hours (staff_id, day, start_time, end_time)
			VALUES (?, ?, ?, ?)`,
			staffID, wh.Day, wh.Start, wh.End,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
	}
	return nil
}

// GetStaff retrieves one staff record with its working hours.
func (r *StaffRepository) GetStaff(ctx context.Context, id string) (persistence.Staff, error) {
	query := `
		SELECT id, full_name, role, weekly_quota, created_at, updated_at
		FROM staff
		WHERE id = ?`

	var staff persistence.Staff
	var createdAt, updatedAt string
	err := r.helper.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.FullName,
		&staff.Role,
		&staff.WeeklyQuota,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Staff{}, r.mapper.MapError(err)
	}

	if staff.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Staff{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if staff.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Staff{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	staff.Hours, err = r.loadHours(ctx, staff.ID)
	if err != nil {
		return persistence.Staff{}, err
	}
	return staff, nil
}

// ListStaff returns all staff ordered by creation time then ID.
func (r *StaffRepository) ListStaff(ctx context.Context) ([]persistence.Staff, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, full_name, role, weekly_quota, created_at, updated_at
		FROM staff
		ORDER BY created_at, id`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var staffList []persistence.Staff
	for rows.Next() {
		var staff persistence.Staff
		var createdAt, updatedAt string
		if err := rows.Scan(&staff.ID, &staff.FullName, &staff.Role, &staff.WeeklyQuota, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan staff row: %w", err)
		}
		if staff.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if staff.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		staffList = append(staffList, staff)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range staffList {
		staffList[i].Hours, err = r.loadHours(ctx, staffList[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return staffList, nil
}

func (r *StaffRepository) loadHours(ctx context.Context, staffID string) ([]persistence.WorkingHours, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT day, start_time, end_time
		FROM staff_working_hours
		WHERE staff_id = ?
		ORDER BY day`, staffID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var hours []persistence.WorkingHours
	for rows.Next() {
		var wh persistence.WorkingHours
		if err := rows.Scan(&wh.Day, &wh.Start, &wh.End); err != nil {
			return nil, fmt.Errorf("failed to scan working hours row: %w", err)
		}
		hours = append(hours, wh)
	}
	return hours, rows.Err()
}

// DeleteStaff removes a staff record. Working hours, sessions, account and
// tokens cascade.
func (r *StaffRepository) DeleteStaff(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM staff WHERE id = ?`, id)
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

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}
