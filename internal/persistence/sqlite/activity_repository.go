package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// ActivityRepository implements persistence.ActivityRepository using SQLite.
type ActivityRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewActivityRepository creates a new SQLite activity repository.
func NewActivityRepository(pool *ConnectionPool) *ActivityRepository {
	return &ActivityRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateActivity inserts an activity with its per-day overrides.
func (r *ActivityRepository) CreateActivity(ctx context.Context, activity persistence.Activity) error {
	if activity.ID == "" || strings.TrimSpace(activity.Name) == "" {
		return persistence.ErrConstraintViolation
	}
	if (activity.DefaultStart == nil) != (activity.DefaultEnd == nil) {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activities (id, name, blocking, default_start, default_end, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			activity.ID,
			activity.Name,
			boolToInt(activity.Blocking),
			nullable(activity.DefaultStart),
			nullable(activity.DefaultEnd),
			activity.CreatedAt.Format(time.RFC3339),
			activity.UpdatedAt.Format(time.RFC3339),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		return r.insertOverrides(ctx, tx, activity.ID, activity.Overrides)
	})
}

// UpdateActivity replaces an activity and its overrides.
func (r *ActivityRepository) UpdateActivity(ctx context.Context, activity persistence.Activity) error {
	if activity.ID == "" || strings.TrimSpace(activity.Name) == "" {
		return persistence.ErrConstraintViolation
	}
	if (activity.DefaultStart == nil) != (activity.DefaultEnd == nil) {
		return persistence.ErrConstraintViolation
	}

	activity.UpdatedAt = time.Now().UTC()

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE activities
			SET name = ?, blocking = ?, default_start = ?, default_end = ?, updated_at = ?
			WHERE id = ?`,
			activity.Name,
			boolToInt(activity.Blocking),
			nullable(activity.DefaultStart),
			nullable(activity.DefaultEnd),
			activity.UpdatedAt.Format(time.RFC3339),
			activity.ID,
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

		if _, err := tx.ExecContext(ctx, `DELETE FROM activity_overrides WHERE activity_id = ?`, activity.ID); err != nil {
			return r.mapper.MapError(err)
		}
		return r.insertOverrides(ctx, tx, activity.ID, activity.Overrides)
	})
}

func (r *ActivityRepository) insertOverrides(ctx context.Context, tx *sql.Tx, activityID string, overrides []persistence.ActivityOverride) error {
	for _, override := range overrides {
		if override.Day < 0 || override.Day > 4 {
			return persistence.ErrConstraintViolation
		}
		if !override.Cleared && (override.Start == nil || override.End == nil) {
			return persistence.ErrConstraintViolation
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activity_overrides (activity_id, day, cleared, start_time, end_time)
			VALUES (?, ?, ?, ?, ?)`,
			activityID,
			override.Day,
			boolToInt(override.Cleared),
			nullable(override.Start),
			nullable(override.End),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
	}
	return nil
}

// GetActivity retrieves an activity with its overrides.
func (r *ActivityRepository) GetActivity(ctx context.Context, id string) (persistence.Activity, error) {
	var activity persistence.Activity
	var blocking int
	var defaultStart, defaultEnd sql.NullString
	var createdAt, updatedAt string

	err := r.helper.QueryRow(ctx, `
		SELECT id, name, blocking, default_start, default_end, created_at, updated_at
		FROM activities
		WHERE id = ?`, id).Scan(
		&activity.ID,
		&activity.Name,
		&blocking,
		&defaultStart,
		&defaultEnd,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Activity{}, r.mapper.MapError(err)
	}

	activity.Blocking = blocking != 0
	activity.DefaultStart = fromNull(defaultStart)
	activity.DefaultEnd = fromNull(defaultEnd)
	if activity.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Activity{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if activity.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Activity{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}

	activity.Overrides, err = r.loadOverrides(ctx, activity.ID)
	if err != nil {
		return persistence.Activity{}, err
	}
	return activity, nil
}

// ListActivities returns all activities ordered by creation time then ID.
func (r *ActivityRepository) ListActivities(ctx context.Context) ([]persistence.Activity, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, name, blocking, default_start, default_end, created_at, updated_at
		FROM activities
		ORDER BY created_at, id`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var activities []persistence.Activity
	for rows.Next() {
		var activity persistence.Activity
		var blocking int
		var defaultStart, defaultEnd sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&activity.ID, &activity.Name, &blocking, &defaultStart, &defaultEnd, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		activity.Blocking = blocking != 0
		activity.DefaultStart = fromNull(defaultStart)
		activity.DefaultEnd = fromNull(defaultEnd)
		if activity.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if activity.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}

	for i := range activities {
		activities[i].Overrides, err = r.loadOverrides(ctx, activities[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return activities, nil
}

func (r *ActivityRepository) loadOverrides(ctx context.Context, activityID string) ([]persistence.ActivityOverride, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT day, cleared, start_time, end_time
		FROM activity_overrides
		WHERE activity_id = ?
		ORDER BY day`, activityID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var overrides []persistence.ActivityOverride
	for rows.Next() {
		var override persistence.ActivityOverride
		var cleared int
		var start, end sql.NullString
		if err := rows.Scan(&override.Day, &cleared, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan override row: %w", err)
		}
		override.Cleared = cleared != 0
		override.Start = fromNull(start)
		override.End = fromNull(end)
		overrides = append(overrides, override)
	}
	return overrides, rows.Err()
}

// DeleteActivity removes an activity and its overrides.
func (r *ActivityRepository) DeleteActivity(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM activities WHERE id = ?`, id)
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

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullable(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func fromNull(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}
