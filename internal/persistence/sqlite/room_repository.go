package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool) *RoomRepository {
	return &RoomRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// CreateRoom inserts a new room.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || strings.TrimSpace(room.Name) == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	_, err := r.helper.Exec(ctx, `
		INSERT INTO rooms (id, name, location, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		room.ID,
		room.Name,
		room.Location,
		room.CreatedAt.Format(time.RFC3339),
		room.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return nil
}

// UpdateRoom updates an existing room.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) error {
	if room.ID == "" || strings.TrimSpace(room.Name) == "" {
		return persistence.ErrConstraintViolation
	}

	room.UpdatedAt = time.Now().UTC()

	result, err := r.helper.Exec(ctx, `
		UPDATE rooms
		SET name = ?, location = ?, updated_at = ?
		WHERE id = ?`,
		room.Name,
		room.Location,
		room.UpdatedAt.Format(time.RFC3339),
		room.ID,
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

// GetRoom retrieves a room by ID.
func (r *RoomRepository) GetRoom(ctx context.Context, id string) (persistence.Room, error) {
	var room persistence.Room
	var createdAt, updatedAt string
	err := r.helper.QueryRow(ctx, `
		SELECT id, name, location, created_at, updated_at
		FROM rooms
		WHERE id = ?`, id).Scan(&room.ID, &room.Name, &room.Location, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}

	if room.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if room.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by creation time then ID.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.helper.Query(ctx, `
		SELECT id, name, location, created_at, updated_at
		FROM rooms
		ORDER BY created_at, id`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		var room persistence.Room
		var createdAt, updatedAt string
		if err := rows.Scan(&room.ID, &room.Name, &room.Location, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room row: %w", err)
		}
		if room.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if room.UpdatedAt, err = parseTime(updatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse updated_at: %w", err)
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// DeleteRoom removes a room by ID. Sessions booked into the room cascade.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id string) error {
	result, err := r.helper.Exec(ctx, `DELETE FROM rooms WHERE id = ?`, id)
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
