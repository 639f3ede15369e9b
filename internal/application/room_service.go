package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/therapy-scheduler/internal/persistence"
)

// RoomService orchestrates validation and persistence for treatment rooms.
type RoomService struct {
	rooms       persistence.RoomRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService wires dependencies for room operations.
func NewRoomService(rooms persistence.RoomRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       rooms,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *RoomService) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates the input and stores a new room.
func (s *RoomService) CreateRoom(ctx context.Context, principal Principal, input RoomInput) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}
	if !principal.IsAdmin {
		return Room{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		return Room{}, vErr
	}

	room := persistence.Room{
		ID:       s.idGenerator(),
		Name:     strings.TrimSpace(input.Name),
		Location: strings.TrimSpace(input.Location),
	}
	if err := s.rooms.CreateRoom(ctx, room); err != nil {
		return Room{}, mapRepoError(err)
	}

	s.log(ctx, "CreateRoom", "room_id", room.ID).InfoContext(ctx, "room created")
	return s.GetRoom(ctx, room.ID)
}

// UpdateRoom validates and rewrites an existing room.
func (s *RoomService) UpdateRoom(ctx context.Context, principal Principal, roomID string, input RoomInput) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}
	if !principal.IsAdmin {
		return Room{}, ErrUnauthorized
	}

	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		return Room{}, vErr
	}

	room := persistence.Room{
		ID:       roomID,
		Name:     strings.TrimSpace(input.Name),
		Location: strings.TrimSpace(input.Location),
	}
	if err := s.rooms.UpdateRoom(ctx, room); err != nil {
		return Room{}, mapRepoError(err)
	}

	s.log(ctx, "UpdateRoom", "room_id", roomID).InfoContext(ctx, "room updated")
	return s.GetRoom(ctx, roomID)
}

// GetRoom retrieves one room.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}
	record, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, mapRepoError(err)
	}
	return roomFromRecord(record), nil
}

// ListRooms enumerates all rooms.
func (s *RoomService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}
	records, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	rooms := make([]Room, 0, len(records))
	for _, record := range records {
		rooms = append(rooms, roomFromRecord(record))
	}
	return rooms, nil
}

// DeleteRoom removes a room.
func (s *RoomService) DeleteRoom(ctx context.Context, principal Principal, roomID string) error {
	if s == nil || s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}
	if !principal.IsAdmin {
		return ErrUnauthorized
	}
	if err := s.rooms.DeleteRoom(ctx, roomID); err != nil {
		return mapRepoError(err)
	}
	s.log(ctx, "DeleteRoom", "room_id", roomID).InfoContext(ctx, "room deleted")
	return nil
}
