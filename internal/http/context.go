package http

import (
	"context"

	"github.com/example/therapy-scheduler/internal/application"
)

type contextKey string

const (
	principalContextKey  contextKey = "principal"
	staffIDContextKey    contextKey = "staff_id"
	roomIDContextKey     contextKey = "room_id"
	activityIDContextKey contextKey = "activity_id"
	sessionIDContextKey  contextKey = "session_id"
)

// ContextWithPrincipal returns a derived context containing the authenticated principal.
func ContextWithPrincipal(ctx context.Context, principal application.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext extracts the authenticated principal from context if available.
func PrincipalFromContext(ctx context.Context) (application.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(application.Principal)
	return principal, ok
}

// ContextWithStaffID injects the staff identifier resolved from the request path.
func ContextWithStaffID(ctx context.Context, staffID string) context.Context {
	return context.WithValue(ctx, staffIDContextKey, staffID)
}

// StaffIDFromContext extracts a staff identifier previously associated with the context.
func StaffIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(staffIDContextKey).(string)
	return id, ok
}

// ContextWithRoomID injects the room identifier resolved from the request path.
func ContextWithRoomID(ctx context.Context, roomID string) context.Context {
	return context.WithValue(ctx, roomIDContextKey, roomID)
}

// RoomIDFromContext extracts a room identifier previously associated with the context.
func RoomIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(roomIDContextKey).(string)
	return id, ok
}

// ContextWithActivityID injects the activity identifier resolved from the request path.
func ContextWithActivityID(ctx context.Context, activityID string) context.Context {
	return context.WithValue(ctx, activityIDContextKey, activityID)
}

// ActivityIDFromContext extracts an activity identifier previously associated with the context.
func ActivityIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(activityIDContextKey).(string)
	return id, ok
}

// ContextWithSessionID injects the therapy session identifier resolved from the request path.
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDContextKey, sessionID)
}

// SessionIDFromContext extracts a therapy session identifier previously associated with the context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDContextKey).(string)
	return id, ok
}
