package ctxkeys

import (
	"context"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	StaffIDKey   contextKey = "staff_id"
	StaffRoleKey contextKey = "staff_role"
)

func StaffID(ctx context.Context) string {
	id, _ := ctx.Value(StaffIDKey).(string)
	return id
}

func WithStaff(ctx context.Context, staffID, role string) context.Context {
	ctx = context.WithValue(ctx, StaffIDKey, staffID)
	return context.WithValue(ctx, StaffRoleKey, role)
}

func StaffRole(ctx context.Context) string {
	role, _ := ctx.Value(StaffRoleKey).(string)
	return role
}
