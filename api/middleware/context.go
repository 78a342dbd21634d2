package middleware

import "context"

// claimKey namespaces the values Auth puts on the request context.
type claimKey int

const (
	userIDKey claimKey = iota
	roleKey
	warehouseIDKey
	accessIDKey
)

func claim(ctx context.Context, key claimKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

func withClaim(ctx context.Context, key claimKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, value)
}

func UserIDFromContext(ctx context.Context) string      { return claim(ctx, userIDKey) }
func RoleFromContext(ctx context.Context) string        { return claim(ctx, roleKey) }
func WarehouseIDFromContext(ctx context.Context) string { return claim(ctx, warehouseIDKey) }

// AccessIDFromContext is the jti of the token that authenticated the request.
func AccessIDFromContext(ctx context.Context) string { return claim(ctx, accessIDKey) }

func WithUserID(ctx context.Context, v string) context.Context {
	return withClaim(ctx, userIDKey, v)
}

func WithRole(ctx context.Context, v string) context.Context {
	return withClaim(ctx, roleKey, v)
}

func WithWarehouseID(ctx context.Context, v string) context.Context {
	return withClaim(ctx, warehouseIDKey, v)
}

func WithAccessID(ctx context.Context, v string) context.Context {
	return withClaim(ctx, accessIDKey, v)
}
