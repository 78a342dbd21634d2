package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	pkgAuth "github.com/angelmondragon/darkstore-backend/pkg/auth"
	"github.com/angelmondragon/darkstore-backend/pkg/auth/session"
	"github.com/angelmondragon/darkstore-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

// AccessTokenCookie is set by login for browser clients.
const AccessTokenCookie = "accessToken"

const bearerPrefix = "bearer "

// Auth rejects the request with 401 unless it carries a valid access token
// whose session is still open. sessions may be nil to skip the revocation check.
func Auth(cfg config.JWTConfig, sessions session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(r.Context(), cfg, sessions, AccessToken(r))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), logg, claims)))
		})
	}
}

func authenticate(ctx context.Context, cfg config.JWTConfig, sessions session.AccessSessionChecker, token string) (*pkgAuth.AccessTokenClaims, error) {
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	if sessions == nil {
		return claims, nil
	}

	open, err := sessions.HasSession(ctx, claims.ID)
	switch {
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
	case !open:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
	}
	return claims, nil
}

func withClaims(ctx context.Context, logg *logger.Logger, claims *pkgAuth.AccessTokenClaims) context.Context {
	userID, role := claims.UserID.String(), string(claims.Role)
	ctx = WithAccessID(WithRole(WithUserID(ctx, userID), role), claims.ID)
	if logg != nil {
		ctx = logg.WithRole(logg.WithUserID(ctx, userID), role)
	}
	if claims.WarehouseID == nil {
		return ctx
	}
	warehouseID := claims.WarehouseID.String()
	ctx = WithWarehouseID(ctx, warehouseID)
	if logg != nil {
		ctx = logg.WithWarehouseID(ctx, warehouseID)
	}
	return ctx
}

// AccessToken prefers the Authorization header and falls back to the cookie.
// A header without the Bearer scheme is taken as the raw token.
func AccessToken(r *http.Request) string {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		if len(header) >= len(bearerPrefix) && strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			return strings.TrimSpace(header[len(bearerPrefix):])
		}
		return header
	}
	cookie, err := r.Cookie(AccessTokenCookie)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(cookie.Value)
}
