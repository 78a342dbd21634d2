package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/darkstore-backend/api/middleware"
	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/api/validators"
	"github.com/angelmondragon/darkstore-backend/internal/auth"
	"github.com/angelmondragon/darkstore-backend/internal/users"
	"github.com/angelmondragon/darkstore-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

// RefreshTokenCookie carries the opaque refresh token for browser clients.
const RefreshTokenCookie = "refreshToken"

// multipart framing allowance on top of the avatar size limit
const multipartOverhead = 64 << 10

type UserService interface {
	UserDetails(ctx context.Context, id uuid.UUID) (*users.UserDTO, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req users.UpdateUserRequest) (*users.UserDTO, error)
	UploadAvatar(ctx context.Context, id uuid.UUID, r io.Reader) (*users.UserDTO, error)
}

// AccountRegister creates a USER account.
func AccountRegister(svc auth.RegisterService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "register service unavailable"))
			return
		}

		var body auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.Register(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, user)
	}
}

// AccountLogin returns the token pair in the body and as http-only cookies.
func AccountLogin(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setAuthCookies(w, cfg, result.AccessToken, result.RefreshToken)
		responses.WriteSuccess(w, result)
	}
}

// AccountLogout revokes the caller's session and clears the cookies.
func AccountLogout(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		if err := svc.Logout(r.Context(), middleware.AccessIDFromContext(r.Context())); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		clearAuthCookies(w, cfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AccountRefresh rotates the session. Tokens missing from the body are read from cookies.
func AccountRefresh(svc auth.Service, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var body auth.RefreshRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if body.AccessToken == "" {
			body.AccessToken = middleware.AccessToken(r)
		}
		if body.RefreshToken == "" {
			if cookie, err := r.Cookie(RefreshTokenCookie); err == nil {
				body.RefreshToken = cookie.Value
			}
		}

		result, err := svc.Refresh(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		setAuthCookies(w, cfg, result.AccessToken, result.RefreshToken)
		responses.WriteSuccess(w, result)
	}
}

// AccountDetails returns the authenticated user.
func AccountDetails(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UserDetails(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func AccountUpdate(svc UserService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body users.UpdateUserRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		user, err := svc.UpdateUser(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

// AccountUploadAvatar reads the "avatar" multipart field.
func AccountUploadAvatar(svc UserService, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "avatar exceeds size limit"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "multipart form expected"))
			return
		}
		file, _, err := r.FormFile("avatar")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "avatar file is required"))
			return
		}
		defer file.Close()

		user, err := svc.UploadAvatar(r.Context(), userID, file)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, user)
	}
}

func currentUserID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(middleware.UserIDFromContext(r.Context()))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	return id, nil
}

func setAuthCookies(w http.ResponseWriter, cfg config.JWTConfig, accessToken, refreshToken string) {
	http.SetCookie(w, authCookie(cfg, middleware.AccessTokenCookie, accessToken, time.Duration(cfg.ExpirationMinutes)*time.Minute))
	http.SetCookie(w, authCookie(cfg, RefreshTokenCookie, refreshToken, cfg.RefreshTokenTTL()))
}

func clearAuthCookies(w http.ResponseWriter, cfg config.JWTConfig) {
	http.SetCookie(w, authCookie(cfg, middleware.AccessTokenCookie, "", -1))
	http.SetCookie(w, authCookie(cfg, RefreshTokenCookie, "", -1))
}

func authCookie(cfg config.JWTConfig, name, value string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	switch {
	case ttl < 0:
		cookie.MaxAge = -1
	case ttl > 0:
		cookie.MaxAge = int(ttl / time.Second)
	}
	return cookie
}
