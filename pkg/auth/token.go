package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
)

// clockSkew tolerated on exp/iat between replicas.
const clockSkew = 30 * time.Second

var (
	signingMethod = jwt.SigningMethodHS256

	ErrMissingSecret = errors.New("jwt secret is required")
	ErrEmptyToken    = errors.New("token is empty")
)

func checkMintConfig(cfg config.JWTConfig) error {
	switch {
	case cfg.Secret == "":
		return ErrMissingSecret
	case cfg.Issuer == "":
		return errors.New("jwt issuer is required")
	case cfg.ExpirationMinutes <= 0:
		return errors.New("jwt expiration minutes must be positive")
	}
	return nil
}

// MintAccessToken signs an HS256 token valid for cfg.AccessTokenTTL from now.
// The subject carries the user id; jti links the token to its refresh session.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload AccessTokenPayload) (string, error) {
	if err := checkMintConfig(cfg); err != nil {
		return "", err
	}
	if payload.UserID == uuid.Nil {
		return "", errors.New("user id is required")
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", payload.Role)
	}

	jti := strings.TrimSpace(payload.JTI)
	if jti == "" {
		jti = uuid.NewString()
	}
	claims := AccessTokenClaims{
		UserID:      payload.UserID,
		Name:        strings.TrimSpace(payload.Name),
		Role:        payload.Role,
		WarehouseID: payload.WarehouseID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    cfg.Issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.AccessTokenTTL())),
		},
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func ParseAccessToken(cfg config.JWTConfig, raw string) (*AccessTokenClaims, error) {
	return parse(cfg, raw, jwt.WithIssuer(cfg.Issuer), jwt.WithLeeway(clockSkew), jwt.WithIssuedAt())
}

// ParseAccessTokenAllowExpired checks only the signature. Refresh uses it to
// recover the jti of a token that has already expired.
func ParseAccessTokenAllowExpired(cfg config.JWTConfig, raw string) (*AccessTokenClaims, error) {
	return parse(cfg, raw, jwt.WithoutClaimsValidation())
}

func parse(cfg config.JWTConfig, raw string, opts ...jwt.ParserOption) (*AccessTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyToken
	}

	parser := jwt.NewParser(append(opts, jwt.WithValidMethods([]string{signingMethod.Alg()}))...)
	claims := new(AccessTokenClaims)
	if _, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token missing user id")
	}
	return claims, nil
}
