// Package session keeps refresh sessions in redis, keyed by the access
// token's jti. A token whose jti has no session is treated as revoked.
package session

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
	redisclient "github.com/angelmondragon/darkstore-backend/pkg/redis"
)

const refreshTokenBytes = 32

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	errAccessIDRequired    = errors.New("access id is required")
)

type backend interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	AccessSessionKey(accessID string) string
}

// AccessSessionChecker is what the auth middleware needs.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, accessID string) (bool, error)
}

// entry is stored as JSON. Only a digest of the refresh token is kept.
type entry struct {
	TokenHash string    `json:"token_sha256"`
	UserID    uuid.UUID `json:"user_id"`
	IssuedAt  time.Time `json:"issued_at"`
}

func (e entry) matches(userID uuid.UUID, token string) bool {
	sum := digest(token)
	return e.UserID == userID && subtle.ConstantTimeCompare([]byte(e.TokenHash), []byte(sum)) == 1
}

type Manager struct {
	backend backend
	ttl     time.Duration
	now     func() time.Time
}

// NewManager requires the refresh ttl to outlive the access token ttl.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	refresh, access := cfg.RefreshTokenTTL(), cfg.AccessTokenTTL()
	if refresh <= 0 {
		return nil, errors.New("refresh token ttl must be positive")
	}
	if refresh <= access {
		return nil, fmt.Errorf("refresh token ttl (%s) must exceed access token ttl (%s)", refresh, access)
	}
	return &Manager{backend: client, ttl: refresh, now: time.Now}, nil
}

// NewAccessID returns a fresh jti.
func NewAccessID() string {
	return uuid.NewString()
}

// Generate opens a session for accessID and returns the plaintext refresh token.
func (m *Manager) Generate(ctx context.Context, userID uuid.UUID, accessID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", errAccessIDRequired
	}
	if userID == uuid.Nil {
		return "", errors.New("user id is required")
	}
	return m.open(ctx, userID, accessID)
}

// Rotate exchanges a valid (accessID, refresh token) pair for a new one. The
// old session is deleted so each refresh token works once.
func (m *Manager) Rotate(ctx context.Context, userID uuid.UUID, oldAccessID, provided string) (newAccessID, newToken string, err error) {
	if strings.TrimSpace(oldAccessID) == "" || strings.TrimSpace(provided) == "" {
		return "", "", ErrInvalidRefreshToken
	}
	oldKey := m.backend.AccessSessionKey(oldAccessID)
	current, err := m.read(ctx, oldKey)
	if err != nil {
		return "", "", err
	}
	if !current.matches(userID, provided) {
		return "", "", ErrInvalidRefreshToken
	}

	newAccessID = NewAccessID()
	if newToken, err = m.open(ctx, userID, newAccessID); err != nil {
		return "", "", err
	}
	if err := m.backend.Del(ctx, oldKey); err != nil {
		return "", "", fmt.Errorf("drop old session: %w", err)
	}
	return newAccessID, newToken, nil
}

func (m *Manager) Revoke(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return errAccessIDRequired
	}
	return m.backend.Del(ctx, m.backend.AccessSessionKey(accessID))
}

func (m *Manager) HasSession(ctx context.Context, accessID string) (bool, error) {
	if strings.TrimSpace(accessID) == "" {
		return false, errAccessIDRequired
	}
	_, err := m.backend.Get(ctx, m.backend.AccessSessionKey(accessID))
	switch {
	case errors.Is(err, redislib.Nil):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

func (m *Manager) open(ctx context.Context, userID uuid.UUID, accessID string) (string, error) {
	raw := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	payload, err := json.Marshal(entry{TokenHash: digest(token), UserID: userID, IssuedAt: m.now().UTC()})
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	if err := m.backend.Set(ctx, m.backend.AccessSessionKey(accessID), string(payload), m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

func (m *Manager) read(ctx context.Context, key string) (entry, error) {
	raw, err := m.backend.Get(ctx, key)
	if errors.Is(err, redislib.Nil) {
		return entry{}, ErrInvalidRefreshToken
	}
	if err != nil {
		return entry{}, err
	}
	var e entry
	if json.Unmarshal([]byte(raw), &e) != nil {
		return entry{}, ErrInvalidRefreshToken
	}
	return e, nil
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
