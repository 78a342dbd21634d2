package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
)

type memoryBackend struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryBackend) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = ttl
	return nil
}

func (m *memoryBackend) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (m *memoryBackend) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryBackend) AccessSessionKey(accessID string) string {
	return "sess:" + accessID
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestManager(b *memoryBackend) *Manager {
	return &Manager{backend: b, ttl: time.Hour, now: func() time.Time { return fixedNow }}
}

func readEntry(t *testing.T, b *memoryBackend, accessID string) entry {
	t.Helper()
	raw, ok := b.data[b.AccessSessionKey(accessID)]
	require.True(t, ok, "no session for %s", accessID)
	var e entry
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	return e
}

func TestGenerateStoresDigestOnly(t *testing.T) {
	b := newMemoryBackend()
	userID := uuid.New()

	token, err := newTestManager(b).Generate(context.Background(), userID, "access-1")
	require.NoError(t, err)

	e := readEntry(t, b, "access-1")
	assert.Equal(t, userID, e.UserID)
	assert.Equal(t, digest(token), e.TokenHash)
	assert.Equal(t, fixedNow, e.IssuedAt)
	assert.NotContains(t, b.data[b.AccessSessionKey("access-1")], token)
	assert.Equal(t, time.Hour, b.ttls[b.AccessSessionKey("access-1")])
}

func TestRotateIsSingleUse(t *testing.T) {
	b := newMemoryBackend()
	m := newTestManager(b)
	ctx := context.Background()
	userID := uuid.New()

	token, err := m.Generate(ctx, userID, "access-1")
	require.NoError(t, err)

	_, _, err = m.Rotate(ctx, userID, "access-1", "not-the-token")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
	_, _, err = m.Rotate(ctx, uuid.New(), "access-1", token)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	nextID, nextToken, err := m.Rotate(ctx, userID, "access-1", token)
	require.NoError(t, err)
	assert.NotEqual(t, "access-1", nextID)
	assert.Equal(t, digest(nextToken), readEntry(t, b, nextID).TokenHash)
	assert.NotContains(t, b.data, b.AccessSessionKey("access-1"))

	_, _, err = m.Rotate(ctx, userID, "access-1", token)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRotateRejectsCorruptEntry(t *testing.T) {
	b := newMemoryBackend()
	b.data[b.AccessSessionKey("broken")] = "{not json"

	_, _, err := newTestManager(b).Rotate(context.Background(), uuid.New(), "broken", "token")
	require.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRevokeAndHasSession(t *testing.T) {
	b := newMemoryBackend()
	m := newTestManager(b)
	ctx := context.Background()

	_, err := m.Generate(ctx, uuid.New(), "access-1")
	require.NoError(t, err)

	ok, err := m.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, m.Revoke(ctx, "access-1"))
	ok, err = m.HasSession(ctx, "access-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.HasSession(ctx, " ")
	require.Error(t, err)
	require.Error(t, m.Revoke(ctx, ""))
}

func TestHasSessionPropagatesBackendErrors(t *testing.T) {
	b := newMemoryBackend()
	b.getErr = errors.New("connection refused")

	_, err := newTestManager(b).HasSession(context.Background(), "access-1")
	require.ErrorContains(t, err, "connection refused")
}

func TestGenerateRequiresIdentifiers(t *testing.T) {
	m := newTestManager(newMemoryBackend())
	_, err := m.Generate(context.Background(), uuid.New(), "")
	require.Error(t, err)
	_, err = m.Generate(context.Background(), uuid.Nil, "access")
	require.Error(t, err)
}

func TestNewManagerValidation(t *testing.T) {
	_, err := NewManager(nil, config.JWTConfig{ExpirationMinutes: 10, RefreshTokenTTLMinutes: 60})
	require.Error(t, err)
}
