package auth

import (
	"testing"
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/config"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "darkstore",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()
	warehouseID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID:      userID,
		Name:        "Maria Garcia",
		Role:        enums.UserRoleStoreStaff,
		WarehouseID: &warehouseID,
		JTI:         "jti-1",
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Maria Garcia", claims.Name)
	assert.Equal(t, enums.UserRoleStoreStaff, claims.Role)
	require.NotNil(t, claims.WarehouseID)
	assert.Equal(t, warehouseID, *claims.WarehouseID)
	assert.Equal(t, "jti-1", claims.ID)
	assert.Equal(t, cfg.Issuer, claims.Issuer)

	exp := now.Add(30 * time.Minute)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	token, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser})
	require.NoError(t, err)

	claims, err := ParseAccessToken(testJWTConfig(), token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
}

func TestMintAccessTokenRejectsInvalidPayload(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: "janitor"})
	require.Error(t, err)

	_, err = MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{Role: enums.UserRoleUser})
	require.Error(t, err)

	cfg := testJWTConfig()
	cfg.Secret = ""
	_, err = MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser})
	require.Error(t, err)
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	token, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleAdmin})
	require.NoError(t, err)

	other := testJWTConfig()
	other.Secret = "different"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	issued := time.Now().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, issued, AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser, JTI: "old"})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "old", claims.ID)
}

func TestParseAccessTokenWrongIssuer(t *testing.T) {
	token, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser})
	require.NoError(t, err)

	other := testJWTConfig()
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)
}

func TestParseAccessTokenRejectsOtherAlgorithms(t *testing.T) {
	cfg := testJWTConfig()
	claims := AccessTokenClaims{UserID: uuid.New(), Role: enums.UserRoleAdmin}
	claims.Issuer = cfg.Issuer
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(cfg.Secret))
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseAccessTokenSentinels(t *testing.T) {
	_, err := ParseAccessToken(testJWTConfig(), "  ")
	require.ErrorIs(t, err, ErrEmptyToken)

	cfg := testJWTConfig()
	cfg.Secret = ""
	_, err = ParseAccessToken(cfg, "abc")
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestMintAccessTokenSetsSubject(t *testing.T) {
	userID := uuid.New()
	token, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{UserID: userID, Role: enums.UserRoleStoreManager})
	require.NoError(t, err)

	claims, err := ParseAccessToken(testJWTConfig(), token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
}
