package auth

import (
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID      uuid.UUID
	Name        string
	Role        enums.UserRole
	WarehouseID *uuid.UUID
	// JTI ties the token to its refresh session; a fresh id is minted when empty.
	JTI string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID      uuid.UUID      `json:"user_id"`
	Name        string         `json:"name,omitempty"`
	Role        enums.UserRole `json:"role"`
	WarehouseID *uuid.UUID     `json:"warehouse_id,omitempty"`
	jwt.RegisteredClaims
}
