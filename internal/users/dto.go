package users

import (
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/google/uuid"
)

// UserDTO is the transport shape that omits the password hash.
type UserDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Avatar      string           `json:"avatar"`
	Mobile      *string          `json:"mobile,omitempty"`
	Role        enums.UserRole   `json:"role"`
	Status      enums.UserStatus `json:"status"`
	Shift       *enums.Shift     `json:"shift,omitempty"`
	WarehouseID *uuid.UUID       `json:"warehouse_id,omitempty"`
	LastLoginAt *time.Time       `json:"last_login_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Mobile       *string
	Role         enums.UserRole
	Status       enums.UserStatus
}

// ProfileUpdate lists the self-service fields; nil means unchanged.
type ProfileUpdate struct {
	Name         *string
	Email        *string
	Mobile       *string
	PasswordHash *string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Avatar:      u.Avatar,
		Mobile:      u.Mobile,
		Role:        u.Role,
		Status:      u.Status,
		Shift:       u.Shift,
		WarehouseID: u.WarehouseID,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.UserRoleUser
	}
	status := c.Status
	if status == "" {
		status = enums.UserStatusActive
	}
	return &models.User{
		Name:         c.Name,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Mobile:       c.Mobile,
		Role:         role,
		Status:       status,
	}
}

func (p ProfileUpdate) columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Email != nil {
		cols["email"] = *p.Email
	}
	if p.Mobile != nil {
		cols["mobile"] = *p.Mobile
	}
	if p.PasswordHash != nil {
		cols["password_hash"] = *p.PasswordHash
	}
	return cols
}
