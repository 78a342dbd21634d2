package models

import (
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an operator or retailer account.
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string           `gorm:"column:password_hash;not null"`
	Avatar       string           `gorm:"column:avatar;not null;default:''"`
	Mobile       *string          `gorm:"column:mobile"`
	Role         enums.UserRole   `gorm:"column:role;type:text;not null;default:'USER'"`
	Status       enums.UserStatus `gorm:"column:status;type:text;not null;default:'Active'"`
	Shift        *enums.Shift     `gorm:"column:shift;type:text"`
	WarehouseID  *uuid.UUID       `gorm:"column:warehouse_id;type:uuid;index"`
	LastLoginAt  *time.Time       `gorm:"column:last_login_at"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key when the caller did not.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
