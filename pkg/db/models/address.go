package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Address is a delivery address saved on a user account. Disabled addresses
// are kept for order history and hidden from the owner's list.
type Address struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	AddressLine string    `gorm:"column:address_line;not null"`
	City        string    `gorm:"column:city;not null"`
	State       string    `gorm:"column:state;not null"`
	Pincode     string    `gorm:"column:pincode;not null"`
	Country     string    `gorm:"column:country;not null"`
	Mobile      *string   `gorm:"column:mobile"`
	Active      bool      `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Address) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
