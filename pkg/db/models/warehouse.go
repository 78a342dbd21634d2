package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Warehouse is a dark store location holding product quantities and an assigned team.
type Warehouse struct {
	ID          uuid.UUID             `gorm:"type:uuid;primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Address     string                `gorm:"column:address;not null"`
	City        string                `gorm:"column:city;not null"`
	State       string                `gorm:"column:state;not null"`
	Pincode     string                `gorm:"column:pincode;not null"`
	Country     string                `gorm:"column:country;not null"`
	Products    []WarehouseProduct    `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE"`
	Assignments []WarehouseAssignment `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *Warehouse) BeforeCreate(*gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WarehouseProduct is a product quantity line stocked in a warehouse.
type WarehouseProduct struct {
	WarehouseID uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID   string    `gorm:"column:product_id;primaryKey"`
	Category    string    `gorm:"column:category;not null;default:''"`
	SubCategory string    `gorm:"column:sub_category;not null;default:''"`
	Quantity    int       `gorm:"column:quantity;not null;default:0"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// AssignmentKind separates managers from floor staff on a warehouse team.
type AssignmentKind string

const (
	AssignmentKindManager AssignmentKind = "manager"
	AssignmentKindStaff   AssignmentKind = "staff"
)

// WarehouseAssignment links a user to the warehouse team.
type WarehouseAssignment struct {
	WarehouseID uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Kind        AssignmentKind `gorm:"column:kind;type:text;not null"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
}
