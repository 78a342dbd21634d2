package warehouses

import (
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/google/uuid"
)

// ProductLine is a product quantity stocked in a warehouse.
type ProductLine struct {
	ProductID   string `json:"product_id" validate:"required"`
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
}

// WarehouseDTO is the transport shape of a warehouse with its team.
type WarehouseDTO struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Address   string        `json:"address"`
	City      string        `json:"city"`
	State     string        `json:"state"`
	Pincode   string        `json:"pincode"`
	Country   string        `json:"country"`
	Products  []ProductLine `json:"products"`
	Managers  []uuid.UUID   `json:"store_managers"`
	Staff     []uuid.UUID   `json:"store_staff"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CreateWarehouseInput is the add-warehouse payload.
type CreateWarehouseInput struct {
	Name     string        `json:"name" validate:"required,max=120"`
	Address  string        `json:"address" validate:"required"`
	City     string        `json:"city" validate:"required"`
	State    string        `json:"state" validate:"required"`
	Pincode  string        `json:"pincode" validate:"required"`
	Country  string        `json:"country" validate:"required"`
	Products []ProductLine `json:"products" validate:"dive"`
}

// UpdateWarehouseInput lists the editable fields; nil means unchanged.
type UpdateWarehouseInput struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Address *string `json:"address,omitempty"`
	City    *string `json:"city,omitempty"`
	State   *string `json:"state,omitempty"`
	Pincode *string `json:"pincode,omitempty"`
	Country *string `json:"country,omitempty"`
}

// Actor identifies the authenticated caller.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

func (in CreateWarehouseInput) toModel() *models.Warehouse {
	w := &models.Warehouse{
		Name:    in.Name,
		Address: in.Address,
		City:    in.City,
		State:   in.State,
		Pincode: in.Pincode,
		Country: in.Country,
	}
	for _, line := range in.Products {
		w.Products = append(w.Products, models.WarehouseProduct{
			ProductID:   line.ProductID,
			Category:    line.Category,
			SubCategory: line.SubCategory,
			Quantity:    line.Quantity,
		})
	}
	return w
}

func (in UpdateWarehouseInput) columns() map[string]any {
	cols := map[string]any{}
	set := func(name string, v *string) {
		if v != nil {
			cols[name] = *v
		}
	}
	set("name", in.Name)
	set("address", in.Address)
	set("city", in.City)
	set("state", in.State)
	set("pincode", in.Pincode)
	set("country", in.Country)
	return cols
}

// FromModel converts a warehouse with preloaded products and assignments.
func FromModel(w *models.Warehouse) *WarehouseDTO {
	if w == nil {
		return nil
	}
	dto := &WarehouseDTO{
		ID:        w.ID,
		Name:      w.Name,
		Address:   w.Address,
		City:      w.City,
		State:     w.State,
		Pincode:   w.Pincode,
		Country:   w.Country,
		Products:  make([]ProductLine, 0, len(w.Products)),
		Managers:  []uuid.UUID{},
		Staff:     []uuid.UUID{},
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
	for _, p := range w.Products {
		dto.Products = append(dto.Products, ProductLine{
			ProductID:   p.ProductID,
			Category:    p.Category,
			SubCategory: p.SubCategory,
			Quantity:    p.Quantity,
		})
	}
	for _, a := range w.Assignments {
		switch a.Kind {
		case models.AssignmentKindManager:
			dto.Managers = append(dto.Managers, a.UserID)
		case models.AssignmentKindStaff:
			dto.Staff = append(dto.Staff, a.UserID)
		}
	}
	return dto
}
