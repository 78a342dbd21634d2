package address

import (
	"strings"
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	"github.com/google/uuid"
)

// CreateInput is the payload for a new address.
type CreateInput struct {
	AddressLine string  `json:"address_line" validate:"required,max=200"`
	City        string  `json:"city" validate:"required,max=80"`
	State       string  `json:"state" validate:"required,max=80"`
	Pincode     string  `json:"pincode" validate:"required,max=16"`
	Country     string  `json:"country" validate:"required,max=80"`
	Mobile      *string `json:"mobile,omitempty" validate:"omitempty,max=32"`
}

// UpdateInput patches an address; nil fields are left alone.
type UpdateInput struct {
	AddressLine *string `json:"address_line,omitempty" validate:"omitempty,max=200"`
	City        *string `json:"city,omitempty" validate:"omitempty,max=80"`
	State       *string `json:"state,omitempty" validate:"omitempty,max=80"`
	Pincode     *string `json:"pincode,omitempty" validate:"omitempty,max=16"`
	Country     *string `json:"country,omitempty" validate:"omitempty,max=80"`
	Mobile      *string `json:"mobile,omitempty" validate:"omitempty,max=32"`
}

type AddressDTO struct {
	ID          uuid.UUID `json:"id"`
	AddressLine string    `json:"address_line"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Pincode     string    `json:"pincode"`
	Country     string    `json:"country"`
	Mobile      *string   `json:"mobile,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromModel(a *models.Address) AddressDTO {
	return AddressDTO{
		ID:          a.ID,
		AddressLine: a.AddressLine,
		City:        a.City,
		State:       a.State,
		Pincode:     a.Pincode,
		Country:     a.Country,
		Mobile:      a.Mobile,
		Active:      a.Active,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func (in CreateInput) toModel(userID uuid.UUID) *models.Address {
	return &models.Address{
		UserID:      userID,
		AddressLine: strings.TrimSpace(in.AddressLine),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		Pincode:     strings.TrimSpace(in.Pincode),
		Country:     strings.TrimSpace(in.Country),
		Mobile:      in.Mobile,
		Active:      true,
	}
}

// columns returns the trimmed changes and the name of the first required
// field that was set blank, if any.
func (in UpdateInput) columns() (map[string]any, string) {
	cols := map[string]any{}
	required := []struct {
		column string
		value  *string
	}{
		{"address_line", in.AddressLine},
		{"city", in.City},
		{"state", in.State},
		{"pincode", in.Pincode},
		{"country", in.Country},
	}
	for _, f := range required {
		if f.value == nil {
			continue
		}
		v := strings.TrimSpace(*f.value)
		if v == "" {
			return nil, f.column
		}
		cols[f.column] = v
	}
	if in.Mobile != nil {
		cols["mobile"] = *in.Mobile
	}
	return cols, ""
}
