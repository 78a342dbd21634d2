package address

import (
	"context"
	"errors"

	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateInput) (AddressDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, in UpdateInput) (AddressDTO, error)
	Disable(ctx context.Context, userID, id uuid.UUID) error
}

type addressRepository interface {
	Create(ctx context.Context, a *models.Address) error
	ListActive(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Address, error)
	Update(ctx context.Context, userID, id uuid.UUID, cols map[string]any) error
}

type service struct {
	repo addressRepository
}

func NewService(repo addressRepository) (Service, error) {
	if repo == nil {
		return nil, errors.New("address repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, in CreateInput) (AddressDTO, error) {
	a := in.toModel(userID)
	required := [][2]string{
		{"address_line", a.AddressLine},
		{"city", a.City},
		{"state", a.State},
		{"pincode", a.Pincode},
		{"country", a.Country},
	}
	for _, f := range required {
		if f[1] == "" {
			return AddressDTO{}, pkgerrors.Newf(pkgerrors.CodeValidation, "%s is required", f[0])
		}
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return AddressDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create address")
	}
	return FromModel(a), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressDTO, error) {
	rows, err := s.repo.ListActive(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list addresses")
	}
	out := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, in UpdateInput) (AddressDTO, error) {
	cols, blank := in.columns()
	if blank != "" {
		return AddressDTO{}, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must not be blank", blank)
	}
	if len(cols) > 0 {
		if err := s.repo.Update(ctx, userID, id, cols); err != nil {
			return AddressDTO{}, mapRepoError(err, "update address")
		}
	}
	a, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return AddressDTO{}, mapRepoError(err, "load address")
	}
	return FromModel(a), nil
}

// Disable hides the address from the owner's list. Disabling twice is not an error.
func (s *service) Disable(ctx context.Context, userID, id uuid.UUID) error {
	err := s.repo.Update(ctx, userID, id, map[string]any{"active": false})
	if err != nil {
		return mapRepoError(err, "disable address")
	}
	return nil
}

func mapRepoError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
