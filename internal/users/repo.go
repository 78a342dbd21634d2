package users

import (
	"context"
	"time"

	"github.com/angelmondragon/darkstore-backend/internal/repo"
	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes user persistence. Errors are returned as GORM reports them.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.updateColumns(ctx, id, map[string]any{"last_login_at": at})
}

// UpdateProfile writes the non-nil profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, update ProfileUpdate) error {
	cols := update.columns()
	if len(cols) == 0 {
		return nil
	}
	return r.updateColumns(ctx, id, cols)
}

func (r *Repository) UpdateAvatar(ctx context.Context, id uuid.UUID, url string) error {
	return r.updateColumns(ctx, id, map[string]any{"avatar": url})
}

// UpdateWarehouse links the user to a warehouse; nil unlinks.
func (r *Repository) UpdateWarehouse(ctx context.Context, id uuid.UUID, warehouseID *uuid.UUID) error {
	return r.updateColumns(ctx, id, map[string]any{"warehouse_id": warehouseID})
}

func (r *Repository) UpdateShift(ctx context.Context, id uuid.UUID, shift enums.Shift) error {
	return r.updateColumns(ctx, id, map[string]any{"shift": shift})
}

func (r *Repository) updateColumns(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	return r.UpdateColumns(ctx, &models.User{}, id, cols)
}
