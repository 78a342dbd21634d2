package address

import (
	"context"
	"time"

	"github.com/angelmondragon/darkstore-backend/internal/repo"
	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists user addresses. Every lookup is scoped to the owner.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, a *models.Address) error {
	return r.DB(ctx).Create(a).Error
}

// ListActive returns the owner's enabled addresses, newest first.
func (r *Repository) ListActive(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	err := r.DB(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC, id").
		Find(&out).Error
	return out, err
}

func (r *Repository) FindByID(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	var a models.Address
	if err := r.DB(ctx).First(&a, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// Update writes cols to the owner's address. A missing row, or one owned by
// someone else, is reported as gorm.ErrRecordNotFound.
func (r *Repository) Update(ctx context.Context, userID, id uuid.UUID, cols map[string]any) error {
	cols["updated_at"] = time.Now().UTC()
	result := r.DB(ctx).
		Model(&models.Address{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumns(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
