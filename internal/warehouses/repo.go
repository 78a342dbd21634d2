package warehouses

import (
	"context"
	"time"

	"github.com/angelmondragon/darkstore-backend/internal/repo"
	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists warehouses, their product lines and team assignments.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, w *models.Warehouse) error {
	return r.DB(ctx).Create(w).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var w models.Warehouse
	err := r.DB(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("product_id") }).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, user_id") }).
		First(&w, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, cols map[string]any) error {
	return r.UpdateColumns(ctx, &models.Warehouse{}, id, cols)
}

// Assign adds the user to the warehouse team. Re-assigning is a no-op.
func (r *Repository) Assign(ctx context.Context, warehouseID, userID uuid.UUID, kind models.AssignmentKind) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.WarehouseAssignment{WarehouseID: warehouseID, UserID: userID, Kind: kind}).Error
}

func (r *Repository) IsAssigned(ctx context.Context, warehouseID, userID uuid.UUID, kind models.AssignmentKind) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.WarehouseAssignment{}).
		Where("warehouse_id = ? AND user_id = ? AND kind = ?", warehouseID, userID, kind).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) FindProduct(ctx context.Context, warehouseID uuid.UUID, productID string) (*models.WarehouseProduct, error) {
	var p models.WarehouseProduct
	err := r.DB(ctx).
		First(&p, "warehouse_id = ? AND product_id = ?", warehouseID, productID).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) SetQuantity(ctx context.Context, warehouseID uuid.UUID, productID string, quantity int) error {
	return r.updateProduct(ctx, warehouseID, productID, map[string]any{"quantity": quantity}, nil)
}

// DecrementQuantity lowers the quantity only when enough stock is left.
// It reports false when the guard rejected the update.
func (r *Repository) DecrementQuantity(ctx context.Context, warehouseID uuid.UUID, productID string, by int) (bool, error) {
	err := r.updateProduct(ctx, warehouseID, productID,
		map[string]any{"quantity": gorm.Expr("quantity - ?", by)},
		func(db *gorm.DB) *gorm.DB { return db.Where("quantity >= ?", by) },
	)
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *Repository) updateProduct(ctx context.Context, warehouseID uuid.UUID, productID string, cols map[string]any, scope func(*gorm.DB) *gorm.DB) error {
	cols["updated_at"] = time.Now().UTC()
	q := r.DB(ctx).
		Model(&models.WarehouseProduct{}).
		Where("warehouse_id = ? AND product_id = ?", warehouseID, productID)
	if scope != nil {
		q = scope(q)
	}
	result := q.UpdateColumns(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
