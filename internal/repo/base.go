package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by the gorm repositories.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx yields the raw connection.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// UpdateColumns stamps updated_at and writes cols to the row with the given id.
// A missing row is reported as gorm.ErrRecordNotFound.
func (b Base) UpdateColumns(ctx context.Context, model any, id uuid.UUID, cols map[string]any) error {
	cols["updated_at"] = time.Now().UTC()
	result := b.DB(ctx).Model(model).Where("id = ?", id).UpdateColumns(cols)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
