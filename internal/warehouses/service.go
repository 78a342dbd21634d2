package warehouses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/internal/users"
	"github.com/angelmondragon/darkstore-backend/pkg/db/models"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	DB() *gorm.DB
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type warehouseRepository interface {
	Create(ctx context.Context, w *models.Warehouse) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error)
	Update(ctx context.Context, id uuid.UUID, cols map[string]any) error
	Assign(ctx context.Context, warehouseID, userID uuid.UUID, kind models.AssignmentKind) error
	IsAssigned(ctx context.Context, warehouseID, userID uuid.UUID, kind models.AssignmentKind) (bool, error)
	FindProduct(ctx context.Context, warehouseID uuid.UUID, productID string) (*models.WarehouseProduct, error)
	SetQuantity(ctx context.Context, warehouseID uuid.UUID, productID string, quantity int) error
	DecrementQuantity(ctx context.Context, warehouseID uuid.UUID, productID string, by int) (bool, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, warehouseID *uuid.UUID) error
	UpdateShift(ctx context.Context, id uuid.UUID, shift enums.Shift) error
}

type preparationUpdater interface {
	UpdatePreparationStatus(ctx context.Context, id string, status enums.OrderStatus) (ops.Order, error)
}

// ServiceParams wires the warehouse service. Nil repo factories default to the gorm repositories.
type ServiceParams struct {
	DB                txRunner
	Orders            preparationUpdater
	WarehouseRepoFunc func(tx *gorm.DB) warehouseRepository
	UserRepoFunc      func(tx *gorm.DB) userRepository
}

// Service manages warehouses, their teams and stock levels.
type Service struct {
	db         txRunner
	orders     preparationUpdater
	warehouses func(tx *gorm.DB) warehouseRepository
	users      func(tx *gorm.DB) userRepository
}

func NewService(params ServiceParams) (*Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("db client required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("order service required")
	}
	warehouseRepo := params.WarehouseRepoFunc
	if warehouseRepo == nil {
		warehouseRepo = func(tx *gorm.DB) warehouseRepository { return NewRepository(tx) }
	}
	userRepo := params.UserRepoFunc
	if userRepo == nil {
		userRepo = func(tx *gorm.DB) userRepository { return users.NewRepository(tx) }
	}
	return &Service{
		db:         params.DB,
		orders:     params.Orders,
		warehouses: warehouseRepo,
		users:      userRepo,
	}, nil
}

func (s *Service) AddWarehouse(ctx context.Context, in CreateWarehouseInput) (*WarehouseDTO, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	seen := map[string]bool{}
	for _, line := range in.Products {
		if strings.TrimSpace(line.ProductID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
		}
		if line.Quantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
		}
		if seen[line.ProductID] {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "duplicate product %q", line.ProductID)
		}
		seen[line.ProductID] = true
	}

	repo := s.warehouses(s.db.DB())
	w := in.toModel()
	if err := repo.Create(ctx, w); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create warehouse")
	}
	return s.load(ctx, repo, w.ID)
}

func (s *Service) UpdateWarehouse(ctx context.Context, id uuid.UUID, in UpdateWarehouseInput) (*WarehouseDTO, error) {
	repo := s.warehouses(s.db.DB())
	cols := in.columns()
	if len(cols) > 0 {
		if err := repo.Update(ctx, id, cols); err != nil {
			return nil, notFoundOr(err, "warehouse not found", "update warehouse")
		}
	}
	return s.load(ctx, repo, id)
}

func (s *Service) GetWarehouse(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error) {
	return s.load(ctx, s.warehouses(s.db.DB()), id)
}

// AssignStoreManager adds a STORE_MANAGER user to the warehouse and links the user to it.
func (s *Service) AssignStoreManager(ctx context.Context, warehouseID, userID uuid.UUID) (*WarehouseDTO, error) {
	return s.assign(ctx, warehouseID, userID, enums.UserRoleStoreManager, models.AssignmentKindManager)
}

// AssignStoreStaff adds a STORE_STAFF user. Managers may only staff warehouses they manage.
func (s *Service) AssignStoreStaff(ctx context.Context, actor Actor, warehouseID, userID uuid.UUID) (*WarehouseDTO, error) {
	if actor.Role != enums.UserRoleAdmin {
		if err := s.requireManager(ctx, actor, warehouseID); err != nil {
			return nil, err
		}
	}
	return s.assign(ctx, warehouseID, userID, enums.UserRoleStoreStaff, models.AssignmentKindStaff)
}

func (s *Service) assign(ctx context.Context, warehouseID, userID uuid.UUID, role enums.UserRole, kind models.AssignmentKind) (*WarehouseDTO, error) {
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		warehouses := s.warehouses(tx)
		userRepo := s.users(tx)

		if _, err := warehouses.FindByID(ctx, warehouseID); err != nil {
			return notFoundOr(err, "warehouse not found", "load warehouse")
		}
		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			return notFoundOr(err, "user not found", "load user")
		}
		if user.Role != role {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "user is not a %s", role)
		}
		if err := warehouses.Assign(ctx, warehouseID, userID, kind); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign user")
		}
		if err := userRepo.UpdateWarehouse(ctx, userID, &warehouseID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link user to warehouse")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetWarehouse(ctx, warehouseID)
}

// UpdateStockQuantity sets a product quantity in a warehouse the caller manages.
func (s *Service) UpdateStockQuantity(ctx context.Context, actor Actor, warehouseID uuid.UUID, productID string, quantity int) (*ProductLine, error) {
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	if err := s.requireManager(ctx, actor, warehouseID); err != nil {
		return nil, err
	}
	repo := s.warehouses(s.db.DB())
	if err := repo.SetQuantity(ctx, warehouseID, productID, quantity); err != nil {
		return nil, notFoundOr(err, "product not found in warehouse", "update stock quantity")
	}
	return s.product(ctx, repo, warehouseID, productID)
}

// ChangeStaffShift moves a staff member of the manager's warehouse to another shift.
func (s *Service) ChangeStaffShift(ctx context.Context, actor Actor, staffID uuid.UUID, shift string) error {
	parsed, err := enums.ParseShift(shift)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "shift must be Day or Night")
	}
	userRepo := s.users(s.db.DB())
	managerWarehouse, err := s.homeWarehouse(ctx, userRepo, actor.UserID)
	if err != nil {
		return err
	}
	staff, err := userRepo.FindByID(ctx, staffID)
	if err != nil {
		return notFoundOr(err, "staff member not found", "load staff member")
	}
	if staff.Role != enums.UserRoleStoreStaff || staff.WarehouseID == nil || *staff.WarehouseID != managerWarehouse {
		return pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
	}
	if err := userRepo.UpdateShift(ctx, staffID, parsed); err != nil {
		return notFoundOr(err, "staff member not found", "update shift")
	}
	return nil
}

// DecreaseStockLevel takes quantity units of a product out of the caller's warehouse.
func (s *Service) DecreaseStockLevel(ctx context.Context, actor Actor, productID string, quantity int) (*ProductLine, error) {
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	warehouseID, err := s.homeWarehouse(ctx, s.users(s.db.DB()), actor.UserID)
	if err != nil {
		return nil, err
	}

	var line *ProductLine
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.warehouses(tx)
		if _, err := repo.FindProduct(ctx, warehouseID, productID); err != nil {
			return notFoundOr(err, "product not found in warehouse", "load product")
		}
		ok, err := repo.DecrementQuantity(ctx, warehouseID, productID, quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrease stock")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "not enough stock")
		}
		line, err = s.product(ctx, repo, warehouseID, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateOrderPreparationStatus forwards a staff preparation step to the order lifecycle.
func (s *Service) UpdateOrderPreparationStatus(ctx context.Context, orderID, status string) (ops.Order, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil || !parsed.IsPreparation() {
		return ops.Order{}, pkgerrors.New(pkgerrors.CodeValidation, "status must be one of Pending, Picked, Packing, Completed")
	}
	return s.orders.UpdatePreparationStatus(ctx, orderID, parsed)
}

func (s *Service) requireManager(ctx context.Context, actor Actor, warehouseID uuid.UUID) error {
	ok, err := s.warehouses(s.db.DB()).IsAssigned(ctx, warehouseID, actor.UserID, models.AssignmentKindManager)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check warehouse manager")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a manager of this warehouse")
	}
	return nil
}

// homeWarehouse resolves the warehouse from the user record so a stale token claim is not trusted.
func (s *Service) homeWarehouse(ctx context.Context, repo userRepository, userID uuid.UUID) (uuid.UUID, error) {
	user, err := repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user not found")
		}
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.WarehouseID == nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "not assigned to a warehouse")
	}
	return *user.WarehouseID, nil
}

func (s *Service) load(ctx context.Context, repo warehouseRepository, id uuid.UUID) (*WarehouseDTO, error) {
	w, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "warehouse not found", "load warehouse")
	}
	return FromModel(w), nil
}

func (s *Service) product(ctx context.Context, repo warehouseRepository, warehouseID uuid.UUID, productID string) (*ProductLine, error) {
	p, err := repo.FindProduct(ctx, warehouseID, productID)
	if err != nil {
		return nil, notFoundOr(err, "product not found in warehouse", "load product")
	}
	return &ProductLine{ProductID: p.ProductID, Category: p.Category, SubCategory: p.SubCategory, Quantity: p.Quantity}, nil
}

func notFoundOr(err error, notFound, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFound)
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
