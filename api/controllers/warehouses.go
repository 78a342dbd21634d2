package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/darkstore-backend/api/middleware"
	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/api/validators"
	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/internal/warehouses"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

type WarehouseService interface {
	AddWarehouse(ctx context.Context, in warehouses.CreateWarehouseInput) (*warehouses.WarehouseDTO, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, in warehouses.UpdateWarehouseInput) (*warehouses.WarehouseDTO, error)
	AssignStoreManager(ctx context.Context, warehouseID, userID uuid.UUID) (*warehouses.WarehouseDTO, error)
	AssignStoreStaff(ctx context.Context, actor warehouses.Actor, warehouseID, userID uuid.UUID) (*warehouses.WarehouseDTO, error)
	UpdateStockQuantity(ctx context.Context, actor warehouses.Actor, warehouseID uuid.UUID, productID string, quantity int) (*warehouses.ProductLine, error)
	ChangeStaffShift(ctx context.Context, actor warehouses.Actor, staffID uuid.UUID, shift string) error
	DecreaseStockLevel(ctx context.Context, actor warehouses.Actor, productID string, quantity int) (*warehouses.ProductLine, error)
	UpdateOrderPreparationStatus(ctx context.Context, orderID, status string) (ops.Order, error)
}

type assignRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id" validate:"required"`
	UserID      uuid.UUID `json:"user_id" validate:"required"`
}

type stockQuantityRequest struct {
	WarehouseID uuid.UUID `json:"warehouse_id" validate:"required"`
	ProductID   string    `json:"product_id" validate:"required,max=64"`
	Quantity    *int      `json:"quantity" validate:"required"`
}

type staffShiftRequest struct {
	StaffID uuid.UUID `json:"staff_id" validate:"required"`
	Shift   string    `json:"shift" validate:"required"`
}

type decreaseStockRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"required"`
}

type preparationStatusRequest struct {
	OrderID string `json:"order_id" validate:"required,max=64"`
	Status  string `json:"status" validate:"required"`
}

func WarehouseAdd(svc WarehouseService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warehouse service unavailable"))
			return
		}

		var body warehouses.CreateWarehouseInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.AddWarehouse(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, created)
	}
}

func WarehouseUpdate(svc WarehouseService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warehouse service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body warehouses.UpdateWarehouseInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.UpdateWarehouse(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func WarehouseAssignManager(svc WarehouseService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warehouse service unavailable"))
			return
		}

		var body assignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouse, err := svc.AssignStoreManager(r.Context(), body.WarehouseID, body.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, warehouse)
	}
}

func WarehouseAssignStaff(svc WarehouseService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warehouse service unavailable"))
			return
		}
		actor, err := currentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body assignRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		warehouse, err := svc.AssignStoreStaff(r.Context(), actor, body.WarehouseID, body.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, warehouse)
	}
}

func WarehouseUpdateStock(svc WarehouseService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warehouse service unavailable"))
			return
		}
		actor, err := currentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body stockQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.UpdateStockQuantity(r.Context(), actor, body.WarehouseID, body.ProductID, *body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

func WarehouseChangeShift(svc WarehouseService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warehouse service unavailable"))
			return
		}
		actor, err := currentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body staffShiftRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.ChangeStaffShift(r.Context(), actor, body.StaffID, body.Shift); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"staff_id": body.StaffID.String(), "shift": body.Shift})
	}
}

func WarehouseDecreaseStock(svc WarehouseService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warehouse service unavailable"))
			return
		}
		actor, err := currentActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body decreaseStockRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.DecreaseStockLevel(r.Context(), actor, body.ProductID, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

func WarehouseOrderPreparation(svc WarehouseService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "warehouse service unavailable"))
			return
		}

		var body preparationStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateOrderPreparationStatus(r.Context(), body.OrderID, body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func currentActor(r *http.Request) (warehouses.Actor, error) {
	userID, err := currentUserID(r)
	if err != nil {
		return warehouses.Actor{}, err
	}
	return warehouses.Actor{
		UserID: userID,
		Role:   enums.UserRole(middleware.RoleFromContext(r.Context())),
	}, nil
}
