package dashboard

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/api/validators"
	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

type orderProductRequest struct {
	ID       int             `json:"id" validate:"gte=0"`
	Name     string          `json:"name" validate:"required,max=120"`
	Quantity int             `json:"quantity" validate:"gt=0"`
	Picked   bool            `json:"picked"`
	Price    decimal.Decimal `json:"price"`
}

type createOrderRequest struct {
	Retailer string                `json:"retailer" validate:"required,max=120"`
	StoreID  string                `json:"store_id" validate:"max=64"`
	Status   enums.OrderStatus     `json:"status"`
	Assigned string                `json:"assigned" validate:"max=120"`
	Items    int                   `json:"items" validate:"gte=0"`
	Value    decimal.Decimal       `json:"value"`
	Products []orderProductRequest `json:"products" validate:"dive"`
}

type updateOrderRequest struct {
	Retailer *string                `json:"retailer" validate:"omitempty,min=1,max=120"`
	Items    *int                   `json:"items" validate:"omitempty,gte=0"`
	Value    *decimal.Decimal       `json:"value"`
	Status   *enums.OrderStatus     `json:"status"`
	Assigned *string                `json:"assigned" validate:"omitempty,max=120"`
	StoreID  *string                `json:"store_id" validate:"omitempty,max=64"`
	Date     *string                `json:"date" validate:"omitempty,max=10"`
	Products *[]orderProductRequest `json:"products" validate:"omitempty,dive"`
}

type assignOrderRequest struct {
	Staff string `json:"staff" validate:"required,max=120"`
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type scanRequest struct {
	Code    string `json:"code" validate:"required,max=120"`
	OrderID string `json:"order_id" validate:"max=64"`
}

func toOrderProducts(in []orderProductRequest) []ops.OrderProduct {
	out := make([]ops.OrderProduct, 0, len(in))
	for _, p := range in {
		out = append(out, ops.OrderProduct{ID: p.ID, Name: p.Name, Quantity: p.Quantity, Picked: p.Picked, Price: p.Price})
	}
	return out
}

// ListOrders accepts an optional ?store_id filter.
func ListOrders(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, svc.Orders(validators.ParseQueryString(r, "store_id", 64)))
	}
}

func PendingOrders(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, svc.PendingOrders())
	}
}

// AssignedOrders lists the orders held by ?staff.
func AssignedOrders(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		staff := validators.ParseQueryString(r, "staff", 120)
		if staff == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "staff query parameter is required"))
			return
		}
		responses.WriteSuccess(w, svc.AssignedOrders(staff))
	}
}

func GetOrder(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		id, err := validators.ParseStringParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Order(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func CreateOrder(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		var body createOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CreateOrder(r.Context(), ops.OrderDetails{
			Retailer: body.Retailer,
			StoreID:  body.StoreID,
			Status:   body.Status,
			Assigned: body.Assigned,
			Items:    body.Items,
			Value:    body.Value,
			Products: toOrderProducts(body.Products),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, order)
	}
}

// UpdateOrder applies a manual edit. An unknown id is a no-op reported as updated=false.
func UpdateOrder(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		id, err := validators.ParseStringParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		patch := ops.OrderPatch{
			Retailer: body.Retailer,
			Items:    body.Items,
			Value:    body.Value,
			Status:   body.Status,
			Assigned: body.Assigned,
			StoreID:  body.StoreID,
			Date:     body.Date,
		}
		if body.Products != nil {
			products := toOrderProducts(*body.Products)
			patch.Products = &products
		}

		order, found, err := svc.UpdateOrder(r.Context(), id, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !found {
			responses.WriteSuccess(w, map[string]any{"id": id, "updated": false})
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AssignOrder(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		id, err := validators.ParseStringParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body assignOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AssignOrder(r.Context(), id, body.Staff)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// CompleteOrder marks the order Ready and returns the delivery it opened, if any.
func CompleteOrder(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		id, err := validators.ParseStringParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CompleteOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"order":    result.Order,
			"delivery": result.Delivery,
		})
	}
}

func ChangeOrderStatus(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		id, err := validators.ParseStringParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body orderStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseOrderStatus(body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status"))
			return
		}

		order, err := svc.ChangeStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// Scan marks the first unpicked product matching the scanned code.
func Scan(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		var body scanRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Scan(r.Context(), body.Code, body.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
