package dashboard

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/api/validators"
	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

type cartItemRequest struct {
	ID       int             `json:"id" validate:"required,gt=0"`
	Name     string          `json:"name" validate:"required,max=120"`
	Category string          `json:"category" validate:"max=60"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock" validate:"gte=0"`
	StoreID  string          `json:"store_id" validate:"max=64"`
}

type cartQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type checkoutRequest struct {
	Retailer string `json:"retailer" validate:"max=120"`
}

func GetCart(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Cart(owner))
	}
}

// AddCartItem adds one unit; repeated adds bump the quantity.
func AddCartItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.AddToCart(r.Context(), owner, ops.CartItem{
			ID:       body.ID,
			Name:     body.Name,
			Category: body.Category,
			Price:    body.Price,
			Stock:    body.Stock,
			StoreID:  body.StoreID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// UpdateCartItem sets the quantity; zero or less drops the line.
func UpdateCartItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseIntParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.UpdateCartItem(r.Context(), owner, id, *body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func RemoveCartItem(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id, err := validators.ParseIntParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.RemoveFromCart(r.Context(), owner, id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func ClearCart(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ClearCart(r.Context(), owner); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, []ops.CartItem{})
	}
}

// Checkout turns the cart into a Pending order. The body is optional.
func Checkout(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		owner, err := cartOwner(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkoutRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &body); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		order, err := svc.PlaceOrder(r.Context(), owner, body.Retailer)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, order)
	}
}
