package dashboard

import (
	"net/http"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/api/validators"
	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

type deliveryRequest struct {
	OrderID        string               `json:"order_id" validate:"max=64"`
	Retailer       string               `json:"retailer" validate:"required,max=120"`
	Driver         string               `json:"driver" validate:"max=120"`
	Store          string               `json:"store" validate:"max=120"`
	Status         enums.DeliveryStatus `json:"status"`
	ETA            string               `json:"eta" validate:"max=60"`
	Address        string               `json:"address" validate:"max=255"`
	Items          int                  `json:"items" validate:"gte=0"`
	PickupLocation string               `json:"pickup_location" validate:"max=120"`
	PickupTime     string               `json:"pickup_time" validate:"max=60"`
}

type deliveryPatchRequest struct {
	Driver         *string               `json:"driver" validate:"omitempty,max=120"`
	Status         *enums.DeliveryStatus `json:"status"`
	ETA            *string               `json:"eta" validate:"omitempty,max=60"`
	Address        *string               `json:"address" validate:"omitempty,max=255"`
	PickupLocation *string               `json:"pickup_location" validate:"omitempty,max=120"`
	PickupTime     *string               `json:"pickup_time" validate:"omitempty,max=60"`
}

func AddDelivery(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		var body deliveryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := svc.AddDelivery(r.Context(), ops.Delivery{
			OrderID:        body.OrderID,
			Retailer:       body.Retailer,
			Driver:         body.Driver,
			Store:          body.Store,
			Status:         body.Status,
			ETA:            body.ETA,
			Address:        body.Address,
			Items:          body.Items,
			PickupLocation: body.PickupLocation,
			PickupTime:     body.PickupTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, delivery)
	}
}

// UpdateDelivery merges the patch; a Delivered status closes the retailer's Ready orders.
func UpdateDelivery(svc Service, logg *logger.Logger) http.HandlerFunc {
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

		var body deliveryPatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		delivery, err := svc.UpdateDelivery(r.Context(), id, ops.DeliveryPatch{
			Driver:         body.Driver,
			Status:         body.Status,
			ETA:            body.ETA,
			Address:        body.Address,
			PickupLocation: body.PickupLocation,
			PickupTime:     body.PickupTime,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, delivery)
	}
}
