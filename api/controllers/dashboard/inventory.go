package dashboard

import (
	"net/http"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/api/validators"
	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

type inventoryRequest struct {
	Product  string `json:"product" validate:"required,max=120"`
	Category string `json:"category" validate:"max=60"`
	Stock    int    `json:"stock" validate:"gte=0"`
	Min      int    `json:"min" validate:"gte=0"`
	Location string `json:"location" validate:"max=60"`
	StoreID  string `json:"store_id" validate:"required,max=64"`
}

type inventoryPatchRequest struct {
	Product  *string `json:"product" validate:"omitempty,min=1,max=120"`
	Category *string `json:"category" validate:"omitempty,max=60"`
	Stock    *int    `json:"stock" validate:"omitempty,gte=0"`
	Min      *int    `json:"min" validate:"omitempty,gte=0"`
	Location *string `json:"location" validate:"omitempty,max=60"`
	StoreID  *string `json:"store_id" validate:"omitempty,min=1,max=64"`
}

// ListInventory accepts an optional ?store_id filter.
func ListInventory(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, svc.Inventory(validators.ParseQueryString(r, "store_id", 64)))
	}
}

func AddInventory(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		var body inventoryRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.AddInventoryItem(r.Context(), ops.InventoryItem{
			Product:  body.Product,
			Category: body.Category,
			Stock:    body.Stock,
			Min:      body.Min,
			Location: body.Location,
			StoreID:  body.StoreID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, item)
	}
}

func UpdateInventory(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		id, err := validators.ParseIntParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body inventoryPatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateInventoryItem(r.Context(), id, ops.InventoryPatch{
			Product:  body.Product,
			Category: body.Category,
			Stock:    body.Stock,
			Min:      body.Min,
			Location: body.Location,
			StoreID:  body.StoreID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func RemoveInventory(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		id, err := validators.ParseIntParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveInventoryItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"id": id})
	}
}

// Restock tops the line back up above its minimum.
func Restock(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		id, err := validators.ParseIntParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.RequestRestock(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}
