package dashboard

import (
	"net/http"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/api/validators"
	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

type staffRequest struct {
	Name    string `json:"name" validate:"required,max=120"`
	Role    string `json:"role" validate:"required,max=60"`
	StoreID string `json:"store_id" validate:"required,max=64"`
}

type staffPatchRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=120"`
	Role    *string `json:"role" validate:"omitempty,min=1,max=60"`
	StoreID *string `json:"store_id" validate:"omitempty,min=1,max=64"`
	Active  *bool   `json:"active"`
}

// ListStaff returns active members, optionally for one ?store_id.
func ListStaff(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}
		responses.WriteSuccess(w, svc.Staff(validators.ParseQueryString(r, "store_id", 64)))
	}
}

func AddStaff(svc Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg)
			return
		}

		var body staffRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.AddStaffMember(r.Context(), ops.Staff{Name: body.Name, Role: body.Role, StoreID: body.StoreID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, member)
	}
}

func UpdateStaff(svc Service, logg *logger.Logger) http.HandlerFunc {
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

		var body staffPatchRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		member, err := svc.UpdateStaffMember(r.Context(), id, ops.StaffPatch{
			Name:    body.Name,
			Role:    body.Role,
			StoreID: body.StoreID,
			Active:  body.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// RemoveStaff deactivates the member and releases their open orders.
func RemoveStaff(svc Service, logg *logger.Logger) http.HandlerFunc {
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
		if err := svc.RemoveStaffMember(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"id": id})
	}
}
