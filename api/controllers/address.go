package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/darkstore-backend/api/responses"
	"github.com/angelmondragon/darkstore-backend/api/validators"
	"github.com/angelmondragon/darkstore-backend/internal/address"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

type AddressService interface {
	Create(ctx context.Context, userID uuid.UUID, in address.CreateInput) (address.AddressDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]address.AddressDTO, error)
	Update(ctx context.Context, userID, id uuid.UUID, in address.UpdateInput) (address.AddressDTO, error)
	Disable(ctx context.Context, userID, id uuid.UUID) error
}

type addressUpdateRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
	address.UpdateInput
}

type addressDisableRequest struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

func AddressCreate(svc AddressService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := addressCaller(w, r, svc, logg)
		if !ok {
			return
		}
		var body address.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, created)
	}
}

// AddressList returns the caller's active addresses.
func AddressList(svc AddressService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := addressCaller(w, r, svc, logg)
		if !ok {
			return
		}
		list, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AddressUpdate(svc AddressService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := addressCaller(w, r, svc, logg)
		if !ok {
			return
		}
		var body addressUpdateRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.Update(r.Context(), userID, body.ID, body.UpdateInput)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AddressDisable soft-deletes one of the caller's addresses.
func AddressDisable(svc AddressService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := addressCaller(w, r, svc, logg)
		if !ok {
			return
		}
		var body addressDisableRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Disable(r.Context(), userID, body.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": body.ID, "active": false})
	}
}

func addressCaller(w http.ResponseWriter, r *http.Request, svc AddressService, logg *logger.Logger) (uuid.UUID, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
		return uuid.Nil, false
	}
	userID, err := currentUserID(r)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return uuid.Nil, false
	}
	return userID, true
}
