package ops

import (
	"strings"
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
)

// DeliveryPatch carries the fields to change; nil fields are left alone.
type DeliveryPatch struct {
	Driver         *string
	Status         *enums.DeliveryStatus
	ETA            *string
	Address        *string
	PickupLocation *string
	PickupTime     *string
}

// AddDelivery records a delivery, drawing an id when none is given.
func (s State) AddDelivery(env Env, delivery Delivery) (State, Delivery, error) {
	if strings.TrimSpace(delivery.Retailer) == "" {
		return s, Delivery{}, pkgerrors.New(pkgerrors.CodeValidation, "retailer is required")
	}
	if delivery.Status == "" {
		delivery.Status = enums.DeliveryStatusPreparing
	}
	if !delivery.Status.IsValid() {
		return s, Delivery{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid delivery status %q", delivery.Status)
	}
	if delivery.ID == "" {
		delivery.ID = drawUnique(env.ids(), deliveryIDPrefix, func(id string) bool { return s.deliveryIndex(id) >= 0 })
	} else if s.deliveryIndex(delivery.ID) >= 0 {
		return s, Delivery{}, pkgerrors.Newf(pkgerrors.CodeConflict, "delivery %s already exists", delivery.ID)
	}
	next := s.Clone()
	next.Deliveries = append(next.Deliveries, delivery)
	return next, delivery, nil
}

// UpdateDelivery merges patch into the delivery. Marking it Delivered stamps
// the completion time and closes the retailer's Ready orders.
func (s State) UpdateDelivery(env Env, id string, patch DeliveryPatch) (State, Delivery, error) {
	idx := s.deliveryIndex(id)
	if idx < 0 {
		return s, Delivery{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "delivery %s not found", id)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return s, Delivery{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid delivery status %q", *patch.Status)
	}
	next := s.Clone()
	delivery := &next.Deliveries[idx]
	if patch.Driver != nil {
		delivery.Driver = *patch.Driver
	}
	if patch.ETA != nil {
		delivery.ETA = *patch.ETA
	}
	if patch.Address != nil {
		delivery.Address = *patch.Address
	}
	if patch.PickupLocation != nil {
		delivery.PickupLocation = *patch.PickupLocation
	}
	if patch.PickupTime != nil {
		delivery.PickupTime = *patch.PickupTime
	}
	if patch.Status != nil {
		delivery.Status = *patch.Status
		if delivery.Status == enums.DeliveryStatusDelivered {
			delivery.CompletedAt = env.now().UTC().Format(time.RFC3339)
			for i := range next.Orders {
				order := &next.Orders[i]
				if order.Retailer == delivery.Retailer && order.Status == enums.OrderStatusReady {
					order.Status = enums.OrderStatusDelivered
				}
			}
		}
	}
	return next, *delivery, nil
}
