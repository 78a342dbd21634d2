package dashboard

import (
	"context"
	"slices"

	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/metrics"
)

func (s *Service) AddInventoryItem(ctx context.Context, item ops.InventoryItem) (ops.InventoryItem, error) {
	var created ops.InventoryItem
	err := s.mutate(ctx, "inventory.add", func(state ops.State) (ops.State, error) {
		next, added, err := state.AddInventoryItem(item)
		created = added
		return next, err
	})
	return created, err
}

func (s *Service) UpdateInventoryItem(ctx context.Context, id int, patch ops.InventoryPatch) (ops.InventoryItem, error) {
	var updated ops.InventoryItem
	err := s.mutate(ctx, "inventory.update", func(state ops.State) (ops.State, error) {
		next, item, err := state.UpdateInventoryItem(id, patch)
		updated = item
		return next, err
	})
	return updated, err
}

func (s *Service) RemoveInventoryItem(ctx context.Context, id int) error {
	return s.mutate(ctx, "inventory.remove", func(state ops.State) (ops.State, error) {
		return state.RemoveInventoryItem(id)
	})
}

func (s *Service) RequestRestock(ctx context.Context, id int) (ops.InventoryItem, error) {
	var updated ops.InventoryItem
	err := s.mutate(ctx, "inventory.restock", func(state ops.State) (ops.State, error) {
		next, item, err := state.RequestRestock(id)
		updated = item
		return next, err
	})
	return updated, err
}

func (s *Service) AddStaffMember(ctx context.Context, member ops.Staff) (ops.Staff, error) {
	var created ops.Staff
	err := s.mutate(ctx, "staff.add", func(state ops.State) (ops.State, error) {
		next, added, err := state.AddStaffMember(member)
		created = added
		return next, err
	})
	return created, err
}

func (s *Service) UpdateStaffMember(ctx context.Context, id int, patch ops.StaffPatch) (ops.Staff, error) {
	var updated ops.Staff
	err := s.mutate(ctx, "staff.update", func(state ops.State) (ops.State, error) {
		next, member, err := state.UpdateStaffMember(id, patch)
		updated = member
		return next, err
	})
	return updated, err
}

func (s *Service) RemoveStaffMember(ctx context.Context, id int) error {
	return s.mutate(ctx, "staff.remove", func(state ops.State) (ops.State, error) {
		return state.RemoveStaffMember(id)
	})
}

func (s *Service) CreateOrder(ctx context.Context, details ops.OrderDetails) (ops.Order, error) {
	var created ops.Order
	err := s.mutate(ctx, "order.create", func(state ops.State) (ops.State, error) {
		next, order, err := state.CreateOrder(s.env, details)
		created = order
		return next, err
	})
	if err == nil {
		s.logg.Info(s.logg.WithOrderID(ctx, created.ID), "order created")
	}
	return created, err
}

// UpdateOrder applies a manual edit. Unknown ids are ignored and reported
// back as the zero order with found=false.
func (s *Service) UpdateOrder(ctx context.Context, id string, patch ops.OrderPatch) (ops.Order, bool, error) {
	var (
		updated ops.Order
		found   bool
	)
	err := s.mutate(ctx, "order.update", func(state ops.State) (ops.State, error) {
		next, err := state.UpdateOrder(id, patch)
		if err != nil {
			return state, err
		}
		updated, found = next.Order(id)
		return next, nil
	})
	return updated, found, err
}

func (s *Service) AssignOrder(ctx context.Context, id, staffName string) (ops.Order, error) {
	var updated ops.Order
	err := s.mutate(ctx, "order.assign", func(state ops.State) (ops.State, error) {
		next, order, err := state.AssignOrder(id, staffName)
		updated = order
		return next, err
	})
	return updated, err
}

func (s *Service) CompleteOrder(ctx context.Context, id string) (ops.CompleteResult, error) {
	var result ops.CompleteResult
	err := s.mutate(ctx, "order.complete", func(state ops.State) (ops.State, error) {
		next, res, err := state.CompleteOrder(s.env, id)
		result = res
		return next, err
	})
	if err == nil && result.Delivery != nil {
		s.logg.Info(s.logg.WithOrderID(ctx, id), "delivery opened for completed order")
	}
	return result, err
}

func (s *Service) ChangeStatus(ctx context.Context, id string, status enums.OrderStatus) (ops.Order, error) {
	var updated ops.Order
	err := s.mutate(ctx, "order.status", func(state ops.State) (ops.State, error) {
		next, order, err := state.ChangeStatus(id, status)
		updated = order
		return next, err
	})
	return updated, err
}

// UpdatePreparationStatus drives the staff preparation flow
// (Pending, Picked, Packing, Completed).
func (s *Service) UpdatePreparationStatus(ctx context.Context, id string, status enums.OrderStatus) (ops.Order, error) {
	if !slices.Contains(enums.PreparationStatuses, status) {
		return ops.Order{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid preparation status %q", status)
	}
	return s.ChangeStatus(ctx, id, status)
}

func (s *Service) Scan(ctx context.Context, code, orderID string) (ops.ScanResult, error) {
	var result ops.ScanResult
	err := s.mutate(ctx, "order.scan", func(state ops.State) (ops.State, error) {
		next, res, err := state.Scan(code, orderID)
		result = res
		return next, err
	})
	switch {
	case err == nil:
		s.metrics.ObserveScan(metrics.ScanMatched)
	case pkgerrors.IsCode(err, pkgerrors.CodeNotFound):
		s.metrics.ObserveScan(metrics.ScanNotFound)
	default:
		s.metrics.ObserveScan(metrics.ScanRejected)
	}
	return result, err
}

func (s *Service) AddDelivery(ctx context.Context, delivery ops.Delivery) (ops.Delivery, error) {
	var created ops.Delivery
	err := s.mutate(ctx, "delivery.add", func(state ops.State) (ops.State, error) {
		next, d, err := state.AddDelivery(s.env, delivery)
		created = d
		return next, err
	})
	return created, err
}

func (s *Service) UpdateDelivery(ctx context.Context, id string, patch ops.DeliveryPatch) (ops.Delivery, error) {
	var updated ops.Delivery
	err := s.mutate(ctx, "delivery.update", func(state ops.State) (ops.State, error) {
		next, d, err := state.UpdateDelivery(s.env, id, patch)
		updated = d
		return next, err
	})
	return updated, err
}

func (s *Service) AddToCart(ctx context.Context, owner string, item ops.CartItem) ([]ops.CartItem, error) {
	var items []ops.CartItem
	err := s.mutate(ctx, "cart.add", func(state ops.State) (ops.State, error) {
		next, lines, err := state.AddToCart(owner, item)
		items = lines
		return next, err
	})
	return items, err
}

func (s *Service) UpdateCartItem(ctx context.Context, owner string, id, quantity int) ([]ops.CartItem, error) {
	var items []ops.CartItem
	err := s.mutate(ctx, "cart.update", func(state ops.State) (ops.State, error) {
		next, lines, err := state.UpdateCartItem(owner, id, quantity)
		items = lines
		return next, err
	})
	return items, err
}

func (s *Service) RemoveFromCart(ctx context.Context, owner string, id int) ([]ops.CartItem, error) {
	var items []ops.CartItem
	err := s.mutate(ctx, "cart.remove", func(state ops.State) (ops.State, error) {
		next, lines, err := state.RemoveFromCart(owner, id)
		items = lines
		return next, err
	})
	return items, err
}

func (s *Service) ClearCart(ctx context.Context, owner string) error {
	return s.mutate(ctx, "cart.clear", func(state ops.State) (ops.State, error) {
		return state.ClearCart(owner), nil
	})
}

func (s *Service) PlaceOrder(ctx context.Context, owner, retailer string) (ops.Order, error) {
	var placed ops.Order
	err := s.mutate(ctx, "cart.checkout", func(state ops.State) (ops.State, error) {
		next, order, err := state.PlaceOrder(s.env, owner, retailer)
		placed = order
		return next, err
	})
	if err == nil {
		s.logg.Info(s.logg.WithOrderID(ctx, placed.ID), "checkout order placed")
	}
	return placed, err
}
