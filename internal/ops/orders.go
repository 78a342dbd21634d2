package ops

import (
	"strings"

	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const orderDateLayout = "2006-01-02"

func notAllowed() error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "not allowed")
}

// OrderDetails is the caller-supplied part of a new order. Items and Value
// are derived from Products when left zero.
type OrderDetails struct {
	Retailer string
	StoreID  string
	Status   enums.OrderStatus
	Assigned string
	Items    int
	Value    decimal.Decimal
	Products []OrderProduct
}

// OrderPatch carries the fields to change; nil fields are left alone.
type OrderPatch struct {
	Retailer *string
	Items    *int
	Value    *decimal.Decimal
	Status   *enums.OrderStatus
	Assigned *string
	StoreID  *string
	Date     *string
	Products *[]OrderProduct
}

// CompleteResult is what CompleteOrder produced.
type CompleteResult struct {
	Order    Order
	Delivery *Delivery
}

// ScanResult reports the product a scan matched.
type ScanResult struct {
	OrderID  string            `json:"order_id"`
	Product  OrderProduct      `json:"product"`
	Progress int               `json:"progress"`
	Status   enums.OrderStatus `json:"status"`
}

// Progress is the rounded percentage of picked products.
func Progress(products []OrderProduct) int {
	total := len(products)
	if total == 0 {
		return 0
	}
	picked := 0
	for _, p := range products {
		if p.Picked {
			picked++
		}
	}
	return (200*picked + total) / (2 * total)
}

// CreateOrder appends a new order stamped with today's date and bumps the
// owning store's order count.
func (s State) CreateOrder(env Env, details OrderDetails) (State, Order, error) {
	if strings.TrimSpace(details.Retailer) == "" {
		return s, Order{}, pkgerrors.New(pkgerrors.CodeValidation, "retailer is required")
	}
	status := details.Status
	if status == "" {
		status = enums.OrderStatusPending
	}
	if !status.IsValid() {
		return s, Order{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", status)
	}
	products := cloneSlice(details.Products)
	if products == nil {
		products = []OrderProduct{}
	}
	for i := range products {
		if products[i].Quantity <= 0 {
			return s, Order{}, pkgerrors.New(pkgerrors.CodeValidation, "product quantity must be positive")
		}
		if products[i].ID == 0 {
			products[i].ID = i + 1
		}
	}

	order := Order{
		ID:       drawUnique(env.ids(), orderIDPrefix, func(id string) bool { return s.orderIndex(id) >= 0 }),
		Retailer: details.Retailer,
		Items:    details.Items,
		Value:    details.Value,
		Status:   status,
		Assigned: details.Assigned,
		StoreID:  details.StoreID,
		Date:     env.now().Format(orderDateLayout),
		Products: products,
	}
	if order.StoreID == "" {
		order.StoreID = env.defaultStore()
	}
	if order.Items == 0 {
		order.Items = totalQuantity(products)
	}
	if order.Value.IsZero() {
		order.Value = totalValue(products)
	}
	order.Progress = Progress(products)

	next := s.Clone()
	next.Orders = append(next.Orders, order)
	for i := range next.Stores {
		if next.Stores[i].ID == order.StoreID {
			next.Stores[i].Orders++
		}
	}
	return next, order, nil
}

// UpdateOrder merges patch into the order. An unknown id leaves the state as is.
// It is the manual edit path, so statuses may move backwards, but a terminal
// order keeps its status.
func (s State) UpdateOrder(id string, patch OrderPatch) (State, error) {
	idx := s.orderIndex(id)
	if idx < 0 {
		return s, nil
	}
	next := s.Clone()
	order := next.Orders[idx]
	if patch.Status != nil && *patch.Status != order.Status {
		if !patch.Status.IsValid() {
			return s, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", *patch.Status)
		}
		if order.Status.IsTerminal() {
			return s, notAllowed()
		}
		order.Status = *patch.Status
	}
	if patch.Retailer != nil {
		order.Retailer = *patch.Retailer
	}
	if patch.Items != nil {
		order.Items = *patch.Items
	}
	if patch.Value != nil {
		order.Value = *patch.Value
	}
	if patch.Assigned != nil {
		order.Assigned = *patch.Assigned
	}
	if patch.StoreID != nil {
		order.StoreID = *patch.StoreID
	}
	if patch.Date != nil {
		order.Date = *patch.Date
	}
	if patch.Products != nil {
		order.Products = cloneSlice(*patch.Products)
	}
	order.Progress = Progress(order.Products)
	next.Orders[idx] = order
	return next, nil
}

// AssignOrder hands the order to a staff member by name. The staff member is
// not checked against the order's store.
func (s State) AssignOrder(id, staffName string) (State, Order, error) {
	if strings.TrimSpace(staffName) == "" {
		return s, Order{}, pkgerrors.New(pkgerrors.CodeValidation, "staff name is required")
	}
	idx := s.orderIndex(id)
	if idx < 0 {
		return s, Order{}, orderNotFound(id)
	}
	current := s.Orders[idx]
	if !current.Status.CanAdvanceTo(enums.OrderStatusAssigned) {
		return s, Order{}, notAllowed()
	}

	next := s.Clone()
	order := &next.Orders[idx]
	if order.Assigned != "" && order.Assigned != staffName {
		next.adjustStaff(order.Assigned, -1, 0)
	}
	if order.Assigned != staffName {
		next.adjustStaff(staffName, 1, 0)
	}
	order.Status = enums.OrderStatusAssigned
	order.Assigned = staffName
	return next, *order, nil
}

// CompleteOrder marks the order Ready, credits the assignee and opens a
// delivery when the order's store is known. All three changes land in the
// returned snapshot together.
func (s State) CompleteOrder(env Env, id string) (State, CompleteResult, error) {
	idx := s.orderIndex(id)
	if idx < 0 {
		return s, CompleteResult{}, orderNotFound(id)
	}
	// completion happens once; a Ready order has already credited its assignee
	if current := s.Orders[idx].Status; current.Reached(enums.OrderStatusReady) || !current.CanAdvanceTo(enums.OrderStatusReady) {
		return s, CompleteResult{}, notAllowed()
	}

	next := s.Clone()
	order := &next.Orders[idx]
	order.Status = enums.OrderStatusReady
	if order.Assigned != "" {
		next.adjustStaff(order.Assigned, -1, 1)
	}

	result := CompleteResult{Order: *order}
	if store, ok := next.storeByID(order.StoreID); ok {
		delivery := Delivery{
			ID:             drawUnique(env.ids(), deliveryIDPrefix, func(id string) bool { return next.deliveryIndex(id) >= 0 }),
			OrderID:        order.ID,
			Retailer:       order.Retailer,
			Store:          store.Name,
			Status:         enums.DeliveryStatusPreparing,
			Address:        order.Retailer + " Address",
			Items:          order.Items,
			PickupLocation: store.Name,
			PickupTime:     "Waiting for pickup",
		}
		next.Deliveries = append(next.Deliveries, delivery)
		result.Delivery = &delivery
	}
	return next, result, nil
}

// ChangeStatus moves the order forward along its lifecycle.
func (s State) ChangeStatus(id string, status enums.OrderStatus) (State, Order, error) {
	if !status.IsValid() {
		return s, Order{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid order status %q", status)
	}
	idx := s.orderIndex(id)
	if idx < 0 {
		return s, Order{}, orderNotFound(id)
	}
	current := s.Orders[idx]
	if current.Status.IsTerminal() {
		return s, Order{}, notAllowed()
	}
	if !current.Status.CanAdvanceTo(status) {
		return s, Order{}, pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", current.Status, status).
			WithDetails(map[string]any{"from": current.Status, "to": status})
	}
	next := s.Clone()
	next.Orders[idx].Status = status
	return next, next.Orders[idx], nil
}

// Scan marks the first unpicked product whose name contains code. Only orders
// being picked are searched, optionally narrowed to orderID.
func (s State) Scan(code, orderID string) (State, ScanResult, error) {
	needle := strings.ToLower(strings.TrimSpace(code))
	if needle == "" {
		return s, ScanResult{}, pkgerrors.New(pkgerrors.CodeValidation, "empty scan")
	}
	if orderID != "" {
		idx := s.orderIndex(orderID)
		if idx < 0 {
			return s, ScanResult{}, orderNotFound(orderID)
		}
		if s.Orders[idx].Status.IsTerminal() {
			return s, ScanResult{}, notAllowed()
		}
	}

	for oi, order := range s.Orders {
		if orderID != "" && order.ID != orderID {
			continue
		}
		if !order.Status.IsPicking() {
			continue
		}
		for pi, product := range order.Products {
			if product.Picked || !strings.Contains(strings.ToLower(product.Name), needle) {
				continue
			}
			next := s.Clone()
			target := &next.Orders[oi]
			target.Products[pi].Picked = true
			target.Progress = Progress(target.Products)
			if target.Progress == 100 {
				target.Status = enums.OrderStatusPacking
			}
			return next, ScanResult{
				OrderID:  target.ID,
				Product:  target.Products[pi],
				Progress: target.Progress,
				Status:   target.Status,
			}, nil
		}
	}
	return s, ScanResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// adjustStaff applies deltas to the first staff member with the given name.
// The assigned counter never drops below zero.
func (s *State) adjustStaff(name string, assigned, completed int) {
	for i := range s.Staff {
		if s.Staff[i].Name != name {
			continue
		}
		s.Staff[i].Assigned = max(s.Staff[i].Assigned+assigned, 0)
		s.Staff[i].Completed += completed
		return
	}
}

func orderNotFound(id string) error {
	return pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
}

func totalQuantity(products []OrderProduct) int {
	total := 0
	for _, p := range products {
		total += p.Quantity
	}
	return total
}

func totalValue(products []OrderProduct) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	return total
}
