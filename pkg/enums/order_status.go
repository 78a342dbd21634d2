package enums

import "fmt"

// OrderStatus tracks an order through picking, packing and delivery.
//
// Two lifecycles share the type. Fulfilment runs
// Pending → Assigned → Picking → Packing → Ready → Shipped → Delivered and the
// staff preparation flow runs Pending → Picked → Packing → Completed. Both are
// subsequences of one ranked order, so forward-only checks compare ranks.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusAssigned   OrderStatus = "Assigned"
	OrderStatusPicking    OrderStatus = "Picking"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusPicked     OrderStatus = "Picked"
	OrderStatusPacking    OrderStatus = "Packing"
	OrderStatusReady      OrderStatus = "Ready"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCompleted  OrderStatus = "Completed"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusAssigned,
	OrderStatusPicking,
	OrderStatusProcessing,
	OrderStatusPicked,
	OrderStatusPacking,
	OrderStatusReady,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCompleted,
}

var orderStatusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusAssigned:   1,
	OrderStatusPicking:    2,
	OrderStatusProcessing: 2,
	OrderStatusPicked:     3,
	OrderStatusPacking:    4,
	OrderStatusReady:      5,
	OrderStatusShipped:    6,
	OrderStatusDelivered:  7,
	OrderStatusCompleted:  7,
}

// PreparationStatuses are the values staff may set from the preparation flow.
var PreparationStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPicked,
	OrderStatusPacking,
	OrderStatusCompleted,
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	_, ok := orderStatusRank[s]
	return ok
}

// IsTerminal reports whether no further status change is permitted.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCompleted
}

// IsPending reports whether the order still awaits fulfilment work.
func (s OrderStatus) IsPending() bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusPicking, OrderStatusPacking:
		return true
	default:
		return false
	}
}

// IsPicking reports whether items of the order are being scanned.
func (s OrderStatus) IsPicking() bool {
	return s == OrderStatusPicking || s == OrderStatusProcessing || s == OrderStatusPicked
}

// IsPreparation reports whether the status belongs to the staff preparation flow.
func (s OrderStatus) IsPreparation() bool {
	for _, candidate := range PreparationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether moving from s to next keeps the lifecycle forward-only.
// Re-applying the current status is allowed.
func (s OrderStatus) CanAdvanceTo(next OrderStatus) bool {
	if s.IsTerminal() || !next.IsValid() {
		return false
	}
	from, ok := orderStatusRank[s]
	if !ok {
		return true
	}
	return orderStatusRank[next] >= from
}

// Reached reports whether s is at or beyond target in the lifecycle.
func (s OrderStatus) Reached(target OrderStatus) bool {
	from, ok := orderStatusRank[s]
	if !ok {
		return false
	}
	return from >= orderStatusRank[target]
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
