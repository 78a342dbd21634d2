package ops

import "github.com/angelmondragon/darkstore-backend/pkg/enums"

// Stats is the headline block of the dashboard.
type Stats struct {
	InventoryCount int `json:"inventory_count"`
	StaffCount     int `json:"staff_count"`
	OrderCount     int `json:"order_count"`
	StoreCount     int `json:"store_count"`
	LowStockCount  int `json:"low_stock_count"`
	DeliveryCount  int `json:"delivery_count"`
}

func (s State) Stats() Stats {
	stats := Stats{
		OrderCount:    len(s.Orders),
		StoreCount:    len(s.Stores),
		LowStockCount: len(s.LowStockAlerts()),
	}
	for _, item := range s.Inventory {
		stats.InventoryCount += item.Stock
	}
	for _, member := range s.Staff {
		if member.Active {
			stats.StaffCount++
		}
	}
	for _, delivery := range s.Deliveries {
		if delivery.Status != enums.DeliveryStatusDelivered {
			stats.DeliveryCount++
		}
	}
	return stats
}

// StoreInventory lists inventory of one store, or all of it when storeID is empty.
func (s State) StoreInventory(storeID string) []InventoryItem {
	return filter(s.Inventory, func(item InventoryItem) bool {
		return storeID == "" || item.StoreID == storeID
	})
}

// StoreStaff lists active staff of one store, or of every store when storeID is empty.
func (s State) StoreStaff(storeID string) []Staff {
	return filter(s.Staff, func(member Staff) bool {
		return member.Active && (storeID == "" || member.StoreID == storeID)
	})
}

func (s State) StoreOrders(storeID string) []Order {
	return cloneOrders(filter(s.Orders, func(order Order) bool {
		return storeID == "" || order.StoreID == storeID
	}))
}

func (s State) AssignedOrders(staffName string) []Order {
	return cloneOrders(filter(s.Orders, func(order Order) bool {
		return order.Assigned == staffName
	}))
}

// PendingOrders lists orders that still need floor work.
func (s State) PendingOrders() []Order {
	return cloneOrders(filter(s.Orders, func(order Order) bool {
		return order.Status.IsPending()
	}))
}

func (s State) ActiveDeliveries() []Delivery {
	return filter(s.Deliveries, func(d Delivery) bool { return d.Status.IsActive() })
}

func (s State) UpcomingDeliveries() []Delivery {
	return filter(s.Deliveries, func(d Delivery) bool { return d.Status == enums.DeliveryStatusPreparing })
}

func (s State) CompletedDeliveries() []Delivery {
	return filter(s.Deliveries, func(d Delivery) bool { return d.Status == enums.DeliveryStatusDelivered })
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
