package ops

// LowStockAlerts projects the current inventory into alerts. Ids are
// re-enumerated from 1 on every call, so they are not stable across changes.
func (s State) LowStockAlerts() []LowStockAlert {
	alerts := make([]LowStockAlert, 0)
	for _, item := range s.Inventory {
		if item.Stock >= item.Min {
			continue
		}
		alerts = append(alerts, LowStockAlert{
			ID:      len(alerts) + 1,
			Product: item.Product,
			Store:   s.storeName(item.StoreID),
			Current: item.Stock,
			Minimum: item.Min,
			Status:  StockStatusFor(item.Stock, item.Min),
		})
	}
	return alerts
}

// StoreViews returns the stores with their alert counts filled in.
func (s State) StoreViews() []Store {
	counts := make(map[string]int)
	for _, alert := range s.LowStockAlerts() {
		counts[alert.Store]++
	}
	stores := cloneSlice(s.Stores)
	if stores == nil {
		stores = []Store{}
	}
	for i := range stores {
		stores[i].Alerts = counts[stores[i].Name]
	}
	return stores
}

func (s State) storeName(storeID string) string {
	if store, ok := s.storeByID(storeID); ok {
		return store.Name
	}
	return storeID
}
