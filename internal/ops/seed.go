package ops

import (
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// Seed returns the demo data set: four stores with their stock, floor staff,
// a spread of orders across the lifecycle and a handful of deliveries.
func Seed() State {
	state := State{
		Stores: []Store{
			{ID: "store1", Name: "Downtown Store", Manager: "John Smith", Orders: 145, Stock: 1250, Location: "Downtown"},
			{ID: "store2", Name: "Westside Location", Manager: "Emma Johnson", Orders: 98, Stock: 875, Location: "Westside"},
			{ID: "store3", Name: "North Mall Store", Manager: "Michael Brown", Orders: 210, Stock: 1650, Location: "North Mall"},
			{ID: "store4", Name: "East End Dark Store", Manager: "Sarah Williams", Orders: 65, Stock: 920, Location: "East End"},
		},
		Staff: []Staff{
			seedStaff(1, "John Smith", "Picker", 1, 34, "store1"),
			seedStaff(2, "Maria Garcia", "Picker", 2, 28, "store1"),
			seedStaff(3, "Robert Johnson", "Packer", 1, 22, "store1"),
			seedStaff(4, "Emily Davis", "Packer", 0, 19, "store1"),
			seedStaff(5, "David Wilson", "Picker", 0, 15, "store1"),
			seedStaff(6, "Lisa Brown", "Picker", 1, 26, "store2"),
			seedStaff(7, "James Miller", "Packer", 0, 18, "store2"),
			seedStaff(8, "Sarah Wilson", "Picker", 2, 24, "store3"),
			seedStaff(9, "Michael Clark", "Packer", 1, 20, "store3"),
			seedStaff(10, "Jennifer Lee", "Picker", 0, 17, "store4"),
		},
		Carts: map[string][]CartItem{},
	}

	catalogue := []struct {
		product, category, location string
		min                         int
	}{
		{"Fresh Milk", "Dairy", "A1", 20},
		{"Organic Eggs", "Dairy", "A2", 15},
		{"Whole Wheat Bread", "Bakery", "B1", 10},
		{"Premium Coffee", "Beverages", "B2", 5},
	}
	stock := map[string][]int{
		"store2": {28, 5, 15, 8},
		"store3": {42, 18, 9, 4},
		"store4": {30, 16, 7, 3},
	}
	state.Inventory = []InventoryItem{
		seedItem(1, "Fresh Milk", "Dairy", 35, 20, "store1", "A1"),
		seedItem(2, "Organic Eggs", "Dairy", 12, 15, "store1", "A2"),
		seedItem(3, "Whole Wheat Bread", "Bakery", 8, 10, "store1", "B1"),
		seedItem(4, "Premium Coffee", "Beverages", 22, 5, "store1", "B2"),
		seedItem(5, "Fresh Apples", "Produce", 45, 15, "store1", "C1"),
		seedItem(6, "Chicken Breast", "Meat", 3, 8, "store1", "C2"),
		seedItem(7, "Frozen Pizza", "Frozen", 18, 10, "store1", "D1"),
		seedItem(8, "Cheddar Cheese", "Dairy", 7, 12, "store1", "D2"),
	}
	for _, storeID := range []string{"store2", "store3", "store4"} {
		for i, entry := range catalogue {
			id := len(state.Inventory) + 1
			state.Inventory = append(state.Inventory,
				seedItem(id, entry.product, entry.category, stock[storeID][i], entry.min, storeID, entry.location))
		}
	}

	state.Orders = []Order{
		seedOrder("ORD-7801", "Metro Supermarket", 15, "345.78", enums.OrderStatusPending, "", "store1", "2023-06-01",
			seedProduct(1, "Fresh Milk", 5, false, "2.99"),
			seedProduct(2, "Organic Eggs", 2, false, "4.99"),
			seedProduct(3, "Whole Wheat Bread", 3, false, "3.49")),
		seedOrder("ORD-7802", "Fresh Mart", 8, "124.50", enums.OrderStatusAssigned, "John Smith", "store1", "2023-06-02",
			seedProduct(4, "Premium Coffee", 2, false, "12.99"),
			seedProduct(5, "Fresh Apples", 4, false, "1.99"),
			seedProduct(6, "Chicken Breast", 2, false, "8.99")),
		seedOrder("ORD-7803", "Corner Grocers", 23, "567.20", enums.OrderStatusPicking, "Maria Garcia", "store1", "2023-06-03",
			seedProduct(7, "Frozen Pizza", 3, true, "5.99"),
			seedProduct(8, "Cheddar Cheese", 1, false, "4.49")),
		seedOrder("ORD-7804", "Organica Foods", 12, "289.99", enums.OrderStatusPacking, "Robert Johnson", "store1", "2023-06-04",
			seedProduct(9, "Fresh Milk", 3, true, "2.99"),
			seedProduct(10, "Organic Eggs", 2, true, "4.99")),
		seedOrder("ORD-7805", "Health Store", 5, "87.65", enums.OrderStatusReady, "Maria Garcia", "store1", "2023-06-05",
			seedProduct(11, "Premium Coffee", 1, true, "12.99"),
			seedProduct(12, "Fresh Apples", 2, true, "1.99")),
		seedOrder("ORD-7806", "Metro Supermarket", 10, "245.30", enums.OrderStatusPending, "", "store2", "2023-06-03",
			seedProduct(13, "Fresh Milk", 4, false, "2.99"),
			seedProduct(14, "Organic Eggs", 3, false, "4.99")),
		seedOrder("ORD-7807", "Fresh Mart", 7, "178.45", enums.OrderStatusPicking, "Lisa Brown", "store2", "2023-06-04",
			seedProduct(15, "Premium Coffee", 2, true, "12.99"),
			seedProduct(16, "Whole Wheat Bread", 3, false, "3.49")),
		seedOrder("ORD-7808", "Corner Grocers", 14, "312.80", enums.OrderStatusPicking, "Sarah Wilson", "store3", "2023-06-02",
			seedProduct(17, "Fresh Milk", 5, true, "2.99"),
			seedProduct(18, "Organic Eggs", 2, false, "4.99")),
		seedOrder("ORD-7809", "Organica Foods", 9, "195.60", enums.OrderStatusPacking, "Michael Clark", "store3", "2023-06-03",
			seedProduct(19, "Whole Wheat Bread", 4, true, "3.49"),
			seedProduct(20, "Premium Coffee", 1, true, "12.99")),
		seedOrder("ORD-7810", "Health Store", 6, "134.25", enums.OrderStatusPending, "", "store4", "2023-06-05",
			seedProduct(21, "Fresh Milk", 3, false, "2.99"),
			seedProduct(22, "Organic Eggs", 2, false, "4.99")),
	}

	state.Deliveries = []Delivery{
		{ID: "DEL-9231", Retailer: "Metro Supermarket", Address: "123 Main St, Downtown", Driver: "David Lee", Items: 8,
			Status: enums.DeliveryStatusEnRoute, ETA: "10:30 AM", PickupLocation: "Downtown Store", Store: "Downtown Store"},
		{ID: "DEL-9232", Retailer: "Fresh Mart", Address: "456 Oak Ave, Westside", Driver: "Amanda Clark", Items: 5,
			Status: enums.DeliveryStatusPickedUp, ETA: "11:15 AM", PickupLocation: "Westside Location", Store: "Westside Location"},
		{ID: "DEL-9233", Retailer: "Corner Grocers", Address: "789 Pine Rd, East End", Items: 12,
			Status: enums.DeliveryStatusPreparing, PickupLocation: "East End Dark Store", PickupTime: "11:00 AM", Store: "East End Dark Store"},
		{ID: "DEL-9234", Retailer: "Organica Foods", Address: "567 Maple Dr, North Mall", Items: 7,
			Status: enums.DeliveryStatusPreparing, PickupLocation: "North Mall Store", PickupTime: "01:30 PM", Store: "North Mall Store"},
		{ID: "DEL-9228", Retailer: "Health Foods", Address: "234 Cedar Ln, Downtown", Driver: "Jennifer White", Items: 9,
			Status: enums.DeliveryStatusDelivered, CompletedAt: "Yesterday, 4:15 PM", Store: "Downtown Store"},
		{ID: "DEL-9229", Retailer: "Quick Mart", Address: "876 Elm St, Westside", Driver: "Robert Johnson", Items: 6,
			Status: enums.DeliveryStatusDelivered, CompletedAt: "Yesterday, 5:30 PM", Store: "Westside Location"},
		{ID: "DEL-9230", Retailer: "Grocery Plus", Address: "345 Birch Ave, North Mall", Driver: "Amanda Clark", Items: 11,
			Status: enums.DeliveryStatusDelivered, CompletedAt: "Today, 9:45 AM", Store: "North Mall Store"},
	}
	return state
}

func seedItem(id int, name, category string, stock, min int, storeID, location string) InventoryItem {
	return InventoryItem{
		ID:       id,
		Product:  name,
		Category: category,
		Stock:    stock,
		Min:      min,
		Status:   StockStatusFor(stock, min),
		Location: location,
		StoreID:  storeID,
	}
}

func seedStaff(id int, name, role string, assigned, completed int, storeID string) Staff {
	return Staff{ID: id, Name: name, Role: role, Assigned: assigned, Completed: completed, StoreID: storeID, Active: true}
}

func seedOrder(id, retailer string, items int, value string, status enums.OrderStatus, assigned, storeID, date string, products ...OrderProduct) Order {
	return Order{
		ID:       id,
		Retailer: retailer,
		Items:    items,
		Value:    decimal.RequireFromString(value),
		Status:   status,
		Assigned: assigned,
		StoreID:  storeID,
		Date:     date,
		Products: products,
		Progress: Progress(products),
	}
}

func seedProduct(id int, name string, quantity int, picked bool, price string) OrderProduct {
	return OrderProduct{ID: id, Name: name, Quantity: quantity, Picked: picked, Price: decimal.RequireFromString(price)}
}
