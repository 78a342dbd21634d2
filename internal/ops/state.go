package ops

import (
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// InventoryItem is one stocked product line in a store.
type InventoryItem struct {
	ID       int               `json:"id"`
	Product  string            `json:"product"`
	Category string            `json:"category"`
	Stock    int               `json:"stock"`
	Min      int               `json:"min"`
	Status   enums.StockStatus `json:"status"`
	Location string            `json:"location,omitempty"`
	StoreID  string            `json:"store_id"`
}

// Staff is a picker, packer or other floor worker.
type Staff struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Assigned  int    `json:"assigned"`
	Completed int    `json:"completed"`
	StoreID   string `json:"store_id"`
	Active    bool   `json:"active"`
}

// OrderProduct is a line of an order as seen by pickers.
type OrderProduct struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Picked   bool            `json:"picked"`
	Price    decimal.Decimal `json:"price"`
}

// Order is a retailer order moving through the fulfilment lifecycle.
type Order struct {
	ID       string            `json:"id"`
	Retailer string            `json:"retailer"`
	Items    int               `json:"items"`
	Value    decimal.Decimal   `json:"value"`
	Status   enums.OrderStatus `json:"status"`
	Assigned string            `json:"assigned"`
	StoreID  string            `json:"store_id"`
	Date     string            `json:"date"`
	Products []OrderProduct    `json:"products"`
	Progress int               `json:"progress"`
}

// Store is a dark store location. Alerts is filled in by StoreViews.
type Store struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Manager  string `json:"manager"`
	Orders   int    `json:"orders"`
	Stock    int    `json:"stock"`
	Alerts   int    `json:"alerts"`
	Location string `json:"location"`
}

// LowStockAlert is derived from inventory and never stored.
type LowStockAlert struct {
	ID      int               `json:"id"`
	Product string            `json:"product"`
	Store   string            `json:"store"`
	Current int               `json:"current"`
	Minimum int               `json:"minimum"`
	Status  enums.StockStatus `json:"status"`
}

// Delivery is the hand-off of a ready order to a driver.
type Delivery struct {
	ID             string               `json:"id"`
	OrderID        string               `json:"order_id,omitempty"`
	Retailer       string               `json:"retailer"`
	Driver         string               `json:"driver"`
	Store          string               `json:"store"`
	Status         enums.DeliveryStatus `json:"status"`
	ETA            string               `json:"eta,omitempty"`
	Address        string               `json:"address,omitempty"`
	Items          int                  `json:"items,omitempty"`
	PickupLocation string               `json:"pickup_location,omitempty"`
	PickupTime     string               `json:"pickup_time,omitempty"`
	CompletedAt    string               `json:"completed_at,omitempty"`
}

// CartItem is a retailer's pending selection. Stock is a snapshot taken when added.
type CartItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Quantity int             `json:"quantity"`
	StoreID  string          `json:"store_id,omitempty"`
}

// State is an immutable snapshot of the operations dashboard. Every reducer
// returns a new State and leaves its receiver untouched.
type State struct {
	Inventory  []InventoryItem       `json:"inventory"`
	Staff      []Staff               `json:"staff"`
	Orders     []Order               `json:"orders"`
	Stores     []Store               `json:"stores"`
	Deliveries []Delivery            `json:"deliveries"`
	Carts      map[string][]CartItem `json:"carts"`
}

// Env supplies the inputs reducers must not produce themselves.
type Env struct {
	Now            func() time.Time
	IDs            IDSource
	DefaultStoreID string
}

func (e Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e Env) ids() IDSource {
	if e.IDs == nil {
		return RandomIDs{}
	}
	return e.IDs
}

func (e Env) defaultStore() string {
	if e.DefaultStoreID == "" {
		return DefaultStoreID
	}
	return e.DefaultStoreID
}

// DefaultStoreID receives checkout orders when no store is configured.
const DefaultStoreID = "store1"

// Clone returns a deep copy of the snapshot.
func (s State) Clone() State {
	out := State{
		Inventory:  cloneSlice(s.Inventory),
		Staff:      cloneSlice(s.Staff),
		Orders:     cloneOrders(s.Orders),
		Stores:     cloneSlice(s.Stores),
		Deliveries: cloneSlice(s.Deliveries),
		Carts:      make(map[string][]CartItem, len(s.Carts)),
	}
	for owner, items := range s.Carts {
		out.Carts[owner] = cloneSlice(items)
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

func cloneOrders(in []Order) []Order {
	out := cloneSlice(in)
	for i := range out {
		out[i].Products = cloneSlice(out[i].Products)
	}
	return out
}

func (s State) orderIndex(id string) int {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) inventoryIndex(id int) int {
	for i := range s.Inventory {
		if s.Inventory[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) staffIndex(id int) int {
	for i := range s.Staff {
		if s.Staff[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) deliveryIndex(id string) int {
	for i := range s.Deliveries {
		if s.Deliveries[i].ID == id {
			return i
		}
	}
	return -1
}

func (s State) storeByID(id string) (Store, bool) {
	for _, store := range s.Stores {
		if store.ID == id {
			return store, true
		}
	}
	return Store{}, false
}

// Order returns the order with the given id.
func (s State) Order(id string) (Order, bool) {
	idx := s.orderIndex(id)
	if idx < 0 {
		return Order{}, false
	}
	order := s.Orders[idx]
	order.Products = cloneSlice(order.Products)
	return order, true
}

// InventoryItem returns the inventory line with the given id.
func (s State) InventoryItem(id int) (InventoryItem, bool) {
	idx := s.inventoryIndex(id)
	if idx < 0 {
		return InventoryItem{}, false
	}
	return s.Inventory[idx], true
}

// StaffMember returns the staff member with the given id.
func (s State) StaffMember(id int) (Staff, bool) {
	idx := s.staffIndex(id)
	if idx < 0 {
		return Staff{}, false
	}
	return s.Staff[idx], true
}

// Delivery returns the delivery with the given id.
func (s State) Delivery(id string) (Delivery, bool) {
	idx := s.deliveryIndex(id)
	if idx < 0 {
		return Delivery{}, false
	}
	return s.Deliveries[idx], true
}
