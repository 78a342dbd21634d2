package ops

import (
	"strings"

	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
)

// StockStatusFor derives the health of a line: Critical below half the
// minimum, Low below the minimum, OK otherwise.
func StockStatusFor(stock, min int) enums.StockStatus {
	switch {
	case stock*2 < min:
		return enums.StockStatusCritical
	case stock < min:
		return enums.StockStatusLow
	default:
		return enums.StockStatusOK
	}
}

// InventoryPatch carries the fields to change; nil fields are left alone.
type InventoryPatch struct {
	Product  *string
	Category *string
	Stock    *int
	Min      *int
	Location *string
	StoreID  *string
}

// AddInventoryItem appends item with the next free id and a derived status.
func (s State) AddInventoryItem(item InventoryItem) (State, InventoryItem, error) {
	if err := validateInventory(item); err != nil {
		return s, InventoryItem{}, err
	}
	next := s.Clone()
	item.ID = nextInventoryID(next.Inventory)
	item.Status = StockStatusFor(item.Stock, item.Min)
	next.Inventory = append(next.Inventory, item)
	return next, item, nil
}

// UpdateInventoryItem merges patch into the item and recomputes its status.
func (s State) UpdateInventoryItem(id int, patch InventoryPatch) (State, InventoryItem, error) {
	idx := s.inventoryIndex(id)
	if idx < 0 {
		return s, InventoryItem{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "inventory item %d not found", id)
	}
	next := s.Clone()
	item := next.Inventory[idx]
	if patch.Product != nil {
		item.Product = *patch.Product
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Stock != nil {
		item.Stock = *patch.Stock
	}
	if patch.Min != nil {
		item.Min = *patch.Min
	}
	if patch.Location != nil {
		item.Location = *patch.Location
	}
	if patch.StoreID != nil {
		item.StoreID = *patch.StoreID
	}
	if err := validateInventory(item); err != nil {
		return s, InventoryItem{}, err
	}
	item.Status = StockStatusFor(item.Stock, item.Min)
	next.Inventory[idx] = item
	return next, item, nil
}

// RemoveInventoryItem drops the line from the catalogue.
func (s State) RemoveInventoryItem(id int) (State, error) {
	idx := s.inventoryIndex(id)
	if idx < 0 {
		return s, pkgerrors.Newf(pkgerrors.CodeNotFound, "inventory item %d not found", id)
	}
	next := s.Clone()
	next.Inventory = append(next.Inventory[:idx], next.Inventory[idx+1:]...)
	return next, nil
}

// RequestRestock tops the line up by one and a half times its minimum, rounded up.
func (s State) RequestRestock(id int) (State, InventoryItem, error) {
	item, ok := s.InventoryItem(id)
	if !ok {
		return s, InventoryItem{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "inventory item %d not found", id)
	}
	stock := item.Stock + restockAmount(item.Min)
	return s.UpdateInventoryItem(id, InventoryPatch{Stock: &stock})
}

func restockAmount(min int) int {
	return (3*min + 1) / 2
}

func (s *State) decrementStock(id int, storeID string, quantity int) {
	for i := range s.Inventory {
		item := &s.Inventory[i]
		if item.ID != id || item.StoreID != storeID {
			continue
		}
		item.Stock = max(item.Stock-quantity, 0)
		item.Status = StockStatusFor(item.Stock, item.Min)
	}
}

func validateInventory(item InventoryItem) error {
	switch {
	case strings.TrimSpace(item.Product) == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "product is required")
	case item.Stock < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	case item.Min < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "min must not be negative")
	}
	return nil
}

func nextInventoryID(items []InventoryItem) int {
	highest := 0
	for _, item := range items {
		highest = max(highest, item.ID)
	}
	return highest + 1
}
