package ops

import (
	"strings"

	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const guestRetailer = "Guest Retailer"

// Cart returns a copy of the owner's cart lines.
func (s State) Cart(owner string) []CartItem {
	items := cloneSlice(s.Carts[owner])
	if items == nil {
		return []CartItem{}
	}
	return items
}

// AddToCart adds one unit of product to the owner's cart.
func (s State) AddToCart(owner string, product CartItem) (State, []CartItem, error) {
	if product.ID <= 0 {
		return s, nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if product.Price.IsNegative() {
		return s, nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	next := s.Clone()
	items := next.Carts[owner]
	found := false
	for i := range items {
		if items[i].ID == product.ID {
			items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		product.Quantity = 1
		items = append(items, product)
	}
	next.Carts[owner] = items
	return next, next.Cart(owner), nil
}

// UpdateCartItem sets the line quantity; zero or less removes the line.
func (s State) UpdateCartItem(owner string, id, quantity int) (State, []CartItem, error) {
	if quantity <= 0 {
		return s.RemoveFromCart(owner, id)
	}
	next := s.Clone()
	items := next.Carts[owner]
	for i := range items {
		if items[i].ID == id {
			items[i].Quantity = quantity
			return next, next.Cart(owner), nil
		}
	}
	return s, nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "cart item %d not found", id)
}

func (s State) RemoveFromCart(owner string, id int) (State, []CartItem, error) {
	next := s.Clone()
	items := next.Carts[owner]
	kept := items[:0]
	for _, item := range items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	if len(kept) == 0 {
		delete(next.Carts, owner)
	} else {
		next.Carts[owner] = kept
	}
	return next, next.Cart(owner), nil
}

func (s State) ClearCart(owner string) State {
	next := s.Clone()
	delete(next.Carts, owner)
	return next
}

// PlaceOrder turns the owner's cart into a pending order, takes the
// quantities out of inventory and empties the cart.
func (s State) PlaceOrder(env Env, owner, retailer string) (State, Order, error) {
	items := s.Carts[owner]
	if len(items) == 0 {
		return s, Order{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if strings.TrimSpace(retailer) == "" {
		retailer = guestRetailer
	}

	totalItems := 0
	totalValue := decimal.Zero
	products := make([]OrderProduct, 0, len(items))
	for _, item := range items {
		totalItems += item.Quantity
		totalValue = totalValue.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		products = append(products, OrderProduct{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	next, order, err := s.CreateOrder(env, OrderDetails{
		Retailer: retailer,
		StoreID:  env.defaultStore(),
		Status:   enums.OrderStatusPending,
		Items:    totalItems,
		Value:    totalValue,
		Products: products,
	})
	if err != nil {
		return s, Order{}, err
	}
	for _, item := range items {
		storeID := item.StoreID
		if storeID == "" {
			storeID = env.defaultStore()
		}
		next.decrementStock(item.ID, storeID, item.Quantity)
	}
	delete(next.Carts, owner)
	return next, order, nil
}
