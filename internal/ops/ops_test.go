package ops

import (
	"testing"
	"time"

	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func testEnv() Env {
	return Env{
		Now:            func() time.Time { return fixedNow },
		IDs:            NewSequenceIDs(5000),
		DefaultStoreID: "store1",
	}
}

type queuedIDs struct {
	ids   []string
	calls int
}

func (q *queuedIDs) Next(string) string {
	id := q.ids[min(q.calls, len(q.ids)-1)]
	q.calls++
	return id
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, pkgerrors.CodeOf(err), err.Error())
}

func orderByID(t *testing.T, s State, id string) Order {
	t.Helper()
	order, ok := s.Order(id)
	require.True(t, ok, "order %s missing", id)
	return order
}

func staffByName(t *testing.T, s State, name string) Staff {
	t.Helper()
	for _, member := range s.Staff {
		if member.Name == name {
			return member
		}
	}
	t.Fatalf("staff %s missing", name)
	return Staff{}
}

func TestStockStatusFor(t *testing.T) {
	cases := []struct {
		stock, min int
		want       enums.StockStatus
	}{
		{3, 8, enums.StockStatusCritical},
		{4, 8, enums.StockStatusLow},
		{7, 8, enums.StockStatusLow},
		{8, 8, enums.StockStatusOK},
		{2, 5, enums.StockStatusCritical},
		{3, 5, enums.StockStatusLow},
		{0, 0, enums.StockStatusOK},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StockStatusFor(tc.stock, tc.min), "stock=%d min=%d", tc.stock, tc.min)
	}
}

func TestInventoryStatusTracksEveryMutation(t *testing.T) {
	state, item, err := State{}.AddInventoryItem(InventoryItem{Product: "Chicken Breast", Stock: 3, Min: 8, StoreID: "store1"})
	require.NoError(t, err)
	assert.Equal(t, 1, item.ID)
	assert.Equal(t, enums.StockStatusCritical, item.Status)

	for _, stock := range []int{0, 4, 7, 8, 30} {
		s := stock
		state, item, err = state.UpdateInventoryItem(item.ID, InventoryPatch{Stock: &s})
		require.NoError(t, err)
		assert.Equal(t, StockStatusFor(stock, 8), item.Status)
	}
}

func TestUpdateInventoryItemIsIdempotent(t *testing.T) {
	stock, min := 3, 8
	patch := InventoryPatch{Stock: &stock, Min: &min}

	once, first, err := Seed().UpdateInventoryItem(1, patch)
	require.NoError(t, err)
	twice, second, err := once.UpdateInventoryItem(1, patch)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, once.LowStockAlerts(), twice.LowStockAlerts())
	assert.Equal(t, once.Inventory, twice.Inventory)
}

func TestUpdateInventoryItemRejectsNegativeStock(t *testing.T) {
	stock := -1
	_, _, err := Seed().UpdateInventoryItem(1, InventoryPatch{Stock: &stock})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, _, err = Seed().UpdateInventoryItem(999, InventoryPatch{})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestRemoveInventoryItem(t *testing.T) {
	state, err := Seed().RemoveInventoryItem(6)
	require.NoError(t, err)
	_, ok := state.InventoryItem(6)
	assert.False(t, ok)
	assert.Len(t, state.Inventory, 19)
}

func TestRequestRestockAddsOneAndAHalfMinimum(t *testing.T) {
	state, item, err := Seed().RequestRestock(6)
	require.NoError(t, err)
	assert.Equal(t, 15, item.Stock)
	assert.Equal(t, enums.StockStatusOK, item.Status)

	_, item, err = state.RequestRestock(20)
	require.NoError(t, err)
	assert.Equal(t, 3+8, item.Stock)
}

func TestLowStockAlertsFromSeed(t *testing.T) {
	state := Seed()
	alerts := state.LowStockAlerts()
	require.Len(t, alerts, 9)
	for i, alert := range alerts {
		assert.Equal(t, i+1, alert.ID)
		assert.Less(t, alert.Current, alert.Minimum)
	}
	assert.Equal(t, LowStockAlert{ID: 3, Product: "Chicken Breast", Store: "Downtown Store", Current: 3, Minimum: 8, Status: enums.StockStatusCritical}, alerts[2])

	counts := map[string]int{}
	for _, store := range state.StoreViews() {
		counts[store.ID] = store.Alerts
	}
	assert.Equal(t, map[string]int{"store1": 4, "store2": 1, "store3": 2, "store4": 2}, counts)
}

func TestLowStockAlertFallsBackToStoreID(t *testing.T) {
	state, _, err := State{}.AddInventoryItem(InventoryItem{Product: "Ice", Stock: 0, Min: 4, StoreID: "store9"})
	require.NoError(t, err)
	alerts := state.LowStockAlerts()
	require.Len(t, alerts, 1)
	assert.Equal(t, "store9", alerts[0].Store)
}

func TestProgress(t *testing.T) {
	products := []OrderProduct{{Picked: true}, {Picked: true}, {}}
	assert.Equal(t, 67, Progress(products))
	assert.Equal(t, 0, Progress(nil))
	assert.Equal(t, 13, Progress([]OrderProduct{{Picked: true}, {}, {}, {}, {}, {}, {}, {}}))
}

func TestCreateOrder(t *testing.T) {
	state, order, err := Seed().CreateOrder(testEnv(), OrderDetails{
		Retailer: "Fresh Mart",
		Products: []OrderProduct{
			{Name: "Fresh Milk", Quantity: 2, Price: decimal.RequireFromString("2.99")},
			{Name: "Frozen Pizza", Quantity: 1, Price: decimal.RequireFromString("5.99"), Picked: true},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "ORD-5000", order.ID)
	assert.Equal(t, "2026-03-14", order.Date)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "store1", order.StoreID)
	assert.Equal(t, 3, order.Items)
	assert.True(t, decimal.RequireFromString("11.97").Equal(order.Value), order.Value.String())
	assert.Equal(t, 50, order.Progress)
	assert.Equal(t, 2, order.Products[1].ID)

	store, _ := state.storeByID("store1")
	assert.Equal(t, 146, store.Orders)
	assert.Len(t, state.Orders, 11)
}

func TestCreateOrderRetriesIDCollisions(t *testing.T) {
	env := testEnv()
	env.IDs = &queuedIDs{ids: []string{"ORD-7801", "ORD-7802", "ORD-4242"}}
	_, order, err := Seed().CreateOrder(env, OrderDetails{Retailer: "Fresh Mart"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-4242", order.ID)

	stuck := &queuedIDs{ids: []string{"ORD-7801"}}
	env.IDs = stuck
	_, order, err = Seed().CreateOrder(env, OrderDetails{Retailer: "Fresh Mart"})
	require.NoError(t, err)
	assert.Equal(t, "ORD-7801", order.ID)
	assert.Equal(t, idAttempts, stuck.calls)
}

func TestCreateOrderRequiresRetailer(t *testing.T) {
	_, _, err := Seed().CreateOrder(testEnv(), OrderDetails{})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestUpdateOrderUnknownIDIsNoop(t *testing.T) {
	seed := Seed()
	retailer := "Nobody"
	next, err := seed.UpdateOrder("ORD-0000", OrderPatch{Retailer: &retailer})
	require.NoError(t, err)
	assert.Equal(t, seed, next)
}

func TestUpdateOrderMergesFields(t *testing.T) {
	products := []OrderProduct{{ID: 1, Name: "Fresh Milk", Quantity: 1, Picked: true}, {ID: 2, Name: "Eggs", Quantity: 1}}
	status := enums.OrderStatusPicking
	next, err := Seed().UpdateOrder("ORD-7801", OrderPatch{Products: &products, Status: &status})
	require.NoError(t, err)

	order := orderByID(t, next, "ORD-7801")
	assert.Equal(t, 50, order.Progress)
	assert.Equal(t, enums.OrderStatusPicking, order.Status)
	assert.Equal(t, "Metro Supermarket", order.Retailer)
}

func TestUpdateOrderKeepsTerminalStatus(t *testing.T) {
	delivered := enums.OrderStatusDelivered
	state, err := Seed().UpdateOrder("ORD-7805", OrderPatch{Status: &delivered})
	require.NoError(t, err)

	pending := enums.OrderStatusPending
	_, err = state.UpdateOrder("ORD-7805", OrderPatch{Status: &pending})
	requireCode(t, err, pkgerrors.CodeStateConflict)

	retailer := "Renamed"
	_, err = state.UpdateOrder("ORD-7805", OrderPatch{Status: &delivered, Retailer: &retailer})
	require.NoError(t, err)
}

func TestAssignThenCompleteRestoresWorkload(t *testing.T) {
	env := testEnv()
	seed := Seed()
	before := staffByName(t, seed, "Emily Davis")

	assigned, order, err := seed.AssignOrder("ORD-7801", "Emily Davis")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusAssigned, order.Status)
	assert.Equal(t, "Emily Davis", order.Assigned)
	assert.Equal(t, before.Assigned+1, staffByName(t, assigned, "Emily Davis").Assigned)

	completed, result, err := assigned.CompleteOrder(env, "ORD-7801")
	require.NoError(t, err)
	after := staffByName(t, completed, "Emily Davis")
	assert.Equal(t, before.Assigned, after.Assigned)
	assert.Equal(t, before.Completed+1, after.Completed)
	assert.Equal(t, enums.OrderStatusReady, result.Order.Status)

	require.NotNil(t, result.Delivery)
	assert.Equal(t, Delivery{
		ID:             "DEL-5000",
		OrderID:        "ORD-7801",
		Retailer:       "Metro Supermarket",
		Store:          "Downtown Store",
		Status:         enums.DeliveryStatusPreparing,
		Address:        "Metro Supermarket Address",
		Items:          15,
		PickupLocation: "Downtown Store",
		PickupTime:     "Waiting for pickup",
	}, *result.Delivery)
	assert.Len(t, completed.Deliveries, len(seed.Deliveries)+1)
	assert.Equal(t, enums.OrderStatusReady, orderByID(t, completed, "ORD-7801").Status)
}

func TestAssignOrderMovesWorkloadBetweenStaff(t *testing.T) {
	state, _, err := Seed().AssignOrder("ORD-7802", "David Wilson")
	require.NoError(t, err)
	assert.Equal(t, 0, staffByName(t, state, "John Smith").Assigned)
	assert.Equal(t, 1, staffByName(t, state, "David Wilson").Assigned)
}

func TestAssignOrderErrors(t *testing.T) {
	_, _, err := Seed().AssignOrder("ORD-0000", "John Smith")
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, _, err = Seed().AssignOrder("ORD-7801", " ")
	requireCode(t, err, pkgerrors.CodeValidation)

	_, _, err = Seed().AssignOrder("ORD-7804", "John Smith")
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAssignOrderAcceptsUnknownStaff(t *testing.T) {
	state, order, err := Seed().AssignOrder("ORD-7801", "Temp Worker")
	require.NoError(t, err)
	assert.Equal(t, "Temp Worker", order.Assigned)
	assert.Equal(t, Seed().Staff, state.Staff)
}

func TestCompleteOrderWithoutKnownStoreSkipsDelivery(t *testing.T) {
	env := testEnv()
	state, order, err := State{}.CreateOrder(env, OrderDetails{Retailer: "Fresh Mart", StoreID: "ghost"})
	require.NoError(t, err)

	state, result, err := state.CompleteOrder(env, order.ID)
	require.NoError(t, err)
	assert.Nil(t, result.Delivery)
	assert.Empty(t, state.Deliveries)
}

func TestCompleteOrderRejectsTerminalOrders(t *testing.T) {
	env := testEnv()
	delivered := enums.OrderStatusDelivered
	state, err := Seed().UpdateOrder("ORD-7805", OrderPatch{Status: &delivered})
	require.NoError(t, err)

	_, _, err = state.CompleteOrder(env, "ORD-7805")
	requireCode(t, err, pkgerrors.CodeStateConflict)

	_, _, err = state.CompleteOrder(env, "ORD-0000")
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestCompleteOrderOnlyCreditsOnce(t *testing.T) {
	env := testEnv()
	state, _, err := Seed().AssignOrder("ORD-7801", "Emily Davis")
	require.NoError(t, err)
	state, _, err = state.CompleteOrder(env, "ORD-7801")
	require.NoError(t, err)
	credited := staffByName(t, state, "Emily Davis")

	again, result, err := state.CompleteOrder(env, "ORD-7801")
	requireCode(t, err, pkgerrors.CodeStateConflict)
	assert.Nil(t, result.Delivery)
	assert.Equal(t, credited, staffByName(t, again, "Emily Davis"))
	assert.Len(t, again.Deliveries, len(state.Deliveries))

	shipped := enums.OrderStatusShipped
	state, err = Seed().UpdateOrder("ORD-7802", OrderPatch{Status: &shipped})
	require.NoError(t, err)
	_, _, err = state.CompleteOrder(env, "ORD-7802")
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestChangeStatus(t *testing.T) {
	state, order, err := Seed().ChangeStatus("ORD-7804", enums.OrderStatusReady)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusReady, order.Status)

	_, _, err = state.ChangeStatus("ORD-7804", enums.OrderStatusPicking)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	_, _, err = state.ChangeStatus("ORD-7804", enums.OrderStatus("Lost"))
	requireCode(t, err, pkgerrors.CodeValidation)

	state, _, err = state.ChangeStatus("ORD-7804", enums.OrderStatusReady)
	require.NoError(t, err)

	state, _, err = state.ChangeStatus("ORD-7801", enums.OrderStatusPicked)
	require.NoError(t, err)
	state, _, err = state.ChangeStatus("ORD-7801", enums.OrderStatusCompleted)
	require.NoError(t, err)
	_, _, err = state.ChangeStatus("ORD-7801", enums.OrderStatusCompleted)
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestScanMarksFirstMatch(t *testing.T) {
	seed := Seed()
	state, result, err := seed.Scan("CHEDDAR", "")
	require.NoError(t, err)
	assert.Equal(t, "ORD-7803", result.OrderID)
	assert.Equal(t, "Cheddar Cheese", result.Product.Name)
	assert.True(t, result.Product.Picked)
	assert.Equal(t, 100, result.Progress)
	assert.Equal(t, enums.OrderStatusPacking, result.Status)
	assert.Equal(t, enums.OrderStatusPacking, orderByID(t, state, "ORD-7803").Status)

	assert.False(t, orderByID(t, seed, "ORD-7803").Products[1].Picked)
}

func TestScanProgressScenario(t *testing.T) {
	state, order, err := State{}.CreateOrder(testEnv(), OrderDetails{
		Retailer: "Corner Grocers",
		Status:   enums.OrderStatusPicking,
		Products: []OrderProduct{
			{Name: "Fresh Milk", Quantity: 1},
			{Name: "Organic Eggs", Quantity: 1},
			{Name: "Whole Wheat Bread", Quantity: 1},
		},
	})
	require.NoError(t, err)

	state, result, err := state.Scan("milk", order.ID)
	require.NoError(t, err)
	assert.Equal(t, 33, result.Progress)
	state, result, err = state.Scan("eggs", order.ID)
	require.NoError(t, err)
	assert.Equal(t, 67, result.Progress)
	assert.Equal(t, enums.OrderStatusPicking, result.Status)
	assert.Equal(t, 67, orderByID(t, state, order.ID).Progress)
}

func TestScanErrors(t *testing.T) {
	seed := Seed()

	_, _, err := seed.Scan("   ", "")
	requireCode(t, err, pkgerrors.CodeValidation)

	_, _, err = seed.Scan("milk", "")
	requireCode(t, err, pkgerrors.CodeNotFound)

	_, _, err = seed.Scan("milk", "ORD-0000")
	requireCode(t, err, pkgerrors.CodeNotFound)

	delivered := enums.OrderStatusDelivered
	state, err := seed.UpdateOrder("ORD-7803", OrderPatch{Status: &delivered})
	require.NoError(t, err)
	_, _, err = state.Scan("cheddar", "ORD-7803")
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestRemoveStaffMemberResetsOrders(t *testing.T) {
	state, err := Seed().RemoveStaffMember(2)
	require.NoError(t, err)

	member, ok := state.StaffMember(2)
	require.True(t, ok)
	assert.False(t, member.Active)
	for _, id := range []string{"ORD-7803", "ORD-7805"} {
		order := orderByID(t, state, id)
		assert.Equal(t, enums.OrderStatusPending, order.Status, id)
		assert.Empty(t, order.Assigned, id)
	}
	assert.Len(t, state.StoreStaff("store1"), 4)

	_, err = state.RemoveStaffMember(99)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestAddAndUpdateStaffMember(t *testing.T) {
	state, member, err := Seed().AddStaffMember(Staff{Name: "Nina Patel", Role: "Picker", StoreID: "store2", Assigned: 4})
	require.NoError(t, err)
	assert.Equal(t, Staff{ID: 11, Name: "Nina Patel", Role: "Picker", StoreID: "store2", Active: true}, member)

	role := "Packer"
	_, member, err = state.UpdateStaffMember(11, StaffPatch{Role: &role})
	require.NoError(t, err)
	assert.Equal(t, "Packer", member.Role)

	_, _, err = state.AddStaffMember(Staff{})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCartLines(t *testing.T) {
	milk := CartItem{ID: 1, Name: "Fresh Milk", Price: decimal.RequireFromString("2.99"), Stock: 35}

	state, items, err := State{}.AddToCart("u1", milk)
	require.NoError(t, err)
	state, items, err = state.AddToCart("u1", milk)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Empty(t, state.Cart("u2"))

	state, items, err = state.UpdateCartItem("u1", 1, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, items[0].Quantity)

	_, _, err = state.UpdateCartItem("u1", 42, 1)
	requireCode(t, err, pkgerrors.CodeNotFound)

	state, items, err = state.UpdateCartItem("u1", 1, 0)
	require.NoError(t, err)
	assert.Empty(t, items)

	state, _, _ = state.AddToCart("u1", milk)
	assert.Empty(t, state.ClearCart("u1").Cart("u1"))
}

func TestPlaceOrderScenario(t *testing.T) {
	env := testEnv()
	state := Seed()
	state, _, _ = state.AddToCart("u1", CartItem{ID: 1, Name: "Fresh Milk", Price: decimal.RequireFromString("2.99")})
	state, _, _ = state.AddToCart("u1", CartItem{ID: 1, Name: "Fresh Milk", Price: decimal.RequireFromString("2.99")})
	state, _, _ = state.AddToCart("u1", CartItem{ID: 2, Name: "Organic Eggs", Price: decimal.RequireFromString("5.00")})

	next, order, err := state.PlaceOrder(env, "u1", "")
	require.NoError(t, err)

	assert.True(t, decimal.RequireFromString("10.98").Equal(order.Value), order.Value.String())
	assert.Equal(t, 3, order.Items)
	assert.Equal(t, "Guest Retailer", order.Retailer)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	require.Len(t, order.Products, 2)
	for _, p := range order.Products {
		assert.False(t, p.Picked)
	}
	assert.Empty(t, next.Cart("u1"))
	assert.Len(t, next.Orders, len(state.Orders)+1)

	milk, _ := next.InventoryItem(1)
	eggs, _ := next.InventoryItem(2)
	assert.Equal(t, 33, milk.Stock)
	assert.Equal(t, 11, eggs.Stock)
}

func TestPlaceOrderClampsStockAtZero(t *testing.T) {
	state, _, _ := Seed().AddToCart("u1", CartItem{ID: 6, Name: "Chicken Breast", Price: decimal.RequireFromString("8.99")})
	state, _, _ = state.UpdateCartItem("u1", 6, 10)

	next, _, err := state.PlaceOrder(testEnv(), "u1", "Fresh Mart")
	require.NoError(t, err)
	chicken, _ := next.InventoryItem(6)
	assert.Equal(t, 0, chicken.Stock)
	assert.Equal(t, enums.StockStatusCritical, chicken.Status)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	_, _, err := Seed().PlaceOrder(testEnv(), "u1", "Fresh Mart")
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestDeliveryCompletionClosesReadyOrders(t *testing.T) {
	env := testEnv()
	state, delivery, err := Seed().AddDelivery(env, Delivery{Retailer: "Health Store", Store: "Downtown Store"})
	require.NoError(t, err)
	assert.Equal(t, "DEL-5000", delivery.ID)
	assert.Equal(t, enums.DeliveryStatusPreparing, delivery.Status)

	status := enums.DeliveryStatusDelivered
	state, delivery, err = state.UpdateDelivery(env, delivery.ID, DeliveryPatch{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-14T09:30:00Z", delivery.CompletedAt)
	assert.Equal(t, enums.OrderStatusDelivered, orderByID(t, state, "ORD-7805").Status)
	assert.Equal(t, enums.OrderStatusPending, orderByID(t, state, "ORD-7810").Status)
}

func TestDeliveryErrors(t *testing.T) {
	env := testEnv()
	_, _, err := Seed().AddDelivery(env, Delivery{ID: "DEL-9231", Retailer: "Fresh Mart"})
	requireCode(t, err, pkgerrors.CodeConflict)

	bogus := enums.DeliveryStatus("Lost")
	_, _, err = Seed().UpdateDelivery(env, "DEL-9231", DeliveryPatch{Status: &bogus})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, _, err = Seed().UpdateDelivery(env, "DEL-0000", DeliveryPatch{})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestQueriesAndStats(t *testing.T) {
	state := Seed()

	assert.Len(t, state.StoreInventory("store1"), 8)
	assert.Len(t, state.StoreInventory(""), 20)
	assert.Len(t, state.StoreStaff("store1"), 5)
	assert.Len(t, state.StoreOrders("store1"), 5)
	assert.Len(t, state.AssignedOrders("Maria Garcia"), 2)
	assert.Len(t, state.PendingOrders(), 9)
	assert.Len(t, state.ActiveDeliveries(), 2)
	assert.Len(t, state.UpcomingDeliveries(), 2)
	assert.Len(t, state.CompletedDeliveries(), 3)

	assert.Equal(t, Stats{
		InventoryCount: 335,
		StaffCount:     10,
		OrderCount:     10,
		StoreCount:     4,
		LowStockCount:  9,
		DeliveryCount:  4,
	}, state.Stats())
}

func TestCloneIsDeep(t *testing.T) {
	seed := Seed()
	clone := seed.Clone()
	clone.Orders[0].Products[0].Picked = true
	clone.Inventory[0].Stock = 0
	assert.False(t, seed.Orders[0].Products[0].Picked)
	assert.Equal(t, 35, seed.Inventory[0].Stock)
}
