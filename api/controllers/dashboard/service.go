package dashboard

import (
	"context"
	"net/http"

	"github.com/angelmondragon/darkstore-backend/api/middleware"
	"github.com/angelmondragon/darkstore-backend/api/responses"
	dashsvc "github.com/angelmondragon/darkstore-backend/internal/dashboard"
	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
)

// Service is the dashboard surface the handlers need; *dashsvc.Service satisfies it.
type Service interface {
	Stats() ops.Stats
	Stores() []ops.Store
	Alerts() []ops.LowStockAlert
	Inventory(storeID string) []ops.InventoryItem
	Staff(storeID string) []ops.Staff
	Orders(storeID string) []ops.Order
	PendingOrders() []ops.Order
	AssignedOrders(staffName string) []ops.Order
	Order(id string) (ops.Order, error)
	Deliveries(view dashsvc.DeliveryView) ([]ops.Delivery, error)
	Cart(owner string) []ops.CartItem

	AddInventoryItem(ctx context.Context, item ops.InventoryItem) (ops.InventoryItem, error)
	UpdateInventoryItem(ctx context.Context, id int, patch ops.InventoryPatch) (ops.InventoryItem, error)
	RemoveInventoryItem(ctx context.Context, id int) error
	RequestRestock(ctx context.Context, id int) (ops.InventoryItem, error)

	AddStaffMember(ctx context.Context, member ops.Staff) (ops.Staff, error)
	UpdateStaffMember(ctx context.Context, id int, patch ops.StaffPatch) (ops.Staff, error)
	RemoveStaffMember(ctx context.Context, id int) error

	CreateOrder(ctx context.Context, details ops.OrderDetails) (ops.Order, error)
	UpdateOrder(ctx context.Context, id string, patch ops.OrderPatch) (ops.Order, bool, error)
	AssignOrder(ctx context.Context, id, staffName string) (ops.Order, error)
	CompleteOrder(ctx context.Context, id string) (ops.CompleteResult, error)
	ChangeStatus(ctx context.Context, id string, status enums.OrderStatus) (ops.Order, error)
	Scan(ctx context.Context, code, orderID string) (ops.ScanResult, error)

	AddDelivery(ctx context.Context, delivery ops.Delivery) (ops.Delivery, error)
	UpdateDelivery(ctx context.Context, id string, patch ops.DeliveryPatch) (ops.Delivery, error)

	AddToCart(ctx context.Context, owner string, item ops.CartItem) ([]ops.CartItem, error)
	UpdateCartItem(ctx context.Context, owner string, id, quantity int) ([]ops.CartItem, error)
	RemoveFromCart(ctx context.Context, owner string, id int) ([]ops.CartItem, error)
	ClearCart(ctx context.Context, owner string) error
	PlaceOrder(ctx context.Context, owner, retailer string) (ops.Order, error)
}

var _ Service = (*dashsvc.Service)(nil)

func unavailable(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
}

// cartOwner keys carts by the authenticated user.
func cartOwner(r *http.Request) (string, error) {
	owner := middleware.UserIDFromContext(r.Context())
	if owner == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context")
	}
	return owner, nil
}
