package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/darkstore-backend/internal/ops"
	"github.com/angelmondragon/darkstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/darkstore-backend/pkg/errors"
	"github.com/angelmondragon/darkstore-backend/pkg/logger"
	"github.com/angelmondragon/darkstore-backend/pkg/metrics"
)

const persistTimeout = 3 * time.Second

// DeliveryView selects a slice of the delivery board.
type DeliveryView string

const (
	DeliveriesAll       DeliveryView = ""
	DeliveriesActive    DeliveryView = "active"
	DeliveriesUpcoming  DeliveryView = "upcoming"
	DeliveriesCompleted DeliveryView = "completed"
)

// ServiceParams wires the dashboard service.
type ServiceParams struct {
	Store    SnapshotStore
	Logger   *logger.Logger
	Metrics  *metrics.DashboardMetrics
	Env      ops.Env
	SeedDemo bool
}

// Service owns the live dashboard snapshot. Mutations run one at a time and
// swap in the reducer's result only when it succeeds.
type Service struct {
	mu       sync.RWMutex
	state    ops.State
	store    SnapshotStore
	logg     *logger.Logger
	metrics  *metrics.DashboardMetrics
	env      ops.Env
	seedDemo bool
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	return &Service{
		state:    ops.State{Carts: map[string][]ops.CartItem{}},
		store:    params.Store,
		logg:     params.Logger,
		metrics:  params.Metrics,
		env:      params.Env,
		seedDemo: params.SeedDemo,
	}, nil
}

// Load restores the last snapshot, falling back to demo data or an empty board.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		state, ok, err := s.store.Load(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard snapshot")
		}
		if ok {
			s.state = state
			s.metrics.SetLowStockAlerts(len(state.LowStockAlerts()))
			s.logg.Info(ctx, "dashboard snapshot restored")
			return nil
		}
	}
	if s.seedDemo {
		s.state = ops.Seed()
		s.logg.Info(ctx, "dashboard seeded with demo data")
	}
	s.metrics.SetLowStockAlerts(len(s.state.LowStockAlerts()))
	s.persist(ctx, s.state)
	return nil
}

// Snapshot returns the current state. Callers must treat it as read-only.
func (s *Service) Snapshot() ops.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Flush writes the current snapshot to the store.
func (s *Service) Flush(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	state := s.Snapshot()
	if err := s.store.Save(ctx, state); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "flush dashboard snapshot")
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, op string, reduce func(ops.State) (ops.State, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.state
	next, err := reduce(prev)
	if err != nil {
		return err
	}
	s.state = next
	s.observe(prev, next)
	s.logg.Debug(s.logg.WithField(ctx, "op", op), "dashboard mutation applied")
	s.persist(ctx, next)
	return nil
}

func (s *Service) persist(ctx context.Context, state ops.State) {
	if s.store == nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := s.store.Save(writeCtx, state); err != nil {
		s.metrics.IncPersistFailure()
		s.logg.Error(ctx, "dashboard snapshot write failed", err)
	}
}

func (s *Service) observe(prev, next ops.State) {
	before := make(map[string]enums.OrderStatus, len(prev.Orders))
	for _, order := range prev.Orders {
		before[order.ID] = order.Status
	}
	for _, order := range next.Orders {
		if from, ok := before[order.ID]; ok {
			s.metrics.ObserveTransition(from.String(), order.Status.String())
		}
	}
	s.metrics.SetLowStockAlerts(len(next.LowStockAlerts()))
}

func (s *Service) Stats() ops.Stats {
	return s.Snapshot().Stats()
}

func (s *Service) Stores() []ops.Store {
	return s.Snapshot().StoreViews()
}

func (s *Service) Alerts() []ops.LowStockAlert {
	return s.Snapshot().LowStockAlerts()
}

func (s *Service) Inventory(storeID string) []ops.InventoryItem {
	return s.Snapshot().StoreInventory(storeID)
}

func (s *Service) Staff(storeID string) []ops.Staff {
	return s.Snapshot().StoreStaff(storeID)
}

func (s *Service) Orders(storeID string) []ops.Order {
	return s.Snapshot().StoreOrders(storeID)
}

func (s *Service) PendingOrders() []ops.Order {
	return s.Snapshot().PendingOrders()
}

func (s *Service) AssignedOrders(staffName string) []ops.Order {
	return s.Snapshot().AssignedOrders(staffName)
}

func (s *Service) Order(id string) (ops.Order, error) {
	order, ok := s.Snapshot().Order(id)
	if !ok {
		return ops.Order{}, pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
	}
	return order, nil
}

func (s *Service) Deliveries(view DeliveryView) ([]ops.Delivery, error) {
	state := s.Snapshot()
	switch view {
	case DeliveriesAll:
		return append([]ops.Delivery{}, state.Deliveries...), nil
	case DeliveriesActive:
		return state.ActiveDeliveries(), nil
	case DeliveriesUpcoming:
		return state.UpcomingDeliveries(), nil
	case DeliveriesCompleted:
		return state.CompletedDeliveries(), nil
	default:
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown delivery view %q", view)
	}
}

func (s *Service) Cart(owner string) []ops.CartItem {
	return s.Snapshot().Cart(owner)
}
