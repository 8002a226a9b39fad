package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of sales.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*sales.Order, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]sales.Order, error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).([]sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByInstance(ctx context.Context, businessID, instanceID uuid.UUID) ([]*sales.Order, error) {
	args := m.Called(ctx, businessID, instanceID)
	return args.Get(0).([]*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByDailyReference(ctx context.Context, businessID uuid.UUID, dailyRef int64) ([]*sales.Order, error) {
	args := m.Called(ctx, businessID, dailyRef)
	return args.Get(0).([]*sales.Order), args.Error(1)
}

func (m *MockOrderRepository) CountOpenByInstance(ctx context.Context, businessID, instanceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, businessID, instanceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, o *sales.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	args := m.Called(ctx, businessID)
	return args.Error(0)
}

// MockInstanceRepository is a mock implementation of sales.SalesInstanceRepository
type MockInstanceRepository struct {
	mock.Mock
}

func (m *MockInstanceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.SalesInstance, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*sales.SalesInstance, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SalesInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.SalesInstance, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sales.SalesInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]sales.SalesInstance, error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).([]sales.SalesInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindOpenByLocation(ctx context.Context, businessID, locationID uuid.UUID) ([]*sales.SalesInstance, error) {
	args := m.Called(ctx, businessID, locationID)
	return args.Get(0).([]*sales.SalesInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindOpen(ctx context.Context, businessID uuid.UUID) ([]*sales.SalesInstance, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).([]*sales.SalesInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindByDailyReference(ctx context.Context, businessID uuid.UUID, dailyRef int64) ([]*sales.SalesInstance, error) {
	args := m.Called(ctx, businessID, dailyRef)
	return args.Get(0).([]*sales.SalesInstance), args.Error(1)
}

func (m *MockInstanceRepository) FindEmptyOpenOlderThan(ctx context.Context, businessID uuid.UUID, minutes int) ([]*sales.SalesInstance, error) {
	args := m.Called(ctx, businessID, minutes)
	return args.Get(0).([]*sales.SalesInstance), args.Error(1)
}

func (m *MockInstanceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInstanceRepository) Save(ctx context.Context, si *sales.SalesInstance) error {
	args := m.Called(ctx, si)
	return args.Error(0)
}

func (m *MockInstanceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInstanceRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	args := m.Called(ctx, businessID)
	return args.Error(0)
}

// stubGoodRepo serves business goods from a map
type stubGoodRepo struct {
	catalog.BusinessGoodRepository
	goods map[uuid.UUID]*catalog.BusinessGood
}

func (s *stubGoodRepo) FindByIDForBusiness(_ context.Context, _, id uuid.UUID) (*catalog.BusinessGood, error) {
	if g, ok := s.goods[id]; ok {
		return g, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubGoodRepo) FindByIDs(_ context.Context, _ uuid.UUID, ids []uuid.UUID) ([]catalog.BusinessGood, error) {
	out := make([]catalog.BusinessGood, 0, len(ids))
	for _, id := range ids {
		if g, ok := s.goods[id]; ok {
			out = append(out, *g)
		}
	}
	return out, nil
}

// stubSupplierGoodRepo serves supplier goods from a map
type stubSupplierGoodRepo struct {
	catalog.SupplierGoodRepository
	goods map[uuid.UUID]*catalog.SupplierGood
}

func (s *stubSupplierGoodRepo) FindByIDForBusiness(_ context.Context, _, id uuid.UUID) (*catalog.SupplierGood, error) {
	if g, ok := s.goods[id]; ok {
		return g, nil
	}
	return nil, shared.ErrNotFound
}

// stubInventoryRepo keeps the inventory document in memory
type stubInventoryRepo struct {
	inventory.InventoryRepository
	inv   *inventory.Inventory
	saves int
}

func (s *stubInventoryRepo) FindByBusiness(_ context.Context, _ uuid.UUID) (*inventory.Inventory, error) {
	if s.inv == nil {
		return nil, shared.ErrNotFound
	}
	return s.inv, nil
}

func (s *stubInventoryRepo) Save(_ context.Context, inv *inventory.Inventory) error {
	s.inv = inv
	s.saves++
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type orderFixture struct {
	service        *OrderService
	orderRepo      *MockOrderRepository
	instanceRepo   *MockInstanceRepository
	inventoryRepo  *stubInventoryRepo
	businessID     uuid.UUID
	goodID         uuid.UUID
	supplierGoodID uuid.UUID
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	businessID := uuid.New()

	flour, err := catalog.NewSupplierGood(businessID, uuid.New(), "Flour", valueobject.UnitKilogram, decimal.NewFromInt(2), nil)
	require.NoError(t, err)

	pasta, err := catalog.NewBusinessGood(businessID, "Pasta", "mains", decimal.NewFromInt(12), []catalog.IngredientInput{{
		SupplierGoodID: flour.ID,
		Quantity:       decimal.RequireFromString("0.2"),
		Unit:           valueobject.UnitKilogram,
	}}, nil)
	require.NoError(t, err)
	pasta.SetDerived(decimal.RequireFromString("0.4"), nil)

	orderRepo := new(MockOrderRepository)
	instanceRepo := new(MockInstanceRepository)
	goodRepo := &stubGoodRepo{goods: map[uuid.UUID]*catalog.BusinessGood{pasta.ID: pasta}}
	supplierRepo := &stubSupplierGoodRepo{goods: map[uuid.UUID]*catalog.SupplierGood{flour.ID: flour}}
	inventoryRepo := &stubInventoryRepo{}

	service := NewOrderService(orderRepo, instanceRepo, goodRepo, supplierRepo, nil, inventoryRepo, passthroughTxManager{})

	return &orderFixture{
		service:        service,
		orderRepo:      orderRepo,
		instanceRepo:   instanceRepo,
		inventoryRepo:  inventoryRepo,
		businessID:     businessID,
		goodID:         pasta.ID,
		supplierGoodID: flour.ID,
	}
}

func (f *orderFixture) openInstance(t *testing.T) *sales.SalesInstance {
	t.Helper()
	instance, err := sales.NewSalesInstance(f.businessID, uuid.New(), uuid.New(), 20260115, sales.InstanceOccupied, 2)
	require.NoError(t, err)
	return instance
}

func TestOrderServiceCreate(t *testing.T) {
	t.Run("should snapshot prices, attach to the instance and consume stock", func(t *testing.T) {
		f := newOrderFixture(t)
		instance := f.openInstance(t)

		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, instance.ID).Return(instance, nil)
		f.orderRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Order")).Return(nil)
		f.instanceRepo.On("Save", mock.Anything, instance).Return(nil)

		resp, err := f.service.Create(context.Background(), f.businessID, uuid.New(), CreateOrderRequest{
			SalesInstanceID: instance.ID,
			BatchCode:       "B-001",
			Items:           []OrderItemRequest{{BusinessGoodID: f.goodID, Quantity: decimal.NewFromInt(2)}},
		})

		require.NoError(t, err)
		assert.True(t, resp.GrossPrice.Equal(decimal.NewFromInt(24)))
		assert.Len(t, instance.OrderRefs(), 1)
		// two portions at 0.2 kg of flour each
		require.NotNil(t, f.inventoryRepo.inv)
		assert.True(t, f.inventoryRepo.inv.CountOf(f.supplierGoodID).Equal(decimal.RequireFromString("-0.4")))
	})

	t.Run("should reject unknown goods", func(t *testing.T) {
		f := newOrderFixture(t)
		instance := f.openInstance(t)
		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, instance.ID).Return(instance, nil)

		_, err := f.service.Create(context.Background(), f.businessID, uuid.New(), CreateOrderRequest{
			SalesInstanceID: instance.ID,
			BatchCode:       "B-001",
			Items:           []OrderItemRequest{{BusinessGoodID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
		})

		assert.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should reject closed instances", func(t *testing.T) {
		f := newOrderFixture(t)
		instance := f.openInstance(t)
		require.NoError(t, instance.Close(uuid.New()))
		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, instance.ID).Return(instance, nil)

		_, err := f.service.Create(context.Background(), f.businessID, uuid.New(), CreateOrderRequest{
			SalesInstanceID: instance.ID,
			BatchCode:       "B-001",
			Items:           []OrderItemRequest{{BusinessGoodID: f.goodID, Quantity: decimal.NewFromInt(1)}},
		})

		assert.Error(t, err)
	})
}

func TestOrderServiceCancel(t *testing.T) {
	makeAttachedOrder := func(t *testing.T, f *orderFixture, instance *sales.SalesInstance) *sales.Order {
		t.Helper()
		order, err := sales.NewOrder(f.businessID, instance.ID, uuid.New(), "B-001", 20260115, []sales.OrderItemInput{{
			BusinessGoodID: f.goodID,
			Name:           "Pasta",
			Quantity:       decimal.NewFromInt(2),
			UnitPrice:      decimal.NewFromInt(12),
			UnitCostPrice:  decimal.RequireFromString("0.4"),
		}})
		require.NoError(t, err)
		require.NoError(t, instance.AttachOrder("B-001", order.ID))
		return order
	}

	t.Run("should restore stock and remove the order", func(t *testing.T) {
		f := newOrderFixture(t)
		instance := f.openInstance(t)
		order := makeAttachedOrder(t, f, instance)

		// stock already consumed when the order was rung up
		inv, err := inventory.NewInventory(f.businessID)
		require.NoError(t, err)
		require.NoError(t, inv.ApplyDelta(f.supplierGoodID, decimal.RequireFromString("-0.4"), valueobject.UnitKilogram))
		f.inventoryRepo.inv = inv

		f.orderRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, order.ID).Return(order, nil)
		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, instance.ID).Return(instance, nil)
		f.instanceRepo.On("Save", mock.Anything, instance).Return(nil)
		f.orderRepo.On("Delete", mock.Anything, order.ID).Return(nil)

		require.NoError(t, f.service.Cancel(context.Background(), f.businessID, order.ID))

		assert.True(t, f.inventoryRepo.inv.CountOf(f.supplierGoodID).IsZero())
		assert.True(t, instance.IsEmpty())
		f.orderRepo.AssertExpectations(t)
	})

	t.Run("should refuse once the kitchen started", func(t *testing.T) {
		f := newOrderFixture(t)
		instance := f.openInstance(t)
		order := makeAttachedOrder(t, f, instance)
		require.NoError(t, order.SetOrderStatus(sales.OrderStarted))

		inv, err := inventory.NewInventory(f.businessID)
		require.NoError(t, err)
		require.NoError(t, inv.ApplyDelta(f.supplierGoodID, decimal.RequireFromString("-0.4"), valueobject.UnitKilogram))
		f.inventoryRepo.inv = inv

		f.orderRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, order.ID).Return(order, nil)

		assert.Error(t, f.service.Cancel(context.Background(), f.businessID, order.ID))
		// inventory untouched
		assert.True(t, f.inventoryRepo.inv.CountOf(f.supplierGoodID).Equal(decimal.RequireFromString("-0.4")))
		f.orderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestOrderServicePay(t *testing.T) {
	makeOrder := func(t *testing.T, f *orderFixture, instance *sales.SalesInstance) *sales.Order {
		t.Helper()
		order, err := sales.NewOrder(f.businessID, instance.ID, uuid.New(), "B-001", 20260115, []sales.OrderItemInput{{
			BusinessGoodID: f.goodID,
			Name:           "Pasta",
			Quantity:       decimal.NewFromInt(1),
			UnitPrice:      decimal.NewFromInt(50),
			UnitCostPrice:  decimal.NewFromInt(10),
		}})
		require.NoError(t, err)
		require.NoError(t, instance.AttachOrder("B-001", order.ID))
		return order
	}

	t.Run("surplus should land in tips and net stays", func(t *testing.T) {
		f := newOrderFixture(t)
		instance := f.openInstance(t)
		order := makeOrder(t, f, instance)

		f.orderRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, order.ID).Return(order, nil)
		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, instance.ID).Return(instance, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)
		f.orderRepo.On("CountOpenByInstance", mock.Anything, f.businessID, instance.ID).Return(int64(0), nil)
		f.instanceRepo.On("Save", mock.Anything, instance).Return(nil)

		resp, err := f.service.Pay(context.Background(), f.businessID, order.ID, PayOrderRequest{
			Payments: []PaymentRequest{
				{Type: "Cash", Branch: "Cash", Amount: decimal.NewFromInt(30)},
				{Type: "Card", Branch: "Visa", Amount: decimal.NewFromInt(25)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "Paid", resp.BillingStatus)
		assert.True(t, resp.NetPrice.Equal(decimal.NewFromInt(50)))
		assert.True(t, resp.Tips.Equal(decimal.NewFromInt(5)))
	})

	t.Run("paying the last open order should close the instance", func(t *testing.T) {
		f := newOrderFixture(t)
		instance := f.openInstance(t)
		order := makeOrder(t, f, instance)

		f.orderRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, order.ID).Return(order, nil)
		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, instance.ID).Return(instance, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)
		f.orderRepo.On("CountOpenByInstance", mock.Anything, f.businessID, instance.ID).Return(int64(0), nil)
		f.instanceRepo.On("Save", mock.Anything, instance).Return(nil)

		_, err := f.service.Pay(context.Background(), f.businessID, order.ID, PayOrderRequest{
			Payments: []PaymentRequest{{Type: "Cash", Branch: "Cash", Amount: decimal.NewFromInt(50)}},
		})

		require.NoError(t, err)
		assert.True(t, instance.IsClosed())
		f.instanceRepo.AssertExpectations(t)
	})

	t.Run("the instance stays open while other orders are unbilled", func(t *testing.T) {
		f := newOrderFixture(t)
		instance := f.openInstance(t)
		order := makeOrder(t, f, instance)

		f.orderRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, order.ID).Return(order, nil)
		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, instance.ID).Return(instance, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)
		f.orderRepo.On("CountOpenByInstance", mock.Anything, f.businessID, instance.ID).Return(int64(1), nil)

		_, err := f.service.Pay(context.Background(), f.businessID, order.ID, PayOrderRequest{
			Payments: []PaymentRequest{{Type: "Cash", Branch: "Cash", Amount: decimal.NewFromInt(50)}},
		})

		require.NoError(t, err)
		assert.False(t, instance.IsClosed())
		f.instanceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("voiding the last open order should close the instance", func(t *testing.T) {
		f := newOrderFixture(t)
		instance := f.openInstance(t)
		order := makeOrder(t, f, instance)

		f.orderRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, order.ID).Return(order, nil)
		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, instance.ID).Return(instance, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)
		f.orderRepo.On("CountOpenByInstance", mock.Anything, f.businessID, instance.ID).Return(int64(0), nil)
		f.instanceRepo.On("Save", mock.Anything, instance).Return(nil)

		_, err := f.service.Void(context.Background(), f.businessID, order.ID, CommentRequest{Comment: "kitchen mistake"})

		require.NoError(t, err)
		assert.True(t, instance.IsClosed())
	})
}

func TestOrderServiceSetStatus(t *testing.T) {
	t.Run("billing statuses are rejected as kitchen statuses", func(t *testing.T) {
		f := newOrderFixture(t)

		_, err := f.service.SetStatus(context.Background(), f.businessID, uuid.New(), OrderStatusRequest{Status: "Paid"})

		assert.Error(t, err)
		f.orderRepo.AssertNotCalled(t, "FindByIDForBusiness", mock.Anything, mock.Anything, mock.Anything)
	})
}
