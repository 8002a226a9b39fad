package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPurchaseRepository is a mock implementation of inventory.PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*inventory.Purchase, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Purchase, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]inventory.Purchase, error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).([]inventory.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindByPeriod(ctx context.Context, businessID uuid.UUID, from, to time.Time) ([]*inventory.Purchase, error) {
	args := m.Called(ctx, businessID, from, to)
	return args.Get(0).([]*inventory.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindBySupplier(ctx context.Context, businessID, supplierID uuid.UUID) ([]*inventory.Purchase, error) {
	args := m.Called(ctx, businessID, supplierID)
	return args.Get(0).([]*inventory.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseRepository) Save(ctx context.Context, p *inventory.Purchase) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPurchaseRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	args := m.Called(ctx, businessID)
	return args.Error(0)
}

// stubInventoryRepo keeps the inventory document in memory
type stubInventoryRepo struct {
	inventory.InventoryRepository
	inv *inventory.Inventory
}

func (s *stubInventoryRepo) FindByBusiness(_ context.Context, _ uuid.UUID) (*inventory.Inventory, error) {
	if s.inv == nil {
		return nil, shared.ErrNotFound
	}
	return s.inv, nil
}

func (s *stubInventoryRepo) Save(_ context.Context, inv *inventory.Inventory) error {
	s.inv = inv
	return nil
}

type stubSupplierRepo struct {
	catalog.SupplierRepository
	suppliers map[uuid.UUID]*catalog.Supplier
}

func (s *stubSupplierRepo) FindByIDForBusiness(_ context.Context, _, id uuid.UUID) (*catalog.Supplier, error) {
	if sup, ok := s.suppliers[id]; ok {
		return sup, nil
	}
	return nil, shared.ErrNotFound
}

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

type passthroughTxManager struct{}

func (passthroughTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type inventoryFixture struct {
	service       *InventoryService
	purchaseRepo  *MockPurchaseRepository
	inventoryRepo *stubInventoryRepo
	businessID    uuid.UUID
	supplierID    uuid.UUID
	flourID       uuid.UUID
	oilID         uuid.UUID
}

func newInventoryFixture(t *testing.T) *inventoryFixture {
	t.Helper()
	businessID := uuid.New()

	supplier, err := catalog.NewSupplier(businessID, "Mill & Co")
	require.NoError(t, err)
	flour, err := catalog.NewSupplierGood(businessID, supplier.ID, "Flour", valueobject.UnitKilogram, decimal.NewFromInt(2), nil)
	require.NoError(t, err)
	oil, err := catalog.NewSupplierGood(businessID, supplier.ID, "Olive oil", valueobject.UnitLiter, decimal.NewFromInt(8), nil)
	require.NoError(t, err)

	purchaseRepo := new(MockPurchaseRepository)
	inventoryRepo := &stubInventoryRepo{}
	supplierRepo := &stubSupplierRepo{suppliers: map[uuid.UUID]*catalog.Supplier{supplier.ID: supplier}}
	goodRepo := &stubSupplierGoodRepo{goods: map[uuid.UUID]*catalog.SupplierGood{flour.ID: flour, oil.ID: oil}}

	service := NewInventoryService(inventoryRepo, purchaseRepo, supplierRepo, goodRepo, passthroughTxManager{})

	return &inventoryFixture{
		service:       service,
		purchaseRepo:  purchaseRepo,
		inventoryRepo: inventoryRepo,
		businessID:    businessID,
		supplierID:    supplier.ID,
		flourID:       flour.ID,
		oilID:         oil.ID,
	}
}

func TestInventoryServiceRecordPurchase(t *testing.T) {
	t.Run("should save the purchase and raise the counts together", func(t *testing.T) {
		f := newInventoryFixture(t)
		f.purchaseRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.Purchase")).Return(nil)

		resp, err := f.service.RecordPurchase(context.Background(), f.businessID, uuid.New(), RecordPurchaseRequest{
			SupplierID: f.supplierID,
			Lines: []PurchaseLineRequest{
				{SupplierGoodID: f.flourID, Quantity: decimal.NewFromInt(10), Unit: "kg", UnitPrice: decimal.NewFromInt(2)},
				{SupplierGoodID: f.oilID, Quantity: decimal.NewFromInt(5), Unit: "l", UnitPrice: decimal.NewFromInt(8)},
			},
		})

		require.NoError(t, err)
		assert.True(t, resp.TotalCost.Equal(decimal.NewFromInt(60)))
		require.NotNil(t, f.inventoryRepo.inv)
		assert.True(t, f.inventoryRepo.inv.CountOf(f.flourID).Equal(decimal.NewFromInt(10)))
		assert.True(t, f.inventoryRepo.inv.CountOf(f.oilID).Equal(decimal.NewFromInt(5)))
		f.purchaseRepo.AssertExpectations(t)
	})

	t.Run("should convert purchase units into the tracked unit", func(t *testing.T) {
		f := newInventoryFixture(t)
		f.purchaseRepo.On("Save", mock.Anything, mock.AnythingOfType("*inventory.Purchase")).Return(nil)

		// first delivery in kilograms fixes the tracked unit
		_, err := f.service.RecordPurchase(context.Background(), f.businessID, uuid.New(), RecordPurchaseRequest{
			SupplierID: f.supplierID,
			Lines:      []PurchaseLineRequest{{SupplierGoodID: f.flourID, Quantity: decimal.NewFromInt(2), Unit: "kg", UnitPrice: decimal.NewFromInt(2)}},
		})
		require.NoError(t, err)

		_, err = f.service.RecordPurchase(context.Background(), f.businessID, uuid.New(), RecordPurchaseRequest{
			SupplierID: f.supplierID,
			Lines:      []PurchaseLineRequest{{SupplierGoodID: f.flourID, Quantity: decimal.NewFromInt(500), Unit: "g", UnitPrice: decimal.RequireFromString("0.002")}},
		})
		require.NoError(t, err)

		assert.True(t, f.inventoryRepo.inv.CountOf(f.flourID).Equal(decimal.RequireFromString("2.5")))
	})

	t.Run("should reject unknown suppliers without booking anything", func(t *testing.T) {
		f := newInventoryFixture(t)

		_, err := f.service.RecordPurchase(context.Background(), f.businessID, uuid.New(), RecordPurchaseRequest{
			SupplierID: uuid.New(),
			Lines:      []PurchaseLineRequest{{SupplierGoodID: f.flourID, Quantity: decimal.NewFromInt(1), Unit: "kg", UnitPrice: decimal.NewFromInt(2)}},
		})

		assert.Error(t, err)
		assert.Nil(t, f.inventoryRepo.inv)
		f.purchaseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should reject unknown supplier goods", func(t *testing.T) {
		f := newInventoryFixture(t)

		_, err := f.service.RecordPurchase(context.Background(), f.businessID, uuid.New(), RecordPurchaseRequest{
			SupplierID: f.supplierID,
			Lines:      []PurchaseLineRequest{{SupplierGoodID: uuid.New(), Quantity: decimal.NewFromInt(1), Unit: "kg", UnitPrice: decimal.NewFromInt(2)}},
		})

		assert.Error(t, err)
		f.purchaseRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestInventoryServiceManualCount(t *testing.T) {
	t.Run("should overwrite the dynamic count and record the drift", func(t *testing.T) {
		f := newInventoryFixture(t)
		inv, err := inventory.NewInventory(f.businessID)
		require.NoError(t, err)
		require.NoError(t, inv.ApplyDelta(f.flourID, decimal.NewFromInt(10), valueobject.UnitKilogram))
		f.inventoryRepo.inv = inv

		resp, err := f.service.RecordManualCount(context.Background(), f.businessID, ManualCountRequest{
			SupplierGoodID: f.flourID,
			Counted:        decimal.RequireFromString("9.2"),
			Unit:           "kg",
		})

		require.NoError(t, err)
		require.Len(t, resp.Items, 1)
		assert.True(t, resp.Items[0].DynamicSystemCount.Equal(decimal.RequireFromString("9.2")))
		require.NotNil(t, resp.Items[0].LastCountDrift)
		assert.True(t, resp.Items[0].LastCountDrift.Equal(decimal.RequireFromString("-0.8")))
	})
}

func TestInventoryServiceGet(t *testing.T) {
	t.Run("should return an empty document when nothing is tracked", func(t *testing.T) {
		f := newInventoryFixture(t)

		resp, err := f.service.Get(context.Background(), f.businessID)

		require.NoError(t, err)
		assert.Empty(t, resp.Items)
	})
}
