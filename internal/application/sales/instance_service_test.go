package sales

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type instanceFixture struct {
	service      *InstanceService
	instanceRepo *MockInstanceRepository
	orderRepo    *MockOrderRepository
	businessID   uuid.UUID
}

func newInstanceFixture(t *testing.T) *instanceFixture {
	t.Helper()
	instanceRepo := new(MockInstanceRepository)
	orderRepo := new(MockOrderRepository)
	return &instanceFixture{
		service:      NewInstanceService(instanceRepo, orderRepo, nil, passthroughTxManager{}),
		instanceRepo: instanceRepo,
		orderRepo:    orderRepo,
		businessID:   uuid.New(),
	}
}

func (f *instanceFixture) instance(t *testing.T) *sales.SalesInstance {
	t.Helper()
	instance, err := sales.NewSalesInstance(f.businessID, uuid.New(), uuid.New(), 20260115, sales.InstanceOccupied, 2)
	require.NoError(t, err)
	return instance
}

func (f *instanceFixture) attachedOrder(t *testing.T, instance *sales.SalesInstance, batchCode string) *sales.Order {
	t.Helper()
	order, err := sales.NewOrder(f.businessID, instance.ID, uuid.New(), batchCode, 20260115, []sales.OrderItemInput{{
		BusinessGoodID: uuid.New(),
		Name:           "Dish",
		Quantity:       decimal.NewFromInt(1),
		UnitPrice:      decimal.NewFromInt(20),
		UnitCostPrice:  decimal.NewFromInt(5),
	}})
	require.NoError(t, err)
	require.NoError(t, instance.AttachOrder(batchCode, order.ID))
	return order
}

func TestInstanceServiceTransferGroup(t *testing.T) {
	t.Run("should move an open group and re-point its orders", func(t *testing.T) {
		f := newInstanceFixture(t)
		source := f.instance(t)
		target := f.instance(t)
		order := f.attachedOrder(t, source, "B-001")

		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, source.ID).Return(source, nil)
		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, target.ID).Return(target, nil)
		f.orderRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, order.ID).Return(order, nil)
		f.orderRepo.On("Save", mock.Anything, order).Return(nil)
		f.instanceRepo.On("Save", mock.Anything, source).Return(nil)
		f.instanceRepo.On("Save", mock.Anything, target).Return(nil)

		err := f.service.TransferGroup(context.Background(), f.businessID, source.ID, TransferGroupRequest{
			TargetInstanceID: target.ID,
			BatchCode:        "B-001",
		})

		require.NoError(t, err)
		assert.Equal(t, target.ID, order.SalesInstanceID)
		assert.True(t, source.IsEmpty())
		assert.Len(t, target.OrderRefs(), 1)
	})

	t.Run("should reject a group containing a settled order", func(t *testing.T) {
		f := newInstanceFixture(t)
		source := f.instance(t)
		target := f.instance(t)
		order := f.attachedOrder(t, source, "B-001")
		require.NoError(t, order.Pay([]valueobject.Payment{{
			Type:   valueobject.PaymentTypeCash,
			Branch: "Cash",
			Amount: decimal.NewFromInt(20),
		}}))

		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, source.ID).Return(source, nil)
		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, target.ID).Return(target, nil)
		f.orderRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, order.ID).Return(order, nil)

		err := f.service.TransferGroup(context.Background(), f.businessID, source.ID, TransferGroupRequest{
			TargetInstanceID: target.ID,
			BatchCode:        "B-001",
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ORDER_NOT_OPEN", domainErr.Code)
		assert.Equal(t, source.ID, order.SalesInstanceID)
		f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("should refuse transferring onto the same instance", func(t *testing.T) {
		f := newInstanceFixture(t)
		source := f.instance(t)

		err := f.service.TransferGroup(context.Background(), f.businessID, source.ID, TransferGroupRequest{
			TargetInstanceID: source.ID,
			BatchCode:        "B-001",
		})

		assert.Error(t, err)
		f.instanceRepo.AssertNotCalled(t, "FindByIDForBusiness", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInstanceServiceClose(t *testing.T) {
	t.Run("an unbilled order should block the close", func(t *testing.T) {
		f := newInstanceFixture(t)
		instance := f.instance(t)
		f.attachedOrder(t, instance, "B-001")

		f.instanceRepo.On("FindByIDForBusiness", mock.Anything, f.businessID, instance.ID).Return(instance, nil)
		f.orderRepo.On("CountOpenByInstance", mock.Anything, f.businessID, instance.ID).Return(int64(1), nil)

		_, err := f.service.Close(context.Background(), f.businessID, instance.ID, uuid.New())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPEN_ORDERS", domainErr.Code)
		assert.False(t, instance.IsClosed())
	})
}
