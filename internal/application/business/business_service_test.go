package business

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockBusinessRepository is a mock implementation of business.BusinessRepository
type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) FindByID(ctx context.Context, id uuid.UUID) (*business.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Business), args.Error(1)
}

func (m *MockBusinessRepository) FindAll(ctx context.Context, filter shared.Filter) ([]business.Business, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]business.Business), args.Error(1)
}

func (m *MockBusinessRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBusinessRepository) ExistsWithIdentity(ctx context.Context, legalName, email, taxNumber string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, legalName, email, taxNumber, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBusinessRepository) Save(ctx context.Context, b *business.Business) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBusinessRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockEmployeeRepository is a mock implementation of business.EmployeeRepository
type MockEmployeeRepository struct {
	mock.Mock
}

func (m *MockEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*business.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*business.Employee, error) {
	args := m.Called(ctx, businessID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindByUsername(ctx context.Context, businessID uuid.UUID, username string) (*business.Employee, error) {
	args := m.Called(ctx, businessID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*business.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]business.Employee, error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).([]business.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) CountForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, businessID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmployeeRepository) ExistsWithIdentity(ctx context.Context, businessID uuid.UUID, username, email, taxNumber, idNumber string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, businessID, username, email, taxNumber, idNumber, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, e *business.Employee) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmployeeRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	args := m.Called(ctx, businessID)
	return args.Error(0)
}

// passthroughTxManager runs the scope inline without a real database
type passthroughTxManager struct{}

func (passthroughTxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordingPurger counts cascade-delete invocations
type recordingPurger struct {
	calls int
	err   error
}

func (p *recordingPurger) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	p.calls++
	return p.err
}

func validCreateRequest() CreateBusinessRequest {
	return CreateBusinessRequest{
		TradeName:    "Corner Bistro",
		LegalName:    "Corner Bistro Kft",
		Email:        "owner@bistro.example",
		TaxNumber:    "HU12345678",
		Subscription: "Premium",
		Owner: CreateOwnerDetail{
			Username: "owner",
			Email:    "owner@bistro.example",
			Password: "sup3rsecret",
		},
	}
}

func TestBusinessServiceCreate(t *testing.T) {
	t.Run("should save the business and its owner together", func(t *testing.T) {
		businessRepo := new(MockBusinessRepository)
		employeeRepo := new(MockEmployeeRepository)
		service := NewBusinessService(businessRepo, employeeRepo, passthroughTxManager{})

		businessRepo.On("ExistsWithIdentity", mock.Anything, "Corner Bistro Kft", "owner@bistro.example", "HU12345678", uuid.Nil).Return(false, nil)
		businessRepo.On("Save", mock.Anything, mock.AnythingOfType("*business.Business")).Return(nil)
		employeeRepo.On("Save", mock.Anything, mock.AnythingOfType("*business.Employee")).Return(nil)

		resp, err := service.Create(context.Background(), validCreateRequest())

		require.NoError(t, err)
		assert.Equal(t, "Premium", resp.Subscription)
		assert.True(t, resp.CommissionRate.Equal(business.TierPremium.CommissionRate()))
		businessRepo.AssertExpectations(t)
		employeeRepo.AssertExpectations(t)
	})

	t.Run("should reject duplicate identity", func(t *testing.T) {
		businessRepo := new(MockBusinessRepository)
		employeeRepo := new(MockEmployeeRepository)
		service := NewBusinessService(businessRepo, employeeRepo, passthroughTxManager{})

		businessRepo.On("ExistsWithIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything, uuid.Nil).Return(true, nil)

		_, err := service.Create(context.Background(), validCreateRequest())

		assert.Error(t, err)
		businessRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestBusinessServiceDelete(t *testing.T) {
	t.Run("should run every purger then delete the business", func(t *testing.T) {
		businessRepo := new(MockBusinessRepository)
		employeeRepo := new(MockEmployeeRepository)
		service := NewBusinessService(businessRepo, employeeRepo, passthroughTxManager{})

		biz, err := business.NewBusiness("Bistro", "Bistro Kft", "a@b.example", "HU1", business.TierFree)
		require.NoError(t, err)

		first := &recordingPurger{}
		second := &recordingPurger{}
		service.RegisterPurgers(first, second)

		businessRepo.On("FindByID", mock.Anything, biz.ID).Return(biz, nil)
		businessRepo.On("Delete", mock.Anything, biz.ID).Return(nil)

		require.NoError(t, service.Delete(context.Background(), biz.ID))

		assert.Equal(t, 1, first.calls)
		assert.Equal(t, 1, second.calls)
		businessRepo.AssertExpectations(t)
		employeeRepo.AssertNotCalled(t, "DeleteForBusiness", mock.Anything, mock.Anything)
	})

	t.Run("a failing purger should abort before the business row goes", func(t *testing.T) {
		businessRepo := new(MockBusinessRepository)
		employeeRepo := new(MockEmployeeRepository)
		service := NewBusinessService(businessRepo, employeeRepo, passthroughTxManager{})

		biz, err := business.NewBusiness("Bistro", "Bistro Kft", "a@b.example", "HU1", business.TierFree)
		require.NoError(t, err)

		failing := &recordingPurger{err: errors.New("orders table locked")}
		service.RegisterPurgers(failing)

		businessRepo.On("FindByID", mock.Anything, biz.ID).Return(biz, nil)

		assert.Error(t, service.Delete(context.Background(), biz.ID))
		businessRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestBusinessServiceQRCode(t *testing.T) {
	t.Run("should upload the image and record the URL", func(t *testing.T) {
		businessRepo := new(MockBusinessRepository)
		employeeRepo := new(MockEmployeeRepository)
		service := NewBusinessService(businessRepo, employeeRepo, passthroughTxManager{})
		service.SetQRCodeStorage(fakeStorage{url: "https://cdn.example/qr.png"})

		biz, err := business.NewBusiness("Bistro", "Bistro Kft", "a@b.example", "HU1", business.TierFree)
		require.NoError(t, err)
		loc, err := biz.AddSalesLocation("Table 1", business.LocationTable, true)
		require.NoError(t, err)

		businessRepo.On("FindByID", mock.Anything, biz.ID).Return(biz, nil)
		businessRepo.On("Save", mock.Anything, biz).Return(nil)

		resp, err := service.UploadLocationQRCode(context.Background(), biz.ID, loc.ID, []byte{0x89, 0x50}, "image/png")

		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example/qr.png", resp.QRCodeURL)
	})

	t.Run("should fail without configured storage", func(t *testing.T) {
		businessRepo := new(MockBusinessRepository)
		employeeRepo := new(MockEmployeeRepository)
		service := NewBusinessService(businessRepo, employeeRepo, passthroughTxManager{})

		_, err := service.UploadLocationQRCode(context.Background(), uuid.New(), uuid.New(), []byte{1}, "image/png")

		assert.Error(t, err)
	})
}

type fakeStorage struct {
	url string
}

func (f fakeStorage) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	return f.url, nil
}

func (f fakeStorage) Delete(ctx context.Context, key string) error {
	return nil
}
