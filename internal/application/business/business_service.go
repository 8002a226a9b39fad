package business

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/shared"
)

// QRCodeStorage stores sales-location QR code images in blob storage and
// returns their public URL.
type QRCodeStorage interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Purger deletes one bounded context's per-business records. Deleting a
// business walks every registered purger inside a single transaction.
type Purger interface {
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}

// BusinessService handles business registration and lifecycle
type BusinessService struct {
	businessRepo business.BusinessRepository
	employeeRepo business.EmployeeRepository
	qrStorage    QRCodeStorage
	txManager    shared.TransactionManager
	purgers      []Purger
}

// NewBusinessService creates a new BusinessService
func NewBusinessService(
	businessRepo business.BusinessRepository,
	employeeRepo business.EmployeeRepository,
	txManager shared.TransactionManager,
) *BusinessService {
	return &BusinessService{
		businessRepo: businessRepo,
		employeeRepo: employeeRepo,
		txManager:    txManager,
	}
}

// SetQRCodeStorage wires blob storage for location QR codes (optional)
func (s *BusinessService) SetQRCodeStorage(storage QRCodeStorage) {
	s.qrStorage = storage
}

// RegisterPurgers wires the per-context cleaners the cascade delete runs
func (s *BusinessService) RegisterPurgers(purgers ...Purger) {
	s.purgers = append(s.purgers, purgers...)
}

// Create registers a business and its owner account in one transaction
func (s *BusinessService) Create(ctx context.Context, req CreateBusinessRequest) (*BusinessResponse, error) {
	exists, err := s.businessRepo.ExistsWithIdentity(ctx, req.LegalName, req.Email, req.TaxNumber, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_BUSINESS", "A business with this legal name, email or tax number already exists")
	}

	biz, err := business.NewBusiness(req.TradeName, req.LegalName, req.Email, req.TaxNumber, business.SubscriptionTier(req.Subscription))
	if err != nil {
		return nil, err
	}
	biz.Phone = req.Phone
	biz.Address = business.Address{
		Country:    req.Address.Country,
		City:       req.Address.City,
		Street:     req.Address.Street,
		PostalCode: req.Address.PostalCode,
	}

	owner, err := business.NewEmployee(biz.ID, req.Owner.Username, req.Owner.Email, req.Owner.Password, business.Roles{business.RoleOwner})
	if err != nil {
		return nil, err
	}

	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.businessRepo.Save(ctx, biz); err != nil {
			return err
		}
		return s.employeeRepo.Save(ctx, owner)
	})
	if err != nil {
		return nil, err
	}

	resp := ToBusinessResponse(biz)
	return &resp, nil
}

// GetByID retrieves a business
func (s *BusinessService) GetByID(ctx context.Context, businessID uuid.UUID) (*BusinessResponse, error) {
	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	resp := ToBusinessResponse(biz)
	return &resp, nil
}

// List retrieves businesses with pagination
func (s *BusinessService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[BusinessResponse], error) {
	items, err := s.businessRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.businessRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]BusinessResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToBusinessResponse(&items[i]))
	}
	out := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &out, nil
}

// Update changes mutable business fields
func (s *BusinessService) Update(ctx context.Context, businessID uuid.UUID, req UpdateBusinessRequest) (*BusinessResponse, error) {
	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if req.TradeName != nil {
		biz.TradeName = *req.TradeName
	}
	if req.Phone != nil {
		biz.Phone = *req.Phone
	}
	if req.Address != nil {
		biz.Address = business.Address{
			Country:    req.Address.Country,
			City:       req.Address.City,
			Street:     req.Address.Street,
			PostalCode: req.Address.PostalCode,
		}
	}
	biz.Touch()
	if err := s.businessRepo.Save(ctx, biz); err != nil {
		return nil, err
	}
	resp := ToBusinessResponse(biz)
	return &resp, nil
}

// ChangeSubscription switches the business's tier, which changes the
// commission rate applied from the next daily report on
func (s *BusinessService) ChangeSubscription(ctx context.Context, businessID uuid.UUID, req ChangeSubscriptionRequest) (*BusinessResponse, error) {
	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if err := biz.ChangeSubscription(business.SubscriptionTier(req.Tier)); err != nil {
		return nil, err
	}
	if err := s.businessRepo.Save(ctx, biz); err != nil {
		return nil, err
	}
	resp := ToBusinessResponse(biz)
	return &resp, nil
}

// AddSalesLocation adds a named sales location to the business
func (s *BusinessService) AddSalesLocation(ctx context.Context, businessID uuid.UUID, req AddSalesLocationRequest) (*SalesLocationResponse, error) {
	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	loc, err := biz.AddSalesLocation(req.ReferenceName, business.SalesLocationType(req.Type), req.SelfOrdering)
	if err != nil {
		return nil, err
	}
	if err := s.businessRepo.Save(ctx, biz); err != nil {
		return nil, err
	}
	return &SalesLocationResponse{
		ID:            loc.ID,
		ReferenceName: loc.ReferenceName,
		Type:          string(loc.Type),
		SelfOrdering:  loc.SelfOrdering,
		QRCodeURL:     loc.QRCodeURL,
	}, nil
}

// RemoveSalesLocation deletes a sales location
func (s *BusinessService) RemoveSalesLocation(ctx context.Context, businessID, locationID uuid.UUID) error {
	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return err
	}
	if err := biz.RemoveSalesLocation(locationID); err != nil {
		return err
	}
	return s.businessRepo.Save(ctx, biz)
}

// UploadLocationQRCode stores a QR code image for a self-ordering location
// and records its URL on the location.
func (s *BusinessService) UploadLocationQRCode(ctx context.Context, businessID, locationID uuid.UUID, image []byte, contentType string) (*SalesLocationResponse, error) {
	if s.qrStorage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "QR code storage is not configured")
	}
	if len(image) == 0 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "QR code image cannot be empty")
	}
	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if _, err := biz.FindSalesLocation(locationID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("qr-codes/%s/%s", businessID, locationID)
	url, err := s.qrStorage.Upload(ctx, key, image, contentType)
	if err != nil {
		return nil, err
	}
	if err := biz.SetLocationQRCode(locationID, url); err != nil {
		return nil, err
	}
	if err := s.businessRepo.Save(ctx, biz); err != nil {
		return nil, err
	}

	loc, err := biz.FindSalesLocation(locationID)
	if err != nil {
		return nil, err
	}
	return &SalesLocationResponse{
		ID:            loc.ID,
		ReferenceName: loc.ReferenceName,
		Type:          string(loc.Type),
		SelfOrdering:  loc.SelfOrdering,
		QRCodeURL:     loc.QRCodeURL,
	}, nil
}

// Deactivate marks the business inactive without removing its data
func (s *BusinessService) Deactivate(ctx context.Context, businessID uuid.UUID) error {
	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return err
	}
	biz.Deactivate()
	return s.businessRepo.Save(ctx, biz)
}

// Delete removes the business and all its records. Every registered purger
// runs inside one transaction, so a half-deleted business never survives.
func (s *BusinessService) Delete(ctx context.Context, businessID uuid.UUID) error {
	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return err
	}
	return s.txManager.Transaction(ctx, func(ctx context.Context) error {
		for _, purger := range s.purgers {
			if err := purger.DeleteForBusiness(ctx, businessID); err != nil {
				return err
			}
		}
		return s.businessRepo.Delete(ctx, biz.ID)
	})
}
