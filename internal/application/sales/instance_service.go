package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/report"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
)

// DefaultAbandonedAfterMinutes is how long an empty open instance may idle
// before the garbage collector closes it.
const DefaultAbandonedAfterMinutes = 120

// InstanceService handles sales instance lifecycle: opening, transfers
// between instances, closing and garbage collection of abandoned ones.
type InstanceService struct {
	instanceRepo sales.SalesInstanceRepository
	orderRepo    sales.OrderRepository
	businessRepo business.BusinessRepository
	txManager    shared.TransactionManager
	rolloverHour int
}

// NewInstanceService creates a new InstanceService
func NewInstanceService(
	instanceRepo sales.SalesInstanceRepository,
	orderRepo sales.OrderRepository,
	businessRepo business.BusinessRepository,
	txManager shared.TransactionManager,
) *InstanceService {
	return &InstanceService{
		instanceRepo: instanceRepo,
		orderRepo:    orderRepo,
		businessRepo: businessRepo,
		txManager:    txManager,
		rolloverHour: report.DefaultRolloverHour,
	}
}

// SetRolloverHour overrides the hour at which a business day rolls over
func (s *InstanceService) SetRolloverHour(hour int) {
	if hour >= 0 && hour < 24 {
		s.rolloverHour = hour
	}
}

// Open starts a sales instance at one of the business's sales locations
func (s *InstanceService) Open(ctx context.Context, businessID, userID uuid.UUID, req OpenInstanceRequest) (*SalesInstanceResponse, error) {
	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if _, err := biz.FindSalesLocation(req.SalesLocationID); err != nil {
		return nil, shared.NewDomainError("UNKNOWN_LOCATION", "The sales location does not exist")
	}

	dailyRef := report.DailyRefFor(time.Now(), s.rolloverHour)
	instance, err := sales.NewSalesInstance(businessID, req.SalesLocationID, userID, dailyRef, sales.InstanceStatus(req.Status), req.Covers)
	if err != nil {
		return nil, err
	}
	if err := s.instanceRepo.Save(ctx, instance); err != nil {
		return nil, err
	}
	resp := ToSalesInstanceResponse(instance)
	return &resp, nil
}

// GetByID retrieves a sales instance of the business
func (s *InstanceService) GetByID(ctx context.Context, businessID, instanceID uuid.UUID) (*SalesInstanceResponse, error) {
	instance, err := s.instanceRepo.FindByIDForBusiness(ctx, businessID, instanceID)
	if err != nil {
		return nil, err
	}
	resp := ToSalesInstanceResponse(instance)
	return &resp, nil
}

// ListOpen retrieves every non-closed instance of the business
func (s *InstanceService) ListOpen(ctx context.Context, businessID uuid.UUID) ([]SalesInstanceResponse, error) {
	instances, err := s.instanceRepo.FindOpen(ctx, businessID)
	if err != nil {
		return nil, err
	}
	out := make([]SalesInstanceResponse, 0, len(instances))
	for _, si := range instances {
		out = append(out, ToSalesInstanceResponse(si))
	}
	return out, nil
}

// ChangeResponsible reassigns the employee serving the instance
func (s *InstanceService) ChangeResponsible(ctx context.Context, businessID, instanceID uuid.UUID, req ChangeResponsibleRequest) (*SalesInstanceResponse, error) {
	instance, err := s.instanceRepo.FindByIDForBusiness(ctx, businessID, instanceID)
	if err != nil {
		return nil, err
	}
	if err := instance.ChangeResponsible(req.ResponsibleUserID); err != nil {
		return nil, err
	}
	if err := s.instanceRepo.Save(ctx, instance); err != nil {
		return nil, err
	}
	resp := ToSalesInstanceResponse(instance)
	return &resp, nil
}

// TransferGroup moves one batch-code group of orders to another instance.
// Every order in the group must still be billing-open; the orders are
// re-pointed and both instances update atomically.
func (s *InstanceService) TransferGroup(ctx context.Context, businessID, sourceID uuid.UUID, req TransferGroupRequest) error {
	if sourceID == req.TargetInstanceID {
		return shared.NewDomainError("INVALID_TRANSFER", "Source and target instance are the same")
	}
	source, err := s.instanceRepo.FindByIDForBusiness(ctx, businessID, sourceID)
	if err != nil {
		return err
	}
	target, err := s.instanceRepo.FindByIDForBusiness(ctx, businessID, req.TargetInstanceID)
	if err != nil {
		return err
	}

	orderIDs, err := source.TakeGroup(req.BatchCode)
	if err != nil {
		return err
	}
	if err := target.ReceiveGroup(req.BatchCode, orderIDs); err != nil {
		return err
	}

	return s.txManager.Transaction(ctx, func(ctx context.Context) error {
		for _, orderID := range orderIDs {
			order, err := s.orderRepo.FindByIDForBusiness(ctx, businessID, orderID)
			if err != nil {
				return err
			}
			// Settled orders are part of their instance's history and
			// never move.
			if !order.IsOpen() {
				return shared.NewDomainError("ORDER_NOT_OPEN", "Only open orders can be transferred")
			}
			order.SalesInstanceID = target.ID
			order.Touch()
			if err := s.orderRepo.Save(ctx, order); err != nil {
				return err
			}
		}
		if err := s.instanceRepo.Save(ctx, source); err != nil {
			return err
		}
		return s.instanceRepo.Save(ctx, target)
	})
}

// Close finalizes an instance. Every attached order must be billed first;
// a single open order blocks the close.
func (s *InstanceService) Close(ctx context.Context, businessID, instanceID, closedBy uuid.UUID) (*SalesInstanceResponse, error) {
	instance, err := s.instanceRepo.FindByIDForBusiness(ctx, businessID, instanceID)
	if err != nil {
		return nil, err
	}
	openCount, err := s.orderRepo.CountOpenByInstance(ctx, businessID, instanceID)
	if err != nil {
		return nil, err
	}
	if openCount > 0 {
		return nil, shared.NewDomainError("OPEN_ORDERS", "The instance still has unbilled orders")
	}
	if err := instance.Close(closedBy); err != nil {
		return nil, err
	}
	if err := s.instanceRepo.Save(ctx, instance); err != nil {
		return nil, err
	}
	resp := ToSalesInstanceResponse(instance)
	return &resp, nil
}

// CloseAbandoned closes empty open instances that have idled past the
// cutoff. Run periodically; returns how many instances were closed.
func (s *InstanceService) CloseAbandoned(ctx context.Context, businessID, closedBy uuid.UUID, olderThanMinutes int) (int, error) {
	if olderThanMinutes <= 0 {
		olderThanMinutes = DefaultAbandonedAfterMinutes
	}
	instances, err := s.instanceRepo.FindEmptyOpenOlderThan(ctx, businessID, olderThanMinutes)
	if err != nil {
		return 0, err
	}
	closed := 0
	for _, instance := range instances {
		if !instance.IsEmpty() {
			continue
		}
		if err := instance.Close(closedBy); err != nil {
			continue
		}
		if err := s.instanceRepo.Save(ctx, instance); err != nil {
			return closed, err
		}
		closed++
	}
	return closed, nil
}
