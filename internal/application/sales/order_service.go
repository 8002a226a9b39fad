package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/report"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderService handles the order lifecycle. Creating and cancelling orders
// adjusts the inventory's dynamic counts in the same transaction, so stock
// and sales never drift apart.
type OrderService struct {
	orderRepo     sales.OrderRepository
	instanceRepo  sales.SalesInstanceRepository
	goodRepo      catalog.BusinessGoodRepository
	supplierRepo  catalog.SupplierGoodRepository
	promotionRepo catalog.PromotionRepository
	inventoryRepo inventory.InventoryRepository
	calculator    *catalog.CostCalculator
	txManager     shared.TransactionManager
	rolloverHour  int
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo sales.OrderRepository,
	instanceRepo sales.SalesInstanceRepository,
	goodRepo catalog.BusinessGoodRepository,
	supplierRepo catalog.SupplierGoodRepository,
	promotionRepo catalog.PromotionRepository,
	inventoryRepo inventory.InventoryRepository,
	txManager shared.TransactionManager,
) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		instanceRepo:  instanceRepo,
		goodRepo:      goodRepo,
		supplierRepo:  supplierRepo,
		promotionRepo: promotionRepo,
		inventoryRepo: inventoryRepo,
		calculator:    catalog.NewCostCalculator(supplierRepo, goodRepo),
		txManager:     txManager,
		rolloverHour:  report.DefaultRolloverHour,
	}
}

// SetRolloverHour overrides the hour at which a business day rolls over
func (s *OrderService) SetRolloverHour(hour int) {
	if hour >= 0 && hour < 24 {
		s.rolloverHour = hour
	}
}

// Create rings up goods on an open sales instance. Prices are snapshotted
// onto the order, stock is consumed, and the order joins its batch group on
// the instance, all atomically.
func (s *OrderService) Create(ctx context.Context, businessID, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	instance, err := s.instanceRepo.FindByIDForBusiness(ctx, businessID, req.SalesInstanceID)
	if err != nil {
		return nil, err
	}
	if instance.IsClosed() {
		return nil, shared.NewDomainError("INSTANCE_CLOSED", "Cannot order on a closed instance")
	}

	items, err := s.buildItems(ctx, businessID, req.Items)
	if err != nil {
		return nil, err
	}

	dailyRef := report.DailyRefFor(time.Now(), s.rolloverHour)
	order, err := sales.NewOrder(businessID, instance.ID, userID, req.BatchCode, dailyRef, items)
	if err != nil {
		return nil, err
	}

	if req.PromotionID != nil {
		if err := s.applyPromotion(ctx, businessID, order, *req.PromotionID); err != nil {
			return nil, err
		}
	}

	if err := instance.AttachOrder(req.BatchCode, order.ID); err != nil {
		return nil, err
	}

	err = s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}
		if err := s.instanceRepo.Save(ctx, instance); err != nil {
			return err
		}
		return s.adjustInventory(ctx, businessID, order, decimal.NewFromInt(-1))
	})
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// buildItems snapshots current catalog prices onto order lines
func (s *OrderService) buildItems(ctx context.Context, businessID uuid.UUID, reqs []OrderItemRequest) ([]sales.OrderItemInput, error) {
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.BusinessGoodID)
	}
	goods, err := s.goodRepo.FindByIDs(ctx, businessID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.BusinessGood, len(goods))
	for i := range goods {
		byID[goods[i].ID] = &goods[i]
	}

	items := make([]sales.OrderItemInput, 0, len(reqs))
	for _, r := range reqs {
		good, ok := byID[r.BusinessGoodID]
		if !ok {
			return nil, shared.NewDomainError("UNKNOWN_GOOD", "A referenced business good does not exist")
		}
		if !good.OnMenu {
			return nil, shared.NewDomainError("GOOD_OFF_MENU", good.Name+" is not on the menu")
		}
		items = append(items, sales.OrderItemInput{
			BusinessGoodID: good.ID,
			Name:           good.Name,
			Quantity:       r.Quantity,
			UnitPrice:      good.SalePrice,
			UnitCostPrice:  good.CostPrice,
		})
	}
	return items, nil
}

// applyPromotion reprices the order's items under a promotion and records it
func (s *OrderService) applyPromotion(ctx context.Context, businessID uuid.UUID, order *sales.Order, promotionID uuid.UUID) error {
	promo, err := s.promotionRepo.FindByIDForBusiness(ctx, businessID, promotionID)
	if err != nil {
		return err
	}
	now := time.Now()
	if !promo.Active || !promo.AppliesAt(now) {
		return shared.NewDomainError("PROMOTION_INACTIVE", "The promotion does not apply right now")
	}

	discountedNet := decimal.Zero
	applied := false
	for _, item := range order.Items {
		lineGross := item.UnitPrice.Mul(item.Quantity)
		if promo.AppliesTo(item.BusinessGoodID) {
			discountedNet = discountedNet.Add(promo.DiscountedPrice(item.UnitPrice).Mul(item.Quantity))
			applied = true
		} else {
			discountedNet = discountedNet.Add(lineGross)
		}
	}
	if !applied {
		return shared.NewDomainError("PROMOTION_MISMATCH", "The promotion covers none of the ordered goods")
	}
	return order.ApplyPromotion(promo.ID, discountedNet)
}

// adjustInventory applies the order's flattened ingredient consumption,
// scaled by sign (-1 consumes, +1 restores).
func (s *OrderService) adjustInventory(ctx context.Context, businessID uuid.UUID, order *sales.Order, sign decimal.Decimal) error {
	consumptions, err := s.calculator.ExpandConsumption(ctx, businessID, order.GoodsQuantities())
	if err != nil {
		return err
	}
	if len(consumptions) == 0 {
		return nil
	}

	inv, err := s.inventoryRepo.FindByBusiness(ctx, businessID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		inv, err = inventory.NewInventory(businessID)
		if err != nil {
			return err
		}
	}

	for _, c := range consumptions {
		supplierGood, err := s.supplierRepo.FindByIDForBusiness(ctx, businessID, c.SupplierGoodID)
		if err != nil {
			return err
		}
		if err := inv.ApplyDelta(c.SupplierGoodID, c.Quantity.Mul(sign), supplierGood.Unit); err != nil {
			return err
		}
	}
	return s.inventoryRepo.Save(ctx, inv)
}

// GetByID retrieves an order of the business
func (s *OrderService) GetByID(ctx context.Context, businessID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForBusiness(ctx, businessID, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// ListByInstance retrieves every order attached to a sales instance
func (s *OrderService) ListByInstance(ctx context.Context, businessID, instanceID uuid.UUID) ([]OrderResponse, error) {
	orders, err := s.orderRepo.FindByInstance(ctx, businessID, instanceID)
	if err != nil {
		return nil, err
	}
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out, nil
}

// Pay settles an open order; surplus over the net price becomes tips.
// When this was the instance's last open order, the instance closes too.
func (s *OrderService) Pay(ctx context.Context, businessID, orderID uuid.UUID, req PayOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForBusiness(ctx, businessID, orderID)
	if err != nil {
		return nil, err
	}
	payments := make([]valueobject.Payment, 0, len(req.Payments))
	for _, p := range req.Payments {
		payments = append(payments, valueobject.Payment{
			Type:   valueobject.PaymentType(p.Type),
			Branch: p.Branch,
			Amount: p.Amount,
		})
	}
	if err := order.Pay(payments); err != nil {
		return nil, err
	}
	if err := s.saveSettled(ctx, businessID, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Void voids an open order with a mandatory comment. The stock stays
// consumed; voided food still left the kitchen.
func (s *OrderService) Void(ctx context.Context, businessID, orderID uuid.UUID, req CommentRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForBusiness(ctx, businessID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.MarkVoid(req.Comment); err != nil {
		return nil, err
	}
	if err := s.saveSettled(ctx, businessID, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Invite marks an open order as on the house with a mandatory comment
func (s *OrderService) Invite(ctx context.Context, businessID, orderID uuid.UUID, req CommentRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForBusiness(ctx, businessID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.MarkInvitation(req.Comment); err != nil {
		return nil, err
	}
	if err := s.saveSettled(ctx, businessID, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// saveSettled persists an order that just left the open billing status and
// closes its instance once no open orders remain on it. Order and instance
// commit together.
func (s *OrderService) saveSettled(ctx context.Context, businessID uuid.UUID, order *sales.Order) error {
	instance, err := s.instanceRepo.FindByIDForBusiness(ctx, businessID, order.SalesInstanceID)
	if err != nil {
		return err
	}
	return s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}
		if instance.IsClosed() {
			return nil
		}
		open, err := s.orderRepo.CountOpenByInstance(ctx, businessID, instance.ID)
		if err != nil {
			return err
		}
		if open > 0 {
			return nil
		}
		if err := instance.Close(instance.ResponsibleUserID); err != nil {
			return err
		}
		return s.instanceRepo.Save(ctx, instance)
	})
}

// ApplyDiscount applies a manual percentage discount to an open order
func (s *OrderService) ApplyDiscount(ctx context.Context, businessID, orderID uuid.UUID, req DiscountRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForBusiness(ctx, businessID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.ApplyManualDiscount(req.Percent, req.Comment); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// SetStatus advances the kitchen status. Billing statuses are closed
// through their own operations, never through this endpoint.
func (s *OrderService) SetStatus(ctx context.Context, businessID, orderID uuid.UUID, req OrderStatusRequest) (*OrderResponse, error) {
	if sales.BillingStatus(req.Status).IsValid() {
		return nil, shared.NewDomainError("INVALID_ORDER_STATUS", "Billing statuses cannot be set directly")
	}
	order, err := s.orderRepo.FindByIDForBusiness(ctx, businessID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.SetOrderStatus(sales.OrderStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Cancel removes an order the kitchen has not started. The consumed stock
// returns and the order disappears from its instance, all atomically.
func (s *OrderService) Cancel(ctx context.Context, businessID, orderID uuid.UUID) error {
	order, err := s.orderRepo.FindByIDForBusiness(ctx, businessID, orderID)
	if err != nil {
		return err
	}
	if err := order.MarkCancelled(); err != nil {
		return err
	}
	instance, err := s.instanceRepo.FindByIDForBusiness(ctx, businessID, order.SalesInstanceID)
	if err != nil {
		return err
	}
	if err := instance.DetachOrder(order.ID); err != nil {
		return err
	}

	return s.txManager.Transaction(ctx, func(ctx context.Context) error {
		if err := s.adjustInventory(ctx, businessID, order, decimal.NewFromInt(1)); err != nil {
			return err
		}
		if err := s.orderRepo.Delete(ctx, order.ID); err != nil {
			return err
		}
		// The cancelled order may have been the last open one; settled
		// orders left behind mean the instance is done. Empty instances
		// stay open for the garbage collector instead.
		if !instance.IsEmpty() {
			open, err := s.orderRepo.CountOpenByInstance(ctx, businessID, instance.ID)
			if err != nil {
				return err
			}
			if open == 0 {
				if err := instance.Close(instance.ResponsibleUserID); err != nil {
					return err
				}
			}
		}
		return s.instanceRepo.Save(ctx, instance)
	})
}
