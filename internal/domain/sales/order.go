package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BillingStatus is the payment-lifecycle state of an order
type BillingStatus string

const (
	BillingOpen       BillingStatus = "Open"
	BillingPaid       BillingStatus = "Paid"
	BillingVoid       BillingStatus = "Void"
	BillingCancel     BillingStatus = "Cancel"
	BillingInvitation BillingStatus = "Invitation"
)

// IsValid checks if the billing status is known
func (s BillingStatus) IsValid() bool {
	switch s {
	case BillingOpen, BillingPaid, BillingVoid, BillingCancel, BillingInvitation:
		return true
	}
	return false
}

// SystemOnly reports whether the status may only be reached through
// closing or cancellation flows, never from a client-supplied status.
func (s BillingStatus) SystemOnly() bool {
	return s == BillingPaid || s == BillingCancel
}

// OrderStatus is the kitchen/fulfillment progress state of an order
type OrderStatus string

const (
	OrderSent        OrderStatus = "Sent"
	OrderStarted     OrderStatus = "Started"
	OrderStartedHold OrderStatus = "Started Hold"
	OrderDone        OrderStatus = "Done"
	OrderDelivered   OrderStatus = "Delivered"
	OrderDontMake    OrderStatus = "Dont Make"
)

// IsValid checks if the order status is known
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderSent, OrderStarted, OrderStartedHold, OrderDone, OrderDelivered, OrderDontMake:
		return true
	}
	return false
}

// blocksCancellation reports whether kitchen progress forbids cancelling
func (s OrderStatus) blocksCancellation() bool {
	switch s {
	case OrderStarted, OrderStartedHold, OrderDone, OrderDontMake:
		return true
	}
	return false
}

// OrderItem is one business good line on an order. Prices are captured at
// order time so later catalog edits don't change history.
type OrderItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	BusinessGoodID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name           string          `gorm:"size:200;not null"`
	Quantity       decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	UnitCostPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the database table name
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderPayment is one tendered payment persisted on a paid order
type OrderPayment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID uuid.UUID `gorm:"type:uuid;not null;index"`
	valueobject.Payment `gorm:"embedded"`
	CreatedAt time.Time
}

// TableName returns the database table name
func (OrderPayment) TableName() string {
	return "order_payments"
}

// Order is one or more business goods sold together under a sales instance
type Order struct {
	shared.BusinessAggregateRoot
	SalesInstanceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchCode           string          `gorm:"size:50;not null;index"`
	ResponsibleUserID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	DailyReferenceNumber int64          `gorm:"not null;index"`
	Items               []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	GrossPrice          decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	NetPrice            decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	CostPrice           decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Tips                decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	BillingStatus       BillingStatus   `gorm:"size:20;not null;default:'Open'"`
	OrderStatus         OrderStatus     `gorm:"size:20;not null;default:'Sent'"`
	Comment             string          `gorm:"size:500"`
	DiscountPercent     *decimal.Decimal `gorm:"type:decimal(10,4)"`
	PromotionID         *uuid.UUID      `gorm:"type:uuid"`
	Payments            []OrderPayment  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	PaidAt              *time.Time
}

// TableName returns the database table name
func (Order) TableName() string {
	return "orders"
}

// OrderItemInput is the caller-supplied shape of one order line
type OrderItemInput struct {
	BusinessGoodID uuid.UUID
	Name           string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	UnitCostPrice  decimal.Decimal
}

// NewOrder creates an open order under a sales instance
func NewOrder(businessID, instanceID, responsibleUserID uuid.UUID, batchCode string, dailyRef int64, items []OrderItemInput) (*Order, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if instanceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALES_INSTANCE", "Sales instance ID cannot be empty")
	}
	if responsibleUserID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Responsible user ID cannot be empty")
	}
	if strings.TrimSpace(batchCode) == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_CODE", "Order batch code cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order needs at least one item")
	}

	order := &Order{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		SalesInstanceID:       instanceID,
		BatchCode:             strings.TrimSpace(batchCode),
		ResponsibleUserID:     responsibleUserID,
		DailyReferenceNumber:  dailyRef,
		BillingStatus:         BillingOpen,
		OrderStatus:           OrderSent,
		GrossPrice:            decimal.Zero,
		NetPrice:              decimal.Zero,
		CostPrice:             decimal.Zero,
		Tips:                  decimal.Zero,
	}

	now := time.Now()
	for _, in := range items {
		if in.BusinessGoodID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_ORDER", "Order item good ID cannot be empty")
		}
		if !in.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_ORDER", "Order item quantity must be positive")
		}
		if in.UnitPrice.IsNegative() || in.UnitCostPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_ORDER", "Order item prices cannot be negative")
		}
		order.Items = append(order.Items, OrderItem{
			ID:             uuid.New(),
			OrderID:        order.ID,
			BusinessGoodID: in.BusinessGoodID,
			Name:           in.Name,
			Quantity:       in.Quantity,
			UnitPrice:      in.UnitPrice,
			UnitCostPrice:  in.UnitCostPrice,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		order.GrossPrice = order.GrossPrice.Add(in.UnitPrice.Mul(in.Quantity))
		order.CostPrice = order.CostPrice.Add(in.UnitCostPrice.Mul(in.Quantity))
	}
	order.NetPrice = order.GrossPrice

	return order, nil
}

// IsOpen reports whether the order still awaits billing
func (o *Order) IsOpen() bool {
	return o.BillingStatus == BillingOpen
}

// SetOrderStatus advances kitchen/fulfillment progress
func (o *Order) SetOrderStatus(status OrderStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_ORDER_STATUS", "Unknown order status")
	}
	o.OrderStatus = status
	o.Touch()
	return nil
}

// ApplyPromotion records that a promotion discounted this order's net price.
// Promotions and manual discounts are mutually exclusive.
func (o *Order) ApplyPromotion(promotionID uuid.UUID, discountedNet decimal.Decimal) error {
	if !o.IsOpen() {
		return shared.ErrInvalidState.WithMessage("Only open orders can take a promotion")
	}
	if o.DiscountPercent != nil {
		return shared.NewDomainError("DISCOUNT_CONFLICT", "Order already has a manual discount applied")
	}
	if discountedNet.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Discounted price cannot be negative")
	}
	o.PromotionID = &promotionID
	o.NetPrice = discountedNet
	o.Touch()
	return nil
}

// ApplyManualDiscount recomputes net price as gross minus the given
// percentage. Forbidden when a promotion already applied; the comment is
// mandatory.
func (o *Order) ApplyManualDiscount(percent decimal.Decimal, comment string) error {
	if !o.IsOpen() {
		return shared.ErrInvalidState.WithMessage("Only open orders can be discounted")
	}
	if o.PromotionID != nil {
		return shared.NewDomainError("DISCOUNT_CONFLICT", "Order already has a promotion applied")
	}
	if strings.TrimSpace(comment) == "" {
		return shared.NewDomainError("COMMENT_REQUIRED", "Discount requires a comment")
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}
	o.DiscountPercent = &percent
	o.Comment = strings.TrimSpace(comment)
	o.NetPrice = o.GrossPrice.Sub(o.GrossPrice.Mul(percent).Div(decimal.NewFromInt(100)))
	o.Touch()
	return nil
}

// MarkVoid voids the order. A comment is mandatory and the net price zeroes.
func (o *Order) MarkVoid(comment string) error {
	if !o.IsOpen() {
		return shared.ErrInvalidState.WithMessage("Only open orders can be voided")
	}
	if strings.TrimSpace(comment) == "" {
		return shared.NewDomainError("COMMENT_REQUIRED", "Voiding an order requires a comment")
	}
	o.BillingStatus = BillingVoid
	o.Comment = strings.TrimSpace(comment)
	o.NetPrice = decimal.Zero
	o.Touch()
	return nil
}

// MarkInvitation marks the order as on the house. A comment is mandatory and
// the net price zeroes; cost is still carried by the business.
func (o *Order) MarkInvitation(comment string) error {
	if !o.IsOpen() {
		return shared.ErrInvalidState.WithMessage("Only open orders can become invitations")
	}
	if strings.TrimSpace(comment) == "" {
		return shared.NewDomainError("COMMENT_REQUIRED", "An invitation requires a comment")
	}
	o.BillingStatus = BillingInvitation
	o.Comment = strings.TrimSpace(comment)
	o.NetPrice = decimal.Zero
	o.Touch()
	return nil
}

// Pay validates the tendered payments and closes the order as Paid. The sum
// must cover the net price; any surplus becomes tips. Net price never changes
// here.
func (o *Order) Pay(payments []valueobject.Payment) error {
	if !o.IsOpen() {
		return shared.ErrInvalidState.WithMessage("Order is not open for payment")
	}
	validated, err := valueobject.ValidatePayments(payments)
	if err != nil {
		return shared.NewDomainError("INVALID_PAYMENT", err.Error())
	}

	totalPaid := valueobject.TotalPaid(validated)
	if totalPaid.LessThan(o.NetPrice) {
		return shared.NewDomainError("INSUFFICIENT_PAYMENT", "Total paid is less than the order net price")
	}

	now := time.Now()
	for _, p := range validated {
		o.Payments = append(o.Payments, OrderPayment{
			ID:        uuid.New(),
			OrderID:   o.ID,
			Payment:   p,
			CreatedAt: now,
		})
	}
	o.Tips = totalPaid.Sub(o.NetPrice)
	o.BillingStatus = BillingPaid
	o.PaidAt = &now
	o.Touch()
	return nil
}

// CanCancel reports whether kitchen progress still allows cancellation
func (o *Order) CanCancel() bool {
	return o.IsOpen() && !o.OrderStatus.blocksCancellation()
}

// MarkCancelled flags the order for removal. Callers must reverse the
// order's inventory consumption in the same transaction.
func (o *Order) MarkCancelled() error {
	if !o.CanCancel() {
		return shared.NewDomainError("CANCEL_FORBIDDEN", "Order cannot be cancelled in its current state")
	}
	o.BillingStatus = BillingCancel
	o.Touch()
	return nil
}

// GoodsQuantities returns the ordered business goods and portion counts,
// the shape the inventory updater consumes.
func (o *Order) GoodsQuantities() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal, len(o.Items))
	for _, item := range o.Items {
		if existing, ok := out[item.BusinessGoodID]; ok {
			out[item.BusinessGoodID] = existing.Add(item.Quantity)
		} else {
			out[item.BusinessGoodID] = item.Quantity
		}
	}
	return out
}
