package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OpenInstanceRequest opens a sales instance at a location
type OpenInstanceRequest struct {
	SalesLocationID uuid.UUID `json:"sales_location_id" binding:"required"`
	Status          string    `json:"status" binding:"omitempty,oneof=Occupied Reserved"`
	Covers          int       `json:"covers" binding:"min=0"`
}

// ChangeResponsibleRequest reassigns the employee serving an instance
type ChangeResponsibleRequest struct {
	ResponsibleUserID uuid.UUID `json:"responsible_user_id" binding:"required"`
}

// TransferGroupRequest moves a batch-code group to another instance
type TransferGroupRequest struct {
	TargetInstanceID uuid.UUID `json:"target_instance_id" binding:"required"`
	BatchCode        string    `json:"batch_code" binding:"required"`
}

// SalesGroupResponse is the API shape of one batch-code group
type SalesGroupResponse struct {
	BatchCode string      `json:"batch_code"`
	OrderIDs  []uuid.UUID `json:"order_ids"`
}

// SalesInstanceResponse is the API shape of a sales instance
type SalesInstanceResponse struct {
	ID                   uuid.UUID            `json:"id"`
	SalesLocationID      uuid.UUID            `json:"sales_location_id"`
	DailyReferenceNumber int64                `json:"daily_reference_number"`
	Status               string               `json:"status"`
	ResponsibleUserID    uuid.UUID            `json:"responsible_user_id"`
	Covers               int                  `json:"covers"`
	Groups               []SalesGroupResponse `json:"groups"`
	OpenedAt             time.Time            `json:"opened_at"`
	ClosedAt             *time.Time           `json:"closed_at,omitempty"`
}

// ToSalesInstanceResponse maps the aggregate to its API shape
func ToSalesInstanceResponse(si *sales.SalesInstance) SalesInstanceResponse {
	resp := SalesInstanceResponse{
		ID:                   si.ID,
		SalesLocationID:      si.SalesLocationID,
		DailyReferenceNumber: si.DailyReferenceNumber,
		Status:               string(si.Status),
		ResponsibleUserID:    si.ResponsibleUserID,
		Covers:               si.Covers,
		OpenedAt:             si.OpenedAt,
		ClosedAt:             si.ClosedAt,
	}
	for _, g := range si.Groups {
		resp.Groups = append(resp.Groups, SalesGroupResponse{
			BatchCode: g.BatchCode,
			OrderIDs:  g.OrderIDs,
		})
	}
	return resp
}

// OrderItemRequest is one good on a new order
type OrderItemRequest struct {
	BusinessGoodID uuid.UUID       `json:"business_good_id" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateOrderRequest rings up goods under a sales instance
type CreateOrderRequest struct {
	SalesInstanceID uuid.UUID          `json:"sales_instance_id" binding:"required"`
	BatchCode       string             `json:"batch_code" binding:"required,max=50"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1"`
	PromotionID     *uuid.UUID         `json:"promotion_id"`
}

// PayOrderRequest settles an open order
type PayOrderRequest struct {
	Payments []PaymentRequest `json:"payments" binding:"required,min=1"`
}

// PaymentRequest is one tendered payment
type PaymentRequest struct {
	Type   string          `json:"payment_method" binding:"required"`
	Branch string          `json:"method_branch" binding:"required"`
	Amount decimal.Decimal `json:"method_salesTotal" binding:"required"`
}

// CommentRequest carries the mandatory comment of a void or invitation
type CommentRequest struct {
	Comment string `json:"comment" binding:"required,min=2,max=500"`
}

// DiscountRequest applies a manual percentage discount to an open order
type DiscountRequest struct {
	Percent decimal.Decimal `json:"percent" binding:"required"`
	Comment string          `json:"comment" binding:"required,min=2,max=500"`
}

// OrderStatusRequest advances the kitchen status
type OrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderItemResponse is the API shape of one order line
type OrderItemResponse struct {
	BusinessGoodID uuid.UUID       `json:"business_good_id"`
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
}

// OrderResponse is the API shape of an order
type OrderResponse struct {
	ID                   uuid.UUID             `json:"id"`
	SalesInstanceID      uuid.UUID             `json:"sales_instance_id"`
	BatchCode            string                `json:"batch_code"`
	ResponsibleUserID    uuid.UUID             `json:"responsible_user_id"`
	DailyReferenceNumber int64                 `json:"daily_reference_number"`
	Items                []OrderItemResponse   `json:"items"`
	GrossPrice           decimal.Decimal       `json:"gross_price"`
	NetPrice             decimal.Decimal       `json:"net_price"`
	Tips                 decimal.Decimal       `json:"tips"`
	BillingStatus        string                `json:"billing_status"`
	OrderStatus          string                `json:"order_status"`
	Comment              string                `json:"comment,omitempty"`
	DiscountPercent      *decimal.Decimal      `json:"discount_percent,omitempty"`
	PromotionID          *uuid.UUID            `json:"promotion_id,omitempty"`
	Payments             []valueobject.Payment `json:"payments,omitempty"`
	PaidAt               *time.Time            `json:"paid_at,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
}

// ToOrderResponse maps the aggregate to its API shape
func ToOrderResponse(o *sales.Order) OrderResponse {
	resp := OrderResponse{
		ID:                   o.ID,
		SalesInstanceID:      o.SalesInstanceID,
		BatchCode:            o.BatchCode,
		ResponsibleUserID:    o.ResponsibleUserID,
		DailyReferenceNumber: o.DailyReferenceNumber,
		GrossPrice:           o.GrossPrice,
		NetPrice:             o.NetPrice,
		Tips:                 o.Tips,
		BillingStatus:        string(o.BillingStatus),
		OrderStatus:          string(o.OrderStatus),
		Comment:              o.Comment,
		DiscountPercent:      o.DiscountPercent,
		PromotionID:          o.PromotionID,
		PaidAt:               o.PaidAt,
		CreatedAt:            o.CreatedAt,
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			BusinessGoodID: item.BusinessGoodID,
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
		})
	}
	for _, p := range o.Payments {
		resp.Payments = append(resp.Payments, p.Payment)
	}
	return resp
}
