package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReportStatus marks whether a report can still be rebuilt
type ReportStatus string

const (
	ReportOpen   ReportStatus = "Open"
	ReportClosed ReportStatus = "Closed"
)

// ReportTotals are the sales figures every report level carries
type ReportTotals struct {
	GrossSales       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"gross_sales"`
	NetSales         decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"net_sales"`
	CostOfGoods      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"cost_of_goods"`
	Tips             decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"tips"`
	OrdersPaid       int             `gorm:"not null;default:0" json:"orders_paid"`
	OrdersVoid       int             `gorm:"not null;default:0" json:"orders_void"`
	OrdersInvitation int             `gorm:"not null;default:0" json:"orders_invitation"`
	OrdersOpen       int             `gorm:"not null;default:0" json:"orders_open"`
}

func (t *ReportTotals) addOrder(o *sales.Order) {
	switch o.BillingStatus {
	case sales.BillingPaid:
		t.GrossSales = t.GrossSales.Add(o.GrossPrice)
		t.NetSales = t.NetSales.Add(o.NetPrice)
		t.CostOfGoods = t.CostOfGoods.Add(o.CostPrice)
		t.Tips = t.Tips.Add(o.Tips)
		t.OrdersPaid++
	case sales.BillingVoid:
		t.OrdersVoid++
	case sales.BillingInvitation:
		t.CostOfGoods = t.CostOfGoods.Add(o.CostPrice)
		t.OrdersInvitation++
	case sales.BillingOpen:
		t.OrdersOpen++
	}
}

// PaymentTotal is one payment method's rollup inside a report
type PaymentTotal struct {
	TypeKey string          `json:"key"`
	Amount  decimal.Decimal `json:"amount"`
	Count   int             `json:"count"`
}

// PaymentTotals is a jsonb-stored list of payment rollups
type PaymentTotals []PaymentTotal

// Goods bucket names. Every folded good lands in exactly one, following its
// order's billing status.
const (
	GoodsSold    = "Sold"
	GoodsVoided  = "Voided"
	GoodsInvited = "Invited"
)

// GoodsBucket is one business good's rollup inside a report, split by how
// its order was billed
type GoodsBucket struct {
	Bucket         string          `json:"bucket"`
	BusinessGoodID uuid.UUID       `json:"business_good_id"`
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `json:"quantity"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	CostOfGoods    decimal.Decimal `json:"cost_of_goods"`
}

// GoodsBuckets is a jsonb-stored list of goods rollups
type GoodsBuckets []GoodsBucket

// goodsBucketFor maps a billing status to its goods bucket. Open and
// cancelled orders contribute to no bucket.
func goodsBucketFor(status sales.BillingStatus) string {
	switch status {
	case sales.BillingPaid:
		return GoodsSold
	case sales.BillingVoid:
		return GoodsVoided
	case sales.BillingInvitation:
		return GoodsInvited
	}
	return ""
}

// AggregationError records one order the aggregation could not fold in.
// The rest of the report is still produced.
type AggregationError struct {
	OrderID uuid.UUID `json:"order_id"`
	Reason  string    `json:"reason"`
}

// AggregationErrors is a jsonb-stored list of skipped orders
type AggregationErrors []AggregationError

// UserSalesReport is the per-employee slice of a daily report
type UserSalesReport struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReportID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID       `gorm:"type:uuid;not null"`
	ReportTotals    `gorm:"embedded"`
	CustomersServed int             `gorm:"not null;default:0"`
	AverageSpend    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	PaymentTotals   PaymentTotals   `gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName returns the database table name
func (UserSalesReport) TableName() string {
	return "user_sales_reports"
}

// DailySalesReport is the aggregated trading result of one business day.
// Rebuilding is idempotent while the report is open; closing freezes it.
type DailySalesReport struct {
	shared.BusinessAggregateRoot
	DailyReferenceNumber int64             `gorm:"not null;uniqueIndex:idx_report_business_day,composite:business_id"`
	Status               ReportStatus      `gorm:"size:20;not null;default:'Open'"`
	ReportTotals         `gorm:"embedded"`
	CommissionRate       decimal.Decimal   `gorm:"type:decimal(10,4);not null;default:0"`
	CommissionAmount     decimal.Decimal   `gorm:"type:decimal(20,4);not null;default:0"`
	PaymentTotals        PaymentTotals     `gorm:"type:jsonb;serializer:json"`
	GoodsBuckets         GoodsBuckets      `gorm:"type:jsonb;serializer:json"`
	UserReports          []UserSalesReport `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
	SkippedOrders        AggregationErrors `gorm:"type:jsonb;serializer:json"`
	GeneratedAt          time.Time         `gorm:"not null"`
	ClosesAt             time.Time         `gorm:"not null"`
}

// TableName returns the database table name
func (DailySalesReport) TableName() string {
	return "daily_sales_reports"
}

// IsClosed reports whether the report is frozen
func (r *DailySalesReport) IsClosed() bool {
	return r.Status == ReportClosed
}

// SecondsUntilClose is the countdown shown next to an open report. Zero for
// closed reports or past deadlines.
func (r *DailySalesReport) SecondsUntilClose(now time.Time) int64 {
	if r.IsClosed() {
		return 0
	}
	remaining := r.ClosesAt.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int64(remaining.Seconds())
}

// Close freezes the report. Closed reports are final and reject rebuilds.
func (r *DailySalesReport) Close() error {
	if r.IsClosed() {
		return shared.NewDomainError("REPORT_CLOSED", "Report is already closed")
	}
	r.Status = ReportClosed
	r.Touch()
	return nil
}

// BuildDailyReport folds one business day's orders and instances into a
// fresh report. Orders that cannot be folded are skipped and listed on the
// report; the build never fails as a whole because of a single bad order.
// Running it twice over the same inputs yields the same figures.
func BuildDailyReport(businessID uuid.UUID, dailyRef int64, commissionRate decimal.Decimal, closesAt time.Time, orders []*sales.Order, instances []*sales.SalesInstance) (*DailySalesReport, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if commissionRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COMMISSION", "Commission rate cannot be negative")
	}

	rpt := &DailySalesReport{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		DailyReferenceNumber:  dailyRef,
		Status:                ReportOpen,
		CommissionRate:        commissionRate,
		GeneratedAt:           time.Now(),
		ClosesAt:              closesAt,
	}

	payments := shared.NewAccumulator(
		func(p PaymentTotal) string { return p.TypeKey },
		func(a, b PaymentTotal) PaymentTotal {
			a.Amount = a.Amount.Add(b.Amount)
			a.Count += b.Count
			return a
		},
	)
	goods := shared.NewAccumulator(
		func(g GoodsBucket) string { return g.Bucket + ":" + g.BusinessGoodID.String() },
		func(a, b GoodsBucket) GoodsBucket {
			a.Quantity = a.Quantity.Add(b.Quantity)
			a.TotalPrice = a.TotalPrice.Add(b.TotalPrice)
			a.CostOfGoods = a.CostOfGoods.Add(b.CostOfGoods)
			return a
		},
	)
	perUser := make(map[uuid.UUID]*UserSalesReport)
	userOrder := make([]uuid.UUID, 0)
	userPayments := make(map[uuid.UUID]*shared.Accumulator[string, PaymentTotal])

	userFor := func(userID uuid.UUID) *UserSalesReport {
		if user, ok := perUser[userID]; ok {
			return user
		}
		user := &UserSalesReport{
			ID:       uuid.New(),
			ReportID: rpt.ID,
			UserID:   userID,
		}
		perUser[userID] = user
		userOrder = append(userOrder, userID)
		userPayments[userID] = shared.NewAccumulator(
			func(p PaymentTotal) string { return p.TypeKey },
			func(a, b PaymentTotal) PaymentTotal {
				a.Amount = a.Amount.Add(b.Amount)
				a.Count += b.Count
				return a
			},
		)
		return user
	}

	// Responsible users enter the report through their instances even when
	// none of their orders settled yet; covers count as customers served.
	for _, si := range instances {
		if si == nil || si.BusinessID != businessID || si.DailyReferenceNumber != dailyRef {
			continue
		}
		userFor(si.ResponsibleUserID).CustomersServed += si.Covers
	}

	for _, o := range orders {
		if o.BusinessID != businessID {
			rpt.SkippedOrders = append(rpt.SkippedOrders, AggregationError{OrderID: o.ID, Reason: "order belongs to another business"})
			continue
		}
		if o.DailyReferenceNumber != dailyRef {
			rpt.SkippedOrders = append(rpt.SkippedOrders, AggregationError{OrderID: o.ID, Reason: "order belongs to another business day"})
			continue
		}
		if !o.BillingStatus.IsValid() {
			rpt.SkippedOrders = append(rpt.SkippedOrders, AggregationError{OrderID: o.ID, Reason: fmt.Sprintf("unknown billing status %q", o.BillingStatus)})
			continue
		}
		if o.BillingStatus == sales.BillingCancel {
			continue
		}

		rpt.ReportTotals.addOrder(o)
		userFor(o.ResponsibleUserID).ReportTotals.addOrder(o)

		if o.BillingStatus == sales.BillingPaid {
			for _, p := range o.Payments {
				total := PaymentTotal{TypeKey: p.Key(), Amount: p.Amount, Count: 1}
				payments.Add(total)
				userPayments[o.ResponsibleUserID].Add(total)
			}
		}
		if bucket := goodsBucketFor(o.BillingStatus); bucket != "" {
			for _, item := range o.Items {
				goods.Add(GoodsBucket{
					Bucket:         bucket,
					BusinessGoodID: item.BusinessGoodID,
					Name:           item.Name,
					Quantity:       item.Quantity,
					TotalPrice:     item.UnitPrice.Mul(item.Quantity),
					CostOfGoods:    item.UnitCostPrice.Mul(item.Quantity),
				})
			}
		}
	}

	rpt.PaymentTotals = PaymentTotals(payments.Values())
	rpt.GoodsBuckets = GoodsBuckets(goods.Values())
	for _, userID := range userOrder {
		user := perUser[userID]
		user.PaymentTotals = PaymentTotals(userPayments[userID].Values())
		user.AverageSpend = safeRatio(user.NetSales, decimal.NewFromInt(int64(user.CustomersServed)))
		now := time.Now()
		user.CreatedAt = now
		user.UpdatedAt = now
		rpt.UserReports = append(rpt.UserReports, *user)
	}

	rpt.CommissionAmount = rpt.NetSales.Mul(commissionRate).Div(decimal.NewFromInt(100))

	return rpt, nil
}
