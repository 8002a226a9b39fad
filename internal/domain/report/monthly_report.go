package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MonthlySalesReport rolls the month's daily reports into one result plus
// the ratios owners steer by.
type MonthlySalesReport struct {
	shared.BusinessAggregateRoot
	MonthReference   int64           `gorm:"not null;uniqueIndex:idx_report_business_month,composite:business_id"`
	ReportTotals     `gorm:"embedded"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	PurchaseTotal    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	FoodCostRatio    decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	TipsRatio        decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"`
	AverageOrderNet  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0"`
	PaymentTotals    PaymentTotals   `gorm:"type:jsonb;serializer:json"`
	GoodsBuckets     GoodsBuckets    `gorm:"type:jsonb;serializer:json"`
	DaysIncluded     int             `gorm:"not null;default:0"`
	GeneratedAt      time.Time       `gorm:"not null"`
}

// TableName returns the database table name
func (MonthlySalesReport) TableName() string {
	return "monthly_sales_reports"
}

// safeRatio divides and returns zero on a zero denominator. Empty months
// must produce a report full of zeroes, not an error.
func safeRatio(numerator, denominator decimal.Decimal) decimal.Decimal {
	if denominator.IsZero() {
		return decimal.Zero
	}
	return numerator.Div(denominator).Round(4)
}

// BuildMonthlyReport folds the month's daily reports and purchase spend
// into one monthly result. Daily reports outside the month are ignored.
func BuildMonthlyReport(businessID uuid.UUID, monthRef int64, dailies []*DailySalesReport, purchaseTotal decimal.Decimal) (*MonthlySalesReport, error) {
	if businessID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUSINESS", "Business ID cannot be empty")
	}
	if purchaseTotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PURCHASES", "Purchase total cannot be negative")
	}

	rpt := &MonthlySalesReport{
		BusinessAggregateRoot: shared.NewBusinessAggregateRoot(businessID),
		MonthReference:        monthRef,
		PurchaseTotal:         purchaseTotal,
		GeneratedAt:           time.Now(),
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

	for _, daily := range dailies {
		if daily == nil || daily.BusinessID != businessID {
			continue
		}
		if MonthRefOf(daily.DailyReferenceNumber) != monthRef {
			continue
		}
		rpt.GrossSales = rpt.GrossSales.Add(daily.GrossSales)
		rpt.NetSales = rpt.NetSales.Add(daily.NetSales)
		rpt.CostOfGoods = rpt.CostOfGoods.Add(daily.CostOfGoods)
		rpt.Tips = rpt.Tips.Add(daily.Tips)
		rpt.OrdersPaid += daily.OrdersPaid
		rpt.OrdersVoid += daily.OrdersVoid
		rpt.OrdersInvitation += daily.OrdersInvitation
		rpt.OrdersOpen += daily.OrdersOpen
		rpt.CommissionAmount = rpt.CommissionAmount.Add(daily.CommissionAmount)
		payments.AddAll(daily.PaymentTotals)
		goods.AddAll(daily.GoodsBuckets)
		rpt.DaysIncluded++
	}

	rpt.PaymentTotals = PaymentTotals(payments.Values())
	rpt.GoodsBuckets = GoodsBuckets(goods.Values())
	rpt.FoodCostRatio = safeRatio(rpt.CostOfGoods, rpt.NetSales)
	rpt.TipsRatio = safeRatio(rpt.Tips, rpt.NetSales)
	rpt.AverageOrderNet = safeRatio(rpt.NetSales, decimal.NewFromInt(int64(rpt.OrdersPaid)))

	return rpt, nil
}
