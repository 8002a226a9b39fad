package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/report"
	"github.com/shopspring/decimal"
)

// RunDailyRequest triggers the aggregation run for one business day
type RunDailyRequest struct {
	DailyReferenceNumber int64 `json:"daily_reference_number" binding:"required,daily_ref"`
}

// RunMonthlyRequest triggers the monthly rollup
type RunMonthlyRequest struct {
	MonthReference int64 `json:"month_reference" binding:"required,month_ref"`
}

// UserReportResponse is the per-employee slice of a daily report
type UserReportResponse struct {
	UserID          uuid.UUID             `json:"user_id"`
	Totals          report.ReportTotals   `json:"totals"`
	CustomersServed int                   `json:"customers_served"`
	AverageSpend    decimal.Decimal       `json:"average_spend"`
	PaymentTotals   []report.PaymentTotal `json:"payment_totals"`
}

// DailyReportResponse is the API shape of a daily sales report. Skipped
// orders travel with the report so callers can see a partial aggregation.
type DailyReportResponse struct {
	ID                   uuid.UUID                 `json:"id"`
	DailyReferenceNumber int64                     `json:"daily_reference_number"`
	Status               string                    `json:"status"`
	Totals               report.ReportTotals       `json:"totals"`
	CommissionRate       decimal.Decimal           `json:"commission_rate"`
	CommissionAmount     decimal.Decimal           `json:"commission_amount"`
	PaymentTotals        []report.PaymentTotal     `json:"payment_totals"`
	GoodsBuckets         []report.GoodsBucket      `json:"goods_buckets"`
	UserReports          []UserReportResponse      `json:"user_reports"`
	SkippedOrders        []report.AggregationError `json:"skipped_orders,omitempty"`
	SecondsUntilClose    int64                     `json:"seconds_until_close"`
	GeneratedAt          time.Time                 `json:"generated_at"`
}

// ToDailyReportResponse maps the aggregate to its API shape
func ToDailyReportResponse(r *report.DailySalesReport, now time.Time) DailyReportResponse {
	users := make([]UserReportResponse, 0, len(r.UserReports))
	for _, u := range r.UserReports {
		users = append(users, UserReportResponse{
			UserID:          u.UserID,
			Totals:          u.ReportTotals,
			CustomersServed: u.CustomersServed,
			AverageSpend:    u.AverageSpend,
			PaymentTotals:   u.PaymentTotals,
		})
	}
	return DailyReportResponse{
		ID:                   r.ID,
		DailyReferenceNumber: r.DailyReferenceNumber,
		Status:               string(r.Status),
		Totals:               r.ReportTotals,
		CommissionRate:       r.CommissionRate,
		CommissionAmount:     r.CommissionAmount,
		PaymentTotals:        r.PaymentTotals,
		GoodsBuckets:         r.GoodsBuckets,
		UserReports:          users,
		SkippedOrders:        r.SkippedOrders,
		SecondsUntilClose:    r.SecondsUntilClose(now),
		GeneratedAt:          r.GeneratedAt,
	}
}

// MonthlyReportResponse is the API shape of a monthly sales report
type MonthlyReportResponse struct {
	ID               uuid.UUID             `json:"id"`
	MonthReference   int64                 `json:"month_reference"`
	Totals           report.ReportTotals   `json:"totals"`
	CommissionAmount decimal.Decimal       `json:"commission_amount"`
	PurchaseTotal    decimal.Decimal       `json:"purchase_total"`
	FoodCostRatio    decimal.Decimal       `json:"food_cost_ratio"`
	TipsRatio        decimal.Decimal       `json:"tips_ratio"`
	AverageOrderNet  decimal.Decimal       `json:"average_order_net"`
	PaymentTotals    []report.PaymentTotal `json:"payment_totals"`
	GoodsBuckets     []report.GoodsBucket  `json:"goods_buckets"`
	DaysIncluded     int                   `json:"days_included"`
	GeneratedAt      time.Time             `json:"generated_at"`
}

// ToMonthlyReportResponse maps the aggregate to its API shape
func ToMonthlyReportResponse(r *report.MonthlySalesReport) MonthlyReportResponse {
	return MonthlyReportResponse{
		ID:               r.ID,
		MonthReference:   r.MonthReference,
		Totals:           r.ReportTotals,
		CommissionAmount: r.CommissionAmount,
		PurchaseTotal:    r.PurchaseTotal,
		FoodCostRatio:    r.FoodCostRatio,
		TipsRatio:        r.TipsRatio,
		AverageOrderNet:  r.AverageOrderNet,
		PaymentTotals:    r.PaymentTotals,
		GoodsBuckets:     r.GoodsBuckets,
		DaysIncluded:     r.DaysIncluded,
		GeneratedAt:      r.GeneratedAt,
	}
}
