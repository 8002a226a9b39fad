package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// DailyReportRepository persists daily sales reports
type DailyReportRepository interface {
	shared.BusinessRepository[DailySalesReport]

	// FindByDailyReference returns the report for one business day, or
	// shared.ErrNotFound when no run has produced one yet
	FindByDailyReference(ctx context.Context, businessID uuid.UUID, dailyRef int64) (*DailySalesReport, error)

	// FindByMonth returns every daily report inside a month
	FindByMonth(ctx context.Context, businessID uuid.UUID, monthRef int64) ([]*DailySalesReport, error)

	// Replace swaps the stored report for a business day with a rebuilt one
	// in a single transaction
	Replace(ctx context.Context, rpt *DailySalesReport) error

	// DeleteForBusiness removes every daily report of a business
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}

// MonthlyReportRepository persists monthly sales reports
type MonthlyReportRepository interface {
	shared.BusinessRepository[MonthlySalesReport]

	// FindByMonthReference returns the report for one month
	FindByMonthReference(ctx context.Context, businessID uuid.UUID, monthRef int64) (*MonthlySalesReport, error)

	// Replace swaps the stored report for a month with a rebuilt one
	Replace(ctx context.Context, rpt *MonthlySalesReport) error

	// DeleteForBusiness removes every monthly report of a business
	DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error
}
