package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/business"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/report"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RunLock serializes aggregation runs over the same report key. Acquire
// returns false when another run already holds the key.
type RunLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// defaultRunLockTTL caps how long a crashed run can block the next one
const defaultRunLockTTL = 5 * time.Minute

// ReportService builds and serves daily and monthly sales reports. Runs are
// idempotent: rebuilding an open report replaces it with the same figures
// for the same orders.
type ReportService struct {
	dailyRepo    report.DailyReportRepository
	monthlyRepo  report.MonthlyReportRepository
	orderRepo    sales.OrderRepository
	instanceRepo sales.SalesInstanceRepository
	purchaseRepo inventory.PurchaseRepository
	businessRepo business.BusinessRepository
	runLock      RunLock
	rolloverHour int
	runLockTTL   time.Duration
	location     *time.Location
}

// NewReportService creates a new ReportService
func NewReportService(
	dailyRepo report.DailyReportRepository,
	monthlyRepo report.MonthlyReportRepository,
	orderRepo sales.OrderRepository,
	instanceRepo sales.SalesInstanceRepository,
	purchaseRepo inventory.PurchaseRepository,
	businessRepo business.BusinessRepository,
	runLock RunLock,
) *ReportService {
	return &ReportService{
		dailyRepo:    dailyRepo,
		monthlyRepo:  monthlyRepo,
		orderRepo:    orderRepo,
		instanceRepo: instanceRepo,
		purchaseRepo: purchaseRepo,
		businessRepo: businessRepo,
		runLock:      runLock,
		rolloverHour: report.DefaultRolloverHour,
		runLockTTL:   defaultRunLockTTL,
		location:     time.UTC,
	}
}

// SetRolloverHour overrides the hour at which a business day rolls over
func (s *ReportService) SetRolloverHour(hour int) {
	if hour >= 0 && hour < 24 {
		s.rolloverHour = hour
	}
}

// SetRunLockTTL overrides how long a run holds its lock
func (s *ReportService) SetRunLockTTL(ttl time.Duration) {
	if ttl > 0 {
		s.runLockTTL = ttl
	}
}

func dailyLockKey(businessID uuid.UUID, dailyRef int64) string {
	return fmt.Sprintf("report-run:daily:%s:%d", businessID, dailyRef)
}

func monthlyLockKey(businessID uuid.UUID, monthRef int64) string {
	return fmt.Sprintf("report-run:monthly:%s:%d", businessID, monthRef)
}

// RunDaily rebuilds the daily report for one business day. A closed report
// rejects the run; a concurrent run over the same day is turned away.
func (s *ReportService) RunDaily(ctx context.Context, businessID uuid.UUID, req RunDailyRequest) (*DailyReportResponse, error) {
	key := dailyLockKey(businessID, req.DailyReferenceNumber)
	acquired, err := s.runLock.Acquire(ctx, key, s.runLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, shared.NewDomainError("RUN_IN_PROGRESS", "An aggregation run for this day is already in progress")
	}
	defer s.runLock.Release(ctx, key)

	existing, err := s.dailyRepo.FindByDailyReference(ctx, businessID, req.DailyReferenceNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.IsClosed() {
		return nil, shared.NewDomainError("REPORT_CLOSED", "Closed reports cannot be rebuilt")
	}

	biz, err := s.businessRepo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindByDailyReference(ctx, businessID, req.DailyReferenceNumber)
	if err != nil {
		return nil, err
	}
	instances, err := s.instanceRepo.FindByDailyReference(ctx, businessID, req.DailyReferenceNumber)
	if err != nil {
		return nil, err
	}

	closesAt := report.DayCloseTime(req.DailyReferenceNumber, s.rolloverHour, s.location)
	rpt, err := report.BuildDailyReport(businessID, req.DailyReferenceNumber, biz.Subscription.CommissionRate(), closesAt, orders, instances)
	if err != nil {
		return nil, err
	}
	if err := s.dailyRepo.Replace(ctx, rpt); err != nil {
		return nil, err
	}

	resp := ToDailyReportResponse(rpt, time.Now())
	return &resp, nil
}

// GetDaily returns the stored report for one business day
func (s *ReportService) GetDaily(ctx context.Context, businessID uuid.UUID, dailyRef int64) (*DailyReportResponse, error) {
	rpt, err := s.dailyRepo.FindByDailyReference(ctx, businessID, dailyRef)
	if err != nil {
		return nil, err
	}
	resp := ToDailyReportResponse(rpt, time.Now())
	return &resp, nil
}

// ListDailyByMonth returns the stored daily reports of a month
func (s *ReportService) ListDailyByMonth(ctx context.Context, businessID uuid.UUID, monthRef int64) ([]DailyReportResponse, error) {
	reports, err := s.dailyRepo.FindByMonth(ctx, businessID, monthRef)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]DailyReportResponse, 0, len(reports))
	for _, r := range reports {
		out = append(out, ToDailyReportResponse(r, now))
	}
	return out, nil
}

// CloseDaily freezes the report of one business day. Closed reports are
// final; a day whose instances are still being served cannot be frozen.
func (s *ReportService) CloseDaily(ctx context.Context, businessID uuid.UUID, dailyRef int64) (*DailyReportResponse, error) {
	rpt, err := s.dailyRepo.FindByDailyReference(ctx, businessID, dailyRef)
	if err != nil {
		return nil, err
	}
	instances, err := s.instanceRepo.FindByDailyReference(ctx, businessID, dailyRef)
	if err != nil {
		return nil, err
	}
	for _, si := range instances {
		if !si.IsClosed() {
			return nil, shared.NewDomainError("OPEN_INSTANCES", "The day still has open sales instances")
		}
	}
	if err := rpt.Close(); err != nil {
		return nil, err
	}
	if err := s.dailyRepo.Replace(ctx, rpt); err != nil {
		return nil, err
	}
	resp := ToDailyReportResponse(rpt, time.Now())
	return &resp, nil
}

// monthWindow is the wall-clock span a month's purchases fall into
func (s *ReportService) monthWindow(monthRef int64) (time.Time, time.Time) {
	y := int(monthRef / 100)
	m := time.Month(monthRef % 100)
	from := time.Date(y, m, 1, 0, 0, 0, 0, s.location)
	return from, from.AddDate(0, 1, 0)
}

// RunMonthly folds the month's daily reports and purchase spend into the
// monthly report
func (s *ReportService) RunMonthly(ctx context.Context, businessID uuid.UUID, req RunMonthlyRequest) (*MonthlyReportResponse, error) {
	key := monthlyLockKey(businessID, req.MonthReference)
	acquired, err := s.runLock.Acquire(ctx, key, s.runLockTTL)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, shared.NewDomainError("RUN_IN_PROGRESS", "An aggregation run for this month is already in progress")
	}
	defer s.runLock.Release(ctx, key)

	dailies, err := s.dailyRepo.FindByMonth(ctx, businessID, req.MonthReference)
	if err != nil {
		return nil, err
	}
	from, to := s.monthWindow(req.MonthReference)
	purchases, err := s.purchaseRepo.FindByPeriod(ctx, businessID, from, to)
	if err != nil {
		return nil, err
	}
	purchaseTotal := decimal.Zero
	for _, p := range purchases {
		purchaseTotal = purchaseTotal.Add(p.TotalCost)
	}

	rpt, err := report.BuildMonthlyReport(businessID, req.MonthReference, dailies, purchaseTotal)
	if err != nil {
		return nil, err
	}
	if err := s.monthlyRepo.Replace(ctx, rpt); err != nil {
		return nil, err
	}

	resp := ToMonthlyReportResponse(rpt)
	return &resp, nil
}

// GetMonthly returns the stored report for one month
func (s *ReportService) GetMonthly(ctx context.Context, businessID uuid.UUID, monthRef int64) (*MonthlyReportResponse, error) {
	rpt, err := s.monthlyRepo.FindByMonthReference(ctx, businessID, monthRef)
	if err != nil {
		return nil, err
	}
	resp := ToMonthlyReportResponse(rpt)
	return &resp, nil
}
