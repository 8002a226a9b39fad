package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/report"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var dailyReportSortFields = map[string]bool{
	"id":                     true,
	"created_at":             true,
	"updated_at":             true,
	"daily_reference_number": true,
	"generated_at":           true,
}

// GormDailyReportRepository implements report.DailyReportRepository using GORM
type GormDailyReportRepository struct {
	db *gorm.DB
}

// NewGormDailyReportRepository creates a new GormDailyReportRepository
func NewGormDailyReportRepository(db *gorm.DB) *GormDailyReportRepository {
	return &GormDailyReportRepository{db: db}
}

func (r *GormDailyReportRepository) withUserReports(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).Preload("UserReports")
}

// FindByID finds a daily report by its ID, including per-user breakdowns
func (r *GormDailyReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.DailySalesReport, error) {
	var rpt report.DailySalesReport
	if err := r.withUserReports(ctx).First(&rpt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rpt, nil
}

// FindByIDForBusiness finds a daily report by ID scoped to a business
func (r *GormDailyReportRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*report.DailySalesReport, error) {
	var rpt report.DailySalesReport
	if err := r.withUserReports(ctx).First(&rpt, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rpt, nil
}

// FindByDailyReference returns the report for one business day
func (r *GormDailyReportRepository) FindByDailyReference(ctx context.Context, businessID uuid.UUID, dailyRef int64) (*report.DailySalesReport, error) {
	var rpt report.DailySalesReport
	err := r.withUserReports(ctx).
		First(&rpt, "business_id = ? AND daily_reference_number = ?", businessID, dailyRef).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rpt, nil
}

// FindByMonth returns every daily report inside a month. Daily references
// are YYYYMMDD integers, so a month spans monthRef*100+1 .. monthRef*100+31.
func (r *GormDailyReportRepository) FindByMonth(ctx context.Context, businessID uuid.UUID, monthRef int64) ([]*report.DailySalesReport, error) {
	var rpts []*report.DailySalesReport
	err := r.withUserReports(ctx).
		Where("business_id = ? AND daily_reference_number BETWEEN ? AND ?", businessID, monthRef*100+1, monthRef*100+31).
		Order("daily_reference_number ASC").
		Find(&rpts).Error
	if err != nil {
		return nil, err
	}
	return rpts, nil
}

// FindAll finds all daily reports matching the filter
func (r *GormDailyReportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]report.DailySalesReport, error) {
	var rpts []report.DailySalesReport
	query := r.withUserReports(ctx).Model(&report.DailySalesReport{})
	if err := applyFilter(query, filter, dailyReportSortFields).Find(&rpts).Error; err != nil {
		return nil, err
	}
	return rpts, nil
}

// FindAllForBusiness finds all daily reports of a business matching the filter
func (r *GormDailyReportRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]report.DailySalesReport, error) {
	var rpts []report.DailySalesReport
	query := r.withUserReports(ctx).Model(&report.DailySalesReport{}).Where("business_id = ?", businessID)
	if err := applyFilter(query, filter, dailyReportSortFields).Find(&rpts).Error; err != nil {
		return nil, err
	}
	return rpts, nil
}

// Count counts daily reports matching the filter
func (r *GormDailyReportRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&report.DailySalesReport{})
	if businessID, ok := filter.Filters["business_id"]; ok {
		query = query.Where("business_id = ?", businessID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a daily report together with its user breakdowns
func (r *GormDailyReportRepository) Save(ctx context.Context, rpt *report.DailySalesReport) error {
	return dbFor(ctx, r.db).Session(&gorm.Session{FullSaveAssociations: true}).Save(rpt).Error
}

// Replace swaps the stored report for a business day with a rebuilt one.
// The previous run's rows, user breakdowns included, are removed in the
// same transaction so a rerun never leaves stale children behind.
func (r *GormDailyReportRepository) Replace(ctx context.Context, rpt *report.DailySalesReport) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&report.DailySalesReport{}).Select("id").
			Where("business_id = ? AND daily_reference_number = ?", rpt.BusinessID, rpt.DailyReferenceNumber)
		if err := tx.Where("report_id IN (?)", sub).Delete(&report.UserSalesReport{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&report.DailySalesReport{},
			"business_id = ? AND daily_reference_number = ?", rpt.BusinessID, rpt.DailyReferenceNumber).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Create(rpt).Error
	})
}

// Delete deletes a daily report by ID
func (r *GormDailyReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var rpt report.DailySalesReport
	rpt.ID = id
	result := dbFor(ctx, r.db).Select("UserReports").Delete(&rpt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every daily report of a business
func (r *GormDailyReportRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&report.DailySalesReport{}).Select("id").Where("business_id = ?", businessID)
		if err := tx.Where("report_id IN (?)", sub).Delete(&report.UserSalesReport{}).Error; err != nil {
			return err
		}
		return tx.Delete(&report.DailySalesReport{}, "business_id = ?", businessID).Error
	})
}

// GormMonthlyReportRepository implements report.MonthlyReportRepository using GORM
type GormMonthlyReportRepository struct {
	db *gorm.DB
}

// NewGormMonthlyReportRepository creates a new GormMonthlyReportRepository
func NewGormMonthlyReportRepository(db *gorm.DB) *GormMonthlyReportRepository {
	return &GormMonthlyReportRepository{db: db}
}

// FindByID finds a monthly report by its ID
func (r *GormMonthlyReportRepository) FindByID(ctx context.Context, id uuid.UUID) (*report.MonthlySalesReport, error) {
	var rpt report.MonthlySalesReport
	if err := dbFor(ctx, r.db).First(&rpt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rpt, nil
}

// FindByIDForBusiness finds a monthly report by ID scoped to a business
func (r *GormMonthlyReportRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*report.MonthlySalesReport, error) {
	var rpt report.MonthlySalesReport
	if err := dbFor(ctx, r.db).First(&rpt, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rpt, nil
}

// FindByMonthReference returns the report for one month
func (r *GormMonthlyReportRepository) FindByMonthReference(ctx context.Context, businessID uuid.UUID, monthRef int64) (*report.MonthlySalesReport, error) {
	var rpt report.MonthlySalesReport
	err := dbFor(ctx, r.db).First(&rpt, "business_id = ? AND month_reference = ?", businessID, monthRef).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rpt, nil
}

// FindAll finds all monthly reports matching the filter
func (r *GormMonthlyReportRepository) FindAll(ctx context.Context, filter shared.Filter) ([]report.MonthlySalesReport, error) {
	var rpts []report.MonthlySalesReport
	query := dbFor(ctx, r.db).Model(&report.MonthlySalesReport{})
	if err := applyFilter(query, filter, commonSortFields).Find(&rpts).Error; err != nil {
		return nil, err
	}
	return rpts, nil
}

// FindAllForBusiness finds all monthly reports of a business
func (r *GormMonthlyReportRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]report.MonthlySalesReport, error) {
	var rpts []report.MonthlySalesReport
	query := dbFor(ctx, r.db).Model(&report.MonthlySalesReport{}).Where("business_id = ?", businessID)
	if err := applyFilter(query, filter, commonSortFields).Find(&rpts).Error; err != nil {
		return nil, err
	}
	return rpts, nil
}

// Count counts monthly reports matching the filter
func (r *GormMonthlyReportRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFor(ctx, r.db).Model(&report.MonthlySalesReport{})
	if businessID, ok := filter.Filters["business_id"]; ok {
		query = query.Where("business_id = ?", businessID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a monthly report
func (r *GormMonthlyReportRepository) Save(ctx context.Context, rpt *report.MonthlySalesReport) error {
	return dbFor(ctx, r.db).Save(rpt).Error
}

// Replace swaps the stored report for a month with a rebuilt one
func (r *GormMonthlyReportRepository) Replace(ctx context.Context, rpt *report.MonthlySalesReport) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&report.MonthlySalesReport{},
			"business_id = ? AND month_reference = ?", rpt.BusinessID, rpt.MonthReference).Error; err != nil {
			return err
		}
		return tx.Create(rpt).Error
	})
}

// Delete deletes a monthly report by ID
func (r *GormMonthlyReportRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFor(ctx, r.db).Delete(&report.MonthlySalesReport{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every monthly report of a business
func (r *GormMonthlyReportRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Delete(&report.MonthlySalesReport{}, "business_id = ?", businessID).Error
}
