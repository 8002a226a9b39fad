package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var businessGoodSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"category":   true,
	"sale_price": true,
	"cost_price": true,
}

// GormBusinessGoodRepository implements catalog.BusinessGoodRepository using GORM
type GormBusinessGoodRepository struct {
	db *gorm.DB
}

// NewGormBusinessGoodRepository creates a new GormBusinessGoodRepository
func NewGormBusinessGoodRepository(db *gorm.DB) *GormBusinessGoodRepository {
	return &GormBusinessGoodRepository{db: db}
}

func (r *GormBusinessGoodRepository) withChildren(ctx context.Context) *gorm.DB {
	return dbFor(ctx, r.db).Preload("Ingredients").Preload("SetMenuItems")
}

// FindByID finds a business good by its ID, including its recipe
func (r *GormBusinessGoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.BusinessGood, error) {
	var good catalog.BusinessGood
	if err := r.withChildren(ctx).First(&good, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindByIDForBusiness finds a business good by ID scoped to a business
func (r *GormBusinessGoodRepository) FindByIDForBusiness(ctx context.Context, businessID, id uuid.UUID) (*catalog.BusinessGood, error) {
	var good catalog.BusinessGood
	if err := r.withChildren(ctx).First(&good, "id = ? AND business_id = ?", id, businessID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindByIDs loads a batch of business goods scoped to a business
func (r *GormBusinessGoodRepository) FindByIDs(ctx context.Context, businessID uuid.UUID, ids []uuid.UUID) ([]catalog.BusinessGood, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var goods []catalog.BusinessGood
	if err := r.withChildren(ctx).Where("business_id = ? AND id IN ?", businessID, ids).Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// FindAllForBusiness finds all business goods of a business matching the filter
func (r *GormBusinessGoodRepository) FindAllForBusiness(ctx context.Context, businessID uuid.UUID, filter shared.Filter) ([]catalog.BusinessGood, error) {
	var goods []catalog.BusinessGood
	query := r.withChildren(ctx).Model(&catalog.BusinessGood{}).Where("business_id = ?", businessID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR category ILIKE ?", pattern, pattern)
	}
	if category, ok := filter.Filters["category"]; ok {
		query = query.Where("category = ?", category)
	}
	if onMenu, ok := filter.Filters["on_menu"]; ok {
		query = query.Where("on_menu = ?", onMenu)
	}
	if err := applyFilter(query, filter, businessGoodSortFields).Find(&goods).Error; err != nil {
		return nil, err
	}
	return goods, nil
}

// FindSetMenusReferencing returns set menus that include the good as a member
func (r *GormBusinessGoodRepository) FindSetMenusReferencing(ctx context.Context, businessID, memberGoodID uuid.UUID) ([]catalog.BusinessGood, error) {
	var menus []catalog.BusinessGood
	err := r.withChildren(ctx).
		Joins("JOIN business_good_set_menu_items smi ON smi.business_good_id = business_goods.id").
		Where("business_goods.business_id = ? AND smi.member_good_id = ?", businessID, memberGoodID).
		Find(&menus).Error
	if err != nil {
		return nil, err
	}
	return menus, nil
}

// Save creates or updates a business good together with its recipe rows
func (r *GormBusinessGoodRepository) Save(ctx context.Context, g *catalog.BusinessGood) error {
	return dbFor(ctx, r.db).Session(&gorm.Session{FullSaveAssociations: true}).Save(g).Error
}

// Delete deletes a business good by ID
func (r *GormBusinessGoodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	var good catalog.BusinessGood
	good.ID = id
	result := dbFor(ctx, r.db).Select("Ingredients", "SetMenuItems").Delete(&good)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteForBusiness removes every business good of a business
func (r *GormBusinessGoodRepository) DeleteForBusiness(ctx context.Context, businessID uuid.UUID) error {
	return dbFor(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&catalog.BusinessGood{}).Select("id").Where("business_id = ?", businessID)
		if err := tx.Where("business_good_id IN (?)", sub).Delete(&catalog.Ingredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("business_good_id IN (?)", sub).Delete(&catalog.SetMenuItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&catalog.BusinessGood{}, "business_id = ?", businessID).Error
	})
}
