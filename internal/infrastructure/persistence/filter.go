package persistence

import (
	"fmt"
	"strings"

	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// validateSortOrder normalizes the sort direction to ASC or DESC
func validateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// validateSortField checks the sort field against a whitelist. The column
// name ends up in raw SQL, so anything off the list falls back to the
// default.
func validateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowed[trimmed] {
		return trimmed
	}
	return defaultField
}

// commonSortFields are present on every aggregate table
var commonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// applyOrdering applies a validated ORDER BY clause
func applyOrdering(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	field := validateSortField(filter.OrderBy, allowed, "created_at")
	return query.Order(fmt.Sprintf("%s %s", field, validateSortOrder(filter.OrderDir)))
}

// applyPagination applies LIMIT/OFFSET from the filter
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	return query.Limit(pageSize).Offset((page - 1) * pageSize)
}

// applyFilter applies ordering and pagination in one go
func applyFilter(query *gorm.DB, filter shared.Filter, allowed map[string]bool) *gorm.DB {
	return applyPagination(applyOrdering(query, filter, allowed), filter)
}
