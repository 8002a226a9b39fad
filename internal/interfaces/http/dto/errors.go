package dto

import (
	"net/http"
	"strings"
)

// Error codes raised by the HTTP layer itself
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeValidation   = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed fall through to the prefix rules in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,

	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"RUN_IN_PROGRESS":      http.StatusConflict,
	"SHIFT_OVERLAP":        http.StatusConflict,
	"DISCOUNT_CONFLICT":    http.StatusConflict,
	"OPEN_INSTANCES":       http.StatusConflict,

	"GROUP_NOT_FOUND":  http.StatusNotFound,
	"UNKNOWN_GOOD":     http.StatusNotFound,
	"UNKNOWN_GOODS":    http.StatusNotFound,
	"UNKNOWN_LOCATION": http.StatusNotFound,

	// Business rule violations map to 422: the request was well formed
	// but the aggregate's state refuses it.
	"CANCEL_FORBIDDEN":       http.StatusUnprocessableEntity,
	"COMMENT_REQUIRED":       http.StatusUnprocessableEntity,
	"GOOD_IN_SET_MENU":       http.StatusUnprocessableEntity,
	"GOOD_OFF_MENU":          http.StatusUnprocessableEntity,
	"INSTANCE_CLOSED":        http.StatusUnprocessableEntity,
	"INSUFFICIENT_PAYMENT":   http.StatusUnprocessableEntity,
	"LAST_OWNER":             http.StatusUnprocessableEntity,
	"NO_VACATION_DAYS":       http.StatusUnprocessableEntity,
	"ONE_TIME_SUPPLIER":      http.StatusUnprocessableEntity,
	"OPEN_ORDERS":            http.StatusUnprocessableEntity,
	"ORDER_NOT_ATTACHED":     http.StatusUnprocessableEntity,
	"PROMOTION_INACTIVE":     http.StatusUnprocessableEntity,
	"PROMOTION_MISMATCH":     http.StatusUnprocessableEntity,
	"REPORT_CLOSED":          http.StatusUnprocessableEntity,
	"RESERVED_SUPPLIER_NAME": http.StatusUnprocessableEntity,
	"SET_MENU_CYCLE":         http.StatusUnprocessableEntity,
	"UNIT_MISMATCH":          http.StatusUnprocessableEntity,

	"STORAGE_UNAVAILABLE": http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Unlisted codes are classified by prefix; anything left over is treated
// as a business rule violation.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"):
		return http.StatusBadRequest
	case strings.HasPrefix(code, "DUPLICATE_"):
		return http.StatusConflict
	case strings.HasPrefix(code, "UNKNOWN_"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusUnprocessableEntity
}
