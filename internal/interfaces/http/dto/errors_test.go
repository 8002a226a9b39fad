package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"FORBIDDEN", http.StatusForbidden},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"RUN_IN_PROGRESS", http.StatusConflict},
		{"SHIFT_OVERLAP", http.StatusConflict},
		{"OPEN_INSTANCES", http.StatusConflict},
		{"ORDER_NOT_OPEN", http.StatusUnprocessableEntity},
		{"REPORT_CLOSED", http.StatusUnprocessableEntity},
		{"INSTANCE_CLOSED", http.StatusUnprocessableEntity},
		{"NO_VACATION_DAYS", http.StatusUnprocessableEntity},
		{"STORAGE_UNAVAILABLE", http.StatusServiceUnavailable},

		// prefix rules for codes without an explicit mapping
		{"INVALID_PRICE", http.StatusBadRequest},
		{"INVALID_COVERS", http.StatusBadRequest},
		{"DUPLICATE_BUSINESS", http.StatusConflict},
		{"UNKNOWN_GOOD", http.StatusNotFound},

		// anything else is a business rule violation
		{"SOME_FUTURE_RULE", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}
