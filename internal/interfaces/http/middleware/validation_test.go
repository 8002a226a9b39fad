package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupValidatorDailyRef(t *testing.T) {
	SetupValidator()

	type runRequest struct {
		DailyReferenceNumber int64 `json:"daily_reference_number" binding:"required,daily_ref"`
	}

	engine := gin.New()
	engine.POST("/run", func(c *gin.Context) {
		var req runRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "valid day", body: `{"daily_reference_number": 20250301}`, expected: http.StatusOK},
		{name: "month out of range", body: `{"daily_reference_number": 20251301}`, expected: http.StatusBadRequest},
		{name: "day does not exist", body: `{"daily_reference_number": 20250230}`, expected: http.StatusBadRequest},
		{name: "too short", body: `{"daily_reference_number": 202503}`, expected: http.StatusBadRequest},
		{name: "missing", body: `{}`, expected: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/run", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestSetupValidatorMonthRef(t *testing.T) {
	SetupValidator()

	type runRequest struct {
		MonthReference int64 `json:"month_reference" binding:"required,month_ref"`
	}

	engine := gin.New()
	engine.POST("/run", func(c *gin.Context) {
		var req runRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "valid month", body: `{"month_reference": 202503}`, expected: http.StatusOK},
		{name: "month thirteen", body: `{"month_reference": 202513}`, expected: http.StatusBadRequest},
		{name: "daily ref given", body: `{"month_reference": 20250301}`, expected: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/run", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
		})
	}
}
