package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// setJWTContext simulates an authenticated request without a real token
func setJWTContext(c *gin.Context, businessID, employeeID uuid.UUID) {
	c.Set(middleware.JWTBusinessIDKey, businessID.String())
	c.Set(middleware.JWTEmployeeIDKey, employeeID.String())
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetBusinessID(t *testing.T) {
	t.Run("parses the claim", func(t *testing.T) {
		c, _ := newTestContext(t)
		businessID := uuid.New()
		setJWTContext(c, businessID, uuid.New())

		got, err := getBusinessID(c)
		require.NoError(t, err)
		assert.Equal(t, businessID, got)
	})

	t.Run("fails without a claim", func(t *testing.T) {
		c, _ := newTestContext(t)

		_, err := getBusinessID(c)
		assert.Error(t, err)
	})

	t.Run("fails on a malformed claim", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(middleware.JWTBusinessIDKey, "not-a-uuid")

		_, err := getBusinessID(c)
		assert.Error(t, err)
	})
}

func TestGetEmployeeID(t *testing.T) {
	c, _ := newTestContext(t)
	employeeID := uuid.New()
	setJWTContext(c, uuid.New(), employeeID)

	got, err := getEmployeeID(c)
	require.NoError(t, err)
	assert.Equal(t, employeeID, got)
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Success(c, gin.H{"hello": "world"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.Created(c, gin.H{"id": uuid.New().String()})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerPartialSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.PartialSuccess(c, gin.H{"skipped": 2})

	assert.Equal(t, http.StatusMultiStatus, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerNoContent(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.NoContent(c)
	// gin buffers the status set via c.Status until a write or an explicit
	// flush; outside a full engine run nothing flushes it to the recorder.
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found",
			err:            shared.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "unauthorized",
			err:            shared.ErrUnauthorized,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   "UNAUTHORIZED",
		},
		{
			name:           "business rule violation",
			err:            shared.NewDomainError("INSUFFICIENT_PAYMENT", "Paid less than the total"),
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "INSUFFICIENT_PAYMENT",
		},
		{
			name:           "conflict",
			err:            shared.NewDomainError("SHIFT_OVERLAP", "Shift overlaps an existing one"),
			expectedStatus: http.StatusConflict,
			expectedCode:   "SHIFT_OVERLAP",
		},
		{
			name:           "unknown error type",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(t)

			h.HandleError(c, tt.err)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestBaseHandlerHandleErrorIncludesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)
	c.Set(middleware.RequestIDKey, "req-123")

	h.HandleError(c, shared.ErrNotFound)

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}
