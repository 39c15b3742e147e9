package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeUnknown, http.StatusInternalServerError},
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeValidationRequired, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeMixedCurrency, http.StatusUnprocessableEntity},
		{ErrCodeEmptyCart, http.StatusUnprocessableEntity},
		{ErrCodeInvalidLineItem, http.StatusUnprocessableEntity},
		{ErrCodeCheckoutRejected, http.StatusUnprocessableEntity},
		{ErrCodeCheckoutInProgress, http.StatusConflict},
		{ErrCodeUpstream, http.StatusBadGateway},
		{ErrCodeConfiguration, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"INVALID_INPUT", ErrCodeInvalidInput},
		{"MIXED_CURRENCY", ErrCodeMixedCurrency},
		{"INVALID_PRICE", ErrCodeInvalidPrice},
		{"INVALID_CURRENCY", ErrCodeInvalidCurrency},
		{"INVALID_VARIANT", ErrCodeInvalidVariant},
		// API codes pass through unchanged
		{ErrCodeNotFound, ErrCodeNotFound},
		{ErrCodeEmptyCart, ErrCodeEmptyCart},
		// Unknown codes pass through unchanged
		{"CUSTOM_ERROR", "CUSTOM_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

func TestErrorCodeConstants(t *testing.T) {
	// Every mapped domain code must resolve to a known status
	for domainCode, apiCode := range DomainErrorCodeMapping {
		t.Run(domainCode, func(t *testing.T) {
			_, ok := ErrorCodeHTTPStatus[apiCode]
			assert.True(t, ok, "Error code %s should be in ErrorCodeHTTPStatus map", apiCode)
			assert.Contains(t, apiCode, "ERR_")
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse("NOT_FOUND", "Resource not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code) // Should be normalized
	assert.Equal(t, "Resource not found", resp.Error.Message)
	assert.Empty(t, resp.Error.RequestID)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	requestID := "req-123-456"
	resp := NewErrorResponseWithRequestID(ErrCodeEmptyCart, "Cart is empty", requestID)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeEmptyCart, resp.Error.Code)
	assert.Equal(t, requestID, resp.Error.RequestID)
	assert.Nil(t, resp.Error.Details)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "variant_id", Message: "This field is required"},
		{Field: "quantity", Message: "Must be at least 0"},
	}

	resp := NewValidationErrorResponse("Validation failed", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	got, ok := resp.Error.Details.([]ValidationDetail)
	require.True(t, ok)
	assert.Len(t, got, 2)
	assert.Equal(t, "variant_id", got[0].Field)
}

func TestErrorResponseJSON(t *testing.T) {
	resp := NewErrorResponseWithDetails(ErrCodeCheckoutRejected, "Checkout was rejected", "req-test-123",
		[]string{"Variant is sold out"})

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, false, decoded["success"])
	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeCheckoutRejected, errInfo["code"])
	assert.Equal(t, "req-test-123", errInfo["request_id"])
	assert.Equal(t, []any{"Variant is sold out"}, errInfo["details"])
	_, hasData := decoded["data"]
	assert.False(t, hasData)
}

func TestNewSuccessResponse(t *testing.T) {
	data := map[string]string{"name": "test"}
	resp := NewSuccessResponse(data)

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}
