package services

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidatePaymentRequest(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("ValidRequest", func(t *testing.T) {
		req := &PaymentRequest{
			FeeID:  1,
			Amount: decimal.RequireFromString("2000.00"),
			Method: "upi",
		}
		assert.NoError(t, vh.ValidateStruct(req))
	})

	t.Run("EveryAcceptedMethod", func(t *testing.T) {
		for _, method := range []string{"cash", "upi", "card", "netbanking", "cheque"} {
			req := &PaymentRequest{
				FeeID:  1,
				Amount: decimal.RequireFromString("100.00"),
				Method: method,
			}
			assert.NoError(t, vh.ValidateStruct(req), "method %s", method)
		}
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		req := &PaymentRequest{
			FeeID:  1,
			Amount: decimal.RequireFromString("100.00"),
			Method: "crypto",
		}
		assert.Error(t, vh.ValidateStruct(req))
	})

	t.Run("MissingFeeID", func(t *testing.T) {
		req := &PaymentRequest{
			Amount: decimal.RequireFromString("100.00"),
			Method: "cash",
		}
		assert.Error(t, vh.ValidateStruct(req))
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("IncludesValidationDetails", func(t *testing.T) {
		vh := NewValidationHelper()
		err := vh.ValidateStruct(&PaymentRequest{Method: "barter"})

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", 400, err)

		var resp ErrorResponse
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Validation failed", resp.Error)
		assert.Contains(t, resp.Details, "Method")
	})

	t.Run("PlainError", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendErrorResponse(w, "Fee account not found", 404, nil)

		var resp ErrorResponse
		assert.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "Fee account not found", resp.Error)
		assert.Empty(t, resp.Details)
	})
}
