package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/instipay/backend/internal/services"
)

type ReceiptQRHandler struct {
	service   *services.ReceiptQRService
	validator *services.ValidationHelper
}

func NewReceiptQRHandler(service *services.ReceiptQRService) *ReceiptQRHandler {
	return &ReceiptQRHandler{
		service:   service,
		validator: services.NewValidationHelper(),
	}
}

// GenerateQR renders a receipt as a QR code
// @Summary Generate receipt QR code
// @Description Generate a scannable verification QR code for a payment receipt
// @Tags receipts
// @Produce json
// @Security BearerAuth
// @Param receiptNo path string true "Receipt number"
// @Success 200 {object} object{code=string,qrImage=string}
// @Failure 404 {object} services.ErrorResponse
// @Router /receipts/{receiptNo}/qr [get]
func (h *ReceiptQRHandler) GenerateQR(w http.ResponseWriter, r *http.Request) {
	receiptNo := chi.URLParam(r, "receiptNo")

	code, qrImage, err := h.service.GenerateReceiptQR(r.Context(), receiptNo)
	if err != nil {
		if errors.Is(err, services.ErrReceiptNotFound) {
			services.SendErrorResponse(w, "Receipt not found", http.StatusNotFound, nil)
		} else {
			services.SendErrorResponse(w, "Failed to generate receipt QR", http.StatusInternalServerError, nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"code":    code,
		"qrImage": qrImage,
	})
}

// VerifyQR checks a scanned receipt code
// @Summary Verify receipt QR code
// @Description Resolve a scanned verification code back to its receipt details
// @Tags receipts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{code=string} true "Scanned code"
// @Success 200 {object} object{success=bool,receipt=object}
// @Failure 400 {object} services.ErrorResponse
// @Router /receipts/verify [post]
func (h *ReceiptQRHandler) VerifyQR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code" validate:"required"`
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		services.SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	receipt, err := h.service.VerifyReceiptQR(r.Context(), req.Code)
	if err != nil {
		services.SendErrorResponse(w, err.Error(), http.StatusBadRequest, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"receipt": receipt,
	})
}
