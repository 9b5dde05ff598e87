package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"github.com/instipay/backend/internal/audit"
	"github.com/instipay/backend/internal/events"
	"github.com/instipay/backend/internal/models"
)

const repairQueueKey = "reconcile:repair_queue"

// PaymentService validates and records fee payments. It is the only
// state-changing entry point: every accepted payment is appended to the
// ledger and the account summary is reconciled before the call returns, so
// the payer always reads a summary consistent with the ledger.
type PaymentService struct {
	db         *sql.DB
	redis      *redis.Client
	ledger     *LedgerStore
	summary    *SummaryStore
	reconciler *Reconciler
	validator  *ValidationHelper
	audit      *audit.Logger
	publisher  events.Publisher
}

func NewPaymentService(db *sql.DB, redisClient *redis.Client, publisher events.Publisher) *PaymentService {
	ledger := NewLedgerStore(db)
	summary := NewSummaryStore(db)
	return &PaymentService{
		db:         db,
		redis:      redisClient,
		ledger:     ledger,
		summary:    summary,
		reconciler: NewReconciler(db, ledger, summary),
		validator:  NewValidationHelper(),
		audit:      audit.NewLogger(),
		publisher:  publisher,
	}
}

// Reconciler exposes the reconciler for the consistency auditor, which
// shares it so repair and post-payment reconciliation stay one code path.
func (s *PaymentService) Reconciler() *Reconciler {
	return s.reconciler
}

// PaymentRequest is the decoded body for POST /payments.
type PaymentRequest struct {
	FeeID          int64           `json:"feeId" validate:"required,gt=0"`
	Amount         decimal.Decimal `json:"amount" validate:"required"`
	Method         string          `json:"paymentMethod" validate:"required,oneof=cash upi card netbanking cheque"`
	TransactionRef string          `json:"transactionRef" validate:"omitempty,max=100"`
}

// RecordPayment validates a payment, appends it to the ledger and
// reconciles the account summary. receivedBy is the acting user from the
// caller's auth context, passed explicitly.
//
// On ErrReconciliationFailedAfterPayment the returned receipt is still
// valid (the ledger entry is durable) but PostState may lag until the
// auditor's next sweep.
func (s *PaymentService) RecordPayment(ctx context.Context, req *PaymentRequest, receivedBy string) (*models.Receipt, error) {
	amount := req.Amount
	if amount.LessThanOrEqual(decimal.Zero) || !amount.Equal(amount.Round(2)) {
		return nil, ErrInvalidAmount
	}

	event := &models.PaymentEvent{
		FeeID:          req.FeeID,
		Amount:         amount,
		PaymentDate:    time.Now(),
		Method:         req.Method,
		TransactionRef: req.TransactionRef,
		ReceivedBy:     receivedBy,
	}

	if err := s.appendWithFreshReceipts(ctx, event); err != nil {
		return nil, err
	}

	receipt := &models.Receipt{
		ReceiptNo:   event.ReceiptNo,
		Amount:      amount,
		PaymentDate: event.PaymentDate,
		Method:      req.Method,
	}

	acct, err := s.reconciler.Reconcile(ctx, req.FeeID)
	if err != nil {
		// The ledger entry is committed but the summary is stale. Never
		// swallow this: log it as critical and queue the account for the
		// auditor's next sweep.
		s.audit.LogCritical(event.ReceiptNo, req.FeeID, err)
		s.queueForRepair(ctx, req.FeeID)
		if stale, readErr := s.summary.Read(req.FeeID); readErr == nil {
			receipt.PostState = *stale
		}
		return receipt, fmt.Errorf("%w: fee %d: %v", ErrReconciliationFailedAfterPayment, req.FeeID, err)
	}

	receipt.PostState = *acct
	s.audit.LogPayment(event.ReceiptNo, req.FeeID, amount, acct.Status)

	if s.publisher != nil {
		go s.publishRecorded(event, acct.StudentID)
	}

	return receipt, nil
}

// appendWithFreshReceipts runs the intake transaction, regenerating the
// receipt number on collision. Each attempt gets a fresh transaction because
// a unique violation aborts the current one.
func (s *PaymentService) appendWithFreshReceipts(ctx context.Context, event *models.PaymentEvent) error {
	for attempt := 1; attempt <= maxReceiptAttempts; attempt++ {
		event.ReceiptNo = generateReceiptNo()

		err := withRetry(func() error { return s.appendOnce(ctx, event) })
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrDuplicateReceipt) {
			log.Printf("[PAYMENT] receipt %s collided, regenerating (%d/%d)",
				event.ReceiptNo, attempt, maxReceiptAttempts)
			continue
		}
		return err
	}
	return ErrReceiptGenerationExhausted
}

// appendOnce locks the fee row, re-derives the due amount from the ledger
// sum and appends the event, all in one transaction. Deriving due from the
// ledger rather than the projection means two concurrent payments can never
// jointly overpay: the second blocks on the row lock and then sees the
// first one's committed event in the sum.
func (s *PaymentService) appendOnce(ctx context.Context, event *models.PaymentEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	acct, err := s.summary.LockTx(tx, event.FeeID)
	if err != nil {
		return err
	}

	paid, err := s.ledger.SumByAccountTx(tx, event.FeeID)
	if err != nil {
		return err
	}

	due, _ := deriveSummary(acct.TotalAmount, paid)
	if event.Amount.GreaterThan(due) {
		return ErrExceedsDue
	}

	id, err := s.ledger.AppendTx(tx, event)
	if err != nil {
		return err
	}
	event.TransactionID = id

	return tx.Commit()
}

func (s *PaymentService) queueForRepair(ctx context.Context, feeID int64) {
	if s.redis == nil {
		return
	}
	if err := s.redis.RPush(ctx, repairQueueKey, feeID).Err(); err != nil {
		log.Printf("[PAYMENT] failed to queue fee %d for repair: %v", feeID, err)
	}
}

func (s *PaymentService) publishRecorded(event *models.PaymentEvent, studentID int64) {
	recorded := events.PaymentRecorded{
		ReceiptNo:  event.ReceiptNo,
		FeeID:      event.FeeID,
		StudentID:  studentID,
		Amount:     event.Amount,
		Method:     event.Method,
		OccurredAt: event.PaymentDate,
	}
	if err := s.publisher.Publish(events.TopicPaymentRecorded, recorded); err != nil {
		log.Printf("[PAYMENT] failed to publish payment %s: %v", event.ReceiptNo, err)
	}
}

// CreatePayment records a fee payment
// @Summary Record a fee payment
// @Description Validate a payment, append it to the transaction ledger and reconcile the fee account summary
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payment body PaymentRequest true "Payment data"
// @Success 201 {object} object{success=bool,receipt=models.Receipt}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /payments [post]
func (s *PaymentService) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		SendErrorResponse(w, "Unauthorized", http.StatusUnauthorized, nil)
		return
	}

	var req PaymentRequest

	maxBytes := 1_048_576 // 1 MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	receipt, err := s.RecordPayment(r.Context(), &req, userID)
	if err != nil {
		writePaymentError(w, receipt, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"receipt": receipt,
	})
}

// writePaymentError maps intake errors to responses the payment UI can act
// on: fix-and-resubmit, try-again, or accepted-with-warning.
func writePaymentError(w http.ResponseWriter, receipt *models.Receipt, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		SendErrorResponse(w, "Fee account not found", http.StatusNotFound, nil)
	case errors.Is(err, ErrInvalidAmount):
		SendErrorResponse(w, ErrInvalidAmount.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, ErrExceedsDue):
		SendErrorResponse(w, ErrExceedsDue.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, ErrReceiptGenerationExhausted):
		SendErrorResponse(w, "Could not generate a receipt number, please retry", http.StatusServiceUnavailable, nil)
	case errors.Is(err, ErrReconciliationFailedAfterPayment):
		// The payment itself succeeded; tell the caller the summary needs
		// administrator attention instead of pretending it failed.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"receipt": receipt,
			"warning": "payment recorded but fee summary update failed; flagged for audit",
		})
	default:
		SendErrorResponse(w, "Failed to process payment", http.StatusInternalServerError, nil)
	}
}

// GetFeeAccount retrieves one fee account summary
// @Summary Get fee account
// @Description Retrieve a fee account with its reconciled paid/due/status summary
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param feeId path int true "Fee account ID"
// @Success 200 {object} models.FeeAccount
// @Failure 404 {object} ErrorResponse
// @Router /fees/{feeId} [get]
func (s *PaymentService) GetFeeAccount(w http.ResponseWriter, r *http.Request) {
	feeID, err := strconv.ParseInt(chi.URLParam(r, "feeId"), 10, 64)
	if err != nil {
		SendErrorResponse(w, "Invalid fee id", http.StatusBadRequest, nil)
		return
	}

	acct, err := s.summary.Read(feeID)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			SendErrorResponse(w, "Fee account not found", http.StatusNotFound, nil)
		} else {
			SendErrorResponse(w, "Failed to fetch fee account", http.StatusInternalServerError, nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(acct)
}

// ListFeeAccounts lists fee accounts for a student
// @Summary List fee accounts
// @Description List all fee accounts for one student
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Param studentId query int true "Student ID"
// @Success 200 {object} object{accounts=[]models.FeeAccount,count=int}
// @Failure 400 {object} ErrorResponse
// @Router /fees [get]
func (s *PaymentService) ListFeeAccounts(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(r.URL.Query().Get("studentId"), 10, 64)
	if err != nil || studentID <= 0 {
		SendErrorResponse(w, "studentId is required", http.StatusBadRequest, nil)
		return
	}

	accounts, err := s.summary.ReadByStudent(studentID)
	if err != nil {
		SendErrorResponse(w, "Failed to fetch fee accounts", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// GetFeeSummary returns the institute-wide fee report
// @Summary Fee summary report
// @Description Totals and payment status breakdown across all fee accounts
// @Tags fees
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.FeeSummary
// @Router /fees/summary [get]
func (s *PaymentService) GetFeeSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.summary.Summary()
	if err != nil {
		SendErrorResponse(w, "Failed to fetch fee summary", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// GetRecentPayments retrieves recent payment events
// @Summary Recent payments
// @Description Most recent ledger entries, newest first
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of payments to return (default: 10, max: 100)"
// @Success 200 {object} object{payments=[]models.PaymentEvent,count=int}
// @Router /payments/recent [get]
func (s *PaymentService) GetRecentPayments(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Limit int `validate:"omitempty,min=1,max=100"`
	}
	req.Limit = 10

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil {
			req.Limit = l
		}
	}

	if err := s.validator.ValidateStruct(&req); err != nil {
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	payments, err := s.ledger.Recent(req.Limit)
	if err != nil {
		SendErrorResponse(w, "Failed to fetch recent payments", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"payments": payments,
		"count":    len(payments),
	})
}

// GetReceipt looks up a payment by receipt number
// @Summary Get payment by receipt
// @Description Retrieve one ledger entry by its receipt number
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param receiptNo path string true "Receipt number"
// @Success 200 {object} models.PaymentEvent
// @Failure 404 {object} ErrorResponse
// @Router /receipts/{receiptNo} [get]
func (s *PaymentService) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receiptNo := chi.URLParam(r, "receiptNo")

	event, err := s.ledger.FindByReceipt(receiptNo)
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			SendErrorResponse(w, "Receipt not found", http.StatusNotFound, nil)
		} else {
			SendErrorResponse(w, "Failed to fetch receipt", http.StatusInternalServerError, nil)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(event)
}
