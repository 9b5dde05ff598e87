package services

import (
	"errors"
	"log"

	"github.com/lib/pq"
)

// Intake and reconciliation errors. Validation errors are user-correctable
// and rejected before any write; ErrReceiptGenerationExhausted is transient
// and worth a retry; ErrReconciliationFailedAfterPayment means the ledger
// holds an accepted payment the summary does not yet reflect.
var (
	ErrInvalidAmount                    = errors.New("amount must be positive with at most two decimal places")
	ErrExceedsDue                       = errors.New("payment amount exceeds due amount")
	ErrDuplicateReceipt                 = errors.New("receipt number already exists")
	ErrReceiptGenerationExhausted       = errors.New("unable to generate a unique receipt number")
	ErrReconciliationFailedAfterPayment = errors.New("payment recorded but fee summary update failed")
	ErrAccountNotFound                  = errors.New("fee account not found")
	ErrReceiptNotFound                  = errors.New("receipt not found")
)

const maxTransientRetries = 3

// isUniqueViolation reports whether err is a postgres unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// isRetryable reports whether err is a postgres serialization failure or
// deadlock, both of which are safe to retry at the transaction boundary.
func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// withRetry re-runs fn on transient storage errors, a small bounded number
// of times. Exhaustion surfaces the last error; there is no partial write
// because fn always runs inside its own transaction.
func withRetry(fn func() error) error {
	var err error
	for attempt := 1; attempt <= maxTransientRetries; attempt++ {
		if err = fn(); err == nil || !isRetryable(err) {
			return err
		}
		log.Printf("[STORE] transient error, retrying (%d/%d): %v", attempt, maxTransientRetries, err)
	}
	return err
}
