package audit

import (
	"encoding/json"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	Timestamp time.Time        `json:"timestamp"`
	EventType string           `json:"event_type"`
	ReceiptNo string           `json:"receipt_no,omitempty"`
	FeeID     int64            `json:"fee_id,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
	Status    string           `json:"status"`
	Details   any              `json:"details,omitempty"`
}

// Logger emits structured audit events for every payment, reconciliation
// failure and auditor sweep.
type Logger struct{}

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) LogPayment(receiptNo string, feeID int64, amount decimal.Decimal, feeStatus string) {
	l.log(Event{
		Timestamp: time.Now(),
		EventType: "PAYMENT",
		ReceiptNo: receiptNo,
		FeeID:     feeID,
		Amount:    &amount,
		Status:    "SUCCESS",
		Details:   map[string]string{"fee_status": feeStatus},
	})
}

// LogCritical records a ledger/summary inconsistency. These must never pass
// silently: the ledger holds an accepted payment the summary does not
// reflect until the auditor repairs the account.
func (l *Logger) LogCritical(receiptNo string, feeID int64, err error) {
	l.log(Event{
		Timestamp: time.Now(),
		EventType: "RECONCILE_FAILED",
		ReceiptNo: receiptNo,
		FeeID:     feeID,
		Status:    "CRITICAL",
		Details:   map[string]string{"error": err.Error()},
	})
}

func (l *Logger) LogSweep(sweepID string, mismatches, repaired int) {
	l.log(Event{
		Timestamp: time.Now(),
		EventType: "AUDIT_SWEEP",
		Status:    "SUCCESS",
		Details: map[string]any{
			"sweep_id":   sweepID,
			"mismatches": mismatches,
			"repaired":   repaired,
		},
	})
}

func (l *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	log.Printf("AUDIT: %s", string(data))
}
