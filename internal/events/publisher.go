package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const TopicPaymentRecorded = "payments.recorded"

// Publisher fans successful payments out to downstream consumers
// (notifications, reporting). Publishing is best effort and never gates the
// payment itself.
type Publisher interface {
	Publish(topic string, event any) error
}

// PaymentRecorded is emitted after a payment has been appended to the
// ledger and the account summary reconciled.
type PaymentRecorded struct {
	ReceiptNo  string          `json:"receipt_no"`
	FeeID      int64           `json:"fee_id"`
	StudentID  int64           `json:"student_id"`
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"payment_method"`
	OccurredAt time.Time       `json:"occurred_at"`
}
