package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment status values derived by the reconciler.
const (
	StatusPending = "pending"
	StatusPartial = "partial"
	StatusPaid    = "paid"
)

// FeeAccount is one student-course charge plan. total_amount is fixed at
// enrollment; paid_amount, due_amount and payment_status are derived from
// the transaction ledger and written only by the reconciler.
type FeeAccount struct {
	FeeID       int64           `json:"feeId" db:"fee_id"`
	StudentID   int64           `json:"studentId" db:"student_id"`
	CourseID    int64           `json:"courseId" db:"course_id"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paidAmount" db:"paid_amount"`
	DueAmount   decimal.Decimal `json:"dueAmount" db:"due_amount"`
	Status      string          `json:"paymentStatus" db:"payment_status"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// PaymentEvent is one accepted payment. Immutable once written.
type PaymentEvent struct {
	TransactionID  int64           `json:"transactionId" db:"transaction_id"`
	FeeID          int64           `json:"feeId" db:"fee_id"`
	Amount         decimal.Decimal `json:"amount" db:"amount"`
	PaymentDate    time.Time       `json:"paymentDate" db:"payment_date"`
	Method         string          `json:"paymentMethod" db:"payment_method"`
	TransactionRef string          `json:"transactionRef,omitempty" db:"transaction_ref"`
	ReceiptNo      string          `json:"receiptNo" db:"receipt_no"`
	ReceivedBy     string          `json:"receivedBy" db:"received_by"`
}

// Receipt is returned to the payer after a successful payment. PostState is
// the account summary as reconciled at the moment the payment was accepted.
type Receipt struct {
	ReceiptNo   string          `json:"receiptNo"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Method      string          `json:"paymentMethod"`
	PostState   FeeAccount      `json:"account"`
}

// MismatchReport is one ledger/summary divergence found by the auditor.
type MismatchReport struct {
	FeeID        int64           `json:"feeId"`
	RecordedPaid decimal.Decimal `json:"recordedPaid"`
	RecordedDue  decimal.Decimal `json:"recordedDue"`
	ActualPaid   decimal.Decimal `json:"actualPaid"`
	ActualDue    decimal.Decimal `json:"actualDue"`
}

// FeeSummary aggregates every fee account for the admin report.
type FeeSummary struct {
	TotalAccounts int64           `json:"totalAccounts"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	TotalDue      decimal.Decimal `json:"totalDue"`
	FullyPaid     int64           `json:"fullyPaid"`
	PartiallyPaid int64           `json:"partiallyPaid"`
	Pending       int64           `json:"pending"`
}
