package services

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/instipay/backend/internal/models"
)

// LedgerStore owns the append-only fee_transactions table. Rows are never
// updated or deleted; the summary columns on fees are always recomputed from
// the sum of this table.
type LedgerStore struct {
	db *sql.DB
}

func NewLedgerStore(db *sql.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// AppendTx inserts one payment event inside the caller's transaction and
// returns its id. A receipt_no collision surfaces as ErrDuplicateReceipt;
// because the unique violation aborts the postgres transaction, the caller
// must restart the whole transaction with a fresh receipt number.
func (s *LedgerStore) AppendTx(tx *sql.Tx, event *models.PaymentEvent) (int64, error) {
	if event.Amount.LessThanOrEqual(decimal.Zero) {
		return 0, ErrInvalidAmount
	}

	var id int64
	err := tx.QueryRow(`
		INSERT INTO fee_transactions
		(fee_id, amount, payment_date, payment_method, transaction_ref, receipt_no, received_by, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8)
		RETURNING transaction_id`,
		event.FeeID, event.Amount, event.PaymentDate, event.Method,
		event.TransactionRef, event.ReceiptNo, event.ReceivedBy, time.Now()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateReceipt
		}
		return 0, err
	}
	return id, nil
}

// SumByAccountTx returns the exact sum of all ledger events for one fee
// account, zero if none. Summation happens in SQL over numeric(10,2) and is
// scanned into a decimal; no floating point is involved.
func (s *LedgerStore) SumByAccountTx(tx *sql.Tx, feeID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := tx.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM fee_transactions WHERE fee_id = $1`,
		feeID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// SumByAccount is the non-transactional variant for read-only callers.
func (s *LedgerStore) SumByAccount(feeID int64) (decimal.Decimal, error) {
	var sum decimal.Decimal
	err := s.db.QueryRow(
		`SELECT COALESCE(SUM(amount), 0) FROM fee_transactions WHERE fee_id = $1`,
		feeID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}

// FindByReceipt looks up a single payment event by its receipt number.
func (s *LedgerStore) FindByReceipt(receiptNo string) (*models.PaymentEvent, error) {
	event := &models.PaymentEvent{}
	err := s.db.QueryRow(`
		SELECT transaction_id, fee_id, amount, payment_date, payment_method,
		       COALESCE(transaction_ref, ''), receipt_no, received_by
		FROM fee_transactions
		WHERE receipt_no = $1`, receiptNo).Scan(
		&event.TransactionID, &event.FeeID, &event.Amount, &event.PaymentDate,
		&event.Method, &event.TransactionRef, &event.ReceiptNo, &event.ReceivedBy,
	)
	if err == sql.ErrNoRows {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// Recent returns the most recent payment events, newest first.
func (s *LedgerStore) Recent(limit int) ([]models.PaymentEvent, error) {
	rows, err := s.db.Query(`
		SELECT transaction_id, fee_id, amount, payment_date, payment_method,
		       COALESCE(transaction_ref, ''), receipt_no, received_by
		FROM fee_transactions
		ORDER BY transaction_id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.PaymentEvent{}
	for rows.Next() {
		var event models.PaymentEvent
		err := rows.Scan(
			&event.TransactionID, &event.FeeID, &event.Amount, &event.PaymentDate,
			&event.Method, &event.TransactionRef, &event.ReceiptNo, &event.ReceivedBy,
		)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
