package services

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/instipay/backend/internal/models"
)

// SummaryStore reads and writes the derived summary columns on fees
// (paid_amount, due_amount, payment_status). WriteTx is invoked only by the
// reconciler, and every write is computed from a ledger read taken under the
// fee row lock, so concurrent writers converge on the same values.
type SummaryStore struct {
	db *sql.DB
}

func NewSummaryStore(db *sql.DB) *SummaryStore {
	return &SummaryStore{db: db}
}

const feeColumns = `fee_id, student_id, course_id, total_amount, paid_amount, due_amount, payment_status, updated_at`

func scanFeeAccount(row *sql.Row) (*models.FeeAccount, error) {
	acct := &models.FeeAccount{}
	err := row.Scan(
		&acct.FeeID, &acct.StudentID, &acct.CourseID, &acct.TotalAmount,
		&acct.PaidAmount, &acct.DueAmount, &acct.Status, &acct.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Read returns the current summary for one fee account.
func (s *SummaryStore) Read(feeID int64) (*models.FeeAccount, error) {
	row := s.db.QueryRow(
		`SELECT `+feeColumns+` FROM fees WHERE fee_id = $1`, feeID)
	return scanFeeAccount(row)
}

// ReadByStudent returns all fee accounts for one student, newest first.
func (s *SummaryStore) ReadByStudent(studentID int64) ([]models.FeeAccount, error) {
	rows, err := s.db.Query(
		`SELECT `+feeColumns+` FROM fees WHERE student_id = $1 ORDER BY fee_id DESC`, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := []models.FeeAccount{}
	for rows.Next() {
		var acct models.FeeAccount
		err := rows.Scan(
			&acct.FeeID, &acct.StudentID, &acct.CourseID, &acct.TotalAmount,
			&acct.PaidAmount, &acct.DueAmount, &acct.Status, &acct.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, rows.Err()
}

// LockTx locks one fee row for update and returns it. The row lock is what
// serializes concurrent payments and reconciles on the same account.
func (s *SummaryStore) LockTx(tx *sql.Tx, feeID int64) (*models.FeeAccount, error) {
	row := tx.QueryRow(
		`SELECT `+feeColumns+` FROM fees WHERE fee_id = $1 FOR UPDATE`, feeID)
	return scanFeeAccount(row)
}

// WriteTx stores the derived triple inside the caller's transaction.
func (s *SummaryStore) WriteTx(tx *sql.Tx, feeID int64, paid, due decimal.Decimal, status string) error {
	result, err := tx.Exec(`
		UPDATE fees
		SET paid_amount = $1, due_amount = $2, payment_status = $3, updated_at = $4
		WHERE fee_id = $5`,
		paid, due, status, time.Now(), feeID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// Summary aggregates every fee account for the admin report.
func (s *SummaryStore) Summary() (*models.FeeSummary, error) {
	summary := &models.FeeSummary{}
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(total_amount), 0),
		       COALESCE(SUM(paid_amount), 0),
		       COALESCE(SUM(due_amount), 0),
		       COALESCE(SUM(CASE WHEN payment_status = 'paid' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN payment_status = 'partial' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN payment_status = 'pending' THEN 1 ELSE 0 END), 0)
		FROM fees`).Scan(
		&summary.TotalAccounts, &summary.TotalAmount, &summary.TotalPaid,
		&summary.TotalDue, &summary.FullyPaid, &summary.PartiallyPaid, &summary.Pending,
	)
	if err != nil {
		return nil, err
	}
	return summary, nil
}
