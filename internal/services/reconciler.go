package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/instipay/backend/internal/models"
)

// dueEpsilon absorbs sub-paisa rounding noise left behind by older
// float-based writers. With decimal arithmetic end to end the clamp only
// fires on hand-corrupted rows.
var dueEpsilon = decimal.RequireFromString("0.01")

// Reconciler recomputes the fees summary columns from the transaction
// ledger. The ledger sum is the sole source of truth: reconciling twice with
// no intervening payments writes the same values, so the same code path
// serves both the post-payment update and the auditor's batch repair.
type Reconciler struct {
	db      *sql.DB
	ledger  *LedgerStore
	summary *SummaryStore
}

func NewReconciler(db *sql.DB, ledger *LedgerStore, summary *SummaryStore) *Reconciler {
	return &Reconciler{db: db, ledger: ledger, summary: summary}
}

// Reconcile recomputes one account in its own transaction, holding the fee
// row lock across the ledger read and the summary write.
func (r *Reconciler) Reconcile(ctx context.Context, feeID int64) (*models.FeeAccount, error) {
	var acct *models.FeeAccount
	err := withRetry(func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		acct, err = r.ReconcileTx(tx, feeID)
		if err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// ReconcileTx recomputes one account inside the caller's transaction. The
// caller is responsible for commit and rollback.
func (r *Reconciler) ReconcileTx(tx *sql.Tx, feeID int64) (*models.FeeAccount, error) {
	acct, err := r.summary.LockTx(tx, feeID)
	if err != nil {
		return nil, err
	}

	paid, err := r.ledger.SumByAccountTx(tx, feeID)
	if err != nil {
		return nil, fmt.Errorf("summing ledger for fee %d: %w", feeID, err)
	}

	due, status := deriveSummary(acct.TotalAmount, paid)

	if err := r.summary.WriteTx(tx, feeID, paid, due, status); err != nil {
		return nil, err
	}

	acct.PaidAmount = paid
	acct.DueAmount = due
	acct.Status = status
	return acct, nil
}

// deriveSummary computes due and status from the immutable total and the
// ledger sum. Due below one paisa clamps to exactly zero; an overpaid ledger
// clamps the same way and reports paid.
func deriveSummary(total, paid decimal.Decimal) (decimal.Decimal, string) {
	due := total.Sub(paid)
	if due.LessThan(dueEpsilon) {
		due = decimal.Zero
	}
	switch {
	case due.IsZero():
		return due, models.StatusPaid
	case paid.IsPositive():
		return due, models.StatusPartial
	default:
		return due, models.StatusPending
	}
}
