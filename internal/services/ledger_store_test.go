package services

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/instipay/backend/internal/models"
)

func testEvent(feeID int64, amount string) *models.PaymentEvent {
	return &models.PaymentEvent{
		FeeID:       feeID,
		Amount:      decimal.RequireFromString(amount),
		PaymentDate: time.Now(),
		Method:      "cash",
		ReceiptNo:   "RCP20261234561000",
		ReceivedBy:  "admin",
	}
}

func TestAppendTx(t *testing.T) {
	t.Run("AppendsAndReturnsID", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewLedgerStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO fee_transactions`).
			WithArgs(int64(1), sqlmock.AnyArg(), sqlmock.AnyArg(), "cash",
				"", "RCP20261234561000", "admin", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"transaction_id"}).AddRow(42))

		tx, err := db.Begin()
		require.NoError(t, err)

		id, err := store.AppendTx(tx, testEvent(1, "2000.00"))

		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateReceiptNo", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewLedgerStore(db)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO fee_transactions`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "fee_transactions_receipt_no_key"})

		tx, err := db.Begin()
		require.NoError(t, err)

		_, err = store.AppendTx(tx, testEvent(1, "2000.00"))

		assert.ErrorIs(t, err, ErrDuplicateReceipt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectsNonPositiveAmountBeforeWrite", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewLedgerStore(db)

		mock.ExpectBegin()

		tx, err := db.Begin()
		require.NoError(t, err)

		for _, amount := range []string{"0", "-50.00"} {
			_, err = store.AppendTx(tx, testEvent(1, amount))
			assert.ErrorIs(t, err, ErrInvalidAmount)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSumByAccount(t *testing.T) {
	t.Run("ExactDecimalSum", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewLedgerStore(db)

		// 1500.00 + 1500.49 must come back as exactly 3000.49
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM fee_transactions WHERE fee_id = $1`)).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("3000.49"))

		sum, err := store.SumByAccount(1)

		require.NoError(t, err)
		assert.True(t, sum.Equal(decimal.RequireFromString("3000.49")),
			"sum = %s, want 3000.49", sum)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("EmptyLedgerSumsToZero", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewLedgerStore(db)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(SUM(amount), 0) FROM fee_transactions WHERE fee_id = $1`)).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("0"))

		sum, err := store.SumByAccount(7)

		require.NoError(t, err)
		assert.True(t, sum.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFindByReceipt(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewLedgerStore(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE receipt_no = $1`)).
			WithArgs("RCP20261234561000").
			WillReturnRows(sqlmock.NewRows([]string{
				"transaction_id", "fee_id", "amount", "payment_date",
				"payment_method", "transaction_ref", "receipt_no", "received_by",
			}).AddRow(42, 1, "2000.00", time.Now(), "upi", "UPI-REF-1", "RCP20261234561000", "admin"))

		event, err := store.FindByReceipt("RCP20261234561000")

		require.NoError(t, err)
		assert.Equal(t, int64(42), event.TransactionID)
		assert.Equal(t, "upi", event.Method)
		assert.True(t, event.Amount.Equal(decimal.RequireFromString("2000.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewLedgerStore(db)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE receipt_no = $1`)).
			WithArgs("RCP0000000000000").
			WillReturnError(sql.ErrNoRows)

		_, err = store.FindByReceipt("RCP0000000000000")

		assert.ErrorIs(t, err, ErrReceiptNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewLedgerStore(db)

	mock.ExpectQuery(`ORDER BY transaction_id DESC`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{
			"transaction_id", "fee_id", "amount", "payment_date",
			"payment_method", "transaction_ref", "receipt_no", "received_by",
		}).
			AddRow(5, 1, "3000.00", time.Now(), "upi", "", "RCP20261234565005", "admin").
			AddRow(4, 2, "1000.00", time.Now(), "cash", "", "RCP20261234564004", "clerk"))

	events, err := store.Recent(2)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(5), events[0].TransactionID)
	assert.Equal(t, int64(4), events[1].TransactionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
