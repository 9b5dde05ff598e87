package services

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryStoreRead(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewSummaryStore(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM fees WHERE fee_id = $1`)).
			WithArgs(int64(1)).
			WillReturnRows(feeRows(1, "5000.00", "2000.00", "3000.00", "partial"))

		acct, err := store.Read(1)

		require.NoError(t, err)
		assert.Equal(t, int64(1), acct.FeeID)
		assert.Equal(t, "partial", acct.Status)
		assert.True(t, acct.DueAmount.Equal(decimal.RequireFromString("3000.00")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewSummaryStore(db)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM fees WHERE fee_id = $1`)).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err = store.Read(99)

		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSummaryStoreWriteTx(t *testing.T) {
	t.Run("NoRowMeansAccountNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		store := NewSummaryStore(db)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE fees`).
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "paid", sqlmock.AnyArg(), int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		tx, err := db.Begin()
		require.NoError(t, err)

		err = store.WriteTx(tx, 99, decimal.RequireFromString("100.00"), decimal.Zero, "paid")

		assert.ErrorIs(t, err, ErrAccountNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSummaryStoreReadByStudent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSummaryStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM fees WHERE student_id = $1`)).
		WithArgs(int64(101)).
		WillReturnRows(feeRows(2, "8000.00", "8000.00", "0", "paid").
			AddRow(1, 101, 11, "5000.00", "2000.00", "3000.00", "partial", time.Now()))

	accounts, err := store.ReadByStudent(101)

	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "paid", accounts[0].Status)
	assert.Equal(t, "partial", accounts[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryReport(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSummaryStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*)`)).
		WillReturnRows(sqlmock.NewRows([]string{
			"count", "total", "paid", "due", "fully_paid", "partially_paid", "pending",
		}).AddRow(3, "15000.00", "7000.00", "8000.00", 1, 1, 1))

	summary, err := store.Summary()

	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalAccounts)
	assert.True(t, summary.TotalDue.Equal(decimal.RequireFromString("8000.00")))
	assert.Equal(t, int64(1), summary.FullyPaid)
	assert.Equal(t, int64(1), summary.PartiallyPaid)
	assert.Equal(t, int64(1), summary.Pending)
	assert.NoError(t, mock.ExpectationsWereMet())
}
