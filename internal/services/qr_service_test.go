package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceiptQR(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	service := NewReceiptQRService(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE receipt_no = $1`)).
		WithArgs("RCP20261234561000").
		WillReturnRows(sqlmock.NewRows([]string{
			"transaction_id", "fee_id", "amount", "payment_date",
			"payment_method", "transaction_ref", "receipt_no", "received_by",
		}).AddRow(1, 1, "2000.00", time.Now(), "cash", "", "RCP20261234561000", "admin"))

	code, qrImage, err := service.GenerateReceiptQR(context.Background(), "RCP20261234561000")

	require.NoError(t, err)
	assert.NotEmpty(t, qrImage)

	// The code round-trips to the receipt payload.
	raw, err := base64.URLEncoding.DecodeString(code)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, "RCP20261234561000", payload["receiptNo"])
	assert.Equal(t, "cash", payload["method"])
	assert.NotEmpty(t, payload["nonce"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyReceiptQR(t *testing.T) {
	t.Run("ValidCode", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		redisClient, redisMock := redismock.NewClientMock()
		service := NewReceiptQRService(db, redisClient)

		stored := `{"receiptNo":"RCP20261234561000","feeId":1,"method":"cash"}`
		redisMock.ExpectGet("receiptqr:somecode").SetVal(stored)

		payload, err := service.VerifyReceiptQR(context.Background(), "somecode")

		require.NoError(t, err)
		assert.Equal(t, "RCP20261234561000", payload["receiptNo"])
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("UnknownOrExpiredCode", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		redisClient, redisMock := redismock.NewClientMock()
		service := NewReceiptQRService(db, redisClient)

		redisMock.ExpectGet("receiptqr:stale").RedisNil()

		_, err = service.VerifyReceiptQR(context.Background(), "stale")

		assert.Error(t, err)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})
}
