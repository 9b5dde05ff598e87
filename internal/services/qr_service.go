package services

import (
	"bytes"
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/skip2/go-qrcode"
)

// ReceiptQRService renders receipts as scannable QR codes. The encoded
// verification token is held in redis so a front-desk scan can be checked
// against the ledger without exposing raw transaction ids.
type ReceiptQRService struct {
	redis  *redis.Client
	ledger *LedgerStore
}

func NewReceiptQRService(db *sql.DB, redisClient *redis.Client) *ReceiptQRService {
	return &ReceiptQRService{
		redis:  redisClient,
		ledger: NewLedgerStore(db),
	}
}

// GenerateReceiptQR builds a verification code and QR image for one
// receipt. The code stays valid for 24 hours.
func (s *ReceiptQRService) GenerateReceiptQR(ctx context.Context, receiptNo string) (string, string, error) {
	event, err := s.ledger.FindByReceipt(receiptNo)
	if err != nil {
		return "", "", err
	}

	payload := map[string]any{
		"receiptNo":   event.ReceiptNo,
		"feeId":       event.FeeID,
		"amount":      event.Amount,
		"paymentDate": event.PaymentDate.Format("2006-01-02"),
		"method":      event.Method,
		"nonce":       s.generateNonce(),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	code := base64.URLEncoding.EncodeToString(jsonData)

	if s.redis != nil {
		key := fmt.Sprintf("receiptqr:%s", code)
		if err := s.redis.Set(ctx, key, jsonData, 24*time.Hour).Err(); err != nil {
			return "", "", err
		}
	}

	qr, err := qrcode.New(code, qrcode.Medium)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qr.Image(256)); err != nil {
		return "", "", err
	}

	qrImage := base64.StdEncoding.EncodeToString(buf.Bytes())

	return code, qrImage, nil
}

// VerifyReceiptQR resolves a scanned code back to its receipt payload. The
// code is not consumed; a receipt may be verified more than once before it
// expires.
func (s *ReceiptQRService) VerifyReceiptQR(ctx context.Context, code string) (map[string]any, error) {
	if s.redis == nil {
		return nil, fmt.Errorf("receipt verification unavailable")
	}

	key := fmt.Sprintf("receiptqr:%s", code)

	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("invalid or expired receipt code")
	}
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *ReceiptQRService) generateNonce() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
