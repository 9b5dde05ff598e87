package services

import (
	"fmt"
	"math/rand"
	"time"
)

const maxReceiptAttempts = 5

// generateReceiptNo builds a receipt number from a stable prefix, the
// current year, a millisecond-derived six digit disambiguator and a four
// digit random suffix. Collisions are caught by the unique index on
// receipt_no and retried with a fresh number, bounded by maxReceiptAttempts.
func generateReceiptNo() string {
	now := time.Now()
	ts := now.UnixMilli() % 1000000
	return fmt.Sprintf("RCP%d%06d%04d", now.Year(), ts, 1000+rand.Intn(9000))
}
