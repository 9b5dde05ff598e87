package services

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReceiptNo(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		receiptNo := generateReceiptNo()

		// RCP + 4 digit year + 6 digit timestamp + 4 digit random
		assert.Regexp(t, regexp.MustCompile(`^RCP\d{14}$`), receiptNo)
		assert.Len(t, receiptNo, 17)
	})

	t.Run("CurrentYearPrefix", func(t *testing.T) {
		receiptNo := generateReceiptNo()
		expectedPrefix := fmt.Sprintf("RCP%d", time.Now().Year())

		assert.Equal(t, expectedPrefix, receiptNo[:7])
	})

	t.Run("RandomSuffixInRange", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			receiptNo := generateReceiptNo()
			suffix := receiptNo[len(receiptNo)-4:]

			assert.GreaterOrEqual(t, suffix, "1000")
			assert.LessOrEqual(t, suffix, "9999")
		}
	})
}
