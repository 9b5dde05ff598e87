package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/instipay/backend/internal/audit"
	"github.com/instipay/backend/internal/models"
)

// AuditService is the read-only consistency sweep over the ledger and the
// fee summaries. Repair mode simply re-runs the reconciler on every
// mismatched account, so an interrupted sweep can always be re-run.
type AuditService struct {
	db         *sql.DB
	redis      *redis.Client
	reconciler *Reconciler
	audit      *audit.Logger
}

func NewAuditService(db *sql.DB, redisClient *redis.Client, reconciler *Reconciler) *AuditService {
	return &AuditService{
		db:         db,
		redis:      redisClient,
		reconciler: reconciler,
		audit:      audit.NewLogger(),
	}
}

// Scan reports every account whose recorded summary diverges from the
// ledger by more than one paisa on either field. It never mutates.
func (s *AuditService) Scan(ctx context.Context) ([]models.MismatchReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT f.fee_id,
		       f.paid_amount,
		       f.due_amount,
		       COALESCE(SUM(ft.amount), 0) AS actual_paid,
		       GREATEST(f.total_amount - COALESCE(SUM(ft.amount), 0), 0) AS actual_due
		FROM fees f
		LEFT JOIN fee_transactions ft ON ft.fee_id = f.fee_id
		GROUP BY f.fee_id, f.paid_amount, f.due_amount, f.total_amount
		HAVING ABS(f.paid_amount - COALESCE(SUM(ft.amount), 0)) > 0.01
		    OR ABS(f.due_amount - GREATEST(f.total_amount - COALESCE(SUM(ft.amount), 0), 0)) > 0.01
		ORDER BY f.fee_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mismatches := []models.MismatchReport{}
	for rows.Next() {
		var m models.MismatchReport
		err := rows.Scan(&m.FeeID, &m.RecordedPaid, &m.RecordedDue, &m.ActualPaid, &m.ActualDue)
		if err != nil {
			return nil, err
		}
		mismatches = append(mismatches, m)
	}
	return mismatches, rows.Err()
}

// Repair recomputes one account from the ledger.
func (s *AuditService) Repair(ctx context.Context, feeID int64) error {
	_, err := s.reconciler.Reconcile(ctx, feeID)
	return err
}

// RepairAll first drains the queue of accounts flagged by failed
// post-payment reconciliations, then repairs every mismatch the scan finds.
// Returns the number of accounts repaired. Reconciliation is idempotent, so
// an interrupted run leaves nothing worse than unrepaired accounts for the
// next one.
func (s *AuditService) RepairAll(ctx context.Context) (int, error) {
	sweepID := uuid.NewString()
	repaired := 0

	for _, feeID := range s.drainRepairQueue(ctx) {
		if err := s.Repair(ctx, feeID); err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				continue
			}
			return repaired, err
		}
		repaired++
	}

	mismatches, err := s.Scan(ctx)
	if err != nil {
		return repaired, err
	}

	for _, m := range mismatches {
		if err := s.Repair(ctx, m.FeeID); err != nil {
			return repaired, err
		}
		log.Printf("[AUDIT] sweep %s repaired fee %d: paid %s -> %s, due %s -> %s",
			sweepID, m.FeeID, m.RecordedPaid, m.ActualPaid, m.RecordedDue, m.ActualDue)
		repaired++
	}

	s.audit.LogSweep(sweepID, len(mismatches), repaired)
	return repaired, nil
}

// drainRepairQueue pops every account id queued by the payment service
// after a failed post-payment reconciliation.
func (s *AuditService) drainRepairQueue(ctx context.Context) []int64 {
	if s.redis == nil {
		return nil
	}
	var ids []int64
	for {
		val, err := s.redis.LPop(ctx, repairQueueKey).Result()
		if err == redis.Nil {
			break
		}
		if err != nil {
			log.Printf("[AUDIT] repair queue read failed: %v", err)
			break
		}
		id, convErr := strconv.ParseInt(val, 10, 64)
		if convErr != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// ScanMismatches reports ledger/summary mismatches
// @Summary Scan for mismatches
// @Description List fee accounts whose summary diverges from the transaction ledger
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{mismatches=[]models.MismatchReport,count=int}
// @Router /audit/mismatches [get]
func (s *AuditService) ScanMismatches(w http.ResponseWriter, r *http.Request) {
	mismatches, err := s.Scan(r.Context())
	if err != nil {
		SendErrorResponse(w, "Failed to scan for mismatches", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"mismatches": mismatches,
		"count":      len(mismatches),
	})
}

// RepairMismatches reconciles every mismatched account
// @Summary Repair mismatches
// @Description Re-run reconciliation on every queued or mismatched fee account
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{success=bool,repaired=int}
// @Router /audit/repair [post]
func (s *AuditService) RepairMismatches(w http.ResponseWriter, r *http.Request) {
	repaired, err := s.RepairAll(r.Context())
	if err != nil {
		log.Printf("[AUDIT] repair run failed after %d accounts: %v", repaired, err)
		SendErrorResponse(w, "Repair run failed", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"repaired": repaired,
	})
}
