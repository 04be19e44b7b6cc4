package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// reconciliationService surfaces business events whose ledger shadow is
// missing and retries them through the posting engine.
type reconciliationService struct {
	outboxRepo  portsrepo.OutboxRepository
	journalRepo portsrepo.JournalReader
	postingSvc  portssvc.PostingSvc
}

// NewReconciliationService creates a new reconciliation service.
func NewReconciliationService(outboxRepo portsrepo.OutboxRepository, journalRepo portsrepo.JournalReader, postingSvc portssvc.PostingSvc) portssvc.ReconciliationSvc {
	return &reconciliationService{
		outboxRepo:  outboxRepo,
		journalRepo: journalRepo,
		postingSvc:  postingSvc,
	}
}

var _ portssvc.ReconciliationSvc = (*reconciliationService)(nil)

// ListUnposted returns the reconciliation report rows: events recorded in the
// business tables with no posted journal entry yet.
func (s *reconciliationService) ListUnposted(ctx context.Context, limit, offset int) ([]domain.UnpostedTransactionRow, error) {
	if limit <= 0 {
		limit = 50
	}
	pendings, err := s.outboxRepo.ListPendingPostings(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.UnpostedTransactionRow, len(pendings))
	for i, p := range pendings {
		rows[i] = domain.UnpostedTransactionRow{
			PostingID:     p.PostingID,
			ReferenceType: p.ReferenceType,
			ReferenceID:   p.ReferenceID,
			Attempts:      p.Attempts,
			LastError:     p.LastError,
			CreatedAt:     p.CreatedAt,
		}
	}
	return rows, nil
}

// RetryPosting re-runs one pending posting. When an entry for the reference
// already exists, the outbox row is resolved without posting again.
func (s *reconciliationService) RetryPosting(ctx context.Context, postingID string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	pending, err := s.outboxRepo.FindPendingPostingByID(ctx, postingID)
	if err != nil {
		return nil, err
	}
	if pending.Status == domain.PostingPostedStatus {
		return s.journalRepo.FindJournalEntryByReference(ctx, pending.ReferenceType, pending.ReferenceID)
	}

	// Another path may have posted this reference since the failure.
	if entry, err := s.journalRepo.FindJournalEntryByReference(ctx, pending.ReferenceType, pending.ReferenceID); err == nil {
		if markErr := s.markResolved(ctx, *pending, actor); markErr != nil {
			return nil, markErr
		}
		return entry, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	entry, err := s.dispatch(ctx, *pending, actor)
	if err != nil {
		// The posting engine already bumped the attempt count on this row.
		logger.Warn("Posting retry failed",
			slog.String("posting_id", pending.PostingID),
			slog.String("reference_id", pending.ReferenceID),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	if err := s.markResolved(ctx, *pending, actor); err != nil {
		return nil, err
	}
	logger.Info("Pending posting resolved",
		slog.String("posting_id", pending.PostingID),
		slog.String("reference_id", pending.ReferenceID),
	)
	return entry, nil
}

// RetryAll re-runs every pending posting created before the cutoff and
// reports how many succeeded. Individual failures don't stop the sweep.
func (s *reconciliationService) RetryAll(ctx context.Context, cutoff time.Time, actor string) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	const batchSize = 200
	pendings, err := s.outboxRepo.ListPendingPostings(ctx, batchSize, 0)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for _, p := range pendings {
		if p.CreatedAt.After(cutoff) {
			continue
		}
		if _, err := s.RetryPosting(ctx, p.PostingID, actor); err != nil {
			continue
		}
		resolved++
	}

	logger.Info("Reconciliation sweep finished",
		slog.Int("pending", len(pendings)),
		slog.Int("resolved", resolved),
	)
	return resolved, nil
}

// dispatch rebuilds the original posting call from the stored payload.
func (s *reconciliationService) dispatch(ctx context.Context, pending domain.PendingPosting, actor string) (*domain.JournalEntry, error) {
	if len(pending.Payload) == 0 {
		return nil, fmt.Errorf("%w: pending posting %s has no payload to retry", apperrors.ErrInternal, pending.PostingID)
	}

	switch pending.ReferenceType {
	case domain.RefPayment:
		var payment domain.Payment
		if err := json.Unmarshal(pending.Payload, &payment); err != nil {
			return nil, fmt.Errorf("decoding payment payload: %w", err)
		}
		return s.postingSvc.PostStudentPayment(ctx, payment, actor)

	case domain.RefFeeAssignment:
		var assignment domain.FeeAssignment
		if err := json.Unmarshal(pending.Payload, &assignment); err != nil {
			return nil, fmt.Errorf("decoding fee assignment payload: %w", err)
		}
		return s.postingSvc.PostFeeAssignment(ctx, assignment, actor)

	case domain.RefExpense:
		var expense domain.Expense
		if err := json.Unmarshal(pending.Payload, &expense); err != nil {
			return nil, fmt.Errorf("decoding expense payload: %w", err)
		}
		return s.postingSvc.PostExpense(ctx, expense, actor)

	case domain.RefSalary:
		var payload salaryPayload
		if err := json.Unmarshal(pending.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decoding salary payload: %w", err)
		}
		return s.postingSvc.PostSalaryPayment(ctx, payload.Payment, payload.EmployerPension, actor)

	case domain.RefAsset:
		var asset domain.Asset
		if err := json.Unmarshal(pending.Payload, &asset); err != nil {
			return nil, fmt.Errorf("decoding asset payload: %w", err)
		}
		return s.postingSvc.PostAssetPurchase(ctx, asset, actor)

	case domain.RefDepreciation:
		var run domain.DepreciationRun
		if err := json.Unmarshal(pending.Payload, &run); err != nil {
			return nil, fmt.Errorf("decoding depreciation payload: %w", err)
		}
		return s.postingSvc.PostDepreciation(ctx, run, run.AssetID, actor)

	case domain.RefBankTxn:
		var payload bankTxnPayload
		if err := json.Unmarshal(pending.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decoding bank transaction payload: %w", err)
		}
		return s.postingSvc.PostBankTransaction(ctx, payload.Txn, payload.GLAccountCode, actor)

	case domain.RefBankTransfer:
		var payload bankTransferPayload
		if err := json.Unmarshal(pending.Payload, &payload); err != nil {
			return nil, fmt.Errorf("decoding bank transfer payload: %w", err)
		}
		return s.postingSvc.PostBankTransfer(ctx, payload.Transfer, payload.FromGLCode, payload.ToGLCode, actor)
	}

	return nil, fmt.Errorf("%w: unknown reference type %q on pending posting %s", apperrors.ErrInternal, pending.ReferenceType, pending.PostingID)
}

func (s *reconciliationService) markResolved(ctx context.Context, pending domain.PendingPosting, actor string) error {
	now := time.Now().UTC()
	pending.Status = domain.PostingPostedStatus
	pending.LastError = ""
	pending.LastTriedAt = &now
	pending.LastUpdatedAt = now
	pending.LastUpdatedBy = actor
	return s.outboxRepo.UpdatePendingPosting(ctx, pending)
}
