package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
	portssvc "github.com/schoolfin/sfm_backend/internal/core/ports/services"
	"github.com/schoolfin/sfm_backend/internal/dto"
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

var (
	ErrEntryMinLines    = errors.New("journal entry must have at least two lines")
	ErrEntryMinAccounts = errors.New("journal entry must affect at least two different accounts")
	ErrEntryOneSided    = errors.New("journal line must have exactly one of debit or credit set")
	ErrEntryNotDraft    = errors.New("only draft entries can be posted")
	ErrEntryNotPosted   = errors.New("only posted entries can be reversed")
)

// journalService provides journal entry lifecycle operations: draft, post,
// reverse, list and trial balance.
type journalService struct {
	journalRepo   portsrepo.JournalRepository
	accountRepo   portsrepo.AccountReader
	reportingRepo portsrepo.ReportingRepository
}

// NewJournalService creates a new journal service.
func NewJournalService(journalRepo portsrepo.JournalRepository, accountRepo portsrepo.AccountReader, reportingRepo portsrepo.ReportingRepository) portssvc.JournalSvcFacade {
	return &journalService{
		journalRepo:   journalRepo,
		accountRepo:   accountRepo,
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// validateLines enforces the double-entry shape: at least two lines across at
// least two accounts, every line strictly one-sided with a positive amount,
// and debit and credit totals equal.
func validateLines(lines []domain.JournalLine) error {
	if len(lines) < 2 {
		return ErrEntryMinLines
	}

	accountSet := make(map[string]bool, len(lines))
	for _, line := range lines {
		debitSet := line.Debit.IsPositive()
		creditSet := line.Credit.IsPositive()
		if debitSet == creditSet {
			return fmt.Errorf("%w: account %s has debit %s and credit %s", ErrEntryOneSided, line.AccountCode, line.Debit, line.Credit)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: negative amount on account %s", apperrors.ErrValidation, line.AccountCode)
		}
		accountSet[line.AccountCode] = true
	}
	if len(accountSet) < 2 {
		return ErrEntryMinAccounts
	}

	totalDebit := domain.TotalDebit(lines)
	totalCredit := domain.TotalCredit(lines)
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("%w: debits %s, credits %s", apperrors.ErrUnbalanced, totalDebit, totalCredit)
	}
	return nil
}

// buildEntry assembles a journal entry and its lines from resolved accounts,
// assigning IDs, the sequential entry number and audit fields.
func (s *journalService) buildEntry(ctx context.Context, entryDate time.Time, description string, referenceType domain.ReferenceType, referenceID string, lines []domain.JournalLine, actor string) (*domain.JournalEntry, error) {
	now := time.Now().UTC()
	journalID := uuid.NewString()

	entryNumber, err := s.journalRepo.NextEntryNumber(ctx, entryDate.Year())
	if err != nil {
		return nil, fmt.Errorf("reserving entry number: %w", err)
	}

	for i := range lines {
		lines[i].LineID = uuid.NewString()
		lines[i].JournalID = journalID
	}

	entry := domain.JournalEntry{
		JournalID:     journalID,
		EntryNumber:   entryNumber,
		EntryDate:     entryDate,
		Description:   description,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		Status:        domain.Draft,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	return &entry, nil
}

// CreateEntry records a manual journal entry. It stays a draft unless the
// request asks to post immediately.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	codes := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		codes = append(codes, l.AccountCode)
	}
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("fetching accounts for journal entry: %w", err)
	}

	lines := make([]domain.JournalLine, len(req.Lines))
	for i, l := range req.Lines {
		account, found := accounts[l.AccountCode]
		if !found {
			return nil, fmt.Errorf("%w: account %q does not exist", apperrors.ErrValidation, l.AccountCode)
		}
		if !account.IsActive {
			return nil, fmt.Errorf("%w: account %q is inactive", apperrors.ErrValidation, l.AccountCode)
		}
		lines[i] = domain.JournalLine{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			AccountName: account.Name,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		}
	}

	if err := validateLines(lines); err != nil {
		return nil, err
	}

	entry, err := s.buildEntry(ctx, req.EntryDate, req.Description, domain.RefManual, "", lines, actor)
	if err != nil {
		return nil, err
	}

	if err := s.journalRepo.SaveJournalEntry(ctx, *entry, entry.Lines); err != nil {
		return nil, err
	}
	logger.Info("Journal entry created",
		slog.String("journal_id", entry.JournalID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("total", entry.TotalDebit().String()),
	)

	if req.PostNow {
		return s.PostEntry(ctx, entry.JournalID, actor)
	}
	return entry, nil
}

// PostEntry transitions a draft entry to POSTED. Posted entries are immutable.
func (s *journalService) PostEntry(ctx context.Context, journalID string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.GetEntryByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: %v (entry %s is %s)", apperrors.ErrConflict, ErrEntryNotDraft, entry.EntryNumber, entry.Status)
	}
	// Re-validate before posting; drafts could predate account deactivation.
	if err := validateLines(entry.Lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.UpdateEntryStatus(ctx, journalID, domain.Posted, &now, nil, actor, now); err != nil {
		return nil, err
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = actor

	middleware.CountEntryPosted(string(entry.ReferenceType))
	logger.Info("Journal entry posted",
		slog.String("journal_id", entry.JournalID),
		slog.String("entry_number", entry.EntryNumber),
	)
	return entry, nil
}

// ReverseEntry creates and posts a reversing entry with debit and credit legs
// swapped, and marks the original REVERSED. The original's lines stay intact;
// corrections are never edits.
func (s *journalService) ReverseEntry(ctx context.Context, journalID string, reason string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.GetEntryByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("%w: %v (entry %s is %s)", apperrors.ErrConflict, ErrEntryNotPosted, original.EntryNumber, original.Status)
	}

	reversedLines := make([]domain.JournalLine, len(original.Lines))
	for i, l := range original.Lines {
		reversedLines[i] = domain.JournalLine{
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			AccountName: l.AccountName,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
		}
	}

	now := time.Now().UTC()
	description := fmt.Sprintf("Reversal of %s: %s", original.EntryNumber, reason)
	reversing, err := s.buildEntry(ctx, now, description, original.ReferenceType, original.ReferenceID, reversedLines, actor)
	if err != nil {
		return nil, err
	}
	reversing.Status = domain.Posted
	reversing.PostedAt = &now
	reversing.OriginalJournalID = &original.JournalID

	if err := s.journalRepo.SaveReversal(ctx, *reversing, reversing.Lines, original.JournalID, actor, now); err != nil {
		return nil, err
	}

	logger.Info("Journal entry reversed",
		slog.String("original_journal_id", original.JournalID),
		slog.String("reversing_journal_id", reversing.JournalID),
		slog.String("reversing_entry_number", reversing.EntryNumber),
	)
	return reversing, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, journalID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if len(entry.Lines) == 0 {
		lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
		if err != nil {
			return nil, err
		}
		entry.Lines = lines
	}
	return entry, nil
}

// ListEntries retrieves entry headers matching the filter.
func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, error) {
	filter := portsrepo.ListEntriesFilter{
		From:   params.From,
		To:     params.To,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if params.ReferenceType != nil {
		rt := domain.ReferenceType(*params.ReferenceType)
		filter.ReferenceType = &rt
	}
	if params.Status != nil {
		st := domain.EntryStatus(*params.Status)
		filter.Status = &st
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.journalRepo.ListJournalEntries(ctx, filter)
}

// GetTrialBalance aggregates posted lines per account as of a date. The
// result is balanced by construction as long as only balanced entries post.
func (s *journalService) GetTrialBalance(ctx context.Context, params dto.AsOfParams) (*domain.TrialBalance, error) {
	asOf := params.Resolve(time.Now().UTC())

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		return nil, err
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, r := range rows {
		totalDebit = totalDebit.Add(r.Debit)
		totalCredit = totalCredit.Add(r.Credit)
	}

	return &domain.TrialBalance{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		IsBalanced:  totalDebit.Equal(totalCredit),
	}, nil
}
