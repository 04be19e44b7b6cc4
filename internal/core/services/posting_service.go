package services

import (
	"context"
	"encoding/json"
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
	"github.com/schoolfin/sfm_backend/internal/middleware"
)

// salaryPayload carries everything a salary posting needs, so a deferred
// retry can rebuild the exact same entry.
type salaryPayload struct {
	Payment         domain.SalaryPayment `json:"payment"`
	EmployerPension decimal.Decimal      `json:"employerPension"`
}

// bankTxnPayload pairs a bank transaction with its account's GL link.
type bankTxnPayload struct {
	Txn           domain.BankTransaction `json:"txn"`
	GLAccountCode string                 `json:"glAccountCode"`
}

// bankTransferPayload pairs a transfer with both accounts' GL links.
type bankTransferPayload struct {
	Transfer   domain.BankTransfer `json:"transfer"`
	FromGLCode string              `json:"fromGLCode"`
	ToGLCode   string              `json:"toGLCode"`
}

// postingService is the auto-posting engine. Every business event that moves
// money funnels through here to become a balanced, immediately-posted journal
// entry. Posting is idempotent per (referenceType, referenceID); failures are
// captured as pending postings so the business operation never rolls back
// over a ledger hiccup.
type postingService struct {
	journalRepo portsrepo.JournalRepository
	accountRepo portsrepo.AccountReader
	mappingSvc  portssvc.MappingSvcFacade
	journalSvc  portssvc.JournalSvcFacade
	outboxRepo  portsrepo.OutboxRepository
}

// NewPostingService creates the auto-posting engine.
func NewPostingService(
	journalRepo portsrepo.JournalRepository,
	accountRepo portsrepo.AccountReader,
	mappingSvc portssvc.MappingSvcFacade,
	journalSvc portssvc.JournalSvcFacade,
	outboxRepo portsrepo.OutboxRepository,
) portssvc.PostingSvc {
	return &postingService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		mappingSvc:  mappingSvc,
		journalSvc:  journalSvc,
		outboxRepo:  outboxRepo,
	}
}

var _ portssvc.PostingSvc = (*postingService)(nil)

// lineSpec is a posting instruction before account lookup.
type lineSpec struct {
	accountCode string
	debit       decimal.Decimal
	credit      decimal.Decimal
	description string
}

// cashOrBankCode picks the ledger account money physically moved through.
// Cash payments touch the cash account, everything else the operations bank
// account.
func cashOrBankCode(method domain.PaymentMethod) string {
	if method == domain.MethodCash {
		return CodeCashOnHand
	}
	return CodeBankOperations
}

// resolveLines turns line specs into journal lines with account snapshots.
func (s *postingService) resolveLines(ctx context.Context, specs []lineSpec) ([]domain.JournalLine, error) {
	codes := make([]string, 0, len(specs))
	for _, spec := range specs {
		codes = append(codes, spec.accountCode)
	}
	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("fetching posting accounts: %w", err)
	}

	lines := make([]domain.JournalLine, 0, len(specs))
	for _, spec := range specs {
		account, found := accounts[spec.accountCode]
		if !found {
			return nil, fmt.Errorf("%w: posting account %q missing from chart", apperrors.ErrInternal, spec.accountCode)
		}
		lines = append(lines, domain.JournalLine{
			AccountID:   account.AccountID,
			AccountCode: account.Code,
			AccountName: account.Name,
			Debit:       spec.debit,
			Credit:      spec.credit,
			Description: spec.description,
		})
	}
	return lines, nil
}

// postEntry creates and posts a balanced entry for a business event. When an
// entry for the same reference already exists it is returned unchanged, so
// callers can re-dispatch without double-posting. On failure the event is
// captured in the outbox before the error is returned.
func (s *postingService) postEntry(ctx context.Context, referenceType domain.ReferenceType, referenceID string, entryDate time.Time, description string, specs []lineSpec, payload any, actor string) (*domain.JournalEntry, error) {
	entry, err := s.createEntry(ctx, referenceType, referenceID, entryDate, description, specs, actor)
	if err != nil {
		s.deferPosting(ctx, referenceType, referenceID, payload, err, actor)
		return nil, err
	}
	return entry, nil
}

func (s *postingService) createEntry(ctx context.Context, referenceType domain.ReferenceType, referenceID string, entryDate time.Time, description string, specs []lineSpec, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.journalRepo.FindJournalEntryByReference(ctx, referenceType, referenceID)
	if err == nil {
		logger.Info("Entry already posted for reference, skipping",
			slog.String("reference_type", string(referenceType)),
			slog.String("reference_id", referenceID),
			slog.String("entry_number", existing.EntryNumber),
		)
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("checking existing entry for %s/%s: %w", referenceType, referenceID, err)
	}

	lines, err := s.resolveLines(ctx, specs)
	if err != nil {
		return nil, err
	}
	if err := validateLines(lines); err != nil {
		return nil, err
	}

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
		Status:        domain.Posted,
		PostedAt:      &now,
		Lines:         lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.journalRepo.SaveJournalEntry(ctx, entry, lines); err != nil {
		return nil, err
	}

	middleware.CountEntryPosted(string(referenceType))
	logger.Info("Auto-posted journal entry",
		slog.String("journal_id", entry.JournalID),
		slog.String("entry_number", entry.EntryNumber),
		slog.String("reference_type", string(referenceType)),
		slog.String("reference_id", referenceID),
		slog.String("amount", entry.TotalDebit().String()),
	)
	return &entry, nil
}

// deferPosting records the failed posting in the outbox so the business
// operation survives and the ledger can catch up later.
func (s *postingService) deferPosting(ctx context.Context, referenceType domain.ReferenceType, referenceID string, payload any, cause error, actor string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	middleware.CountPostingFailure(string(referenceType))

	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to serialize posting payload for outbox",
			slog.String("reference_id", referenceID),
			slog.String("error", err.Error()),
		)
		raw = nil
	}

	now := time.Now().UTC()
	if existing, err := s.outboxRepo.FindPendingPostingByReference(ctx, referenceType, referenceID); err == nil {
		existing.Attempts++
		existing.LastError = cause.Error()
		existing.LastTriedAt = &now
		existing.LastUpdatedAt = now
		existing.LastUpdatedBy = actor
		if updateErr := s.outboxRepo.UpdatePendingPosting(ctx, *existing); updateErr != nil {
			logger.Error("Failed to update pending posting", slog.String("posting_id", existing.PostingID), slog.String("error", updateErr.Error()))
		}
		return
	}

	pending := domain.PendingPosting{
		PostingID:     uuid.NewString(),
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		Payload:       raw,
		Status:        domain.PostingPendingStatus,
		Attempts:      1,
		LastError:     cause.Error(),
		LastTriedAt:   &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.outboxRepo.SavePendingPosting(ctx, pending); err != nil {
		logger.Error("Failed to record pending posting",
			slog.String("reference_type", string(referenceType)),
			slog.String("reference_id", referenceID),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Warn("Posting deferred to outbox",
		slog.String("reference_type", string(referenceType)),
		slog.String("reference_id", referenceID),
		slog.String("cause", cause.Error()),
	)
}

// PostStudentPayment posts a confirmed fee payment: debit cash/bank for the
// full amount, credit accounts receivable. Revenue was already recognized
// when the fee assignment posted; the payment only settles the receivable.
func (s *postingService) PostStudentPayment(ctx context.Context, payment domain.Payment, actor string) (*domain.JournalEntry, error) {
	specs := []lineSpec{
		{
			accountCode: cashOrBankCode(payment.Method),
			debit:       payment.Amount,
			description: fmt.Sprintf("Fee payment from %s", payment.StudentName),
		},
		{
			accountCode: CodeReceivables,
			credit:      payment.Amount,
			description: fmt.Sprintf("Receivable settled by %s", payment.Reference),
		},
	}

	description := fmt.Sprintf("Payment %s - %s", payment.Reference, payment.StudentName)
	return s.postEntry(ctx, domain.RefPayment, payment.Reference, payment.PaymentDate, description, specs, payment, actor)
}

// PostPaymentRefund reverses the payment's original entry. Without a posted
// original there is nothing in the ledger to unwind.
func (s *postingService) PostPaymentRefund(ctx context.Context, payment domain.Payment, actor string) (*domain.JournalEntry, error) {
	original, err := s.journalRepo.FindJournalEntryByReference(ctx, domain.RefPayment, payment.Reference)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: payment %s has no posted entry to refund", apperrors.ErrConflict, payment.Reference)
		}
		return nil, err
	}
	if original.Status == domain.Reversed {
		// Refund already posted.
		return original, nil
	}
	return s.journalSvc.ReverseEntry(ctx, original.JournalID, fmt.Sprintf("refund of payment %s", payment.Reference), actor)
}

// PostFeeAssignment posts a term bill: debit accounts receivable, credit one
// revenue account per fee item.
func (s *postingService) PostFeeAssignment(ctx context.Context, assignment domain.FeeAssignment, actor string) (*domain.JournalEntry, error) {
	specs := []lineSpec{{
		accountCode: CodeReceivables,
		debit:       assignment.TotalAmount,
		description: fmt.Sprintf("Fees receivable from %s", assignment.StudentName),
	}}
	for _, item := range assignment.Items {
		account, err := s.mappingSvc.Resolve(ctx, domain.MappingRevenue, item.FeeType)
		if err != nil {
			s.deferPosting(ctx, domain.RefFeeAssignment, assignment.AssignmentID, assignment, err, actor)
			return nil, err
		}
		specs = append(specs, lineSpec{
			accountCode: account.Code,
			credit:      item.Amount,
			description: fmt.Sprintf("%s fee, %s term %s", item.FeeType, assignment.AcademicYear, assignment.Term),
		})
	}

	description := fmt.Sprintf("Fee assignment - %s (%s %s term)", assignment.StudentName, assignment.AcademicYear, assignment.Term)
	return s.postEntry(ctx, domain.RefFeeAssignment, assignment.AssignmentID, assignment.CreatedAt, description, specs, assignment, actor)
}

// PostExpense posts a paid expense: debit the mapped expense account, credit
// cash/bank.
func (s *postingService) PostExpense(ctx context.Context, expense domain.Expense, actor string) (*domain.JournalEntry, error) {
	account, err := s.mappingSvc.Resolve(ctx, domain.MappingExpense, expense.Category)
	if err != nil {
		s.deferPosting(ctx, domain.RefExpense, expense.Reference, expense, err, actor)
		return nil, err
	}

	specs := []lineSpec{
		{
			accountCode: account.Code,
			debit:       expense.Amount,
			description: expense.Description,
		},
		{
			accountCode: cashOrBankCode(expense.Method),
			credit:      expense.Amount,
			description: fmt.Sprintf("Paid to %s", expense.VendorName),
		},
	}
	description := fmt.Sprintf("Expense %s - %s", expense.Reference, expense.CategoryName)
	return s.postEntry(ctx, domain.RefExpense, expense.Reference, expense.PaymentDate, description, specs, expense, actor)
}

// PostSalaryPayment posts a paid salary. Debits carry the full employer cost
// (gross pay plus employer pension); credits split it into net pay out of
// cash/bank, statutory liabilities withheld, and any non-statutory deductions
// parked in salaries payable. The entry balances by construction:
//
//	gross + employerPension = net + statutory + employerPension + other
func (s *postingService) PostSalaryPayment(ctx context.Context, payment domain.SalaryPayment, employerPension decimal.Decimal, actor string) (*domain.JournalEntry, error) {
	fail := func(err error) (*domain.JournalEntry, error) {
		s.deferPosting(ctx, domain.RefSalary, payment.Reference, salaryPayload{Payment: payment, EmployerPension: employerPension}, err, actor)
		return nil, err
	}

	statutory := map[string]decimal.Decimal{}
	otherDeductions := decimal.Zero
	for _, d := range payment.Deductions {
		if d.IsStatutory {
			statutory[d.Name] = statutory[d.Name].Add(d.Amount)
		} else {
			otherDeductions = otherDeductions.Add(d.Amount)
		}
	}

	expectedNet := payment.GrossSalary.Sub(payment.NetSalary)
	totalDeductions := otherDeductions
	for _, amount := range statutory {
		totalDeductions = totalDeductions.Add(amount)
	}
	if !expectedNet.Equal(totalDeductions) {
		return fail(fmt.Errorf("%w: deductions %s do not reconcile gross %s to net %s",
			apperrors.ErrValidation, totalDeductions, payment.GrossSalary, payment.NetSalary))
	}

	specs := []lineSpec{
		{
			accountCode: CodeSalariesExpense,
			debit:       payment.GrossSalary,
			description: fmt.Sprintf("Gross salary %s", payment.StaffName),
		},
	}
	if employerPension.IsPositive() {
		specs = append(specs, lineSpec{
			accountCode: CodePensionExpense,
			debit:       employerPension,
			description: "Employer pension contribution",
		})
	}
	specs = append(specs, lineSpec{
		accountCode: cashOrBankCode(payment.Method),
		credit:      payment.NetSalary,
		description: fmt.Sprintf("Net pay %s", payment.StaffName),
	})

	// Statutory withholdings go to their own payable accounts. Employee and
	// employer pension share one payable.
	liabilitySource := map[string]string{
		"PAYE":    "paye",
		"Pension": "pension",
		"NHF":     "nhf",
		"NHIS":    "nhis",
	}
	for _, name := range []string{"PAYE", "Pension", "NHF", "NHIS"} {
		amount := statutory[name]
		if name == "Pension" {
			amount = amount.Add(employerPension)
		}
		if !amount.IsPositive() {
			continue
		}
		account, err := s.mappingSvc.Resolve(ctx, domain.MappingLiability, liabilitySource[name])
		if err != nil {
			return fail(err)
		}
		specs = append(specs, lineSpec{
			accountCode: account.Code,
			credit:      amount,
			description: fmt.Sprintf("%s withheld", name),
		})
	}
	if otherDeductions.IsPositive() {
		specs = append(specs, lineSpec{
			accountCode: CodeSalariesPayable,
			credit:      otherDeductions,
			description: "Other salary deductions",
		})
	}

	description := fmt.Sprintf("Salary %s - %s", payment.Reference, payment.StaffName)
	return s.postEntry(ctx, domain.RefSalary, payment.Reference, payment.PaymentDate, description,
		specs, salaryPayload{Payment: payment, EmployerPension: employerPension}, actor)
}

// PostAssetPurchase posts an asset acquisition: debit the mapped fixed asset
// account, credit cash/bank.
func (s *postingService) PostAssetPurchase(ctx context.Context, asset domain.Asset, actor string) (*domain.JournalEntry, error) {
	account, err := s.mappingSvc.Resolve(ctx, domain.MappingAsset, asset.Category)
	if err != nil {
		s.deferPosting(ctx, domain.RefAsset, asset.Reference, asset, err, actor)
		return nil, err
	}

	specs := []lineSpec{
		{
			accountCode: account.Code,
			debit:       asset.PurchasePrice,
			description: asset.Name,
		},
		{
			accountCode: cashOrBankCode(asset.Method),
			credit:      asset.PurchasePrice,
			description: fmt.Sprintf("Purchase from %s", asset.VendorName),
		},
	}
	description := fmt.Sprintf("Asset purchase %s - %s", asset.Reference, asset.Name)
	return s.postEntry(ctx, domain.RefAsset, asset.Reference, asset.PurchaseDate, description, specs, asset, actor)
}

// PostDepreciation posts one month's charge for an asset: debit depreciation
// expense, credit accumulated depreciation. The reference embeds the period,
// so re-running a month cannot double-charge.
func (s *postingService) PostDepreciation(ctx context.Context, run domain.DepreciationRun, assetName string, actor string) (*domain.JournalEntry, error) {
	period := run.Period.Format("2006-01")
	referenceID := fmt.Sprintf("%s:%s", run.AssetID, period)

	specs := []lineSpec{
		{
			accountCode: CodeDepreciationExpense,
			debit:       run.Amount,
			description: fmt.Sprintf("Depreciation %s (%s)", assetName, period),
		},
		{
			accountCode: CodeAccumDepreciation,
			credit:      run.Amount,
			description: fmt.Sprintf("Accumulated depreciation %s", assetName),
		},
	}
	description := fmt.Sprintf("Monthly depreciation %s - %s", period, assetName)
	return s.postEntry(ctx, domain.RefDepreciation, referenceID, run.Period, description, specs, run, actor)
}

// PostBankTransaction posts a bank ledger movement against the account's
// linked GL account. Deposits and interest earn income, withdrawals and
// charges hit expenses; anything else without a clearer home moves through
// suspense until reclassified manually.
func (s *postingService) PostBankTransaction(ctx context.Context, txn domain.BankTransaction, glAccountCode string, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if glAccountCode == "" {
		logger.Info("Bank account not linked to ledger, skipping posting",
			slog.String("bank_transaction_id", txn.BankTransactionID),
		)
		return nil, nil
	}
	if txn.TxnType == domain.BankTransferIn || txn.TxnType == domain.BankTransferOut {
		// Transfer legs are posted once, as a whole, by PostBankTransfer.
		return nil, nil
	}

	counterpart := CodeSuspense
	contra := map[domain.BankTransactionType]struct {
		mappingType domain.MappingType
		sourceType  string
	}{
		domain.BankDeposit:    {domain.MappingRevenue, "deposit"},
		domain.BankInterest:   {domain.MappingRevenue, "bank_interest"},
		domain.BankWithdrawal: {domain.MappingExpense, "withdrawal"},
		domain.BankCharge:     {domain.MappingExpense, "bank_charge"},
	}
	if c, ok := contra[txn.TxnType]; ok {
		// Resolve falls back to Other Income / Other Expenses when no mapping
		// is configured, so only a real lookup failure lands here.
		account, err := s.mappingSvc.Resolve(ctx, c.mappingType, c.sourceType)
		if err != nil {
			s.deferPosting(ctx, domain.RefBankTxn, txn.BankTransactionID, bankTxnPayload{Txn: txn, GLAccountCode: glAccountCode}, err, actor)
			return nil, err
		}
		counterpart = account.Code
	}

	var specs []lineSpec
	if txn.Debit.IsPositive() {
		// Money in: the bank GL account grows.
		specs = []lineSpec{
			{accountCode: glAccountCode, debit: txn.Debit, description: txn.Description},
			{accountCode: counterpart, credit: txn.Debit, description: txn.Description},
		}
	} else {
		specs = []lineSpec{
			{accountCode: counterpart, debit: txn.Credit, description: txn.Description},
			{accountCode: glAccountCode, credit: txn.Credit, description: txn.Description},
		}
	}

	description := fmt.Sprintf("Bank %s - %s", txn.TxnType, txn.Description)
	return s.postEntry(ctx, domain.RefBankTxn, txn.BankTransactionID, txn.TxnDate, description,
		specs, bankTxnPayload{Txn: txn, GLAccountCode: glAccountCode}, actor)
}

// PostBankTransfer posts a completed transfer between two linked accounts:
// debit the destination GL account, credit the source. Unlinked legs fall
// back to the operations bank account so the ledger still reflects the move.
func (s *postingService) PostBankTransfer(ctx context.Context, transfer domain.BankTransfer, fromGLCode, toGLCode string, actor string) (*domain.JournalEntry, error) {
	if fromGLCode == "" {
		fromGLCode = CodeBankOperations
	}
	if toGLCode == "" {
		toGLCode = CodeBankOperations
	}
	if fromGLCode == toGLCode {
		// Both sides land on the same ledger account; nothing to record.
		middleware.GetLoggerFromCtx(ctx).Info("Transfer legs share one GL account, skipping posting",
			slog.String("transfer_id", transfer.TransferID),
		)
		return nil, nil
	}

	specs := []lineSpec{
		{accountCode: toGLCode, debit: transfer.Amount, description: fmt.Sprintf("Transfer in %s", transfer.Reference)},
		{accountCode: fromGLCode, credit: transfer.Amount, description: fmt.Sprintf("Transfer out %s", transfer.Reference)},
	}
	description := fmt.Sprintf("Bank transfer %s", transfer.Reference)
	return s.postEntry(ctx, domain.RefBankTransfer, transfer.Reference, transfer.TransferDate, description,
		specs, bankTransferPayload{Transfer: transfer, FromGLCode: fromGLCode, ToGLCode: toGLCode}, actor)
}
