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
	"github.com/schoolfin/sfm_backend/internal/utils/reference"
	"github.com/schoolfin/sfm_backend/internal/utils/statutory"
)

// payrollService manages staff records and salary payments, computing the
// Nigerian statutory deductions and handing paid salaries to the posting
// engine.
type payrollService struct {
	payrollRepo portsrepo.PayrollRepository
	postingSvc  portssvc.PostingSvc
}

// NewPayrollService creates a new payroll service.
func NewPayrollService(payrollRepo portsrepo.PayrollRepository, postingSvc portssvc.PostingSvc) portssvc.PayrollSvcFacade {
	return &payrollService{payrollRepo: payrollRepo, postingSvc: postingSvc}
}

var _ portssvc.PayrollSvcFacade = (*payrollService)(nil)

func (s *payrollService) CreateStaff(ctx context.Context, req dto.CreateStaffRequest, actor string) (*domain.StaffMember, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.BasicSalary.IsPositive() {
		return nil, fmt.Errorf("%w: basic salary must be positive", apperrors.ErrValidation)
	}

	allowances := make([]domain.StaffAllowance, len(req.Allowances))
	for i, a := range req.Allowances {
		if a.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: allowance %q must not be negative", apperrors.ErrValidation, a.Name)
		}
		allowances[i] = domain.StaffAllowance{Name: a.Name, Amount: a.Amount, IsRecurring: a.IsRecurring}
	}

	now := time.Now().UTC()
	staff := domain.StaffMember{
		StaffID:        uuid.NewString(),
		StaffNumber:    req.StaffNumber,
		Surname:        req.Surname,
		Firstname:      req.Firstname,
		Position:       req.Position,
		Department:     req.Department,
		EmploymentType: domain.EmploymentType(req.EmploymentType),
		EmploymentDate: req.EmploymentDate,
		BasicSalary:    req.BasicSalary,
		Allowances:     allowances,
		BankName:       req.BankName,
		AccountNumber:  req.AccountNumber,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.payrollRepo.SaveStaff(ctx, staff); err != nil {
		return nil, err
	}

	logger.Info("Staff member registered",
		slog.String("staff_id", staff.StaffID),
		slog.String("staff_number", staff.StaffNumber),
	)
	return &staff, nil
}

func (s *payrollService) UpdateStaff(ctx context.Context, staffID string, req dto.UpdateStaffRequest, actor string) (*domain.StaffMember, error) {
	staff, err := s.payrollRepo.FindStaffByID(ctx, staffID)
	if err != nil {
		return nil, err
	}

	if req.Position != nil {
		staff.Position = *req.Position
	}
	if req.Department != nil {
		staff.Department = *req.Department
	}
	if req.BasicSalary != nil {
		if !req.BasicSalary.IsPositive() {
			return nil, fmt.Errorf("%w: basic salary must be positive", apperrors.ErrValidation)
		}
		staff.BasicSalary = *req.BasicSalary
	}
	if req.Allowances != nil {
		allowances := make([]domain.StaffAllowance, len(req.Allowances))
		for i, a := range req.Allowances {
			allowances[i] = domain.StaffAllowance{Name: a.Name, Amount: a.Amount, IsRecurring: a.IsRecurring}
		}
		staff.Allowances = allowances
	}
	if req.BankName != nil {
		staff.BankName = *req.BankName
	}
	if req.AccountNumber != nil {
		staff.AccountNumber = *req.AccountNumber
	}
	if req.IsActive != nil {
		staff.IsActive = *req.IsActive
	}
	staff.LastUpdatedAt = time.Now().UTC()
	staff.LastUpdatedBy = actor

	if err := s.payrollRepo.UpdateStaff(ctx, *staff); err != nil {
		return nil, err
	}
	return staff, nil
}

func (s *payrollService) GetStaffByID(ctx context.Context, staffID string) (*domain.StaffMember, error) {
	return s.payrollRepo.FindStaffByID(ctx, staffID)
}

func (s *payrollService) ListStaff(ctx context.Context, activeOnly bool) ([]domain.StaffMember, error) {
	return s.payrollRepo.ListStaff(ctx, activeOnly)
}

// PreviewDeductions computes the statutory deductions for a hypothetical pay.
func (s *payrollService) PreviewDeductions(ctx context.Context, basic, allowances decimal.Decimal) (*statutory.DeductionsResult, error) {
	if basic.IsNegative() || allowances.IsNegative() {
		return nil, fmt.Errorf("%w: salary components must not be negative", apperrors.ErrValidation)
	}
	result := statutory.CalculateAll(basic, allowances)
	return &result, nil
}

// CreateSalaryPayment prepares a pending salary payment. Statutory deductions
// are always computed here, never accepted from the caller; gross and net are
// derived so the record reconciles by construction.
func (s *payrollService) CreateSalaryPayment(ctx context.Context, req dto.CreateSalaryPaymentRequest, actor string) (*domain.SalaryPayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.PeriodEnd.After(req.PeriodStart) {
		return nil, fmt.Errorf("%w: pay period end must be after its start", apperrors.ErrValidation)
	}

	staff, err := s.payrollRepo.FindStaffByID(ctx, req.StaffID)
	if err != nil {
		return nil, err
	}
	if !staff.IsActive {
		return nil, fmt.Errorf("%w: staff member %s is not active", apperrors.ErrValidation, staff.StaffNumber)
	}

	if existing, err := s.payrollRepo.FindPaidSalaryForPeriod(ctx, staff.StaffID, req.PeriodStart, req.PeriodEnd); err == nil {
		return nil, fmt.Errorf("%w: salary %s already paid for this period", apperrors.ErrDuplicate, existing.Reference)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	// Recurring staff allowances plus any one-off extras for this period.
	allowances := make([]domain.AllowanceItem, 0, len(staff.Allowances)+len(req.ExtraAllowances))
	allowanceTotal := decimal.Zero
	taxableTotal := decimal.Zero
	for _, a := range staff.Allowances {
		if !a.IsRecurring {
			continue
		}
		allowances = append(allowances, domain.AllowanceItem{Name: a.Name, Amount: a.Amount, IsTaxable: true})
		allowanceTotal = allowanceTotal.Add(a.Amount)
		taxableTotal = taxableTotal.Add(a.Amount)
	}
	for _, a := range req.ExtraAllowances {
		if a.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: allowance %q must not be negative", apperrors.ErrValidation, a.Name)
		}
		allowances = append(allowances, domain.AllowanceItem{Name: a.Name, Amount: a.Amount, IsTaxable: a.IsTaxable})
		allowanceTotal = allowanceTotal.Add(a.Amount)
		if a.IsTaxable {
			taxableTotal = taxableTotal.Add(a.Amount)
		}
	}

	gross := staff.BasicSalary.Add(allowanceTotal)
	calc := statutory.CalculateAll(staff.BasicSalary, allowanceTotal)
	if taxableTotal.LessThan(allowanceTotal) {
		// PAYE applies to taxable pay only. Pension, NHF and NHIS are not
		// affected by allowance taxability.
		paye := statutory.CalculateMonthlyPAYE(staff.BasicSalary.Add(taxableTotal))
		calc.TotalEmployeeDeductions = calc.TotalEmployeeDeductions.Sub(calc.PAYE).Add(paye)
		calc.PAYE = paye
	}

	deductions := []domain.DeductionItem{
		{Name: "PAYE", Amount: calc.PAYE, IsStatutory: true},
		{Name: "Pension", Amount: calc.PensionEmployee, IsStatutory: true},
		{Name: "NHF", Amount: calc.NHF, IsStatutory: true},
		{Name: "NHIS", Amount: calc.NHIS, IsStatutory: true},
	}
	deductionTotal := calc.TotalEmployeeDeductions
	for _, d := range req.OtherDeductions {
		if d.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: deduction %q must not be negative", apperrors.ErrValidation, d.Name)
		}
		deductions = append(deductions, domain.DeductionItem{Name: d.Name, Amount: d.Amount, IsStatutory: false})
		deductionTotal = deductionTotal.Add(d.Amount)
	}

	net := gross.Sub(deductionTotal)
	if net.IsNegative() {
		return nil, fmt.Errorf("%w: deductions %s exceed gross salary %s", apperrors.ErrValidation, deductionTotal, gross)
	}

	now := time.Now().UTC()
	ref, err := reference.NewSalaryReference(req.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("generating salary reference: %w", err)
	}

	payment := domain.SalaryPayment{
		SalaryPaymentID: uuid.NewString(),
		StaffID:         staff.StaffID,
		StaffName:       fmt.Sprintf("%s %s", staff.Firstname, staff.Surname),
		StaffNumber:     staff.StaffNumber,
		PaymentDate:     req.PaymentDate,
		PeriodStart:     req.PeriodStart,
		PeriodEnd:       req.PeriodEnd,
		BasicSalary:     staff.BasicSalary,
		Allowances:      allowances,
		Deductions:      deductions,
		GrossSalary:     gross,
		NetSalary:       net,
		Method:          domain.PaymentMethod(req.Method),
		Reference:       ref,
		Status:          domain.SalaryPending,
		ProcessedBy:     actor,
		Notes:           req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor,
			LastUpdatedAt: now,
			LastUpdatedBy: actor,
		},
	}
	if err := s.payrollRepo.SaveSalaryPayment(ctx, payment); err != nil {
		return nil, err
	}

	logger.Info("Salary payment prepared",
		slog.String("salary_payment_id", payment.SalaryPaymentID),
		slog.String("reference", payment.Reference),
		slog.String("gross", payment.GrossSalary.String()),
		slog.String("net", payment.NetSalary.String()),
	)
	return &payment, nil
}

func (s *payrollService) transitionSalary(ctx context.Context, salaryPaymentID string, to domain.SalaryStatus, actor string) (*domain.SalaryPayment, error) {
	payment, err := s.payrollRepo.FindSalaryPaymentByID(ctx, salaryPaymentID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransitionSalary(payment.Status, to) {
		return nil, fmt.Errorf("%w: salary %s cannot move from %s to %s", apperrors.ErrConflict, payment.Reference, payment.Status, to)
	}

	payment.Status = to
	payment.LastUpdatedAt = time.Now().UTC()
	payment.LastUpdatedBy = actor
	if err := s.payrollRepo.UpdateSalaryPayment(ctx, *payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ApproveSalaryPayment moves a pending salary payment to approved.
func (s *payrollService) ApproveSalaryPayment(ctx context.Context, salaryPaymentID string, actor string) (*domain.SalaryPayment, error) {
	return s.transitionSalary(ctx, salaryPaymentID, domain.SalaryApproved, actor)
}

// MarkSalaryPaid moves an approved salary payment to paid and posts it with
// the employer pension contribution recomputed from the pay components.
func (s *payrollService) MarkSalaryPaid(ctx context.Context, salaryPaymentID string, actor string) (*domain.SalaryPayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.transitionSalary(ctx, salaryPaymentID, domain.SalaryPaid, actor)
	if err != nil {
		return nil, err
	}

	// The calculators are pure, so the employer contribution recomputes to
	// the same value the deductions were derived from.
	allowanceTotal := payment.GrossSalary.Sub(payment.BasicSalary)
	calc := statutory.CalculateAll(payment.BasicSalary, allowanceTotal)

	if _, postErr := s.postingSvc.PostSalaryPayment(ctx, *payment, calc.PensionEmployer, actor); postErr != nil {
		logger.Error("Salary paid but posting deferred",
			slog.String("salary_payment_id", payment.SalaryPaymentID),
			slog.String("reference", payment.Reference),
			slog.String("error", postErr.Error()),
		)
	}
	return payment, nil
}

func (s *payrollService) GetSalaryPaymentByID(ctx context.Context, salaryPaymentID string) (*domain.SalaryPayment, error) {
	return s.payrollRepo.FindSalaryPaymentByID(ctx, salaryPaymentID)
}

func (s *payrollService) ListSalaryPayments(ctx context.Context, params dto.ListSalaryPaymentsParams) ([]domain.SalaryPayment, error) {
	filter := portsrepo.ListSalariesFilter{
		StaffID: params.StaffID,
		From:    params.From,
		To:      params.To,
		Limit:   params.Limit,
		Offset:  params.Offset,
	}
	if params.Status != nil {
		st := domain.SalaryStatus(*params.Status)
		filter.Status = &st
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.payrollRepo.ListSalaryPayments(ctx, filter)
}
