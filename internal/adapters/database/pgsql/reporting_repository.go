package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
)

// reportingRepository answers the aggregate queries reports are built from.
// Every query joins journal_lines to posted journal_entries; drafts never
// appear and reversals cancel against their originals.
type reportingRepository struct {
	pool *pgxpool.Pool
}

// NewReportingRepository creates a new repository for report aggregates.
func NewReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{pool: pool}
}

func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.journal_id = l.journal_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.status = 'POSTED' AND e.entry_date <= $1
		GROUP BY a.account_id, a.code, a.name, a.account_type
		HAVING SUM(l.debit) <> 0 OR SUM(l.credit) <> 0
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.AccountType, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading trial balance rows: %w", err)
	}
	return result, nil
}

func (r *reportingRepository) GetIncomeStatementData(ctx context.Context, from, to time.Time) (revenue, expenses []domain.AccountAmount, err error) {
	// Revenue is credit-normal, expenses debit-normal; both come out positive
	// under normal activity.
	query := `
		SELECT a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.journal_id = l.journal_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.status = 'POSTED'
		  AND e.entry_date >= $1 AND e.entry_date <= $2
		  AND a.account_type IN ('REVENUE', 'EXPENSE')
		GROUP BY a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query income statement data: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			amount        domain.AccountAmount
			accountType   domain.AccountType
			debit, credit decimal.Decimal
		)
		if err := rows.Scan(&amount.AccountCode, &amount.Name, &accountType, &debit, &credit); err != nil {
			return nil, nil, fmt.Errorf("failed to scan income statement row: %w", err)
		}
		if accountType == domain.AccountTypeRevenue {
			amount.NetAmount = credit.Sub(debit)
			revenue = append(revenue, amount)
		} else {
			amount.NetAmount = debit.Sub(credit)
			expenses = append(expenses, amount)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading income statement rows: %w", err)
	}
	return revenue, expenses, nil
}

func (r *reportingRepository) GetBalanceSheetData(ctx context.Context, asOf time.Time) (map[domain.AccountClassification][]domain.AccountAmount, error) {
	query := `
		SELECT a.code, a.name, a.account_type, a.classification,
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.journal_id = l.journal_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.status = 'POSTED'
		  AND e.entry_date <= $1
		  AND a.account_type IN ('ASSET', 'LIABILITY', 'EQUITY')
		GROUP BY a.code, a.name, a.account_type, a.classification
		ORDER BY a.code;
	`
	rows, err := r.pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance sheet data: %w", err)
	}
	defer rows.Close()

	byClass := make(map[domain.AccountClassification][]domain.AccountAmount)
	for rows.Next() {
		var (
			amount         domain.AccountAmount
			accountType    domain.AccountType
			classification domain.AccountClassification
			debit, credit  decimal.Decimal
		)
		if err := rows.Scan(&amount.AccountCode, &amount.Name, &accountType, &classification, &debit, &credit); err != nil {
			return nil, fmt.Errorf("failed to scan balance sheet row: %w", err)
		}
		// Assets are debit-positive. Contra assets carry credit balances, so
		// their credit-positive net is negated later by the reporting service.
		if accountType == domain.AccountTypeAsset && classification != domain.ContraAsset {
			amount.NetAmount = debit.Sub(credit)
		} else {
			amount.NetAmount = credit.Sub(debit)
		}
		byClass[classification] = append(byClass[classification], amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading balance sheet rows: %w", err)
	}
	return byClass, nil
}

func (r *reportingRepository) GetCashMovements(ctx context.Context, from, to time.Time) ([]domain.CashMovement, error) {
	query := `
		SELECT e.reference_type, COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.journal_id = l.journal_id
		WHERE e.status = 'POSTED'
		  AND e.entry_date >= $1 AND e.entry_date <= $2
		  AND (l.account_code LIKE '111%' OR l.account_code LIKE '112%')
		GROUP BY e.reference_type;
	`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash movements: %w", err)
	}
	defer rows.Close()

	var movements []domain.CashMovement
	for rows.Next() {
		var m domain.CashMovement
		if err := rows.Scan(&m.ReferenceType, &m.Debit, &m.Credit); err != nil {
			return nil, fmt.Errorf("failed to scan cash movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading cash movements: %w", err)
	}
	return movements, nil
}
