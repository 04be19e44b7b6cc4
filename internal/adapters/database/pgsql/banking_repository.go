package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/schoolfin/sfm_backend/internal/apperrors"
	"github.com/schoolfin/sfm_backend/internal/core/domain"
	portsrepo "github.com/schoolfin/sfm_backend/internal/core/ports/repositories"
)

type bankingRepository struct {
	pool *pgxpool.Pool
}

// NewBankingRepository creates a new repository for bank accounts, transactions and transfers.
func NewBankingRepository(pool *pgxpool.Pool) portsrepo.BankingRepository {
	return &bankingRepository{pool: pool}
}

const bankAccountColumns = `bank_account_id, name, bank_name, account_number, account_type, gl_account_code, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanBankAccount(row pgx.Row) (*domain.BankAccount, error) {
	var a domain.BankAccount
	var glCode *string
	err := row.Scan(
		&a.BankAccountID,
		&a.Name,
		&a.BankName,
		&a.AccountNumber,
		&a.AccountType,
		&glCode,
		&a.Balance,
		&a.IsActive,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	a.GLAccountCode = fromNullable(glCode)
	return &a, nil
}

func (r *bankingRepository) SaveBankAccount(ctx context.Context, account domain.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (` + bankAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.pool.Exec(ctx, query,
		account.BankAccountID,
		account.Name,
		account.BankName,
		account.AccountNumber,
		account.AccountType,
		nullable(account.GLAccountCode),
		account.Balance,
		account.IsActive,
		account.CreatedAt,
		account.CreatedBy,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bank account number %s", apperrors.ErrDuplicate, account.AccountNumber)
		}
		return fmt.Errorf("failed to save bank account %s: %w", account.Name, err)
	}
	return nil
}

func (r *bankingRepository) UpdateBankAccount(ctx context.Context, account domain.BankAccount) error {
	query := `
		UPDATE bank_accounts
		SET name = $2, gl_account_code = $3, balance = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE bank_account_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		account.BankAccountID,
		account.Name,
		nullable(account.GLAccountCode),
		account.Balance,
		account.IsActive,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank account %s: %w", account.BankAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *bankingRepository) FindBankAccountByID(ctx context.Context, bankAccountID string) (*domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts WHERE bank_account_id = $1;`
	a, err := scanBankAccount(r.pool.QueryRow(ctx, query, bankAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank account %s: %w", bankAccountID, err)
	}
	return a, nil
}

func (r *bankingRepository) ListBankAccounts(ctx context.Context, activeOnly bool) ([]domain.BankAccount, error) {
	query := `SELECT ` + bankAccountColumns + ` FROM bank_accounts`
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.BankAccount
	for rows.Next() {
		a, err := scanBankAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank account row: %w", err)
		}
		accounts = append(accounts, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading bank account rows: %w", err)
	}
	return accounts, nil
}

const bankTxnColumns = `bank_transaction_id, bank_account_id, txn_type, debit, credit, txn_date, description, reference, status, is_reconciled, created_at, created_by, last_updated_at, last_updated_by`

func scanBankTransaction(row pgx.Row) (*domain.BankTransaction, error) {
	var t domain.BankTransaction
	err := row.Scan(
		&t.BankTransactionID,
		&t.BankAccountID,
		&t.TxnType,
		&t.Debit,
		&t.Credit,
		&t.TxnDate,
		&t.Description,
		&t.Reference,
		&t.Status,
		&t.IsReconciled,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveBankTransaction inserts the transaction and applies the new account
// balance in one database transaction so the two can never diverge.
func (r *bankingRepository) SaveBankTransaction(ctx context.Context, txn domain.BankTransaction, newBalance decimal.Decimal) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertQuery := `
		INSERT INTO bank_transactions (` + bankTxnColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, insertQuery,
		txn.BankTransactionID,
		txn.BankAccountID,
		txn.TxnType,
		txn.Debit,
		txn.Credit,
		txn.TxnDate,
		txn.Description,
		txn.Reference,
		txn.Status,
		txn.IsReconciled,
		txn.CreatedAt,
		txn.CreatedBy,
		txn.LastUpdatedAt,
		txn.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save bank transaction %s: %w", txn.BankTransactionID, err)
	}

	balanceQuery := `
		UPDATE bank_accounts
		SET balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE bank_account_id = $1;
	`
	tag, err := tx.Exec(ctx, balanceQuery, txn.BankAccountID, newBalance, txn.LastUpdatedAt, txn.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to apply balance to bank account %s: %w", txn.BankAccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit bank transaction %s: %w", txn.BankTransactionID, err)
	}
	return nil
}

func (r *bankingRepository) FindBankTransactionByID(ctx context.Context, bankTransactionID string) (*domain.BankTransaction, error) {
	query := `SELECT ` + bankTxnColumns + ` FROM bank_transactions WHERE bank_transaction_id = $1;`
	t, err := scanBankTransaction(r.pool.QueryRow(ctx, query, bankTransactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank transaction %s: %w", bankTransactionID, err)
	}
	return t, nil
}

func (r *bankingRepository) ListBankTransactions(ctx context.Context, filter portsrepo.ListBankTransactionsFilter) ([]domain.BankTransaction, error) {
	query := `SELECT ` + bankTxnColumns + ` FROM bank_transactions WHERE 1=1`
	args := []any{}
	idx := 1

	if filter.BankAccountID != nil {
		query += fmt.Sprintf(" AND bank_account_id = $%d", idx)
		args = append(args, *filter.BankAccountID)
		idx++
	}
	if filter.Type != nil {
		query += fmt.Sprintf(" AND txn_type = $%d", idx)
		args = append(args, *filter.Type)
		idx++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", idx)
		args = append(args, *filter.Status)
		idx++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND txn_date >= $%d", idx)
		args = append(args, *filter.From)
		idx++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND txn_date <= $%d", idx)
		args = append(args, *filter.To)
		idx++
	}

	query += fmt.Sprintf(" ORDER BY txn_date DESC, created_at DESC LIMIT $%d OFFSET $%d;", idx, idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.BankTransaction
	for rows.Next() {
		t, err := scanBankTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction row: %w", err)
		}
		txns = append(txns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading bank transaction rows: %w", err)
	}
	return txns, nil
}

func (r *bankingRepository) UpdateBankTransactionStatus(ctx context.Context, bankTransactionID string, status domain.BankTransactionStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE bank_transactions
		SET status = $2, is_reconciled = ($2 = 'reconciled'), last_updated_by = $3, last_updated_at = $4
		WHERE bank_transaction_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, bankTransactionID, status, updatedBy, updatedAt)
	if err != nil {
		return fmt.Errorf("failed to update status of bank transaction %s: %w", bankTransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

const transferColumns = `transfer_id, from_account_id, to_account_id, amount, transfer_date, description, reference, status, approved_by, approved_at, created_at, created_by, last_updated_at, last_updated_by`

func scanBankTransfer(row pgx.Row) (*domain.BankTransfer, error) {
	var t domain.BankTransfer
	err := row.Scan(
		&t.TransferID,
		&t.FromAccountID,
		&t.ToAccountID,
		&t.Amount,
		&t.TransferDate,
		&t.Description,
		&t.Reference,
		&t.Status,
		&t.ApprovedBy,
		&t.ApprovedAt,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *bankingRepository) SaveBankTransfer(ctx context.Context, transfer domain.BankTransfer) error {
	query := `
		INSERT INTO bank_transfers (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.pool.Exec(ctx, query,
		transfer.TransferID,
		transfer.FromAccountID,
		transfer.ToAccountID,
		transfer.Amount,
		transfer.TransferDate,
		transfer.Description,
		transfer.Reference,
		transfer.Status,
		transfer.ApprovedBy,
		transfer.ApprovedAt,
		transfer.CreatedAt,
		transfer.CreatedBy,
		transfer.LastUpdatedAt,
		transfer.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transfer reference %s", apperrors.ErrDuplicate, transfer.Reference)
		}
		return fmt.Errorf("failed to save bank transfer %s: %w", transfer.Reference, err)
	}
	return nil
}

func (r *bankingRepository) UpdateBankTransfer(ctx context.Context, transfer domain.BankTransfer) error {
	query := `
		UPDATE bank_transfers
		SET status = $2, approved_by = $3, approved_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE transfer_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		transfer.TransferID,
		transfer.Status,
		transfer.ApprovedBy,
		transfer.ApprovedAt,
		transfer.LastUpdatedAt,
		transfer.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank transfer %s: %w", transfer.TransferID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *bankingRepository) FindBankTransferByID(ctx context.Context, transferID string) (*domain.BankTransfer, error) {
	query := `SELECT ` + transferColumns + ` FROM bank_transfers WHERE transfer_id = $1;`
	t, err := scanBankTransfer(r.pool.QueryRow(ctx, query, transferID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank transfer %s: %w", transferID, err)
	}
	return t, nil
}

func (r *bankingRepository) ListBankTransfers(ctx context.Context, limit, offset int) ([]domain.BankTransfer, error) {
	query := `
		SELECT ` + transferColumns + `
		FROM bank_transfers
		ORDER BY transfer_date DESC, created_at DESC
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank transfers: %w", err)
	}
	defer rows.Close()

	var transfers []domain.BankTransfer
	for rows.Next() {
		t, err := scanBankTransfer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank transfer row: %w", err)
		}
		transfers = append(transfers, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading bank transfer rows: %w", err)
	}
	return transfers, nil
}
