package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
)

var (
	ErrTransactionNotFound   = errors.New("credit transaction not found")
	ErrTransactionNotPending = errors.New("credit transaction is not pending")
)

// Postgres implementa as operações de transações de crédito em banco
type Postgres struct{ db *sql.DB }

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

const txColumns = `id, user_id, amount, price, payment_method, receipt_url, status, approved_by, approved_at, created_at, updated_at`

type scanner interface{ Scan(dest ...any) error }

func scanTransaction(s scanner, extra ...any) (CreditTransaction, error) {
	var t CreditTransaction
	dest := []any{&t.ID, &t.UserID, &t.Amount, &t.Price, &t.PaymentMethod, &t.ReceiptURL, &t.Status, &t.ApprovedBy, &t.ApprovedAt, &t.CreatedAt, &t.UpdatedAt}
	err := s.Scan(append(dest, extra...)...)
	return t, err
}

// CreatePending registra a solicitação de compra aguardando análise
func (p *Postgres) CreatePending(ctx context.Context, in NewTransaction) (CreditTransaction, error) {
	row := p.db.QueryRowContext(ctx, `
		INSERT INTO credit_transactions (id, user_id, amount, price, payment_method, receipt_url, status)
		VALUES ($1, $2, $3, $4, 'pix', $5, 'pending')
		RETURNING `+txColumns,
		uuid.NewString(), in.UserID, in.Amount, in.Price, in.ReceiptURL)

	t, err := scanTransaction(row)
	if db.IsForeignKeyViolation(err) {
		return CreditTransaction{}, ledger.ErrAccountNotFound
	}
	if err != nil {
		return CreditTransaction{}, fmt.Errorf("insert credit transaction: %w", err)
	}
	return t, nil
}

// ListByUser devolve as transações do usuário, mais recentes primeiro
func (p *Postgres) ListByUser(ctx context.Context, userID string) ([]CreditTransaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT `+txColumns+`
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list credit transactions: %w", err)
	}
	defer rows.Close()

	out := make([]CreditTransaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListAll lista para o admin, com nome do usuário; status vazio = todas
func (p *Postgres) ListAll(ctx context.Context, status string) ([]CreditTransaction, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT ct.id, ct.user_id, ct.amount, ct.price, ct.payment_method, ct.receipt_url, ct.status,
		       ct.approved_by, ct.approved_at, ct.created_at, ct.updated_at,
		       pr.username, pr.full_name
		FROM credit_transactions ct
		JOIN profiles pr ON pr.id = ct.user_id
		WHERE ($1 = '' OR ct.status = $1)
		ORDER BY ct.created_at DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("list credit transactions: %w", err)
	}
	defer rows.Close()

	out := make([]CreditTransaction, 0)
	for rows.Next() {
		var username, fullName *string
		t, err := scanTransaction(rows, &username, &fullName)
		if err != nil {
			return nil, err
		}
		t.Username, t.FullName = username, fullName
		out = append(out, t)
	}
	return out, rows.Err()
}

// Approve trava a linha, exige status pending e credita o valor no ledger na mesma transação.
// Aprovações concorrentes serializam no FOR UPDATE: só a primeira encontra pending.
func (p *Postgres) Approve(ctx context.Context, id, adminID string) (Decision, error) {
	var out Decision
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		t, err := lockPending(ctx, tx, id)
		if err != nil {
			return err
		}

		if t, err = decide(ctx, tx, id, adminID, StatusApproved); err != nil {
			return err
		}

		balance, err := ledger.Credit(ctx, tx, t.UserID, t.Amount, ledger.Ref{Type: ledger.RefCreditTransaction, ID: t.ID})
		if err != nil {
			return err
		}

		out = Decision{Transaction: t, BalanceAfter: &balance}
		return nil
	})
	if err != nil {
		return Decision{}, err
	}
	return out, nil
}

// Reject marca como rejeitada; saldo não muda
func (p *Postgres) Reject(ctx context.Context, id, adminID string) (Decision, error) {
	var out Decision
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		if _, err := lockPending(ctx, tx, id); err != nil {
			return err
		}
		t, err := decide(ctx, tx, id, adminID, StatusRejected)
		if err != nil {
			return err
		}
		out = Decision{Transaction: t}
		return nil
	})
	if err != nil {
		return Decision{}, err
	}
	return out, nil
}

// LedgerEntries expõe o extrato do usuário
func (p *Postgres) LedgerEntries(ctx context.Context, userID string, limit int) ([]ledger.Entry, error) {
	return ledger.Entries(ctx, p.db, userID, limit)
}

func lockPending(ctx context.Context, tx *sql.Tx, id string) (CreditTransaction, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+txColumns+` FROM credit_transactions WHERE id = $1 FOR UPDATE`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CreditTransaction{}, ErrTransactionNotFound
	}
	if err != nil {
		return CreditTransaction{}, fmt.Errorf("lock credit transaction: %w", err)
	}
	if t.Status != StatusPending {
		return CreditTransaction{}, fmt.Errorf("%w (status=%s)", ErrTransactionNotPending, t.Status)
	}
	return t, nil
}

func decide(ctx context.Context, tx *sql.Tx, id, adminID, status string) (CreditTransaction, error) {
	row := tx.QueryRowContext(ctx, `
		UPDATE credit_transactions
		SET status = $2, approved_by = $3, approved_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+txColumns, id, status, adminID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return CreditTransaction{}, ErrTransactionNotPending
	}
	if err != nil {
		return CreditTransaction{}, fmt.Errorf("update credit transaction: %w", err)
	}
	return t, nil
}
