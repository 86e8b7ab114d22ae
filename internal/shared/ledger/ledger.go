// Package ledger concentra toda mutação de saldo de créditos.
// Cada débito/crédito atualiza profiles.credits e grava uma linha em credit_ledger
// dentro da transação recebida; o chamador decide commit/rollback.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
)

type Operation string

const (
	OpDebit  Operation = "DEBIT"
	OpCredit Operation = "CREDIT"
)

type RefType string

const (
	RefPrediction        RefType = "prediction"
	RefCreditTransaction RefType = "credit_transaction"
)

// Ref identifica a origem do movimento (palpite ou transação de crédito)
type Ref struct {
	Type RefType
	ID   string
}

type Entry struct {
	ID           int64     `json:"id"`
	UserID       string    `json:"userId"`
	Operation    Operation `json:"operation"`
	Amount       int64     `json:"amount"`
	BalanceAfter int64     `json:"balanceAfter"`
	RefType      RefType   `json:"referenceType"`
	RefID        string    `json:"referenceId"`
	CreatedAt    time.Time `json:"createdAt"`
}

var (
	ErrInsufficientCredits = errors.New("ledger: insufficient credits")
	ErrAccountNotFound     = errors.New("ledger: account not found")
	ErrDuplicateEntry      = errors.New("ledger: duplicate entry for reference")
	ErrInvalidAmount       = errors.New("ledger: amount must be positive")
)

// InsufficientCreditsError carrega o custo exigido e o saldo no momento da recusa
type InsufficientCreditsError struct {
	Required int64
	Balance  int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("ledger: insufficient credits (required %d, balance %d)", e.Required, e.Balance)
}

func (e *InsufficientCreditsError) Is(target error) bool { return target == ErrInsufficientCredits }

// Shortfall quanto falta para cobrir o custo
func (e *InsufficientCreditsError) Shortfall() int64 {
	if e.Balance >= e.Required {
		return 0
	}
	return e.Required - e.Balance
}

// Querier é satisfeito por *sql.DB e *sql.Tx
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Debit subtrai amount do saldo somente se houver créditos suficientes.
// O guard no WHERE garante saldo >= 0 mesmo com débitos concorrentes.
func Debit(ctx context.Context, tx *sql.Tx, userID string, amount int64, ref Ref) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := tx.QueryRowContext(ctx, `
		UPDATE profiles
		SET credits = credits - $2, updated_at = NOW()
		WHERE id = $1
		  AND credits >= $2
		RETURNING credits`, userID, amount).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, refusal(ctx, tx, userID, amount)
	}
	if err != nil {
		return 0, fmt.Errorf("debit credits: %w", err)
	}

	if err := insertEntry(ctx, tx, userID, OpDebit, amount, balance, ref); err != nil {
		return 0, err
	}
	return balance, nil
}

// Credit soma amount ao saldo e registra o movimento
func Credit(ctx context.Context, tx *sql.Tx, userID string, amount int64, ref Ref) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := tx.QueryRowContext(ctx, `
		UPDATE profiles
		SET credits = credits + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING credits`, userID, amount).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("credit credits: %w", err)
	}

	if err := insertEntry(ctx, tx, userID, OpCredit, amount, balance, ref); err != nil {
		return 0, err
	}
	return balance, nil
}

// Balance lê o saldo atual
func Balance(ctx context.Context, q Querier, userID string) (int64, error) {
	var balance int64
	err := q.QueryRowContext(ctx, `SELECT credits FROM profiles WHERE id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return balance, nil
}

// Entries lista os movimentos mais recentes do usuário
func Entries(ctx context.Context, q Querier, userID string, limit int) ([]Entry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, operation_type, amount, balance_after, reference_type, reference_id, created_at
		FROM credit_ledger
		WHERE user_id = $1
		ORDER BY id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Operation, &e.Amount, &e.BalanceAfter, &e.RefType, &e.RefID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// refusal distingue conta inexistente de saldo insuficiente
func refusal(ctx context.Context, tx *sql.Tx, userID string, amount int64) error {
	var balance int64
	err := tx.QueryRowContext(ctx, `SELECT credits FROM profiles WHERE id = $1`, userID).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrAccountNotFound
	}
	if err != nil {
		return fmt.Errorf("read balance: %w", err)
	}
	return &InsufficientCreditsError{Required: amount, Balance: balance}
}

func insertEntry(ctx context.Context, tx *sql.Tx, userID string, op Operation, amount, balanceAfter int64, ref Ref) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_ledger (user_id, operation_type, amount, balance_after, reference_type, reference_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, op, amount, balanceAfter, ref.Type, ref.ID)
	if db.IsUniqueViolation(err) {
		return ErrDuplicateEntry
	}
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}
