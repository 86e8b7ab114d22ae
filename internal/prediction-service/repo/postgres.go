package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrMatchClosed   = errors.New("match not open for predictions")
)

// Postgres implementa a persistência de palpites
type Postgres struct {
	db *sql.DB

	// afterInsert roda entre o INSERT do palpite e o débito; só testes definem
	afterInsert func(tx *sql.Tx) error
}

// NewPostgres retorna uma instância do repositório de palpites
func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// PlacePrediction valida a partida, grava o palpite e debita o custo numa única transação.
// Qualquer falha desfaz tudo: não existe palpite sem débito nem débito sem palpite.
func (p *Postgres) PlacePrediction(ctx context.Context, in NewPrediction, now time.Time) (Placed, error) {
	var out Placed

	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		var (
			status string
			date   time.Time
			cost   int64
		)
		// FOR SHARE segura edições da partida até o commit
		err := tx.QueryRowContext(ctx, `
			SELECT status, date, prediction_cost
			FROM matches
			WHERE id = $1
			FOR SHARE`, in.MatchID).Scan(&status, &date, &cost)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMatchNotFound
		}
		if err != nil {
			return fmt.Errorf("load match: %w", err)
		}
		if status != "scheduled" || !date.After(now) {
			return ErrMatchClosed
		}

		pr := Prediction{
			ID:        uuid.NewString(),
			UserID:    in.UserID,
			MatchID:   in.MatchID,
			HomeScore: in.HomeScore,
			AwayScore: in.AwayScore,
			Status:    "pending",
		}
		err = tx.QueryRowContext(ctx, `
			INSERT INTO predictions (id, user_id, match_id, home_score, away_score, status)
			VALUES ($1, $2, $3, $4, $5, 'pending')
			RETURNING created_at`,
			pr.ID, pr.UserID, pr.MatchID, pr.HomeScore, pr.AwayScore).Scan(&pr.CreatedAt)
		if db.IsForeignKeyViolation(err) {
			return ledger.ErrAccountNotFound
		}
		if err != nil {
			return fmt.Errorf("insert prediction: %w", err)
		}

		if p.afterInsert != nil {
			if err := p.afterInsert(tx); err != nil {
				return err
			}
		}

		balance, err := ledger.Debit(ctx, tx, in.UserID, cost, ledger.Ref{Type: ledger.RefPrediction, ID: pr.ID})
		if err != nil {
			return err
		}

		out = Placed{Prediction: pr, Cost: cost, Balance: balance}
		return nil
	})
	if err != nil {
		return Placed{}, err
	}
	return out, nil
}

// ListByUser lista os palpites do usuário, opcionalmente filtrando por partida
func (p *Postgres) ListByUser(ctx context.Context, userID, matchID string) ([]Prediction, error) {
	q := `
		SELECT id, user_id, match_id, home_score, away_score, status, created_at, resolved_at
		FROM predictions
		WHERE user_id = $1`
	args := []any{userID}
	if matchID != "" {
		q += ` AND match_id = $2`
		args = append(args, matchID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := p.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	defer rows.Close()

	out := make([]Prediction, 0)
	for rows.Next() {
		var pr Prediction
		if err := rows.Scan(&pr.ID, &pr.UserID, &pr.MatchID, &pr.HomeScore, &pr.AwayScore, &pr.Status, &pr.CreatedAt, &pr.ResolvedAt); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}
