package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

// Resolved é um palpite que saiu de pending nesta execução
type Resolved struct {
	PredictionID string
	UserID       string
	MatchID      string
	Status       string // won | lost
	ResolvedAt   time.Time
}

type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// Resolve marca como won os palpites com placar exato e lost os demais.
// Só toca palpites pending: reprocessar o mesmo evento não devolve linhas.
func (p *Postgres) Resolve(ctx context.Context, e events.MatchFinished) ([]Resolved, error) {
	rows, err := p.db.QueryContext(ctx, `
		UPDATE predictions
		SET status = CASE WHEN home_score = $2 AND away_score = $3 THEN 'won' ELSE 'lost' END,
		    resolved_at = NOW()
		WHERE match_id = $1 AND status = 'pending'
		RETURNING id, user_id, match_id, status, resolved_at`,
		e.MatchID, e.HomeScore, e.AwayScore)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resolved
	for rows.Next() {
		var r Resolved
		if err := rows.Scan(&r.PredictionID, &r.UserID, &r.MatchID, &r.Status, &r.ResolvedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
