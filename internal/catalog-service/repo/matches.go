package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
)

const selectMatch = `
	SELECT m.id, m.home_team_id, m.away_team_id, m.championship_id, m.date, m.status,
	       m.home_score, m.away_score, m.prediction_cost, m.prize, m.created_at, m.updated_at,
	       ht.name, ht.logo, aw.name, aw.logo, c.name
	FROM matches m
	JOIN teams ht ON ht.id = m.home_team_id
	JOIN teams aw ON aw.id = m.away_team_id
	JOIN championships c ON c.id = m.championship_id`

func scanMatch(s interface{ Scan(...any) error }) (Match, error) {
	var m Match
	err := s.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID, &m.ChampionshipID, &m.Date, &m.Status,
		&m.HomeScore, &m.AwayScore, &m.PredictionCost, &m.Prize, &m.CreatedAt, &m.UpdatedAt,
		&m.HomeTeam.Name, &m.HomeTeam.Logo, &m.AwayTeam.Name, &m.AwayTeam.Logo, &m.ChampionshipName)
	m.HomeTeam.ID, m.AwayTeam.ID = m.HomeTeamID, m.AwayTeamID
	return m, err
}

// ListMatches ordena por data; q procura no nome dos dois times
func (p *Postgres) ListMatches(ctx context.Context, f MatchFilter) ([]Match, error) {
	rows, err := p.db.QueryContext(ctx, selectMatch+`
		WHERE ($1 = '' OR m.championship_id::text = $1)
		  AND ($2 = '' OR m.status = $2)
		  AND ($3 = '' OR ht.name ILIKE '%' || $3 || '%' OR aw.name ILIKE '%' || $3 || '%')
		ORDER BY m.date`, f.ChampionshipID, f.Status, f.Query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Match{}
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (p *Postgres) GetMatch(ctx context.Context, id string) (Match, error) {
	return getMatch(ctx, p.db, id)
}

func getMatch(ctx context.Context, q ledger.Querier, id string) (Match, error) {
	m, err := scanMatch(q.QueryRowContext(ctx, selectMatch+` WHERE m.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Match{}, ErrNotFound
	}
	return m, err
}

func (p *Postgres) CreateMatch(ctx context.Context, in MatchInput) (Match, error) {
	var id string
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO matches (home_team_id, away_team_id, championship_id, date, status,
		                     home_score, away_score, prediction_cost, prize)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		in.HomeTeamID, in.AwayTeamID, in.ChampionshipID, in.Date, in.Status,
		in.HomeScore, in.AwayScore, in.PredictionCost, in.Prize).Scan(&id)
	if db.IsForeignKeyViolation(err) {
		return Match{}, ErrUnknownReference
	}
	if err != nil {
		return Match{}, fmt.Errorf("insert match: %w", err)
	}
	return p.GetMatch(ctx, id)
}

// UpdateMatch grava a partida e devolve também o status anterior,
// usado para detectar o encerramento
func (p *Postgres) UpdateMatch(ctx context.Context, id string, in MatchInput) (MatchUpdate, error) {
	var out MatchUpdate
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT status FROM matches WHERE id = $1 FOR UPDATE`, id).
			Scan(&out.PreviousStatus)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock match: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE matches
			SET home_team_id = $2, away_team_id = $3, championship_id = $4, date = $5, status = $6,
			    home_score = $7, away_score = $8, prediction_cost = $9, prize = $10, updated_at = NOW()
			WHERE id = $1`,
			id, in.HomeTeamID, in.AwayTeamID, in.ChampionshipID, in.Date, in.Status,
			in.HomeScore, in.AwayScore, in.PredictionCost, in.Prize)
		if db.IsForeignKeyViolation(err) {
			return ErrUnknownReference
		}
		if err != nil {
			return fmt.Errorf("update match: %w", err)
		}

		out.Match, err = getMatch(ctx, tx, id)
		return err
	})
	return out, err
}

// DeleteMatch recusa partidas que já receberam palpites
func (p *Postgres) DeleteMatch(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if db.IsForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	return affected(res)
}
