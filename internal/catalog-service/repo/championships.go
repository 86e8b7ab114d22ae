package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
)

const selectChampionship = `SELECT id, name, country, logo, created_at, updated_at FROM championships`

func scanChampionship(s interface{ Scan(...any) error }) (Championship, error) {
	c := Championship{Teams: []Team{}}
	err := s.Scan(&c.ID, &c.Name, &c.Country, &c.Logo, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListChampionships devolve os campeonatos já com seus times
func (p *Postgres) ListChampionships(ctx context.Context) ([]Championship, error) {
	rows, err := p.db.QueryContext(ctx, selectChampionship+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Championship{}
	idx := map[string]int{}
	for rows.Next() {
		c, err := scanChampionship(rows)
		if err != nil {
			return nil, err
		}
		idx[c.ID] = len(out)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	teams, err := p.teamsOf(ctx, p.db, nil)
	if err != nil {
		return nil, err
	}
	for champID, ts := range teams {
		if i, ok := idx[champID]; ok {
			out[i].Teams = ts
		}
	}
	return out, nil
}

func (p *Postgres) GetChampionship(ctx context.Context, id string) (Championship, error) {
	c, err := scanChampionship(p.db.QueryRowContext(ctx, selectChampionship+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Championship{}, ErrNotFound
	}
	if err != nil {
		return Championship{}, err
	}
	teams, err := p.teamsOf(ctx, p.db, []string{id})
	if err != nil {
		return Championship{}, err
	}
	if ts, ok := teams[id]; ok {
		c.Teams = ts
	}
	return c, nil
}

// teamsOf agrupa os times por campeonato; ids nil lê todos
func (p *Postgres) teamsOf(ctx context.Context, q interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}, ids []string) (map[string][]Team, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT ct.championship_id, t.id, t.name, t.country, t.logo, t.created_at, t.updated_at
		FROM championship_teams ct
		JOIN teams t ON t.id = ct.team_id
		WHERE $1::uuid[] IS NULL OR ct.championship_id = ANY($1::uuid[])
		ORDER BY t.name`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]Team{}
	for rows.Next() {
		var (
			champID string
			t       Team
		)
		if err := rows.Scan(&champID, &t.ID, &t.Name, &t.Country, &t.Logo, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out[champID] = append(out[champID], t)
	}
	return out, rows.Err()
}

func (p *Postgres) CreateChampionship(ctx context.Context, in TeamInput) (Championship, error) {
	return scanChampionship(p.db.QueryRowContext(ctx, `
		INSERT INTO championships (name, country, logo)
		VALUES ($1, $2, $3)
		RETURNING id, name, country, logo, created_at, updated_at`,
		in.Name, in.Country, in.Logo))
}

func (p *Postgres) UpdateChampionship(ctx context.Context, id string, in TeamInput) (Championship, error) {
	_, err := p.db.ExecContext(ctx, `
		UPDATE championships SET name = $2, country = $3, logo = $4, updated_at = NOW()
		WHERE id = $1`, id, in.Name, in.Country, in.Logo)
	if err != nil {
		return Championship{}, fmt.Errorf("update championship: %w", err)
	}
	return p.GetChampionship(ctx, id)
}

// DeleteChampionship recusa campeonatos com partidas cadastradas
func (p *Postgres) DeleteChampionship(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM championships WHERE id = $1`, id)
	if db.IsForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete championship: %w", err)
	}
	return affected(res)
}

// ReplaceChampionshipTeams troca o conjunto de times de uma vez
func (p *Postgres) ReplaceChampionshipTeams(ctx context.Context, id string, teamIDs []string) (Championship, error) {
	err := db.WithTx(ctx, p.db, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx, `SELECT id FROM championships WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("lock championship: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM championship_teams WHERE championship_id = $1`, id); err != nil {
			return fmt.Errorf("clear teams: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO championship_teams (championship_id, team_id)
			SELECT $1, unnest($2::uuid[])
			ON CONFLICT DO NOTHING`, id, pq.Array(teamIDs))
		if db.IsForeignKeyViolation(err) {
			return ErrUnknownReference
		}
		if err != nil {
			return fmt.Errorf("insert teams: %w", err)
		}
		return nil
	})
	if err != nil {
		return Championship{}, err
	}
	return p.GetChampionship(ctx, id)
}
