package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
)

const selectTeam = `SELECT id, name, country, logo, created_at, updated_at FROM teams`

func scanTeam(s interface{ Scan(...any) error }) (Team, error) {
	var t Team
	err := s.Scan(&t.ID, &t.Name, &t.Country, &t.Logo, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (p *Postgres) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := p.db.QueryContext(ctx, selectTeam+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Team{}
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (p *Postgres) GetTeam(ctx context.Context, id string) (Team, error) {
	t, err := scanTeam(p.db.QueryRowContext(ctx, selectTeam+` WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, ErrNotFound
	}
	return t, err
}

func (p *Postgres) CreateTeam(ctx context.Context, in TeamInput) (Team, error) {
	return scanTeam(p.db.QueryRowContext(ctx, `
		INSERT INTO teams (name, country, logo)
		VALUES ($1, $2, $3)
		RETURNING id, name, country, logo, created_at, updated_at`,
		in.Name, in.Country, in.Logo))
}

func (p *Postgres) UpdateTeam(ctx context.Context, id string, in TeamInput) (Team, error) {
	t, err := scanTeam(p.db.QueryRowContext(ctx, `
		UPDATE teams SET name = $2, country = $3, logo = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, country, logo, created_at, updated_at`,
		id, in.Name, in.Country, in.Logo))
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, ErrNotFound
	}
	return t, err
}

// DeleteTeam recusa times usados em partidas (FK RESTRICT)
func (p *Postgres) DeleteTeam(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if db.IsForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return affected(res)
}
