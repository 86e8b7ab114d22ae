package repo

import (
	"context"
	"fmt"
)

// Stats são os totais do painel administrativo
type Stats struct {
	Teams         int64 `json:"teams"`
	Championships int64 `json:"championships"`
	Matches       int64 `json:"matches"`
}

func (p *Postgres) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	err := p.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM teams),
		       (SELECT COUNT(*) FROM championships),
		       (SELECT COUNT(*) FROM matches)`).
		Scan(&s.Teams, &s.Championships, &s.Matches)
	if err != nil {
		return Stats{}, fmt.Errorf("catalog stats: %w", err)
	}
	return s, nil
}
