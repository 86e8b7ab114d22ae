// Package dbtest sobe um Postgres descartável (testcontainers) com as migrações aplicadas.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/radieske/palpiteiro-premiado/internal/shared/db"
)

// New retorna um *sql.DB migrado. Pula o teste em modo -short.
func New(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test: requires docker")
	}

	ctx := context.Background()

	labels := map[string]string{
		"test":      "palpiteiro-repository",
		"test-name": t.Name(),
		"timestamp": time.Now().Format("20060102-150405"),
	}

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("palpiteiro_test"),
		postgres.WithUsername("test_user"),
		postgres.WithPassword("test_password"),
		postgres.BasicWaitStrategies(),
		testcontainers.WithLabels(labels),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		cctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pg, err := db.ConnectPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Close() })

	_, err = db.Migrate(pg)
	require.NoError(t, err)

	return pg
}

// SeedProfile cria um perfil com o saldo informado e devolve o id
func SeedProfile(t *testing.T, pg *sql.DB, credits int64, isAdmin bool) string {
	t.Helper()
	id := uuid.NewString()
	_, err := pg.Exec(`INSERT INTO profiles (id, username, full_name, credits, is_admin) VALUES ($1, $2, $3, $4, $5)`,
		id, "user_"+id[:8], "Usuário "+id[:8], credits, isAdmin)
	require.NoError(t, err)
	return id
}

// SeedMatch cria dois times, um campeonato e uma partida agendada
func SeedMatch(t *testing.T, pg *sql.DB, date time.Time, cost int64) string {
	t.Helper()
	var home, away, champ, match string
	require.NoError(t, pg.QueryRow(`INSERT INTO teams (name, country) VALUES ('Casa', 'Brasil') RETURNING id`).Scan(&home))
	require.NoError(t, pg.QueryRow(`INSERT INTO teams (name, country) VALUES ('Visitante', 'Brasil') RETURNING id`).Scan(&away))
	require.NoError(t, pg.QueryRow(`INSERT INTO championships (name, country) VALUES ('Brasileirão', 'Brasil') RETURNING id`).Scan(&champ))
	require.NoError(t, pg.QueryRow(`
		INSERT INTO matches (home_team_id, away_team_id, championship_id, date, prediction_cost, prize)
		VALUES ($1, $2, $3, $4, $5, 'Camisa oficial') RETURNING id`,
		home, away, champ, date, cost).Scan(&match))
	return match
}

// Balance lê o saldo atual direto da tabela
func Balance(t *testing.T, pg *sql.DB, userID string) int64 {
	t.Helper()
	var c int64
	require.NoError(t, pg.QueryRow(`SELECT credits FROM profiles WHERE id = $1`, userID).Scan(&c))
	return c
}
