package db

import (
	"context"
	"database/sql"
	"fmt"
)

// WithTx executa fn dentro de uma transação.
// Commit se fn retornar nil, rollback caso contrário. O erro de fn volta sem embrulho
// para que errors.Is/As continuem funcionando no chamador.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after error: %v (fn err: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
