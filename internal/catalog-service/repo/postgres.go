package repo

import (
	"database/sql"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrInUse: a linha ainda é referenciada (partida de um time, palpites de uma partida)
	ErrInUse = errors.New("resource in use")
	// ErrUnknownReference: time ou campeonato informado não existe
	ErrUnknownReference = errors.New("unknown team or championship")
)

// Postgres implementa leitura e escrita do catálogo
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres { return &Postgres{db: db} }

// affected converte "nenhuma linha alterada" em ErrNotFound
func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
