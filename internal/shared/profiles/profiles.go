package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrNotFound = errors.New("profile not found")

type Profile struct {
	ID        string    `json:"id"`
	Username  *string   `json:"username"`
	FullName  *string   `json:"fullName"`
	AvatarURL *string   `json:"avatarUrl"`
	Credits   int64     `json:"credits"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store lê e cria perfis em Postgres
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

const selectProfile = `
	SELECT id, username, full_name, avatar_url, credits, is_admin, created_at, updated_at
	FROM profiles WHERE id = $1`

func (s *Store) Get(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := s.db.QueryRowContext(ctx, selectProfile, userID).
		Scan(&p.ID, &p.Username, &p.FullName, &p.AvatarURL, &p.Credits, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// GetOrCreate cria o perfil com 0 créditos no primeiro acesso autenticado
func (s *Store) GetOrCreate(ctx context.Context, userID string) (*Profile, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, credits) VALUES ($1, 0) ON CONFLICT (id) DO NOTHING`, userID); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return s.Get(ctx, userID)
}

// Update são os dados editáveis pelo próprio usuário; nil grava NULL
type Update struct {
	FullName  *string
	Username  *string
	AvatarURL *string
}

// Update substitui nome, usuário e avatar; créditos e is_admin não mudam
func (s *Store) Update(ctx context.Context, userID string, u Update) (*Profile, error) {
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, full_name, username, avatar_url, credits)
		VALUES ($1, $2, $3, $4, 0)
		ON CONFLICT (id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
		    username = EXCLUDED.username,
		    avatar_url = EXCLUDED.avatar_url,
		    updated_at = NOW()`,
		userID, u.FullName, u.Username, u.AvatarURL); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.Get(ctx, userID)
}

// IsAdmin satisfaz auth.AdminLookup; perfil inexistente não é admin
func (s *Store) IsAdmin(ctx context.Context, userID string) (bool, error) {
	var isAdmin bool
	err := s.db.QueryRowContext(ctx, `SELECT is_admin FROM profiles WHERE id = $1`, userID).Scan(&isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup is_admin: %w", err)
	}
	return isAdmin, nil
}
