package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// AdminLookup consulta profiles.is_admin
type AdminLookup interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// Optional anexa a sessão quando há token válido e deixa passar sem token.
// Token presente porém inválido responde 401.
func Optional(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := TokenFromRequest(r)
			if errors.Is(err, ErrNoToken) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				writeError(w, http.StatusUnauthorized, "token inválido")
				return
			}
			s, err := v.Parse(tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "token inválido")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// Required exige token válido
func Required(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tok, err := TokenFromRequest(r)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "não autenticado")
				return
			}
			s, err := v.Parse(tok)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "token inválido")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

// RequireAdmin deve vir depois de Required; marca a sessão como admin
func RequireAdmin(lookup AdminLookup, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := FromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "não autenticado")
				return
			}
			isAdmin, err := lookup.IsAdmin(r.Context(), s.UserID)
			if err != nil {
				log.Error("admin lookup", zap.String("userId", s.UserID), zap.Error(err))
				writeError(w, http.StatusInternalServerError, "erro ao verificar permissões")
				return
			}
			if !isAdmin {
				writeError(w, http.StatusForbidden, "acesso restrito a administradores")
				return
			}
			s.IsAdmin = true
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s)))
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
