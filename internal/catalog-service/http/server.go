package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/catalog-service/dto"
	"github.com/radieske/palpiteiro-premiado/internal/catalog-service/repo"
	"github.com/radieske/palpiteiro-premiado/internal/catalog-service/service"
	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
)

// Catalog define as operações usadas pelos handlers
type Catalog interface {
	ListTeams(ctx context.Context) ([]repo.Team, error)
	GetTeam(ctx context.Context, id string) (repo.Team, error)
	CreateTeam(ctx context.Context, req dto.TeamRequest) (repo.Team, error)
	UpdateTeam(ctx context.Context, id string, req dto.TeamRequest) (repo.Team, error)
	DeleteTeam(ctx context.Context, id string) error

	ListChampionships(ctx context.Context) ([]repo.Championship, error)
	GetChampionship(ctx context.Context, id string) (repo.Championship, error)
	CreateChampionship(ctx context.Context, req dto.TeamRequest) (repo.Championship, error)
	UpdateChampionship(ctx context.Context, id string, req dto.TeamRequest) (repo.Championship, error)
	DeleteChampionship(ctx context.Context, id string) error
	SetChampionshipTeams(ctx context.Context, id string, req dto.ChampionshipTeamsRequest) (repo.Championship, error)

	ListMatches(ctx context.Context, f repo.MatchFilter) ([]repo.Match, error)
	GetMatch(ctx context.Context, id string) (repo.Match, error)
	CreateMatch(ctx context.Context, req dto.MatchRequest) (repo.Match, error)
	UpdateMatch(ctx context.Context, id string, req dto.MatchRequest) (repo.Match, error)
	DeleteMatch(ctx context.Context, id string) error

	Stats(ctx context.Context) (repo.Stats, error)
}

// Server expõe o catálogo público e as rotas de administração
type Server struct {
	log      *zap.Logger
	svc      Catalog
	verifier *auth.Verifier
	admins   auth.AdminLookup
}

func NewServer(log *zap.Logger, svc Catalog, v *auth.Verifier, admins auth.AdminLookup) *Server {
	return &Server{log: log, svc: svc, verifier: v, admins: admins}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, logger.RequestLogger(s.log))

	r.Get("/v1/teams", s.listTeams)
	r.Get("/v1/teams/{id}", s.getTeam)
	r.Get("/v1/championships", s.listChampionships)
	r.Get("/v1/championships/{id}", s.getChampionship)
	r.Get("/v1/matches", s.listMatches)
	r.Get("/v1/matches/{id}", s.getMatch)

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(auth.Required(s.verifier), auth.RequireAdmin(s.admins, s.log))

		r.Get("/stats", s.stats)

		r.Post("/teams", s.createTeam)
		r.Put("/teams/{id}", s.updateTeam)
		r.Delete("/teams/{id}", s.deleteTeam)

		r.Post("/championships", s.createChampionship)
		r.Put("/championships/{id}", s.updateChampionship)
		r.Delete("/championships/{id}", s.deleteChampionship)
		r.Put("/championships/{id}/teams", s.setChampionshipTeams)

		r.Post("/matches", s.createMatch)
		r.Put("/matches/{id}", s.updateMatch)
		r.Delete("/matches/{id}", s.deleteMatch)
	})
	return r
}

// decode lê o corpo JSON; false já respondeu 400
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "JSON inválido"})
		return false
	}
	return true
}

// respond escreve v ou traduz err
func (s *Server) respond(w http.ResponseWriter, op string, status int, v any, err error) {
	if err != nil {
		s.writeError(w, op, err)
		return
	}
	if v == nil {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, v)
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.ListTeams(r.Context())
	s.respond(w, "list teams", http.StatusOK, v, err)
}

func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.GetTeam(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, "get team", http.StatusOK, v, err)
}

func (s *Server) createTeam(w http.ResponseWriter, r *http.Request) {
	var req dto.TeamRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := s.svc.CreateTeam(r.Context(), req)
	s.respond(w, "create team", http.StatusCreated, v, err)
}

func (s *Server) updateTeam(w http.ResponseWriter, r *http.Request) {
	var req dto.TeamRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := s.svc.UpdateTeam(r.Context(), chi.URLParam(r, "id"), req)
	s.respond(w, "update team", http.StatusOK, v, err)
}

func (s *Server) deleteTeam(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteTeam(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, "delete team", http.StatusNoContent, nil, err)
}

func (s *Server) listChampionships(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.ListChampionships(r.Context())
	s.respond(w, "list championships", http.StatusOK, v, err)
}

func (s *Server) getChampionship(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.GetChampionship(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, "get championship", http.StatusOK, v, err)
}

func (s *Server) createChampionship(w http.ResponseWriter, r *http.Request) {
	var req dto.TeamRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := s.svc.CreateChampionship(r.Context(), req)
	s.respond(w, "create championship", http.StatusCreated, v, err)
}

func (s *Server) updateChampionship(w http.ResponseWriter, r *http.Request) {
	var req dto.TeamRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := s.svc.UpdateChampionship(r.Context(), chi.URLParam(r, "id"), req)
	s.respond(w, "update championship", http.StatusOK, v, err)
}

func (s *Server) deleteChampionship(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteChampionship(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, "delete championship", http.StatusNoContent, nil, err)
}

func (s *Server) setChampionshipTeams(w http.ResponseWriter, r *http.Request) {
	var req dto.ChampionshipTeamsRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := s.svc.SetChampionshipTeams(r.Context(), chi.URLParam(r, "id"), req)
	s.respond(w, "set championship teams", http.StatusOK, v, err)
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	v, err := s.svc.ListMatches(r.Context(), repo.MatchFilter{
		ChampionshipID: q.Get("championshipId"),
		Status:         q.Get("status"),
		Query:          q.Get("q"),
	})
	s.respond(w, "list matches", http.StatusOK, v, err)
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.GetMatch(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, "get match", http.StatusOK, v, err)
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req dto.MatchRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := s.svc.CreateMatch(r.Context(), req)
	s.respond(w, "create match", http.StatusCreated, v, err)
}

func (s *Server) updateMatch(w http.ResponseWriter, r *http.Request) {
	var req dto.MatchRequest
	if !decode(w, r, &req) {
		return
	}
	v, err := s.svc.UpdateMatch(r.Context(), chi.URLParam(r, "id"), req)
	s.respond(w, "update match", http.StatusOK, v, err)
}

func (s *Server) deleteMatch(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteMatch(r.Context(), chi.URLParam(r, "id"))
	s.respond(w, "delete match", http.StatusNoContent, nil, err)
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Stats(r.Context())
	s.respond(w, "stats", http.StatusOK, st, err)
}

// writeError traduz erros de domínio em status HTTP
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	var verr *service.ValidationError
	status, msg := http.StatusInternalServerError, "Erro ao processar solicitação"
	switch {
	case errors.As(err, &verr):
		status, msg = http.StatusBadRequest, verr.Msg
	case errors.Is(err, service.ErrSameTeams), errors.Is(err, service.ErrScoreRequired):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, repo.ErrUnknownReference):
		status, msg = http.StatusBadRequest, "Time ou campeonato não encontrado"
	case errors.Is(err, repo.ErrNotFound):
		status, msg = http.StatusNotFound, "Registro não encontrado"
	case errors.Is(err, repo.ErrInUse):
		status, msg = http.StatusConflict, "Registro em uso e não pode ser excluído"
	default:
		s.log.Error(op, zap.Error(err))
	}
	writeJSON(w, status, dto.ErrorResponse{Error: msg})
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
