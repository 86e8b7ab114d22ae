package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/dto"
	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/repo"
	"github.com/radieske/palpiteiro-premiado/internal/prediction-service/service"
	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
)

// Rota do gateway para a lista de pacotes de créditos
const buyCreditsURL = "/api/wallet/v1/credit-packages"

type Predictions interface {
	Submit(ctx context.Context, sess *auth.Session, in service.SubmitInput) (repo.Placed, error)
	List(ctx context.Context, sess *auth.Session, matchID string) ([]repo.Prediction, error)
}

// Server expõe o fluxo de palpites
type Server struct {
	log      *zap.Logger
	svc      Predictions
	verifier *auth.Verifier
}

func NewServer(log *zap.Logger, svc Predictions, v *auth.Verifier) *Server {
	return &Server{log: log, svc: svc, verifier: v}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, logger.RequestLogger(s.log))

	// sessão opcional: o próprio fluxo responde 401 com a mensagem de login
	r.Group(func(r chi.Router) {
		r.Use(auth.Optional(s.verifier))
		r.Post("/v1/predictions", s.submit)
		r.Get("/v1/predictions", s.list)
	})
	return r
}

func sessionFrom(r *http.Request) *auth.Session {
	if sess, ok := auth.FromContext(r.Context()); ok {
		return &sess
	}
	return nil
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitPredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "requisição inválida"})
		return
	}

	placed, err := s.svc.Submit(r.Context(), sessionFrom(r), service.SubmitInput{
		MatchID:   req.MatchID,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	})
	if err != nil {
		s.writeSubmitError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.SubmitPredictionResponse{
		Prediction: placed.Prediction,
		Balance:    placed.Balance,
	})
}

func (s *Server) writeSubmitError(w http.ResponseWriter, err error) {
	var ice *ledger.InsufficientCreditsError
	switch {
	case errors.Is(err, service.ErrNoSession):
		writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrInvalidScore), errors.Is(err, service.ErrNegativeScore):
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &ice):
		writeJSON(w, http.StatusPaymentRequired, dto.InsufficientCreditsResponse{
			Error:         fmt.Sprintf("Você não tem créditos suficientes. Necessário: %d créditos", ice.Required),
			Required:      ice.Required,
			Balance:       ice.Balance,
			Shortfall:     ice.Shortfall(),
			BuyCreditsURL: buyCreditsURL,
		})
	case errors.Is(err, repo.ErrMatchNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Partida não encontrada"})
	case errors.Is(err, repo.ErrMatchClosed):
		writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Esta partida não está aberta para palpites"})
	case errors.Is(err, ledger.ErrAccountNotFound):
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Perfil não encontrado"})
	default:
		s.log.Error("submit prediction", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro ao registrar palpite"})
	}
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.List(r.Context(), sessionFrom(r), r.URL.Query().Get("matchId"))
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "não autenticado"})
			return
		}
		s.log.Error("list predictions", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Erro ao carregar palpites"})
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// writeJSON serializa a resposta em JSON e define o status HTTP
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
