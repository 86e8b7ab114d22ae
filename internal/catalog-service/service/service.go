package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/catalog-service/dto"
	"github.com/radieske/palpiteiro-premiado/internal/catalog-service/repo"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

const defaultPredictionCost = 10

var (
	ErrSameTeams     = errors.New("Os times da casa e visitante devem ser diferentes")
	ErrScoreRequired = errors.New("Informe o placar da partida")
)

// ValidationError carrega a mensagem mostrada ao admin
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

type Store interface {
	ListTeams(ctx context.Context) ([]repo.Team, error)
	GetTeam(ctx context.Context, id string) (repo.Team, error)
	CreateTeam(ctx context.Context, in repo.TeamInput) (repo.Team, error)
	UpdateTeam(ctx context.Context, id string, in repo.TeamInput) (repo.Team, error)
	DeleteTeam(ctx context.Context, id string) error

	ListChampionships(ctx context.Context) ([]repo.Championship, error)
	GetChampionship(ctx context.Context, id string) (repo.Championship, error)
	CreateChampionship(ctx context.Context, in repo.TeamInput) (repo.Championship, error)
	UpdateChampionship(ctx context.Context, id string, in repo.TeamInput) (repo.Championship, error)
	DeleteChampionship(ctx context.Context, id string) error
	ReplaceChampionshipTeams(ctx context.Context, id string, teamIDs []string) (repo.Championship, error)

	ListMatches(ctx context.Context, f repo.MatchFilter) ([]repo.Match, error)
	GetMatch(ctx context.Context, id string) (repo.Match, error)
	CreateMatch(ctx context.Context, in repo.MatchInput) (repo.Match, error)
	UpdateMatch(ctx context.Context, id string, in repo.MatchInput) (repo.MatchUpdate, error)
	DeleteMatch(ctx context.Context, id string) error

	Stats(ctx context.Context) (repo.Stats, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
	Flush(ctx context.Context) error
}

type Publisher interface {
	PublishMatchFinished(ctx context.Context, e events.MatchFinished) error
}

// Service aplica as regras do catálogo sobre o repositório e o cache
type Service struct {
	log   *zap.Logger
	store Store
	cache Cache
	pub   Publisher
}

func New(log *zap.Logger, store Store, cache Cache, pub Publisher) *Service {
	return &Service{log: log, store: store, cache: cache, pub: pub}
}

const keyChampionships = "championships"

func keyMatch(id string) string { return "match:" + id }

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func invalid(err error) error { return &ValidationError{Msg: dto.Message(err)} }

// cached tenta o cache e, na falta, carrega e grava. Falhas do Redis só geram log.
func cached[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	var v T
	ok, err := s.cache.Get(ctx, key, &v)
	if err != nil {
		s.log.Warn("cache get", zap.String("key", key), zap.Error(err))
	}
	if ok {
		metrics.CatalogCacheLookups.WithLabelValues("hit").Inc()
		return v, nil
	}
	metrics.CatalogCacheLookups.WithLabelValues("miss").Inc()

	v, err = load()
	if err != nil {
		return v, err
	}
	if err := s.cache.Set(ctx, key, v); err != nil {
		s.log.Warn("cache set", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Delete(ctx, keys...); err != nil {
		s.log.Warn("cache delete", zap.Strings("keys", keys), zap.Error(err))
	}
}

// flush derruba o catálogo inteiro: nomes de times aparecem em várias chaves
func (s *Service) flush(ctx context.Context) {
	if err := s.cache.Flush(ctx); err != nil {
		s.log.Warn("cache flush", zap.Error(err))
	}
}

// Teams

func (s *Service) ListTeams(ctx context.Context) ([]repo.Team, error) {
	return s.store.ListTeams(ctx)
}

func (s *Service) GetTeam(ctx context.Context, id string) (repo.Team, error) {
	if !validID(id) {
		return repo.Team{}, repo.ErrNotFound
	}
	return s.store.GetTeam(ctx, id)
}

func (s *Service) CreateTeam(ctx context.Context, req dto.TeamRequest) (repo.Team, error) {
	if err := req.Validate(); err != nil {
		return repo.Team{}, invalid(err)
	}
	return s.store.CreateTeam(ctx, teamInput(req))
}

func (s *Service) UpdateTeam(ctx context.Context, id string, req dto.TeamRequest) (repo.Team, error) {
	if !validID(id) {
		return repo.Team{}, repo.ErrNotFound
	}
	if err := req.Validate(); err != nil {
		return repo.Team{}, invalid(err)
	}
	t, err := s.store.UpdateTeam(ctx, id, teamInput(req))
	if err != nil {
		return repo.Team{}, err
	}
	s.flush(ctx)
	return t, nil
}

func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	if !validID(id) {
		return repo.ErrNotFound
	}
	if err := s.store.DeleteTeam(ctx, id); err != nil {
		return err
	}
	s.flush(ctx)
	return nil
}

func teamInput(req dto.TeamRequest) repo.TeamInput {
	return repo.TeamInput{Name: req.Name, Country: req.Country, Logo: req.Logo}
}

// Championships

func (s *Service) ListChampionships(ctx context.Context) ([]repo.Championship, error) {
	return cached(ctx, s, keyChampionships, func() ([]repo.Championship, error) {
		return s.store.ListChampionships(ctx)
	})
}

func (s *Service) GetChampionship(ctx context.Context, id string) (repo.Championship, error) {
	if !validID(id) {
		return repo.Championship{}, repo.ErrNotFound
	}
	return s.store.GetChampionship(ctx, id)
}

func (s *Service) CreateChampionship(ctx context.Context, req dto.TeamRequest) (repo.Championship, error) {
	if err := req.Validate(); err != nil {
		return repo.Championship{}, invalid(err)
	}
	c, err := s.store.CreateChampionship(ctx, teamInput(req))
	if err != nil {
		return repo.Championship{}, err
	}
	s.invalidate(ctx, keyChampionships)
	return c, nil
}

func (s *Service) UpdateChampionship(ctx context.Context, id string, req dto.TeamRequest) (repo.Championship, error) {
	if !validID(id) {
		return repo.Championship{}, repo.ErrNotFound
	}
	if err := req.Validate(); err != nil {
		return repo.Championship{}, invalid(err)
	}
	c, err := s.store.UpdateChampionship(ctx, id, teamInput(req))
	if err != nil {
		return repo.Championship{}, err
	}
	s.flush(ctx)
	return c, nil
}

func (s *Service) DeleteChampionship(ctx context.Context, id string) error {
	if !validID(id) {
		return repo.ErrNotFound
	}
	if err := s.store.DeleteChampionship(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyChampionships)
	return nil
}

func (s *Service) SetChampionshipTeams(ctx context.Context, id string, req dto.ChampionshipTeamsRequest) (repo.Championship, error) {
	if !validID(id) {
		return repo.Championship{}, repo.ErrNotFound
	}
	if err := req.Validate(); err != nil {
		return repo.Championship{}, invalid(err)
	}
	c, err := s.store.ReplaceChampionshipTeams(ctx, id, req.TeamIDs)
	if err != nil {
		return repo.Championship{}, err
	}
	s.invalidate(ctx, keyChampionships)
	return c, nil
}

// Matches

func (s *Service) ListMatches(ctx context.Context, f repo.MatchFilter) ([]repo.Match, error) {
	if f.ChampionshipID != "" && !validID(f.ChampionshipID) {
		return []repo.Match{}, nil
	}
	return s.store.ListMatches(ctx, f)
}

func (s *Service) GetMatch(ctx context.Context, id string) (repo.Match, error) {
	if !validID(id) {
		return repo.Match{}, repo.ErrNotFound
	}
	return cached(ctx, s, keyMatch(id), func() (repo.Match, error) {
		return s.store.GetMatch(ctx, id)
	})
}

func (s *Service) CreateMatch(ctx context.Context, req dto.MatchRequest) (repo.Match, error) {
	in, err := matchInput(req)
	if err != nil {
		return repo.Match{}, err
	}
	return s.store.CreateMatch(ctx, in)
}

// UpdateMatch publica match_finished sempre que a partida é gravada encerrada com placar
func (s *Service) UpdateMatch(ctx context.Context, id string, req dto.MatchRequest) (repo.Match, error) {
	if !validID(id) {
		return repo.Match{}, repo.ErrNotFound
	}
	in, err := matchInput(req)
	if err != nil {
		return repo.Match{}, err
	}
	u, err := s.store.UpdateMatch(ctx, id, in)
	if err != nil {
		return repo.Match{}, err
	}
	s.invalidate(ctx, keyMatch(id))

	if u.Finished() {
		m := u.Match
		e := events.MatchFinished{
			MatchID:        m.ID,
			ChampionshipID: m.ChampionshipID,
			HomeScore:      *m.HomeScore,
			AwayScore:      *m.AwayScore,
			FinishedAt:     m.UpdatedAt,
		}
		if err := s.pub.PublishMatchFinished(ctx, e); err != nil {
			s.log.Error("publish match_finished", zap.String("match_id", m.ID),
				zap.String("previous_status", u.PreviousStatus), zap.Error(err))
		}
	}
	return u.Match, nil
}

func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	if !validID(id) {
		return repo.ErrNotFound
	}
	if err := s.store.DeleteMatch(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, keyMatch(id))
	return nil
}

// matchInput aplica as regras do formulário de partidas
func matchInput(req dto.MatchRequest) (repo.MatchInput, error) {
	if err := req.Validate(); err != nil {
		return repo.MatchInput{}, invalid(err)
	}
	if req.HomeTeamID == req.AwayTeamID {
		return repo.MatchInput{}, ErrSameTeams
	}

	in := repo.MatchInput{
		HomeTeamID:     req.HomeTeamID,
		AwayTeamID:     req.AwayTeamID,
		ChampionshipID: req.ChampionshipID,
		Date:           req.Date,
		Status:         req.Status,
		PredictionCost: req.PredictionCost,
		Prize:          req.Prize,
	}
	if in.Status == "" {
		in.Status = repo.StatusScheduled
	}
	if in.PredictionCost == 0 {
		in.PredictionCost = defaultPredictionCost
	}
	// placar só existe depois que a partida começa
	if in.Status != repo.StatusScheduled {
		if req.HomeScore == nil || req.AwayScore == nil {
			return repo.MatchInput{}, ErrScoreRequired
		}
		in.HomeScore, in.AwayScore = req.HomeScore, req.AwayScore
	}
	return in, nil
}

// Stats lê os totais direto do banco, sem cache
func (s *Service) Stats(ctx context.Context) (repo.Stats, error) {
	return s.store.Stats(ctx)
}
