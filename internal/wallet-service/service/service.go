package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/metrics"
	"github.com/radieske/palpiteiro-premiado/internal/shared/profiles"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/dto"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/pix"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/receipts"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/repo"
	"github.com/radieske/palpiteiro-premiado/pkg/contracts/events"
)

var (
	ErrNoSession     = errors.New("não autenticado")
	ErrForbidden     = errors.New("acesso restrito a administradores")
	ErrInvalidStatus = errors.New("status inválido")
)

// ValidationError carrega a mensagem de campo inválido para o usuário
type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

type Store interface {
	CreatePending(ctx context.Context, in repo.NewTransaction) (repo.CreditTransaction, error)
	ListByUser(ctx context.Context, userID string) ([]repo.CreditTransaction, error)
	ListAll(ctx context.Context, status string) ([]repo.CreditTransaction, error)
	Approve(ctx context.Context, id, adminID string) (repo.Decision, error)
	Reject(ctx context.Context, id, adminID string) (repo.Decision, error)
	LedgerEntries(ctx context.Context, userID string, limit int) ([]ledger.Entry, error)
}

type Profiles interface {
	GetOrCreate(ctx context.Context, userID string) (*profiles.Profile, error)
	Update(ctx context.Context, userID string, u profiles.Update) (*profiles.Profile, error)
}

type Publisher interface {
	PublishPurchaseRequested(ctx context.Context, e events.CreditPurchaseRequested) error
	PublishDecision(ctx context.Context, e events.CreditTransactionDecided) error
}

// PurchaseInput é o formulário de compra: pacote escolhido + arquivo do comprovante
type PurchaseInput struct {
	PackageID   int
	Receipt     io.Reader
	Size        int64
	Filename    string
	ContentType string
}

type Service struct {
	log      *zap.Logger
	store    Store
	receipts receipts.Store
	profiles Profiles
	pub      Publisher
	now      func() time.Time
}

func New(log *zap.Logger, store Store, rs receipts.Store, pr Profiles, pub Publisher) *Service {
	return &Service{log: log, store: store, receipts: rs, profiles: pr, pub: pub, now: time.Now}
}

// Me devolve o perfil de quem chama, criando-o no primeiro acesso
func (s *Service) Me(ctx context.Context, sess *auth.Session) (*profiles.Profile, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	return s.profiles.GetOrCreate(ctx, sess.UserID)
}

// UpdateProfile grava nome, usuário e avatar de quem chama
func (s *Service) UpdateProfile(ctx context.Context, sess *auth.Session, req dto.ProfileRequest) (*profiles.Profile, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	if err := req.Validate(); err != nil {
		return nil, &ValidationError{Msg: dto.Message(err)}
	}
	return s.profiles.Update(ctx, sess.UserID, profiles.Update{
		FullName:  nonEmpty(req.FullName),
		Username:  nonEmpty(req.Username),
		AvatarURL: nonEmpty(req.AvatarURL),
	})
}

func nonEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func (s *Service) Ledger(ctx context.Context, sess *auth.Session, limit int) ([]ledger.Entry, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	return s.store.LedgerEntries(ctx, sess.UserID, limit)
}

func (s *Service) MyTransactions(ctx context.Context, sess *auth.Session) ([]repo.CreditTransaction, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	return s.store.ListByUser(ctx, sess.UserID)
}

// RequestPurchase envia o comprovante e registra a transação pendente.
// Se o INSERT falhar o objeto enviado é removido; não há nova tentativa automática.
func (s *Service) RequestPurchase(ctx context.Context, sess *auth.Session, in PurchaseInput) (repo.CreditTransaction, error) {
	if sess == nil {
		return repo.CreditTransaction{}, ErrNoSession
	}
	pkg, err := pix.Lookup(in.PackageID)
	if err != nil {
		return repo.CreditTransaction{}, err
	}
	if in.Receipt == nil || in.Size <= 0 {
		return repo.CreditTransaction{}, receipts.ErrMissingReceipt
	}
	if in.Size > receipts.MaxSize {
		return repo.CreditTransaction{}, receipts.ErrTooLarge
	}
	if err := receipts.ValidateContentType(in.ContentType); err != nil {
		return repo.CreditTransaction{}, err
	}

	key := receipts.ObjectKey(sess.UserID, s.now(), in.Filename, in.ContentType)
	url, err := s.receipts.Put(ctx, key, in.Receipt, in.Size, in.ContentType)
	if err != nil {
		s.log.Error("upload receipt", zap.String("key", key), zap.Error(err))
		return repo.CreditTransaction{}, fmt.Errorf("%w: %v", receipts.ErrUploadFailed, err)
	}

	tr, err := s.store.CreatePending(ctx, repo.NewTransaction{
		UserID:     sess.UserID,
		Amount:     pkg.Amount,
		Price:      pkg.Price,
		ReceiptURL: url,
	})
	if err != nil {
		if rmErr := s.receipts.Remove(ctx, key); rmErr != nil {
			s.log.Warn("remove orphan receipt", zap.String("key", key), zap.Error(rmErr))
		}
		return repo.CreditTransaction{}, err
	}
	metrics.PurchasesRequested.Inc()

	if err := s.pub.PublishPurchaseRequested(ctx, events.CreditPurchaseRequested{
		TransactionID: tr.ID,
		UserID:        tr.UserID,
		Amount:        tr.Amount,
		Price:         tr.Price.StringFixed(2),
		ReceiptURL:    url,
	}); err != nil {
		s.log.Warn("publish credit_purchase_requested", zap.String("transactionId", tr.ID), zap.Error(err))
	}
	return tr, nil
}

// AdminList lista transações por status (vazio = todas)
func (s *Service) AdminList(ctx context.Context, sess *auth.Session, status string) ([]repo.CreditTransaction, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	switch status {
	case "", repo.StatusPending, repo.StatusApproved, repo.StatusRejected:
	default:
		return nil, ErrInvalidStatus
	}
	return s.store.ListAll(ctx, status)
}

// Approve credita exatamente uma vez; repetir a chamada devolve ErrTransactionNotPending
func (s *Service) Approve(ctx context.Context, sess *auth.Session, id string) (repo.Decision, error) {
	return s.decide(ctx, sess, id, repo.StatusApproved)
}

func (s *Service) Reject(ctx context.Context, sess *auth.Session, id string) (repo.Decision, error) {
	return s.decide(ctx, sess, id, repo.StatusRejected)
}

func (s *Service) decide(ctx context.Context, sess *auth.Session, id, status string) (repo.Decision, error) {
	if err := requireAdmin(sess); err != nil {
		return repo.Decision{}, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return repo.Decision{}, repo.ErrTransactionNotFound
	}

	var (
		d   repo.Decision
		err error
	)
	if status == repo.StatusApproved {
		d, err = s.store.Approve(ctx, id, sess.UserID)
	} else {
		d, err = s.store.Reject(ctx, id, sess.UserID)
	}
	if err != nil {
		return repo.Decision{}, err
	}
	metrics.TransactionsDecided.WithLabelValues(status).Inc()

	if err := s.pub.PublishDecision(ctx, events.CreditTransactionDecided{
		TransactionID: d.Transaction.ID,
		UserID:        d.Transaction.UserID,
		Status:        d.Transaction.Status,
		Amount:        d.Transaction.Amount,
		BalanceAfter:  d.BalanceAfter,
		DecidedBy:     sess.UserID,
		Ts:            s.now(),
	}); err != nil {
		s.log.Warn("publish credit_transaction_decided", zap.String("transactionId", id), zap.Error(err))
	}
	return d, nil
}

func requireAdmin(sess *auth.Session) error {
	if sess == nil {
		return ErrNoSession
	}
	if !sess.IsAdmin {
		return ErrForbidden
	}
	return nil
}
