package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/radieske/palpiteiro-premiado/internal/shared/auth"
	"github.com/radieske/palpiteiro-premiado/internal/shared/ledger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/logger"
	"github.com/radieske/palpiteiro-premiado/internal/shared/profiles"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/dto"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/pix"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/receipts"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/repo"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/service"
)

// Wallet define as operações usadas pelos handlers
type Wallet interface {
	Me(ctx context.Context, sess *auth.Session) (*profiles.Profile, error)
	UpdateProfile(ctx context.Context, sess *auth.Session, req dto.ProfileRequest) (*profiles.Profile, error)
	Ledger(ctx context.Context, sess *auth.Session, limit int) ([]ledger.Entry, error)
	MyTransactions(ctx context.Context, sess *auth.Session) ([]repo.CreditTransaction, error)
	RequestPurchase(ctx context.Context, sess *auth.Session, in service.PurchaseInput) (repo.CreditTransaction, error)
	AdminList(ctx context.Context, sess *auth.Session, status string) ([]repo.CreditTransaction, error)
	Approve(ctx context.Context, sess *auth.Session, id string) (repo.Decision, error)
	Reject(ctx context.Context, sess *auth.Session, id string) (repo.Decision, error)
}

// Server expõe saldo, compra de créditos e a fila de aprovação do admin
type Server struct {
	log      *zap.Logger
	svc      Wallet
	verifier *auth.Verifier
	admins   auth.AdminLookup
}

func NewServer(log *zap.Logger, svc Wallet, v *auth.Verifier, admins auth.AdminLookup) *Server {
	return &Server{log: log, svc: svc, verifier: v, admins: admins}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, logger.RequestLogger(s.log))

	r.Get("/v1/credit-packages", s.listPackages)
	r.Get("/v1/credit-packages/{id}/pix", s.pixCode)

	r.Group(func(r chi.Router) {
		r.Use(auth.Required(s.verifier))
		r.Get("/v1/me", s.me)
		r.Put("/v1/me", s.updateMe)
		r.Get("/v1/me/ledger", s.myLedger)
		r.Get("/v1/credit-purchases", s.myPurchases)
		r.Post("/v1/credit-purchases", s.requestPurchase)

		r.Route("/v1/admin/credit-transactions", func(r chi.Router) {
			r.Use(auth.RequireAdmin(s.admins, s.log))
			r.Get("/", s.adminList)
			r.Post("/{id}/approve", s.approve)
			r.Post("/{id}/reject", s.reject)
		})
	})
	return r
}

func sessionFrom(r *http.Request) *auth.Session {
	if sess, ok := auth.FromContext(r.Context()); ok {
		return &sess
	}
	return nil
}

func (s *Server) listPackages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pix.Packages())
}

func (s *Server) pixCode(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: pix.ErrUnknownPackage.Error()})
		return
	}
	pkg, err := pix.Lookup(id)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dto.PixResponse{Package: pkg, Code: pix.Code(pkg)})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Me(r.Context(), sessionFrom(r))
	if err != nil {
		s.writeError(w, "me", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) updateMe(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 64<<10)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "JSON inválido"})
		return
	}
	p, err := s.svc.UpdateProfile(r.Context(), sessionFrom(r), req)
	if err != nil {
		s.writeError(w, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponse{Profile: p, Message: "Suas informações foram atualizadas com sucesso."})
}

func (s *Server) myLedger(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.svc.Ledger(r.Context(), sessionFrom(r), limit)
	if err != nil {
		s.writeError(w, "ledger", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) myPurchases(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.MyTransactions(r.Context(), sessionFrom(r))
	if err != nil {
		s.writeError(w, "list purchases", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// requestPurchase recebe multipart: packageId + receipt (arquivo)
func (s *Server) requestPurchase(w http.ResponseWriter, r *http.Request) {
	// folga de 1 MiB para os demais campos do formulário
	r.Body = http.MaxBytesReader(w, r.Body, receipts.MaxSize+1<<20)
	if err := r.ParseMultipartForm(receipts.MaxSize); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: receipts.ErrTooLarge.Error()})
			return
		}
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "formulário inválido"})
		return
	}

	pkgID, err := strconv.Atoi(r.FormValue("packageId"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: pix.ErrUnknownPackage.Error()})
		return
	}

	in := service.PurchaseInput{PackageID: pkgID}
	file, header, err := r.FormFile("receipt")
	if err == nil {
		defer file.Close()
		in.Receipt = file
		in.Size = header.Size
		in.Filename = header.Filename
		in.ContentType = header.Header.Get("Content-Type")
	}

	tr, err := s.svc.RequestPurchase(r.Context(), sessionFrom(r), in)
	if err != nil {
		s.writeError(w, "request purchase", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto.PurchaseResponse{
		Transaction: tr,
		Message:     "Comprovante enviado com sucesso! Seu pagamento está em análise.",
	})
}

func (s *Server) adminList(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.AdminList(r.Context(), sessionFrom(r), r.URL.Query().Get("status"))
	if err != nil {
		s.writeError(w, "admin list", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) approve(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Approve(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "approve", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DecisionResponse{Transaction: d.Transaction, Balance: d.BalanceAfter, Message: "Pagamento aprovado"})
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.Reject(r.Context(), sessionFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, "reject", err)
		return
	}
	writeJSON(w, http.StatusOK, dto.DecisionResponse{Transaction: d.Transaction, Message: "Pagamento rejeitado"})
}

// writeError traduz erros de domínio em status HTTP
func (s *Server) writeError(w http.ResponseWriter, op string, err error) {
	status, msg := http.StatusInternalServerError, "Erro ao processar solicitação"
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		status, msg = http.StatusBadRequest, verr.Msg
	case errors.Is(err, service.ErrNoSession):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, pix.ErrUnknownPackage),
		errors.Is(err, receipts.ErrMissingReceipt),
		errors.Is(err, receipts.ErrUnsupportedType):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, receipts.ErrTooLarge):
		status, msg = http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, receipts.ErrUploadFailed):
		status, msg = http.StatusBadGateway, "Erro ao enviar comprovante"
	case errors.Is(err, repo.ErrTransactionNotFound):
		status, msg = http.StatusNotFound, "Transação não encontrada"
	case errors.Is(err, repo.ErrTransactionNotPending):
		status, msg = http.StatusConflict, "Esta transação já foi processada"
	case errors.Is(err, ledger.ErrAccountNotFound), errors.Is(err, profiles.ErrNotFound):
		status, msg = http.StatusNotFound, "Perfil não encontrado"
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
