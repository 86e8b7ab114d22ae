package repo

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// CreditTransaction é uma solicitação de compra de créditos via PIX
type CreditTransaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"userId"`
	Amount        int64           `json:"amount"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod string          `json:"paymentMethod"`
	ReceiptURL    *string         `json:"receiptUrl"`
	Status        string          `json:"status"`
	ApprovedBy    *string         `json:"approvedBy"`
	ApprovedAt    *time.Time      `json:"approvedAt"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`

	// preenchidos apenas na listagem do admin
	Username *string `json:"username,omitempty"`
	FullName *string `json:"fullName,omitempty"`
}

type NewTransaction struct {
	UserID     string
	Amount     int64
	Price      decimal.Decimal
	ReceiptURL string
}

// Decision é o resultado de uma aprovação/rejeição já commitada
type Decision struct {
	Transaction  CreditTransaction
	BalanceAfter *int64 // só em aprovações
}
