package events

import "time"

// CreditPurchaseRequested é publicado quando o usuário envia um comprovante PIX.
type CreditPurchaseRequested struct {
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
	Amount        int64  `json:"amount"`
	Price         string `json:"price"` // decimal em string, ex: "25.00"
	ReceiptURL    string `json:"receipt_url"`
	TsUnixMs      int64  `json:"ts_unix_ms"`
}

// CreditTransactionDecided é publicado após aprovação ou rejeição pelo admin.
type CreditTransactionDecided struct {
	TransactionID string    `json:"transactionId"`
	UserID        string    `json:"userId"`
	Status        string    `json:"status"` // "approved" | "rejected"
	Amount        int64     `json:"amount"`
	BalanceAfter  *int64    `json:"balanceAfter,omitempty"` // só em aprovações
	DecidedBy     string    `json:"decidedBy"`
	Ts            time.Time `json:"ts"`
}
