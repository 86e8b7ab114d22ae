package dto

import (
	"github.com/radieske/palpiteiro-premiado/internal/shared/profiles"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/pix"
	"github.com/radieske/palpiteiro-premiado/internal/wallet-service/repo"
)

type PixResponse struct {
	Package pix.Package `json:"package"`
	Code    string      `json:"pixCode"`
}

type PurchaseResponse struct {
	Transaction repo.CreditTransaction `json:"transaction"`
	Message     string                 `json:"message"`
}

type DecisionResponse struct {
	Transaction repo.CreditTransaction `json:"transaction"`
	Balance     *int64                 `json:"balance,omitempty"`
	Message     string                 `json:"message"`
}

type ProfileResponse struct {
	Profile *profiles.Profile `json:"profile"`
	Message string            `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
