package dto

import "github.com/radieske/palpiteiro-premiado/internal/prediction-service/repo"

type SubmitPredictionResponse struct {
	Prediction repo.Prediction `json:"prediction"`
	Balance    int64           `json:"balance"`
}

// InsufficientCreditsResponse leva o usuário ao fluxo de compra
type InsufficientCreditsResponse struct {
	Error         string `json:"error"`
	Required      int64  `json:"required"`
	Balance       int64  `json:"balance"`
	Shortfall     int64  `json:"shortfall"`
	BuyCreditsURL string `json:"buyCreditsUrl"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
