package events

import "time"

// Evento emitido pelo prediction-resolution-worker para cada palpite resolvido.
type PredictionResolved struct {
	PredictionID string    `json:"predictionId"`
	UserID       string    `json:"userId"`
	MatchID      string    `json:"matchId"`
	Status       string    `json:"status"` // "won" | "lost"
	Ts           time.Time `json:"ts"`
}
