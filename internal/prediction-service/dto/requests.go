package dto

import "encoding/json"

// Placares ficam crus: o servidor aceita número ou string e valida ele mesmo
type SubmitPredictionRequest struct {
	MatchID   string          `json:"matchId"`
	HomeScore json.RawMessage `json:"homeScore"`
	AwayScore json.RawMessage `json:"awayScore"`
}
