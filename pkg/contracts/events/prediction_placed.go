package events

// PredictionPlaced é publicado pelo prediction-service depois do commit do palpite + débito.
type PredictionPlaced struct {
	PredictionID string `json:"prediction_id"`
	UserID       string `json:"user_id"`
	MatchID      string `json:"match_id"`
	HomeScore    int    `json:"home_score"`
	AwayScore    int    `json:"away_score"`
	Cost         int64  `json:"cost"`
	BalanceAfter int64  `json:"balance_after"`
	TsUnixMs     int64  `json:"ts_unix_ms"`
}
