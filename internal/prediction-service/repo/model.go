package repo

import "time"

// Prediction é o modelo persistido no Postgres.
type Prediction struct {
	ID         string     `json:"id"`
	UserID     string     `json:"userId"`
	MatchID    string     `json:"matchId"`
	HomeScore  int        `json:"homeScore"`
	AwayScore  int        `json:"awayScore"`
	Status     string     `json:"status"` // pending | won | lost
	CreatedAt  time.Time  `json:"createdAt"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
}

type NewPrediction struct {
	UserID    string
	MatchID   string
	HomeScore int
	AwayScore int
}

// Placed é o resultado de um palpite aceito: a linha criada, o custo debitado e o saldo pós-débito
type Placed struct {
	Prediction Prediction
	Cost       int64
	Balance    int64
}
