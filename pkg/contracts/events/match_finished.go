package events

import "time"

// Evento publicado no tópico "match_finished" quando o admin encerra uma partida com placar
type MatchFinished struct {
	MatchID        string    `json:"match_id"`
	ChampionshipID string    `json:"championship_id"`
	HomeScore      int       `json:"home_score"`
	AwayScore      int       `json:"away_score"`
	FinishedAt     time.Time `json:"finished_at"`
}
