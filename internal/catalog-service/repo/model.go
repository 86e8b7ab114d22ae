package repo

import "time"

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinished  = "finished"
)

type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Logo      *string   `json:"logo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Championship carrega os times associados quando lido do catálogo
type Championship struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Logo      *string   `json:"logo"`
	Teams     []Team    `json:"teams"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TeamRef é o resumo de time embutido nas partidas
type TeamRef struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Logo *string `json:"logo"`
}

type Match struct {
	ID               string    `json:"id"`
	HomeTeamID       string    `json:"homeTeamId"`
	AwayTeamID       string    `json:"awayTeamId"`
	ChampionshipID   string    `json:"championshipId"`
	Date             time.Time `json:"date"`
	Status           string    `json:"status"`
	HomeScore        *int      `json:"homeScore"`
	AwayScore        *int      `json:"awayScore"`
	PredictionCost   int64     `json:"predictionCost"`
	Prize            string    `json:"prize"`
	HomeTeam         TeamRef   `json:"homeTeam"`
	AwayTeam         TeamRef   `json:"awayTeam"`
	ChampionshipName string    `json:"championshipName"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// MatchFilter: campos vazios não filtram
type MatchFilter struct {
	ChampionshipID string
	Status         string
	Query          string // nome de time, sem diferenciar maiúsculas
}

// TeamInput / MatchInput são os campos graváveis
type TeamInput struct {
	Name    string
	Country string
	Logo    *string
}

type MatchInput struct {
	HomeTeamID     string
	AwayTeamID     string
	ChampionshipID string
	Date           time.Time
	Status         string
	HomeScore      *int
	AwayScore      *int
	PredictionCost int64
	Prize          string
}

// MatchUpdate traz a partida gravada e o status anterior à alteração
type MatchUpdate struct {
	Match          Match
	PreviousStatus string
}

// Finished indica partida gravada como encerrada com placar definido.
// Vale também para um novo salvamento de partida já encerrada, o que permite
// reenviar match_finished; a resolução só altera palpites pendentes.
func (u MatchUpdate) Finished() bool {
	m := u.Match
	return m.Status == StatusFinished && m.HomeScore != nil && m.AwayScore != nil
}
