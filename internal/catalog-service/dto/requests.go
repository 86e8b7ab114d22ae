package dto

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reporta os campos pelo nome JSON
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Message resume o primeiro erro de validação para o usuário
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Dados inválidos"
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return "Campo obrigatório: " + fe.Field()
	}
	return "Campo inválido: " + fe.Field()
}

// TeamRequest serve para times e campeonatos (mesmos campos)
type TeamRequest struct {
	Name    string  `json:"name" validate:"required,max=120"`
	Country string  `json:"country" validate:"required,max=80"`
	Logo    *string `json:"logo" validate:"omitempty,url"`
}

func (r *TeamRequest) Validate() error { return validate.Struct(r) }

type ChampionshipTeamsRequest struct {
	TeamIDs []string `json:"teamIds" validate:"dive,uuid"`
}

func (r *ChampionshipTeamsRequest) Validate() error { return validate.Struct(r) }

type MatchRequest struct {
	HomeTeamID     string    `json:"homeTeamId" validate:"required,uuid"`
	AwayTeamID     string    `json:"awayTeamId" validate:"required,uuid"`
	ChampionshipID string    `json:"championshipId" validate:"required,uuid"`
	Date           time.Time `json:"date" validate:"required"`
	Status         string    `json:"status" validate:"omitempty,oneof=scheduled live finished"`
	HomeScore      *int      `json:"homeScore" validate:"omitempty,min=0,max=99"`
	AwayScore      *int      `json:"awayScore" validate:"omitempty,min=0,max=99"`
	PredictionCost int64     `json:"predictionCost" validate:"omitempty,gt=0"`
	Prize          string    `json:"prize" validate:"required"`
}

func (r *MatchRequest) Validate() error { return validate.Struct(r) }

type ErrorResponse struct {
	Error string `json:"error"`
}
