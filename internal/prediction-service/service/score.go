package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var (
	ErrInvalidScore  = errors.New("Por favor, informe um placar válido")
	ErrNegativeScore = errors.New("Os placares não podem ser negativos")
)

// MaxScore é o maior placar aceito por time.
const MaxScore = 99

// ParseScore aceita o placar como número JSON ou string ("2", " 3 ").
// Vazio, null, decimal, texto ou acima de MaxScore viram ErrInvalidScore; negativo vira ErrNegativeScore.
func ParseScore(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, ErrInvalidScore
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, ErrInvalidScore
		}
	} else {
		text = string(raw)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrInvalidScore
	}

	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, ErrInvalidScore
	}
	if n < 0 {
		return 0, ErrNegativeScore
	}
	if n > MaxScore {
		return 0, ErrInvalidScore
	}
	return n, nil
}
