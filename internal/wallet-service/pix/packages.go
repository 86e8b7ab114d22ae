// Package pix descreve os pacotes de créditos à venda e o código PIX exibido ao usuário.
package pix

import (
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownPackage = errors.New("pacote de créditos inválido")

type Package struct {
	ID     int             `json:"id"`
	Amount int64           `json:"amount"` // créditos
	Price  decimal.Decimal `json:"price"`  // R$
}

var packages = []Package{
	{ID: 1, Amount: 100, Price: decimal.RequireFromString("10.00")},
	{ID: 2, Amount: 300, Price: decimal.RequireFromString("25.00")},
	{ID: 3, Amount: 500, Price: decimal.RequireFromString("40.00")},
	{ID: 4, Amount: 1000, Price: decimal.RequireFromString("75.00")},
}

// Packages devolve uma cópia da tabela de pacotes
func Packages() []Package {
	out := make([]Package, len(packages))
	copy(out, packages)
	return out
}

func Lookup(id int) (Package, error) {
	for _, p := range packages {
		if p.ID == id {
			return p, nil
		}
	}
	return Package{}, ErrUnknownPackage
}

// Code monta o "copia e cola" mostrado na tela de compra.
// Não é um BR Code válido (sem CRC real); o pagamento é conferido manualmente pelo admin.
func Code(p Package) string {
	var b strings.Builder
	b.WriteString("00020126330014BR.GOV.BCB.PIX0111123456789012520400005303986540")
	b.WriteString(strings.Replace(p.Price.StringFixed(2), ".", "", 1))
	b.WriteString("5802BR5913Palpiteiro6008Sao Paulo62150511")
	b.WriteString(strconv.Itoa(p.ID))
	b.WriteString("0000000063044682")
	return b.String()
}
