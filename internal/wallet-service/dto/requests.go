package dto

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

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

// Message resume o primeiro erro de validação
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Dados inválidos"
	}
	return "Campo inválido: " + verrs[0].Field()
}

// ProfileRequest é o formulário de edição do perfil; campos vazios apagam o valor
type ProfileRequest struct {
	FullName  string `json:"fullName" validate:"omitempty,max=120"`
	Username  string `json:"username" validate:"omitempty,max=50"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url,max=500"`
}

// Validate apara os espaços antes de validar
func (r *ProfileRequest) Validate() error {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Username = strings.TrimSpace(r.Username)
	r.AvatarURL = strings.TrimSpace(r.AvatarURL)
	return validate.Struct(r)
}
