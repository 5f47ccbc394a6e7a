package server

import (
	"github.com/go-playground/validator/v10"

	"storefront-api/internal/apperr"
)

type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	return &requestValidator{
		validate: validator.New(),
	}
}

func (v *requestValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.Validation("invalid data provided: %v", err)
	}
	return nil
}
