// Package validation adapts go-playground/validator to Echo's Validator
// interface and registers the rules request DTOs rely on.
package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/krishaprecyll/CampusSHARE/model"
)

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	// rental_status restricts a field to the known rental states.
	_ = v.RegisterValidation("rental_status", func(fl validator.FieldLevel) bool {
		return model.ValidRentalStatus(model.RentalStatus(fl.Field().String()))
	})
	return &Validator{v: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}

// Core exposes the underlying instance for controllers that validate inline.
func (v *Validator) Core() *validator.Validate { return v.v }
