package utils

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("iso8601", validateISO8601)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateISO8601(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if _, err := time.Parse(time.RFC3339, value); err != nil {
		return false
	}
	return true
}
