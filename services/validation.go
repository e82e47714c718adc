package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// formatValidationErrors переводит ошибки валидации в понятное сообщение
func formatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	var errorMessages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			errorMessages = append(errorMessages, "поле "+e.Field()+" обязательно")
		case "gt":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть больше "+e.Param())
		case "gte":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть не меньше "+e.Param())
		case "min":
			errorMessages = append(errorMessages, "поле "+e.Field()+" короче минимальной длины "+e.Param())
		case "max":
			errorMessages = append(errorMessages, "поле "+e.Field()+" длиннее максимальной длины "+e.Param())
		case "email":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть корректным email")
		case "oneof":
			errorMessages = append(errorMessages, "поле "+e.Field()+" должно быть одним из: "+e.Param())
		default:
			errorMessages = append(errorMessages, "поле "+e.Field()+" заполнено неверно")
		}
	}
	return errors.New(strings.Join(errorMessages, "; "))
}
