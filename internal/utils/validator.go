// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/grantguru/grantguru-backend/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("document_category", validateDocumentCategory)
	validate.RegisterValidation("date", validateDate)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validateDocumentCategory(fl validator.FieldLevel) bool {
	return models.ValidDocumentCategory(fl.Field().String())
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "date":
		return e.Field() + " must be a date in YYYY-MM-DD format"
	case "document_category":
		return "Unknown document category: " + e.Field() + " must be one of " + strings.Join(models.DocumentCategories, ", ")
	default:
		return e.Field() + " is invalid"
	}
}
