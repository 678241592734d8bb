package handlers

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// Report fields under their json names so error payloads match the wire format.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// writeValidationError sends a 400 payload with a timestamp and one message
// per failed field, keyed by field name.
func writeValidationError(w http.ResponseWriter, err error) {
	body := map[string]any{
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			body[fieldError.Field()] = fieldErrorMessage(fieldError)
		}
	} else {
		body["message"] = err.Error()
	}

	writeJSON(w, http.StatusBadRequest, body)
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	default:
		return fe.Field() + " is invalid"
	}
}
