package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeAndValidate decodes a JSON request body into v and checks its
// `validate` tags. Handlers call this before anything reaches a service, so
// the core only ever sees typed, already-valid payloads.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := DecodeJSON(r, v); err != nil {
		WriteErrorEnvelope(w, http.StatusBadRequest, CodeInvalidJSON, "invalid json", nil, "")
		return false
	}

	if err := validate.Struct(v); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			details := make(map[string]any, len(vErrs))
			for _, fe := range vErrs {
				details[strings.ToLower(fe.Field())] = validationMessage(fe)
			}
			WriteErrorEnvelope(w, http.StatusBadRequest, CodeValidationFailed, "validation failed", details, "")
			return false
		}
		WriteErrorEnvelope(w, http.StatusBadRequest, CodeBadRequest, "invalid request", nil, "")
		return false
	}

	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
