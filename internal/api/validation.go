package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// newValidator reports fields by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the 400 response itself and returns false when the body is unusable.
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		var validationErrs validator.ValidationErrors

		if !errors.As(err, &validationErrs) {
			s.respondWithError(w, http.StatusBadRequest, err.Error())
			return false
		}

		details := make([]FieldError, 0, len(validationErrs))
		for _, fieldErr := range validationErrs {
			details = append(details, FieldError{
				Field:   fieldErr.Field(),
				Message: validationMessage(fieldErr),
			})
		}

		s.respondWithJSON(w, http.StatusBadRequest, ApiResponse{
			Success: false,
			Error:   "Validation failed",
			Details: details,
		})
		return false
	}

	return true
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fieldErr.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fieldErr.Field(), fieldErr.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", fieldErr.Field(), fieldErr.Tag())
	}
}
