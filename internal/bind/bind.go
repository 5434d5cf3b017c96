// internal/bind/bind.go
//
// JSON request decoding with struct-tag validation.
//
// Context
// -------
// Components declare request bodies as structs with `validate` tags and call
// JSON(r, &dst).  Every failure (malformed JSON, unknown fields, failed
// rules) comes back as an apperr VALIDATION_ERROR whose Details name the
// offending JSON fields, so handlers pass it straight to respond.Error.
//
// Notes
// -----
//   - Bodies are capped at MaxBody bytes.
//   - Field names in Details use the `json` tag, not the Go field name.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yanizio/triomap/internal/apperr"
)

// MaxBody is the largest accepted request body.
const MaxBody = 1 << 20

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return val
}

// JSON decodes the request body into dst and validates it.
func JSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Request body is required")
		}
		return apperr.Validation("Malformed JSON body")
	}
	return Struct(dst)
}

// Struct validates an already-populated value.
func Struct(dst any) error {
	err := v.Struct(dst)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return fmt.Errorf("validate request: %w", err)
	}
	details := make([]apperr.FieldError, 0, len(ve))
	for _, fe := range ve {
		details = append(details, apperr.FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return apperr.Validation("Invalid request", details...)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid":
		return "must be a UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "lte":
		return "must be <= " + fe.Param()
	}
	return "is invalid"
}
