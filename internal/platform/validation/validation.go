// Package validation traduce tags de go-playground/validator a apperr.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"peluqueria-canina/internal/platform/apperr"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		// Usar el nombre json del campo en los mensajes.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return strings.ToLower(f.Name)
			}
			return name
		})
	})
	return v
}

// Struct valida s y devuelve el primer error como *apperr.ValidationError.
// Los mensajes específicos por campo van en messages (clave: nombre json del campo).
func Struct(s any, messages map[string]string) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Validation("", err.Error())
	}

	fe := verrs[0]
	field := fe.Field()
	if msg, ok := messages[field]; ok {
		return apperr.Validation(field, msg)
	}
	return apperr.Validation(field, describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte", "min":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be > %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "uuid4", "uuid":
		return "must be a valid id"
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}
