package sales

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidSale is returned when a manually entered sale fails validation.
var ErrInvalidSale = errors.New("invalid sale")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("consortium_type", func(fl validator.FieldLevel) bool {
		return ConsortiumType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("sale_status", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks a sale entered through a form or the API. Imports apply their
// own, more lenient rules.
func Validate(s Sale) error {
	var problems []string

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidSale, err)
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	if s.Value.IsNegative() {
		problems = append(problems, "Value must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSale, strings.Join(problems, "; "))
	}
	return nil
}
