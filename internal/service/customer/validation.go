package customer

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"customer-manager/internal/domain"
	"github.com/go-playground/validator/v10"
)

var (
	mobilePattern    = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	mobileSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")
)

// fieldMessages holds the client-facing text per field and failed rule.
var fieldMessages = map[string]map[string]string{
	"name":    {"required": "Name is required"},
	"surname": {"required": "Surname is required"},
	"email":   {"required": "Email address is required", "email": "Invalid email."},
	"mobile":  {"mobile": "Invalid mobile."},
}

func isMobile(fl validator.FieldLevel) bool {
	return mobilePattern.MatchString(mobileSeparators.Replace(fl.Field().String()))
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("mobile", isMobile); err != nil {
		panic(err)
	}
	return v
}

// toValidationError folds validator failures into one validation-kind error
// listing every failing field in declaration order.
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("failed %s validation", fe.Tag())
		}
		parts = append(parts, fe.Field()+": "+msg)
	}
	return domain.Validation("Customer validation failed: " + strings.Join(parts, ", "))
}
