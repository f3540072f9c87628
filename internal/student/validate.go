package student

import (
	"fmt"
	"reflect"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// Mainland China mobile numbers: 11 digits starting with 13-19.
	phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
	// Minimal local@domain.tld shape, deliberately looser than RFC 5322.
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// ValidationError reports the first business rule a record breaks.
// It unwraps to ErrInvalidInput so callers can branch on the category
// while presentation surfaces show the reason.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// newValidator builds the validator shared by the service. Custom rules:
//
//	notfuture  — a Date must not be after the current date
//	cnmobile   — 11-digit mobile number
//	basicemail — basic local@domain.tld address
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(Date); ok {
			return d.Time
		}
		return nil
	}, Date{})

	v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.After(time.Now())
	})
	v.RegisterValidation("cnmobile", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("basicemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	return v
}

// describeFieldError turns a validator failure into the human-readable
// reason presentation surfaces display.
func describeFieldError(fe validator.FieldError) *ValidationError {
	var reason string
	switch fe.ActualTag() {
	case "required":
		reason = "must not be empty"
	case "oneof":
		reason = `must be "male" or "female"`
	case "notfuture":
		reason = "must not be later than the current date"
	case "cnmobile":
		reason = "must be an 11-digit mobile number"
	case "basicemail":
		reason = "must be a valid email address"
	default:
		reason = "is invalid"
	}
	return &ValidationError{Field: fe.Field(), Reason: reason}
}
