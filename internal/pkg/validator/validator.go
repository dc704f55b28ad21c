// Package validator wraps go-playground/validator with txbridge's own tags and
// a uniform error format.
//
// Besides the library's built-in rules it registers "urlpath": a URL path with
// no query, fragment or whitespace, such as "/api/v0".
package validator

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	gvalidator "github.com/go-playground/validator/v10"
)

// ErrValidationFailed is the first error of the chain returned by Validate.
var ErrValidationFailed = errors.New("struct validation failed")

var validator *gvalidator.Validate

// Example: "'Port': value '0' does not meet the requirements for the 'required' validation"
const errStringFormat = "'%s': value '%v' does not meet the requirements for the '%s' validation"

func init() {
	validator = gvalidator.New(gvalidator.WithRequiredStructEnabled())

	if err := validator.RegisterValidation("urlpath", isURLPath); err != nil {
		panic(err)
	}
}

func isURLPath(fl gvalidator.FieldLevel) bool {
	path := fl.Field().String()
	return !strings.ContainsAny(path, "?#") && !strings.ContainsFunc(path, unicode.IsSpace)
}

// formatError turns validator errors into ErrValidationFailed joined with one
// message per failing field. Other errors are returned unchanged.
func formatError(err error) error {
	var validationErrors gvalidator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := []error{ErrValidationFailed}
	for _, validationErr := range validationErrors {
		err := fmt.Errorf(errStringFormat,
			validationErr.Field(),
			validationErr.Value(),
			validationErr.Tag(),
		)

		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Validate checks v against its `validate` struct tags.
//
//	if err := validator.Validate(server); errors.Is(err, validator.ErrValidationFailed) {
//	    // bad server descriptor
//	}
func Validate(v any) error {
	if err := validator.Struct(v); err != nil {
		return formatError(err)
	}

	return nil
}

// Var checks a single value against a tag expression such as "urlpath".
func Var(v any, tag string) error {
	if err := validator.Var(v, tag); err != nil {
		return formatError(err)
	}

	return nil
}
