// Package validator wraps go-playground/validator with a shared instance so
// handlers can validate request structs beyond what gin's binding covers.
package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct's `validate` tags and returns the first error.
func Validate(s interface{}) error {
	return validate.Struct(s)
}
