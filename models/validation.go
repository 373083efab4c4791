package models

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	// Letters, digits and @/./+/-/_ so a username is always one path segment.
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
)

// RegisterValidators adds the blog specific rules to v. gin's default
// engine and NewValidator both go through here.
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]*regexp.Regexp{
		"slug":     slugPattern,
		"username": usernamePattern,
	}
	for tag, pattern := range rules {
		pattern := pattern
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(fl.Field().String())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// NewValidator returns a validator reading the same `binding` tags gin uses,
// for input that does not arrive over HTTP.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := RegisterValidators(v); err != nil {
		panic(err)
	}
	return v
}
