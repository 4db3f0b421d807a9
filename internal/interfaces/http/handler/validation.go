package handler

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// vnPhonePattern matches Vietnamese phone numbers: a leading 0 or +84
// followed by a 9-digit mobile or fixed-line number
var vnPhonePattern = regexp.MustCompile(`^(0|\+84)[1-9][0-9]{8}$`)

// RegisterValidations installs custom binding validations on gin's validator.
// Call once at startup before the router handles traffic.
func RegisterValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("vn_phone", func(fl validator.FieldLevel) bool {
		return vnPhonePattern.MatchString(fl.Field().String())
	})
}
