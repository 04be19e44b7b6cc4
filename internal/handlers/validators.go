package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// accountCodePattern matches ledger codes: 4 digits, leading digit 1-5
	// per the chart numbering convention.
	accountCodePattern = regexp.MustCompile(`^[1-5][0-9]{3}$`)

	// budgetCodePattern matches expense budget codes, e.g. ADM-001.
	budgetCodePattern = regexp.MustCompile(`^[A-Z]{3}-\d{3}$`)
)

// registerCustomValidators adds the binding tags the request DTOs rely on.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("accountcode", func(fl validator.FieldLevel) bool {
		return accountCodePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("budgetcode", func(fl validator.FieldLevel) bool {
		return budgetCodePattern.MatchString(fl.Field().String())
	})
}
