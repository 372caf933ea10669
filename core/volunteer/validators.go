package volunteer

import (
	ut "github.com/go-playground/universal-translator"
	validator "github.com/go-playground/validator/v10"

	"github.com/nsscell/portal/core"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation("volstatus", func(fl validator.FieldLevel) bool {
		return IsValidStatus(fl.Field().String())
	})
	core.RegisterCustomTranslation(
		validate, translator, "volstatus",
		"{0} must be one of pending, approved, rejected or certified",
	)
}
