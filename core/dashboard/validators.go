package dashboard

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rollcall/core"
)

var (
	viewTag  = "dashview"
	viewText = "view must be one of home, attendance, reports or settings"
)

// InitValidators registers the dashboard validation tags. Call core.InitValidators first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(viewTag, viewValidation)
	core.RegisterCustomTranslation(validate, translator, viewTag, viewText)
}

func viewValidation(fl validator.FieldLevel) bool {
	_, err := ParseView(fl.Field().String())
	return err == nil
}
