package attendance

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/rollcall/core"
)

var (
	statusTag  = "attstatus"
	statusText = "status must be one of present, absent or late"

	filterTag  = "attfilter"
	filterText = "filter must be one of all, present, absent or late"
)

// InitValidators registers the attendance validation tags. Call core.InitValidators first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, statusValidation)
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)

	_ = validate.RegisterValidation(filterTag, filterValidation)
	core.RegisterCustomTranslation(validate, translator, filterTag, filterText)
}

func statusValidation(fl validator.FieldLevel) bool {
	return Status(fl.Field().String()).Valid()
}

func filterValidation(fl validator.FieldLevel) bool {
	return StatusFilter(fl.Field().String()).Valid()
}
