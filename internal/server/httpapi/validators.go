package httpapi

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"studylink/internal/emailx"
)

// RegisterValidators installs custom binding rules on gin's validator
// engine. Call once at startup, before NewRouter.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("edu", validEduEmail)
	}
}

func validEduEmail(fl validator.FieldLevel) bool {
	return emailx.IsValidEdu(emailx.Normalize(fl.Field().String()))
}
