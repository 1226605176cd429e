package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	return toFieldMap(err.(validator.ValidationErrors))
}

// Details projects a gin binding error into a field-error map for the
// response envelope. Non-validation errors (malformed JSON) come back under
// a single "binding" key.
func Details(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return toFieldMap(verrs)
	}
	return map[string]string{"binding": err.Error()}
}

func toFieldMap(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}
