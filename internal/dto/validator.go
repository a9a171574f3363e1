package dto

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ahmetcoskunkizilkaya/freedom-wall/internal/models"
)

// FieldError is one failed rule on one request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterValidation("mood", func(fl validator.FieldLevel) bool {
		return models.Mood(fl.Field().String()).Valid()
	})
	v.RegisterValidation("reason", func(fl validator.FieldLevel) bool {
		return models.ReportReason(fl.Field().String()).Valid()
	})
	return v
}

// Validate checks a request struct and returns the first failing field, or nil.
func Validate(req interface{}) *FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return &FieldError{Field: "body", Message: err.Error()}
	}
	fe := verrs[0]
	field := fe.Field()
	if i := strings.Index(field, "["); i > 0 {
		field = field[:i]
	}
	return &FieldError{Field: field, Message: message(field, fe.Tag(), fe.Param())}
}

func message(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must contain at least %s item", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "uuid":
		return fmt.Sprintf("%s must contain valid ids", field)
	case "mood":
		return fmt.Sprintf("%s must be one of the listed moods", field)
	case "reason":
		return fmt.Sprintf("%s must be one of the listed reasons", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
