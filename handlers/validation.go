package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"aiqr-api/apperror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom rules on gin's validator engine.
// Field errors then report the JSON field name.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("contact", validContact); err != nil {
			panic(err)
		}
	})
}

// validContact accepts exactly ten digits not starting with 0
func validContact(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if len(s) != 10 || s[0] == '0' {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// bindJSON binds the body and reports the first violation as FieldValidation
func bindJSON(c *gin.Context, dest any) error {
	err := c.ShouldBindJSON(dest)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.FieldValidation(fieldMessage(verrs[0]))
	}
	return apperror.FieldValidation("Invalid request body")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "contact":
		return field + " should be exactly 10 digits and cannot start with 0"
	case "alphanum":
		return field + " needs to be AlphaNumeric"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("At least %s %s needed", fe.Param(), field)
		}
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s needs to be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s should be at least %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s should be greater than %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s should be at least %s", field, fe.Param())
	case "numeric":
		return field + " should be numeric"
	}
	return field + " is invalid"
}
