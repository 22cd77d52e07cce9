package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func Validator() *validator.Validate { return validate }

// FieldErrors flattens validator errors into {field: [tag...]}. Returns nil
// when err is not a validation error.
func FieldErrors(err error) map[string][]string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil
	}
	out := make(map[string][]string, len(ves))
	for _, fe := range ves {
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		out[fe.Field()] = append(out[fe.Field()], msg)
	}
	return out
}

// BindAndValidate parses the body into dst and runs struct validation.
// When ok is false the error response has already been written and the
// handler should return err as is.
func BindAndValidate(c *fiber.Ctx, dst any) (ok bool, err error) {
	if err := c.BodyParser(dst); err != nil {
		return false, JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		if fe := FieldErrors(err); fe != nil {
			return false, JsonValidationError(c, fe)
		}
		return false, JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	return true, nil
}
