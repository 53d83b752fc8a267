package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"restaurant-site/models"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	hhmmRe  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9 ()\-.]{10,}$`)
)

// validate is shared by every input type in this package.
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	custom := map[string]validator.Func{
		"notblank": validators.NotBlank,
		"hhmm": func(fl validator.FieldLevel) bool {
			return hhmmRe.MatchString(fl.Field().String())
		},
		"isodate": func(fl validator.FieldLevel) bool {
			_, err := models.ParseDate(fl.Field().String())
			return err == nil
		},
		"phone": func(fl validator.FieldLevel) bool {
			return phoneRe.MatchString(strings.TrimSpace(fl.Field().String()))
		},
	}
	for tag, fn := range custom {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("register %s validator: %v", tag, err))
		}
	}
}

// validateStruct runs the struct tags of in and reports the first failure
// as a ValidationError.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "must be a phone number of at least 10 characters"
	case "url":
		return "must be a valid URL"
	case "hhmm":
		return "time must be in HH:MM format"
	case "isodate":
		return "date must be in YYYY-MM-DD format"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String {
			return "must not be empty"
		}
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

// ParseDate parses a YYYY-MM-DD request parameter, naming field on failure.
func ParseDate(field, value string) (models.Date, error) {
	d, err := models.ParseDate(strings.TrimSpace(value))
	if err != nil {
		return models.Date{}, &ValidationError{Field: field, Message: "date must be in YYYY-MM-DD format"}
	}
	return d, nil
}
