package dto

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"campusnest/internal/domain"

	"github.com/go-playground/validator/v10"
)

var zipRe = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("zipcode", func(fl validator.FieldLevel) bool {
			return zipRe.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("rating", func(fl validator.FieldLevel) bool {
			n := fl.Field().Int()
			return n >= domain.MinRating && n <= domain.MaxRating
		})
		validate = v
	})
	return validate
}

// Validate checks s against its struct tags and returns a domain
// ValidationError describing the first failing field.
func Validate(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return domain.Validationf("Invalid request")
	}
	return domain.Validationf("%s", message(ves[0]))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "rating":
		return "Ratings must be between 1 and 10"
	case "zipcode":
		return "Invalid zip code"
	case "email":
		return "Invalid email address"
	case "uuid":
		return field + " must be a valid id"
	case "min":
		if fe.Kind() == reflect.String {
			return field + " must be at least " + fe.Param() + " characters"
		}
		return field + " must be at least " + fe.Param()
	case "max":
		switch fe.Kind() {
		case reflect.String:
			return field + " must be at most " + fe.Param() + " characters"
		case reflect.Slice:
			return field + " may contain at most " + fe.Param() + " items"
		}
		return field + " must be at most " + fe.Param()
	}
	return field + " is invalid"
}
