// Package validation registers the custom request validation rules used by
// gin bindings and turns validator errors into field messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/manojtanwar99/stayvira/internal/models"
)

// enumTags maps a custom tag to its space-separated allowed values.
var enumTags = map[string]string{
	"property_type":  models.PropertyTypes,
	"listing_status": models.ListingStates,
	"furnishing":     models.FurnishedKinds,
}

// Setup installs the custom rules on gin's default validator.
func Setup() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected binding validator engine")
	}
	return Register(v)
}

// Register adds the custom tags and reports field names by their json or
// form tag.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return fmt.Errorf("register notblank: %w", err)
	}
	for tag, allowed := range enumTags {
		if err := v.RegisterValidation(tag, oneOfOrEmpty(strings.Fields(allowed))); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	if err := v.RegisterValidation("role", validRole); err != nil {
		return fmt.Errorf("register role: %w", err)
	}
	return nil
}

func fieldName(fld reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func oneOfOrEmpty(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := stringValue(fl.Field())
		if value == "" {
			return true
		}
		for _, a := range allowed {
			if value == a {
				return true
			}
		}
		return false
	}
}

func validRole(fl validator.FieldLevel) bool {
	value := stringValue(fl.Field())
	return value == "" || models.Role(value).Valid()
}

func stringValue(field reflect.Value) string {
	for field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return ""
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return ""
	}
	return field.String()
}

// Messages converts validator errors into a field -> message map. It returns
// nil when err is not a validation error.
func Messages(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be %s or greater", field, fe.Param())
	case "property_type":
		return fmt.Sprintf("%s must be one of: %s", field, models.PropertyTypes)
	case "listing_status":
		return fmt.Sprintf("%s must be one of: %s", field, models.ListingStates)
	case "furnishing":
		return fmt.Sprintf("%s must be one of: %s", field, models.FurnishedKinds)
	case "role":
		return field + " must be admin or user"
	default:
		return field + " is invalid"
	}
}
