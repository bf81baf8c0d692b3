package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/IdleRealm_Go/internal/domain"
)

// Validator wraps the validator instance
type Validator struct {
	validate *validator.Validate
}

// Global validator instance
var validate *Validator

// ownerIDPattern accepts the ids issued by the account service
var ownerIDPattern = regexp.MustCompile(`^[A-Za-z0-9_:.\-]{1,64}$`)

// InitValidator initializes the global validator
func InitValidator() {
	v := validator.New()
	// report json field names instead of Go field names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("ownerid", func(fl validator.FieldLevel) bool {
		return ValidOwnerID(fl.Field().String())
	})
	_ = v.RegisterValidation("actiontype", func(fl validator.FieldLevel) bool {
		return domain.ActionType(strings.ToUpper(fl.Field().String())).Valid()
	})

	validate = &Validator{validate: v}
}

// GetValidator returns the global validator instance
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct using tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// ValidOwnerID reports whether id is a well-formed owner id
func ValidOwnerID(id string) bool {
	return ownerIDPattern.MatchString(id)
}

// FormatValidationError formats validation errors into a user-friendly map
// keyed by json field name
func FormatValidationError(err error) map[string]string {
	if err == nil {
		return nil
	}

	errs := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		errs["error"] = "Invalid request format"
		return errs
	}

	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "ownerid":
			errs[field] = "Must be 1-64 letters, digits or _:.-"
		case "actiontype":
			errs[field] = "Must be GATHERING, REFINING or CRAFTING"
		case "max", "lte":
			errs[field] = fmt.Sprintf("Must be at most %s", e.Param())
		case "min", "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "gt":
			errs[field] = fmt.Sprintf("Must be greater than %s", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}
