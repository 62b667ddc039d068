package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a shared validator.Validate with our custom tags.
type Validator struct {
	validate *validator.Validate
}

var validate *Validator

// InitValidator builds the shared validator and registers the gameid tag
// used on request fields that name upgrades, projects, and milestones.
func InitValidator() {
	v := validator.New()
	_ = v.RegisterValidation("gameid", validateGameID)

	validate = &Validator{validate: v}
}

// GetValidator returns the shared validator, building it on first use.
func GetValidator() *Validator {
	if validate == nil {
		InitValidator()
	}
	return validate
}

// ValidateStruct validates a struct against its binding tags.
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FormatValidationError turns validation failures into a field→message map.
// Clients see the lowercase JSON field name, never internal struct names.
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
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			errs[field] = "This field is required"
		case "gameid":
			errs[field] = "Invalid identifier"
		case "gte":
			errs[field] = fmt.Sprintf("Must be at least %s", e.Param())
		case "max":
			errs[field] = fmt.Sprintf("Must be at most %s characters", e.Param())
		case "min":
			errs[field] = fmt.Sprintf("Must be at least %s characters", e.Param())
		case "excludesall":
			errs[field] = "Contains invalid characters"
		default:
			errs[field] = "Invalid value"
		}
	}

	return errs
}

// gameIDPattern matches the identifiers used in the balance workbook:
// lowercase snake_case slugs such as "coding_speed" or "office_studio".
var gameIDPattern = regexp.MustCompile(`^[a-z0-9]+(?:_[a-z0-9]+)*$`)

func validateGameID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	// Empty passes here; pairing with the required tag decides emptiness.
	if id == "" {
		return true
	}
	return gameIDPattern.MatchString(id)
}

// profileIDPattern restricts profile identifiers to a filesystem- and URL-safe
// alphabet. Save file names and session keys are derived from this value.
var profileIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidProfileID reports whether s is acceptable as a profile identifier.
func ValidProfileID(s string) bool {
	return profileIDPattern.MatchString(s)
}
