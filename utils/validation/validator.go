package validation

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// resourceURLSchemes are the schemes accepted by the resource_url tag.
var resourceURLSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ftps":  true,
}

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance. Field names in errors are the json tag names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("resource_url", func(fl validator.FieldLevel) bool {
		return IsResourceURL(fl.Field().String())
	})
	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// IsResourceURL reports whether raw is an absolute http(s)/ftp(s) URL with a host.
func IsResourceURL(raw string) bool {
	if raw == "" || strings.ContainsAny(raw, " \t\r\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return resourceURLSchemes[strings.ToLower(u.Scheme)] && u.Hostname() != ""
}

// FormatValidationErrors converts validation errors to a user-friendly format
func FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = "This field is required."
			case "min":
				errors[field] = fmt.Sprintf("Ensure this value is at least %s.", e.Param())
			case "max":
				if e.Kind() == reflect.String {
					errors[field] = fmt.Sprintf("Ensure this field has no more than %s characters.", e.Param())
				} else {
					errors[field] = fmt.Sprintf("Ensure this value is at most %s.", e.Param())
				}
			case "oneof":
				errors[field] = fmt.Sprintf("\"%s\" is not a valid choice.", rawValue(e.Value()))
			case "resource_url", "url":
				errors[field] = "Enter a valid URL."
			case "email":
				errors[field] = "Enter a valid email address."
			default:
				errors[field] = fmt.Sprintf("%s is invalid", field)
			}
		}
	}

	return errors
}

// rawValue formats v by its underlying kind so named types with a String method print their stored value.
func rawValue(v interface{}) string {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.String:
		return rv.String()
	}
	return fmt.Sprint(v)
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}

// SanitizeOptional trims an optional string and turns blanks into nil.
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := SanitizeString(*s)
	if v == "" {
		return nil
	}
	return &v
}
