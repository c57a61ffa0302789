package validation

import (
	"fmt"
	"strings"
)

// DefaultMessage builds a generic message for a field/tag pair that has no
// entry in CustomMessage.
func DefaultMessage(field, tag string) string {
	field = toSnakeCase(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "min":
		return fmt.Sprintf("%s is below the minimum length or value", field)
	case "max":
		return fmt.Sprintf("%s exceeds the maximum length or value", field)
	case "len":
		return fmt.Sprintf("%s has the wrong length", field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to the minimum", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than the minimum", field)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to the maximum", field)
	case "lt":
		return fmt.Sprintf("%s must be less than the maximum", field)
	case "eq":
		return fmt.Sprintf("%s must equal the expected value", field)
	case "ne":
		return fmt.Sprintf("%s must not equal the forbidden value", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	case "alpha":
		return fmt.Sprintf("%s may only contain letters", field)
	case "boolean":
		return fmt.Sprintf("%s must be true or false", field)
	case "datetime":
		return fmt.Sprintf("%s must be a valid date/time", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", field)
	case "lowercase":
		return fmt.Sprintf("%s must be lower case", field)
	case "uppercase":
		return fmt.Sprintf("%s must be upper case", field)
	case "user_role":
		return fmt.Sprintf("%s must be a known platform role", field)
	case "phone_number":
		return fmt.Sprintf("%s must be a valid international phone number", field)
	case "password_strength":
		return fmt.Sprintf("%s does not meet the password requirements", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// toSnakeCase converts a Go struct field name to its JSON wire name, e.g.
// PhoneNumber becomes phone_number and ProviderUserID becomes provider_user_id.
func toSnakeCase(field string) string {
	var b strings.Builder
	b.Grow(len(field) + 4)

	runes := []rune(field)
	for i, r := range runes {
		if r >= 'A' && r <= 'Z' {
			// Start a new word on a lower-to-upper boundary, or when an
			// acronym run ends (the "D" in UserID followed by nothing,
			// versus the "I" in IDNumber followed by lower case).
			if i > 0 && (isLowerRune(runes[i-1]) || (i+1 < len(runes) && isLowerRune(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isLowerRune(r rune) bool {
	return r >= 'a' && r <= 'z'
}
