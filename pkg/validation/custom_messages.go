package validation

// CustomMessage returns the per-tag messages for fields that deserve wording
// more specific than the generic DefaultMessage fallback.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"Email": {
			"required": "email is required",
			"email":    "email must be a valid email address",
		},
		"Password": {
			"required":          "password is required",
			"min":               "password must be at least 8 characters",
			"password_strength": "password must be at least 8 characters and contain an upper-case letter, a lower-case letter and a digit",
		},
		"PhoneNumber": {
			"required":     "phone_number is required",
			"phone_number": "phone_number must be a valid international phone number",
		},
		"FullName": {
			"required": "full_name is required",
			"min":      "full_name must be at least 2 characters",
			"max":      "full_name must be at most 255 characters",
		},
		"Role": {
			"required":  "role is required",
			"user_role": "role must be one of customer, vendor or rider",
		},
		"RefreshToken": {
			"required": "refresh_token is required",
		},
		"ActivationToken": {
			"required": "activation_token is required",
		},
		"Provider": {
			"required": "provider is required",
			"oneof":    "provider must be one of google, facebook or apple",
		},
		"ProviderUserID": {
			"required": "provider_user_id is required",
		},
		"AccessToken": {
			"required": "access_token is required",
		},
		"City": {
			"max": "city must be at most 100 characters",
		},
	}
	return customValidationMessages[field]
}
