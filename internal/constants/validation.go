package constants

// Password bounds enforced by the password_strength validator. Other field
// limits live directly in the DTO binding tags.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 100
)

// PhonePattern accepts E.164 numbers, with or without the leading plus.
const PhonePattern = `^\+?[1-9]\d{1,14}$`

// ActivationTokenBytes is the entropy, in bytes, of an activation token
// before base64url encoding.
const ActivationTokenBytes = 32
