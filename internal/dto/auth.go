package dto

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ActivateAccountRequest struct {
	Email           string `json:"email" binding:"required,email"`
	ActivationToken string `json:"activation_token" binding:"required"`
}

type ResendActivationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SocialSignupRequest carries a provider assertion the frontend already
// verified with the provider. AccessToken is accepted as proof of that flow
// but is not re-verified here.
type SocialSignupRequest struct {
	Provider       string `json:"provider" binding:"required,oneof=google facebook apple"`
	AccessToken    string `json:"access_token" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	FullName       string `json:"full_name" binding:"required,min=2,max=255"`
	ProviderUserID string `json:"provider_user_id" binding:"required"`
	Role           string `json:"role" binding:"required,user_role"`
	City           string `json:"city" binding:"omitempty,max=100"`
	PhoneNumber    string `json:"phone_number" binding:"omitempty,phone_number"`
	Password       string `json:"password" binding:"omitempty,password_strength"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // access token expiry in seconds
}
