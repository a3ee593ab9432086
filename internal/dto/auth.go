package dto

import (
	"net/mail"
)

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (r SignUpRequest) Validate() error {
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return invalid("email is not a valid address")
	}
	if len(r.Password) < 8 {
		return invalid("password must be at least 8 characters")
	}
	return nil
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r SignInRequest) Validate() error {
	return firstError(required("email", r.Email), required("password", r.Password))
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// SignOutRequest optionally names the refresh token to revoke along with the
// access token used for the call.
type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         UserResponse `json:"user"`
}
