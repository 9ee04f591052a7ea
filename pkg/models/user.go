package models

import (
	"github.com/jellydator/validation"
)

// User is the persisted account record. The username is the key of the
// users document and is not repeated inside the record.
type User struct {
	Password string `json:"password"` // plaintext
	Token    string `json:"token"`
}

// RegisterRequest represents the register request body
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginRequest represents the login request body. Empty fields are not a
// validation error: they simply never match an account.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by both register and login
type TokenResponse struct {
	Token string `json:"token"`
}
