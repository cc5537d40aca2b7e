package model

import (
	"regexp"
	"strings"
	"time"
)

// User represents a user account
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Hash      string    `json:"-"` // Never expose password hash
	IsActive  bool      `json:"is_active"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// Business constraints
const (
	MaxFullNameLength = 255
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RegisterRequest represents a request to create a user account
type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// Validate checks the request fields and returns any violations
func (r *RegisterRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Email) == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	} else if !emailPattern.MatchString(r.Email) {
		errors = append(errors, FieldError{Field: "email", Message: "email is not a valid address"})
	}

	if strings.TrimSpace(r.FullName) == "" {
		errors = append(errors, FieldError{Field: "full_name", Message: "full_name is required"})
	} else if len(r.FullName) > MaxFullNameLength {
		errors = append(errors, FieldError{Field: "full_name", Message: "full_name must be 255 characters or less"})
	}

	if len(r.Password) < MinPasswordLength {
		errors = append(errors, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	} else if len(r.Password) > MaxPasswordLength {
		errors = append(errors, FieldError{Field: "password", Message: "password must be 128 characters or less"})
	}

	return errors
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks the request fields and returns any violations
func (r *LoginRequest) Validate() []FieldError {
	var errors []FieldError

	if strings.TrimSpace(r.Email) == "" {
		errors = append(errors, FieldError{Field: "email", Message: "email is required"})
	}
	if r.Password == "" {
		errors = append(errors, FieldError{Field: "password", Message: "password is required"})
	}

	return errors
}

// TokenResponse is the login response body
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"` // seconds
}

// ChangePasswordRequest represents a password change for the current user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Validate checks the request fields and returns any violations
func (r *ChangePasswordRequest) Validate() []FieldError {
	var errors []FieldError

	if r.CurrentPassword == "" {
		errors = append(errors, FieldError{Field: "current_password", Message: "current_password is required"})
	}
	if len(r.NewPassword) < MinPasswordLength {
		errors = append(errors, FieldError{Field: "new_password", Message: "new_password must be at least 8 characters"})
	} else if len(r.NewPassword) > MaxPasswordLength {
		errors = append(errors, FieldError{Field: "new_password", Message: "new_password must be 128 characters or less"})
	}

	return errors
}
