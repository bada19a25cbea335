package auth

import (
	"errors"

	"github.com/impactbridge/platform/internal/models"
)

type RegisterDTO struct {
	Username string `json:"username"  binding:"required,min=3,max=64"`
	Email    string `json:"email"     binding:"required,email"`
	Password string `json:"password"  binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"omitempty,max=200"`
}

// LoginDTO accepts either a username or an email in Username; Email is an alias.
type LoginDTO struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

func (d *LoginDTO) identifier() string {
	if d.Username != "" {
		return d.Username
	}
	return d.Email
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=8,max=128"`
}

type ForgotPasswordDTO struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordDTO struct {
	Token    string `json:"token"    binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int64        `json:"expires_in"`
	User      *models.User `json:"user"`
}

var (
	errInvalidCredentials = errors.New("invalid username or password")
	errWrongPassword      = errors.New("current password is incorrect")
	errInvalidResetToken  = errors.New("reset token is invalid or has expired")
	errMissingIdentifier  = errors.New("username or email is required")
)
