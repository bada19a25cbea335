package user

import "errors"

type CreateDTO struct {
	Username string `json:"username"  binding:"required,min=3,max=64"`
	Email    string `json:"email"     binding:"required,email"`
	Password string `json:"password"  binding:"required,min=8,max=128"`
	FullName string `json:"full_name" binding:"omitempty,max=200"`
	Role     string `json:"role"      binding:"omitempty,oneof=user admin"`
}

type UpdateDTO struct {
	Username *string `json:"username"  binding:"omitempty,min=3,max=64"`
	Email    *string `json:"email"     binding:"omitempty,email"`
	Password *string `json:"password"  binding:"omitempty,min=8,max=128"`
	FullName *string `json:"full_name" binding:"omitempty,max=200"`
	Role     *string `json:"role"      binding:"omitempty,oneof=user admin"`
}

var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
	errDeleteSelf    = errors.New("you cannot delete your own account")
)
