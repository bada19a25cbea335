package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an administrator or a registered donor.
type User struct {
	Base
	Username    string     `json:"username"      gorm:"size:191;uniqueIndex;not null"`
	Email       string     `json:"email"         gorm:"size:191;uniqueIndex;not null"`
	Password    string     `json:"-"             gorm:"not null"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"          gorm:"size:32;default:'user';not null"`
	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"last_login_ip"`
}

func (User) TableName() string { return "users" }

func (u *User) ApplyDefaults() { defaultString(&u.Role, RoleUser) }

// IsAdmin reports whether the user may use the admin API.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// PasswordResetToken is a single-use token mailed by the forgot-password flow.
type PasswordResetToken struct {
	Base
	UserID    uint       `json:"user_id"    gorm:"index;not null"`
	Token     string     `json:"-"          gorm:"size:191;uniqueIndex;not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index"`
	UsedAt    *time.Time `json:"used_at"`
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }

// Usable reports whether the token can still reset a password at now.
func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}
