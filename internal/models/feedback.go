package models

import "gorm.io/datatypes"

// Feedback is a site satisfaction rating left by a visitor.
type Feedback struct {
	Base
	Name    string `json:"name"                                  binding:"omitempty,max=200"`
	Email   string `json:"email"   gorm:"size:191"                binding:"omitempty,email"`
	Rating  int    `json:"rating"  gorm:"not null"                binding:"required,min=1,max=5"`
	Message string `json:"message" gorm:"type:text"               binding:"omitempty,max=5000"`
	Page    string `json:"page"`
	Status  string `json:"status"  gorm:"size:32;default:'pending';index"`
}

func (Feedback) TableName() string { return "feedback" }

func (f *Feedback) ApplyDefaults() { defaultString(&f.Status, StatusPending) }

// ErrorReport is a client-side crash report posted by the SPA.
type ErrorReport struct {
	Base
	Message   string         `json:"message"    gorm:"type:text;not null" binding:"required,max=5000"`
	Stack     string         `json:"stack"      gorm:"type:text"`
	URL       string         `json:"url"`
	UserAgent string         `json:"user_agent"`
	Component string         `json:"component"`
	Context   datatypes.JSON `json:"context"`
	Status    string         `json:"status"     gorm:"size:32;default:'open';index" binding:"omitempty,oneof=open resolved ignored"`
}

func (ErrorReport) TableName() string { return "error_reports" }

func (r *ErrorReport) ApplyDefaults() { defaultString(&r.Status, StatusOpen) }
