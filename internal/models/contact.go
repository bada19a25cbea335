package models

import "github.com/google/uuid"

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusResolved  = "resolved"
	StatusCancelled = "cancelled"
	StatusOpen      = "open"

	SubscriberUnsubscribed = "unsubscribed"
)

// ContactMessage is a submission of the public contact form.
type ContactMessage struct {
	Base
	Name    string `json:"name"    gorm:"not null"           binding:"required,max=200"`
	Email   string `json:"email"   gorm:"size:191;index;not null" binding:"required,email"`
	Phone   string `json:"phone"                             binding:"omitempty,max=50"`
	Subject string `json:"subject"                           binding:"omitempty,max=300"`
	Message string `json:"message" gorm:"type:text;not null" binding:"required,max=10000"`
	Status  string `json:"status"  gorm:"size:32;default:'pending';index"`
}

func (ContactMessage) TableName() string { return "contact_messages" }

func (m *ContactMessage) ApplyDefaults() { defaultString(&m.Status, StatusPending) }

// NewsletterSubscriber is an email address on the mailing list.
type NewsletterSubscriber struct {
	Base
	Email            string `json:"email"  gorm:"size:191;uniqueIndex;not null" binding:"required,email"`
	Name             string `json:"name"`
	Status           string `json:"status" gorm:"size:32;default:'active';index"`
	UnsubscribeToken string `json:"-"      gorm:"size:64;uniqueIndex"`
}

func (NewsletterSubscriber) TableName() string { return "newsletter_subscribers" }

func (s *NewsletterSubscriber) ApplyDefaults() {
	defaultString(&s.Status, StatusActive)
	if s.UnsubscribeToken == "" {
		s.UnsubscribeToken = uuid.NewString()
	}
}
