package models

import "time"

const (
	DefaultCurrency  = "GBP"
	FrequencyMonthly = "monthly"
)

// Donation is a recorded gift. UserID is set when the donor was signed in.
type Donation struct {
	Base
	UserID           *uint   `json:"user_id"           gorm:"index"`
	DonorName        string  `json:"donor_name"                                  binding:"required,max=200"`
	DonorEmail       string  `json:"donor_email"       gorm:"size:191;index"     binding:"required,email"`
	Amount           float64 `json:"amount"            gorm:"not null"           binding:"required,gt=0"`
	Currency         string  `json:"currency"          gorm:"size:3;default:'GBP'" binding:"omitempty,len=3"`
	Purpose          string  `json:"purpose"`
	Message          string  `json:"message"           gorm:"type:text"`
	GiftAid          bool    `json:"gift_aid"`
	Anonymous        bool    `json:"anonymous"`
	PaymentReference string  `json:"payment_reference"`
	Status           string  `json:"status"            gorm:"size:32;default:'pending';index"`
}

func (Donation) TableName() string { return "donations" }

func (d *Donation) ApplyDefaults() {
	defaultString(&d.Currency, DefaultCurrency)
	defaultString(&d.Status, StatusPending)
}

// Subscription is a recurring donation pledge.
type Subscription struct {
	Base
	UserID        *uint      `json:"user_id"         gorm:"index"`
	Email         string     `json:"email"           gorm:"size:191;index"            binding:"required,email"`
	Amount        float64    `json:"amount"          gorm:"not null"                  binding:"required,gt=0"`
	Currency      string     `json:"currency"        gorm:"size:3;default:'GBP'"      binding:"omitempty,len=3"`
	Frequency     string     `json:"frequency"       gorm:"size:32;default:'monthly'" binding:"omitempty,oneof=weekly monthly quarterly annually"`
	Status        string     `json:"status"          gorm:"size:32;default:'active';index"`
	NextPaymentAt *time.Time `json:"next_payment_at"`
}

func (Subscription) TableName() string { return "subscriptions" }

func (s *Subscription) ApplyDefaults() {
	defaultString(&s.Currency, DefaultCurrency)
	defaultString(&s.Frequency, FrequencyMonthly)
	defaultString(&s.Status, StatusActive)
}
