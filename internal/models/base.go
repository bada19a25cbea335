package models

import "time"

// Base is embedded by every entity: auto-increment id plus timestamps.
type Base struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func defaultString(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

// All returns one zero value of every persisted model, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&PasswordResetToken{},
		&ContactMessage{},
		&NewsletterSubscriber{},
		&Service{},
		&Testimonial{},
		&ImpactMetric{},
		&BlogPost{},
		&Setting{},
		&Partner{},
		&Donation{},
		&Subscription{},
		&ProjectProposal{},
		&ActivityLog{},
		&ImpactProject{},
		&TimelineEvent{},
		&CaseStudy{},
		&Publication{},
		&FAQ{},
		&Feedback{},
		&ErrorReport{},
	}
}

func (b *Base) PrimaryKey() uint { return b.ID }

func (b *Base) SetPrimaryKey(id uint) { b.ID = id }
