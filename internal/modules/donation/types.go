package donation

import (
	"errors"
	"time"
)

type DonateDTO struct {
	DonorName  string  `json:"donor_name"  binding:"required,max=200"`
	DonorEmail string  `json:"donor_email" binding:"required,email"`
	Amount     float64 `json:"amount"      binding:"required,gt=0,lte=1000000"`
	Currency   string  `json:"currency"    binding:"omitempty,len=3"`
	Purpose    string  `json:"purpose"     binding:"omitempty,max=200"`
	Message    string  `json:"message"     binding:"omitempty,max=2000"`
	GiftAid    bool    `json:"gift_aid"`
	Anonymous  bool    `json:"anonymous"`
}

type SubscribeDTO struct {
	Amount    float64 `json:"amount"    binding:"required,gt=0,lte=100000"`
	Currency  string  `json:"currency"  binding:"omitempty,len=3"`
	Frequency string  `json:"frequency" binding:"omitempty,oneof=weekly monthly quarterly annually"`
}

// YearTotal is the amount given in one calendar year.
type YearTotal struct {
	Year  int     `json:"year"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Summary aggregates a donor's giving history. TotalAmount, the yearly totals
// and MonthlyCommitment are in Currency; TotalsByCurrency covers every currency.
type Summary struct {
	Currency            string             `json:"currency"`
	TotalAmount         float64            `json:"total_amount"`
	TotalsByCurrency    map[string]float64 `json:"totals_by_currency"`
	DonationCount       int                `json:"donation_count"`
	FirstDonationAt     *time.Time         `json:"first_donation_at"`
	LastDonationAt      *time.Time         `json:"last_donation_at"`
	ByYear              []YearTotal        `json:"by_year"`
	ActiveSubscriptions int                `json:"active_subscriptions"`
	MonthlyCommitment   float64            `json:"monthly_commitment"`
}

var errSubscriptionNotFound = errors.New("subscription not found")
