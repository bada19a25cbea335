package newsletter

import "errors"

type SubscribeDTO struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"  binding:"omitempty,max=200"`
}

var (
	errAlreadySubscribed = errors.New("this email is already subscribed")
	errMissingToken      = errors.New("missing unsubscribe token")
)
