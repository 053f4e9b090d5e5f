package event

import "time"

// EmailVerifiedDestination lets the user service flip its verified flag.
const EmailVerifiedDestination string = "email_verified"

type EmailVerifiedMessage struct {
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verified_at"`
}
