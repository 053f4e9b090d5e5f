package event

import "time"

// OTPSentDestination receives one message per successful code delivery.
const OTPSentDestination string = "otp_sent"

type OTPSentMessage struct {
	Email  string    `json:"email"`
	Reused bool      `json:"reused"`
	SentAt time.Time `json:"sent_at"`
}
