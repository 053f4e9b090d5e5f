package entity

import "time"

// DeliveryStatus records how a delivery attempt ended.
type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// DeliveryLog is one row of the delivery audit trail. It never holds the code.
type DeliveryLog struct {
	ID            int64
	Email         string
	Reused        bool
	Status        DeliveryStatus
	ProviderError string
	CreatedAt     time.Time
}
