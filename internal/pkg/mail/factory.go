package mail

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverSMTP selects the SMTP backend.
	DriverSMTP = "smtp"
	// DriverSendGrid selects the SendGrid API backend.
	DriverSendGrid = "sendgrid"
	// DriverLog selects the log-only backend.
	DriverLog = "log"
)

// ErrUnknownDriver indicates an unsupported mail driver.
var ErrUnknownDriver = errors.New("mail: unknown driver")

// FactoryOptions groups config for supported mail backends.
type FactoryOptions struct {
	SMTP     SMTPConfig
	SendGrid SendGridConfig
	// From is the default sender for the log driver.
	From string
}

// NewFromDriver constructs a Mail implementation by driver name.
func NewFromDriver(driver string, opts FactoryOptions) (Mail, error) {
	switch strings.TrimSpace(driver) {
	case DriverSMTP:
		return NewSMTP(opts.SMTP)
	case DriverSendGrid:
		return NewSendGrid(opts.SendGrid)
	case DriverLog:
		return NewLog(opts.From), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
