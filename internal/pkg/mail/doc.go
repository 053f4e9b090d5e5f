// Package mail defines the contract for sending email messages and its
// providers: SMTP, SendGrid, and a log-only driver for local runs.
package mail
