// Package otp generates the short numeric codes mailed to users.
//
// Codes are rendered fixed-width with leading zeros and must always be
// handled as opaque strings, never as numbers.
package otp
