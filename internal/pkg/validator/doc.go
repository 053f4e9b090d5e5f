// Package validator validates request and domain structs.
//
// Business code depends on the Validator interface; V10Validator backs it with
// go-playground/validator v10 and English messages keyed by snake_case field.
package validator
