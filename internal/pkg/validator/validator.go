package validator

// Validator validates a struct and reports field violations as an error.
type Validator interface {
	Validate(data any) error
}
