package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/mailotp/internal/pkg/strcase"
)

var reDigits = regexp.MustCompile(`^[0-9]+$`)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

// V10Validator implements Validator using go-playground/validator v10.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// V10ValidationError maps snake_case field names to messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}

	b, err := json.Marshal(vs)
	if err != nil {
		return fmt.Sprintf("validation error (failed to marshal: %v)", err)
	}
	return string(b)
}

// Values returns the field error map.
func (vs V10ValidationError) Values() map[string]string {
	return vs
}

// NewV10Validator constructs a V10Validator with English translations and the
// custom "otp" rule.
func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLang := en.New()
	uni := ut.New(enLang, enLang)
	enTrans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	if err := enTranslations.RegisterDefaultTranslations(validate, enTrans); err != nil {
		return nil, err
	}

	if err := registerOTP(validate, enTrans); err != nil {
		return nil, err
	}

	return &V10Validator{validate: validate, translator: enTrans}, nil
}

// Validate validates a struct and returns a V10ValidationError on failure.
func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return err
	}

	out := make(V10ValidationError, len(validateErrs))
	for _, fe := range validateErrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}
	return out
}

// registerOTP adds the "otp" tag: a non-empty string of ASCII digits.
func registerOTP(validate *validator.Validate, enTrans ut.Translator) error {
	err := validate.RegisterValidation("otp", func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && reDigits.MatchString(s)
	})
	if err != nil {
		return err
	}

	return validate.RegisterTranslation("otp", enTrans,
		func(ut ut.Translator) error {
			return ut.Add("otp", "{0} must contain only digits", false)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, err := ut.T(fe.Tag(), fe.Field())
			if err != nil {
				slog.Warn("failed to translate validation error", "field", fe.Field(), "error", err)
				return fe.Error()
			}
			return t
		},
	)
}
