package contact

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Fixed user-facing messages, one per field.
const (
	MsgNameRequired    = "Name is required"
	MsgEmailInvalid    = "Valid email is required"
	MsgCompanyRequired = "Company is required"
	MsgLicenseRequired = "Select a license type"
	MsgMessageRequired = "Message is required"

	// SuccessMessage is the notice shown once after an accepted submission.
	SuccessMessage = "Form submitted!"
)

var fieldMessages = map[Field]string{
	FieldName:        MsgNameRequired,
	FieldEmail:       MsgEmailInvalid,
	FieldCompany:     MsgCompanyRequired,
	FieldLicenseType: MsgLicenseRequired,
	FieldMessage:     MsgMessageRequired,
}

// emailPattern accepts something@something.something anywhere in the value.
// Segments exclude ASCII control spaces, every Unicode separator and BOM.
var emailPattern = regexp.MustCompile(
	`[^\t\n\v\f\r\p{Z}\x{FEFF}]+@[^\t\n\v\f\r\p{Z}\x{FEFF}]+\.[^\t\n\v\f\r\p{Z}\x{FEFF}]+`,
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// FieldError is the validation failure of a single field.
type FieldError struct {
	Field   Field
	Message string
}

func (e FieldError) Error() string {
	return string(e.Field) + ": " + e.Message
}

// ErrorState maps failing fields to their message. Fields that pass are absent.
type ErrorState map[Field]string

// Has reports whether field failed validation.
func (e ErrorState) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the failing fields in render order.
func (e ErrorState) Fields() []Field {
	out := make([]Field, 0, len(e))
	for _, f := range Fields() {
		if e.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Err joins the field errors, or returns nil when nothing failed.
func (e ErrorState) Err() error {
	if len(e) == 0 {
		return nil
	}
	errs := make([]error, 0, len(e))
	for _, f := range e.Fields() {
		errs = append(errs, FieldError{Field: f, Message: e[f]})
	}
	return errors.Join(errs...)
}

// Strings returns a plain copy keyed by field name.
func (e ErrorState) Strings() map[string]string {
	out := make(map[string]string, len(e))
	for f, msg := range e {
		out[string(f)] = msg
	}
	return out
}

// Validate checks state against the field rules. It never fails; an empty
// result means the state is acceptable.
func Validate(state FormState) ErrorState {
	errs := ErrorState{}
	err := validate.Struct(state)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Non-struct input: fail every field.
		for f, msg := range fieldMessages {
			errs[f] = msg
		}
		return errs
	}
	for _, fe := range fieldErrs {
		field := Field(fe.Field())
		if msg, ok := fieldMessages[field]; ok {
			errs[field] = msg
		}
	}
	return errs
}
