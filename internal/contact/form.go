package contact

// Field identifies one input of the contact form.
type Field string

const (
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldCompany     Field = "company"
	FieldLicenseType Field = "licenseType"
	FieldMessage     Field = "message"
)

// Fields lists the form inputs in render order.
func Fields() []Field {
	return []Field{FieldName, FieldEmail, FieldCompany, FieldLicenseType, FieldMessage}
}

// Valid reports whether f names a form input.
func (f Field) Valid() bool {
	switch f {
	case FieldName, FieldEmail, FieldCompany, FieldLicenseType, FieldMessage:
		return true
	}
	return false
}

// LicenseType is the kind of license a seller wants to offload.
type LicenseType string

const (
	LicenseUnselected LicenseType = ""
	LicenseOffice365  LicenseType = "Office365"
	LicenseAdobe      LicenseType = "Adobe"
	LicenseAntivirus  LicenseType = "Antivirus"
)

// LicenseOption is one entry of the license select control.
type LicenseOption struct {
	Value LicenseType
	Label string
}

// LicenseOptions returns the select options, the unselected prompt first.
func LicenseOptions() []LicenseOption {
	return []LicenseOption{
		{Value: LicenseUnselected, Label: "Select License Type"},
		{Value: LicenseOffice365, Label: "Office 365"},
		{Value: LicenseAdobe, Label: "Adobe Creative Cloud"},
		{Value: LicenseAntivirus, Label: "Antivirus"},
	}
}

// FormState holds the current values of the contact form.
type FormState struct {
	Name        string      `json:"name" validate:"required"`
	Email       string      `json:"email" validate:"required,looseemail"`
	Company     string      `json:"company" validate:"required"`
	LicenseType LicenseType `json:"licenseType" validate:"required,oneof=Office365 Adobe Antivirus"`
	Message     string      `json:"message" validate:"required"`
}

// Set assigns value to field and reports whether the field exists.
func (s *FormState) Set(field Field, value string) bool {
	switch field {
	case FieldName:
		s.Name = value
	case FieldEmail:
		s.Email = value
	case FieldCompany:
		s.Company = value
	case FieldLicenseType:
		s.LicenseType = LicenseType(value)
	case FieldMessage:
		s.Message = value
	default:
		return false
	}
	return true
}

// Get returns the value held for field.
func (s FormState) Get(field Field) string {
	switch field {
	case FieldName:
		return s.Name
	case FieldEmail:
		return s.Email
	case FieldCompany:
		return s.Company
	case FieldLicenseType:
		return string(s.LicenseType)
	case FieldMessage:
		return s.Message
	}
	return ""
}
