package contact

import "github.com/softsell/softsell/internal/landing"

type pageData struct {
	Content landing.Page
	Form    formView
}

type inputView struct {
	Name  string
	Value string
	Error string
}

type optionView struct {
	Value    string
	Label    string
	Selected bool
}

type formView struct {
	Action    string
	APIAction string
	Inputs    []inputView
	License   inputView
	Options   []optionView
	Message   inputView
}

func newFormView(state FormState, errs ErrorState) formView {
	input := func(f Field) inputView {
		return inputView{Name: string(f), Value: state.Get(f), Error: errs[f]}
	}
	options := make([]optionView, 0, len(LicenseOptions()))
	for _, opt := range LicenseOptions() {
		options = append(options, optionView{
			Value:    string(opt.Value),
			Label:    opt.Label,
			Selected: opt.Value == state.LicenseType,
		})
	}
	return formView{
		Action:    formAction,
		APIAction: apiAction,
		Inputs:    []inputView{input(FieldName), input(FieldEmail), input(FieldCompany)},
		License:   input(FieldLicenseType),
		Options:   options,
		Message:   input(FieldMessage),
	}
}
