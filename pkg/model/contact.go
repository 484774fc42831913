package model

import "net/http"

// ContactFormID is the identifier used for the contact form in schemas and
// rendered markup.
const ContactFormID = "contact"

// ContactForm returns the contact form catalogue. Each call returns a fresh
// copy so callers may decorate it freely.
func ContactForm() FormModel {
	return FormModel{
		ID:          ContactFormID,
		Title:       "Contact Form",
		Endpoint:    "/submit",
		Method:      http.MethodPost,
		SubmitLabel: "Submit",
		Fields: []Field{
			{
				Name:         FieldFirstName,
				Type:         FieldTypeText,
				Required:     true,
				Label:        "First Name*",
				DisplayLabel: "First Name:",
				Placeholder:  "Edd",
				Validations: []ValidationRule{
					{Kind: ValidationRuleRequired},
					{
						Kind: ValidationRuleMinLength,
						Params: map[string]string{
							RuleParamValue: "5",
							// Reported bound is one below the enforced one.
							RuleParamMessage: "firstName must have at least 4 characters",
						},
					},
				},
			},
			{
				Name:         FieldLastName,
				Type:         FieldTypeText,
				Required:     true,
				Label:        "Last Name*",
				DisplayLabel: "Last Name:",
				Placeholder:  "Burke",
				Validations: []ValidationRule{
					{Kind: ValidationRuleRequired},
				},
			},
			{
				Name:         FieldEmail,
				Type:         FieldTypeEmail,
				Required:     true,
				Label:        "Email*",
				DisplayLabel: "Email:",
				Placeholder:  "bluebill1049@hotmail.com",
				Validations: []ValidationRule{
					{Kind: ValidationRuleRequired, Params: map[string]string{RuleParamOn: PhaseSubmit}},
					{Kind: ValidationRuleEmail},
				},
			},
			{
				Name:         FieldMessage,
				Type:         FieldTypeTextArea,
				Label:        "Message",
				DisplayLabel: "Message:",
			},
		},
	}
}

// ParseFieldName maps a raw identifier onto a contact form field.
func ParseFieldName(raw string) (FieldName, bool) {
	switch name := FieldName(raw); name {
	case FieldFirstName, FieldLastName, FieldEmail, FieldMessage:
		return name, true
	default:
		return "", false
	}
}
