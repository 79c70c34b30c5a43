package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SubmissionFields are the payload keys read by the apply endpoint, in form order.
var SubmissionFields = []string{
	"name", "email", "phone", "subject", "experience",
	"philosophy", "portfolio", "social", "referrer", "user_agent",
}

// emailPattern accepts local@domain.tld where no part holds whitespace or '@'.
var emailPattern = regexp.MustCompile(`^[^@\s\v\p{Z}\x{FEFF}]+@[^@\s\v\p{Z}\x{FEFF}]+\.[^@\s\v\p{Z}\x{FEFF}]+$`)

var submissionSchema = mustCompile(submissionSchemaMap())

// submissionSchemaMap allows every known field to be a string or null and
// leaves unknown fields alone.
func submissionSchemaMap() map[string]interface{} {
	props := make(map[string]interface{}, len(SubmissionFields))
	for _, field := range SubmissionFields {
		props[field] = map[string]interface{}{
			"type": []string{"string", "null"},
		}
	}
	return map[string]interface{}{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": true,
	}
}

func mustCompile(schemaMap map[string]interface{}) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
	if err != nil {
		panic(fmt.Sprintf("validation: invalid submission schema: %v", err))
	}
	return schema
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateSubmissionPayload checks the decoded payload against the submission
// schema. Errors are ordered by form field order.
func ValidateSubmissionPayload(payload map[string]interface{}) (*ValidationResult, error) {
	result, err := submissionSchema.Validate(gojsonschema.NewGoLoader(payload))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}

	order := make(map[string]int, len(SubmissionFields))
	for i, f := range SubmissionFields {
		order[f] = i
	}
	sort.SliceStable(errs, func(i, j int) bool {
		return order[errs[i].Field] < order[errs[j].Field]
	})

	return &ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}, nil
}

// FirstInvalidField returns the earliest form field with an error, or "".
func (vr *ValidationResult) FirstInvalidField() string {
	if len(vr.Errors) == 0 {
		return ""
	}
	return vr.Errors[0].Field
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
