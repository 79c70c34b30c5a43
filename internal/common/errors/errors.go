// Package errors provides standardized error handling for the apply API and
// the workflow follow-ups.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Request errors returned by POST /api/apply.
const (
	ErrCodeInvalidJSON           ErrorCode = "INVALID_JSON"
	ErrCodeInvalidFieldType      ErrorCode = "INVALID_FIELD_TYPE"
	ErrCodeMissingRequiredFields ErrorCode = "MISSING_REQUIRED_FIELDS"
	ErrCodeInvalidEmail          ErrorCode = "INVALID_EMAIL"
	ErrCodeMethodNotAllowed      ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimited           ErrorCode = "RATE_LIMITED"

	ErrCodeServerNotConfigured  ErrorCode = "SERVER_NOT_CONFIGURED"
	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
)

// Follow-up errors, surfaced to the workflow engine only.
const (
	ErrCodeNotificationSendFailed        ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeIndexFailed                   ErrorCode = "INDEX_FAILED"
	ErrCodeWorkflowStartFailed           ErrorCode = "WORKFLOW_START_FAILED"
	ErrCodeTimeout                       ErrorCode = "TIMEOUT_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// HTTPStatus returns the response status for the error's code.
func (e *StandardError) HTTPStatus() int {
	return HTTPStatus(e.Code)
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newStandardError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidJSONError(err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return newStandardError(ErrCodeInvalidJSON, "Invalid JSON", details, false)
}

// NewInvalidFieldTypeError reports a payload field that is neither a string nor null.
func NewInvalidFieldTypeError(field string) *StandardError {
	return newStandardError(ErrCodeInvalidFieldType, "Invalid field type: "+field, "", false)
}

func NewMissingRequiredFieldsError() *StandardError {
	return newStandardError(ErrCodeMissingRequiredFields, "Missing required fields: name, email", "", false)
}

func NewInvalidEmailError(email string) *StandardError {
	return newStandardError(ErrCodeInvalidEmail, "Invalid email", fmt.Sprintf("email: %s", email), false)
}

func NewMethodNotAllowedError(method string) *StandardError {
	return newStandardError(ErrCodeMethodNotAllowed, "Method not allowed", fmt.Sprintf("method: %s", method), false)
}

func NewRateLimitedError(client string) *StandardError {
	return newStandardError(ErrCodeRateLimited, "Too many requests", fmt.Sprintf("client: %s", client), true)
}

func NewServerNotConfiguredError() *StandardError {
	return newStandardError(ErrCodeServerNotConfigured, "Server not configured (missing Supabase env vars)", "", false)
}

// NewDatabaseInsertFailedError carries the storage error's own message, which
// the apply endpoint returns verbatim.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newStandardError(ErrCodeDatabaseInsertFailed, err.Error(), err.Error(), true)
}

func NewInternalError(details string) *StandardError {
	return newStandardError(ErrCodeInternal, "Unexpected server error", details, false)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newStandardError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true)
}

// NewElasticsearchConnectionFailedError creates a retryable Elasticsearch connection error.
func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newStandardError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true)
}

func NewIndexFailedError(index string, err error) *StandardError {
	return newStandardError(ErrCodeIndexFailed, "Elasticsearch index operation failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewWorkflowStartFailedError(processID string, err error) *StandardError {
	return newStandardError(ErrCodeWorkflowStartFailed, "Workflow instance could not be started",
		fmt.Sprintf("processId: %s, error: %s", processID, err.Error()), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newStandardError(ErrCodeTimeout, fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

// ==========================
// 4. HTTP Mapping
// ==========================

// HTTPStatus maps an error code to the status the apply endpoint responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidJSON,
		ErrCodeInvalidFieldType,
		ErrCodeMissingRequiredFields,
		ErrCodeInvalidEmail:
		return http.StatusBadRequest
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AsStandardError unwraps err into a StandardError, falling back to INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err.Error())
}

// ==========================
// 5. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseInsertFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeElasticsearchConnectionFailed,
		ErrCodeIndexFailed,
		ErrCodeWorkflowStartFailed:
		return 3

	case ErrCodeTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 6. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "DATABASE"):
		return "DATABASE"
	case strings.Contains(codeStr, "ELASTICSEARCH") || strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "MISSING"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
