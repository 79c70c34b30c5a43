// internal/workers/application/submit-application/handler_test.go
package submitapplication

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"renaissance-story/internal/common/errors"
	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type recordingStore struct {
	inserted []*models.ApplicantSubmission
	err      error
}

func (s *recordingStore) InsertSubmission(_ context.Context, sub *models.ApplicantSubmission) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, sub)
	return nil
}

func createTestPayload() map[string]interface{} {
	return map[string]interface{}{
		"name":       "Mei Chan",
		"email":      "mei@example.com",
		"phone":      "+852 5555 0101",
		"subject":    "Piano",
		"experience": "",
		"philosophy": "Play first, theory second.",
		"portfolio":  nil,
		"social":     "@meichan",
		"referrer":   "https://instagram.com/",
		"user_agent": "Mozilla/5.0",
	}
}

// Create a test logger that implements your logger.Logger interface
type testLogger struct {
	t *testing.T
}

func (tl *testLogger) Debug(msg string, fields map[string]interface{}) {
	tl.t.Logf("DEBUG: %s %v", msg, fields)
}

func (tl *testLogger) Info(msg string, fields map[string]interface{}) {
	tl.t.Logf("INFO: %s %v", msg, fields)
}

func (tl *testLogger) Warn(msg string, fields map[string]interface{}) {
	tl.t.Logf("WARN: %s %v", msg, fields)
}

func (tl *testLogger) Error(msg string, fields map[string]interface{}) {
	tl.t.Logf("ERROR: %s %v", msg, fields)
}

func (tl *testLogger) WithFields(fields map[string]interface{}) logger.Logger {
	return tl
}

func (tl *testLogger) WithError(err error) logger.Logger {
	return tl.WithFields(map[string]interface{}{"error": err})
}

func (tl *testLogger) With(fields map[string]interface{}) logger.Logger {
	return tl
}

func newTestLogger(t *testing.T) logger.Logger {
	return &testLogger{t: t}
}

func codeOf(t *testing.T, err error) errors.ErrorCode {
	t.Helper()
	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr), "expected StandardError, got %v", err)
	return stdErr.Code
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	st := &recordingStore{}
	handler := NewHandler(LoadConfig(), st, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Payload: createTestPayload()})
	require.NoError(t, err)
	require.NotNil(t, output.Record)

	assert.NotEmpty(t, output.Record.SubmissionID)
	_, err = time.Parse(time.RFC3339, output.Record.ReceivedAt)
	assert.NoError(t, err)

	require.Len(t, st.inserted, 1)
	sub := st.inserted[0]
	assert.Equal(t, "Mei Chan", sub.Name)
	assert.Equal(t, "mei@example.com", sub.Email)
	assert.Equal(t, "Piano", *sub.Subject)
	assert.Equal(t, "Mozilla/5.0", *sub.UserAgent)
	assert.Nil(t, sub.Experience, "empty optional is stored as NULL")
	assert.Nil(t, sub.Portfolio, "null optional is stored as NULL")
	assert.Equal(t, *sub, output.Record.ApplicantSubmission)
}

func TestHandler_Execute_OnlyRequiredFields(t *testing.T) {
	st := &recordingStore{}
	handler := NewHandler(LoadConfig(), st, newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Payload: map[string]interface{}{
		"name":  "A",
		"email": "a@b.co",
	}})
	require.NoError(t, err)

	require.Len(t, st.inserted, 1)
	sub := st.inserted[0]
	for i, v := range sub.Values()[2:] {
		assert.Nil(t, v, "column %s", models.SubmissionColumns[i+2])
	}
}

func TestHandler_Execute_ValuesNotTrimmed(t *testing.T) {
	st := &recordingStore{}
	handler := NewHandler(LoadConfig(), st, newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Payload: map[string]interface{}{
		"name":    "  Mei  ",
		"email":   "mei@example.com",
		"subject": " ",
	}})
	require.NoError(t, err)

	assert.Equal(t, "  Mei  ", st.inserted[0].Name)
	assert.Equal(t, " ", *st.inserted[0].Subject)
}

// ==========================
// Validation Tests
// ==========================

func TestHandler_Execute_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
		code    errors.ErrorCode
		message string
	}{
		{
			name:    "nil payload",
			payload: nil,
			code:    errors.ErrCodeMissingRequiredFields,
			message: "Missing required fields: name, email",
		},
		{
			name:    "missing email",
			payload: map[string]interface{}{"name": "Mei"},
			code:    errors.ErrCodeMissingRequiredFields,
			message: "Missing required fields: name, email",
		},
		{
			name:    "empty name",
			payload: map[string]interface{}{"name": "", "email": "mei@example.com"},
			code:    errors.ErrCodeMissingRequiredFields,
			message: "Missing required fields: name, email",
		},
		{
			name:    "null name",
			payload: map[string]interface{}{"name": nil, "email": "mei@example.com"},
			code:    errors.ErrCodeMissingRequiredFields,
			message: "Missing required fields: name, email",
		},
		{
			name:    "email without tld",
			payload: map[string]interface{}{"name": "Mei", "email": "mei@example"},
			code:    errors.ErrCodeInvalidEmail,
			message: "Invalid email",
		},
		{
			name:    "email with space",
			payload: map[string]interface{}{"name": "Mei", "email": "mei chan@example.com"},
			code:    errors.ErrCodeInvalidEmail,
			message: "Invalid email",
		},
		{
			name:    "numeric experience",
			payload: map[string]interface{}{"name": "Mei", "email": "mei@example.com", "experience": 5.0},
			code:    errors.ErrCodeInvalidFieldType,
			message: "Invalid field type: experience",
		},
		{
			name:    "object name",
			payload: map[string]interface{}{"name": map[string]interface{}{"first": "Mei"}, "email": "mei@example.com"},
			code:    errors.ErrCodeInvalidFieldType,
			message: "Invalid field type: name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &recordingStore{}
			handler := NewHandler(LoadConfig(), st, newTestLogger(t))

			output, err := handler.Execute(context.Background(), &Input{Payload: tt.payload})

			assert.Nil(t, output)
			assert.Equal(t, tt.code, codeOf(t, err))
			assert.Equal(t, tt.message, errors.AsStandardError(err).Message)
			assert.Empty(t, st.inserted, "rejected submissions are never stored")
		})
	}
}

// ==========================
// Store Error Tests
// ==========================

func TestHandler_Execute_StoreError(t *testing.T) {
	st := &recordingStore{err: stderrors.New(`duplicate key value violates unique constraint "applicant_submissions_pkey"`)}
	handler := NewHandler(LoadConfig(), st, newTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Payload: createTestPayload()})

	assert.Nil(t, output)
	assert.Equal(t, errors.ErrCodeDatabaseInsertFailed, codeOf(t, err))
	assert.Equal(t, `duplicate key value violates unique constraint "applicant_submissions_pkey"`, errors.AsStandardError(err).Message)
}

func TestHandler_Execute_StoreSeesDeadline(t *testing.T) {
	var sawDeadline bool
	st := &deadlineStore{seen: &sawDeadline}
	handler := NewHandler(&Config{Timeout: time.Second}, st, newTestLogger(t))

	_, err := handler.Execute(context.Background(), &Input{Payload: createTestPayload()})
	require.NoError(t, err)
	assert.True(t, sawDeadline)
}

type deadlineStore struct {
	seen *bool
}

func (s *deadlineStore) InsertSubmission(ctx context.Context, _ *models.ApplicantSubmission) error {
	_, *s.seen = ctx.Deadline()
	return nil
}
