package submitapplication

import (
	"context"
	"time"

	"renaissance-story/internal/common/errors"
	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/common/validation"
	"renaissance-story/internal/models"
	"renaissance-story/internal/store"

	"github.com/google/uuid"
)

const (
	TaskType = "submit-application"
)

type Handler struct {
	config *Config
	store  store.Store
	logger logger.Logger
}

func NewHandler(config *Config, st store.Store, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  st,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute validates the payload and inserts one row. Every failure is a
// *errors.StandardError carrying the client-facing message.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	payload := input.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}

	result, err := validation.ValidateSubmissionPayload(payload)
	if err != nil {
		return nil, errors.NewInternalError(err.Error())
	}
	if !result.Valid {
		field := result.FirstInvalidField()
		h.logger.Info("rejected submission", map[string]interface{}{
			"reason": "invalid field type",
			"field":  field,
		})
		return nil, errors.NewInvalidFieldTypeError(field)
	}

	sub := buildSubmission(payload)

	if sub.Name == "" || sub.Email == "" {
		h.logger.Info("rejected submission", map[string]interface{}{
			"reason": "missing required fields",
		})
		return nil, errors.NewMissingRequiredFieldsError()
	}

	if !validation.ValidateEmail(sub.Email) {
		h.logger.Info("rejected submission", map[string]interface{}{
			"reason": "invalid email",
		})
		return nil, errors.NewInvalidEmailError(sub.Email)
	}

	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	if err := h.store.InsertSubmission(ctx, sub); err != nil {
		h.logger.Error("insert failed", map[string]interface{}{
			"error": err,
		})
		return nil, errors.NewDatabaseInsertFailedError(err)
	}

	record := &models.SubmissionRecord{
		SubmissionID:        uuid.New().String(),
		ReceivedAt:          time.Now().UTC().Format(time.RFC3339),
		ApplicantSubmission: *sub,
	}

	h.logger.Info("submission stored", map[string]interface{}{
		"submissionId": record.SubmissionID,
		"hasPhone":     sub.Phone != nil,
		"hasPortfolio": sub.Portfolio != nil,
	})

	return &Output{Record: record}, nil
}

// buildSubmission copies known fields out of an already schema-checked payload.
// Blank optionals become NULL; values are otherwise stored as given.
func buildSubmission(payload map[string]interface{}) *models.ApplicantSubmission {
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}
	opt := func(key string) *string {
		return models.OptionalString(str(key))
	}

	return &models.ApplicantSubmission{
		Name:       str("name"),
		Email:      str("email"),
		Phone:      opt("phone"),
		Subject:    opt("subject"),
		Experience: opt("experience"),
		Philosophy: opt("philosophy"),
		Portfolio:  opt("portfolio"),
		Social:     opt("social"),
		Referrer:   opt("referrer"),
		UserAgent:  opt("user_agent"),
	}
}

