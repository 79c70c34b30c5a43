package startonboarding

import (
	"context"
	stderrors "errors"
	"time"

	"renaissance-story/internal/common/errors"
	"renaissance-story/internal/common/logger"
)

const (
	TaskType = "start-onboarding"
)

// ProcessStarter is satisfied by *camunda.Client.
type ProcessStarter interface {
	CreateInstance(ctx context.Context, processID string, variables interface{}) (int64, error)
}

type Handler struct {
	config  *Config
	starter ProcessStarter
	logger  logger.Logger
}

func NewHandler(config *Config, starter ProcessStarter, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		starter: starter,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

// Execute starts one onboarding process instance whose variables are the
// submission record, so its job workers can read the applicant's fields.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	key, err := h.starter.CreateInstance(ctx, h.config.ProcessID, input)
	if err != nil {
		var stdErr *errors.StandardError
		if stderrors.As(err, &stdErr) {
			return nil, stdErr
		}
		return nil, errors.NewWorkflowStartFailedError(h.config.ProcessID, err)
	}

	h.logger.Info("onboarding process started", map[string]interface{}{
		"submissionId":       input.SubmissionID,
		"processId":          h.config.ProcessID,
		"processInstanceKey": key,
	})

	return &Output{
		ProcessID:          h.config.ProcessID,
		ProcessInstanceKey: key,
		StartedAt:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}
