package indexsubmission

import (
	"context"
	"time"

	"renaissance-story/internal/common/errors"
	"renaissance-story/internal/common/logger"
)

const (
	TaskType = "index-submission"
)

// Indexer is satisfied by *database.ElasticsearchClient.
type Indexer interface {
	IndexDocument(ctx context.Context, index, id string, doc interface{}) (int64, error)
}

type Handler struct {
	config  *Config
	indexer Indexer
	logger  logger.Logger
}

func NewHandler(config *Config, indexer Indexer, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		indexer: indexer,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	doc := input.Document()
	doc["submissionId"] = input.SubmissionID
	doc["receivedAt"] = input.ReceivedAt

	version, err := h.indexer.IndexDocument(ctx, h.config.Index, input.SubmissionID, doc)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewTimeoutError("elasticsearch", err)
		}
		return nil, errors.NewIndexFailedError(h.config.Index, err)
	}

	h.logger.Info("submission indexed", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"index":        h.config.Index,
		"version":      version,
	})

	return &Output{
		DocumentID: input.SubmissionID,
		Index:      h.config.Index,
		Version:    version,
		IndexedAt:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}
