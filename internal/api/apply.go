// internal/api/apply.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"renaissance-story/internal/common/errors"
	commonhttp "renaissance-story/internal/common/http"
	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/common/metrics"
	"renaissance-story/internal/common/observability"
	"renaissance-story/internal/models"
	submitapplication "renaissance-story/internal/workers/application/submit-application"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultMaxBodyBytes = 64 << 10

	outcomeStored   = "stored"
	outcomeInternal = "internal_error"
)

// Submitter validates and stores one submission.
type Submitter interface {
	Execute(ctx context.Context, input *submitapplication.Input) (*submitapplication.Output, error)
}

// Followups receives every stored submission.
type Followups interface {
	Dispatch(record *models.SubmissionRecord)
}

type okResponse struct {
	OK bool `json:"ok"`
}

// ApplyHandler serves POST /api/apply. A nil submitter means storage is not
// configured and every POST fails with 500.
type ApplyHandler struct {
	submitter    Submitter
	followups    Followups
	obs          *observability.Observability
	maxBodyBytes int64
	logger       logger.Logger
}

func NewApplyHandler(submitter Submitter, followups Followups, obs *observability.Observability, maxBodyBytes int64, log logger.Logger) *ApplyHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return &ApplyHandler{
		submitter:    submitter,
		followups:    followups,
		obs:          obs,
		maxBodyBytes: maxBodyBytes,
		logger:       log.WithFields(map[string]interface{}{"handler": "apply"}),
	}
}

func (h *ApplyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		errors.WriteError(w, errors.NewMethodNotAllowedError(r.Method))
		return
	}

	start := time.Now()
	ctx, span := h.obs.Tracer().Start(r.Context(), "apply.submit")
	defer span.End()

	outcome := outcomeInternal
	defer func() {
		span.SetAttributes(attribute.String("outcome", outcome))
		metrics.SubmissionsTotal.WithLabelValues(outcome).Inc()
		h.obs.RecordSubmission(ctx, outcome, time.Since(start))
	}()

	if h.submitter == nil {
		h.logger.Error("missing storage configuration", nil)
		outcome = h.fail(w, span, errors.NewServerNotConfiguredError())
		return
	}

	payload, err := h.readPayload(r)
	if err != nil {
		h.logger.Warn("invalid request body", map[string]interface{}{"error": err})
		outcome = h.fail(w, span, err)
		return
	}

	output, err := h.submitter.Execute(ctx, &submitapplication.Input{Payload: payload})
	if err != nil {
		outcome = h.fail(w, span, err)
		return
	}

	outcome = outcomeStored
	span.SetAttributes(attribute.String("submission.id", output.Record.SubmissionID))
	errors.WriteJSON(w, http.StatusOK, okResponse{OK: true})

	if h.followups != nil {
		h.followups.Dispatch(output.Record)
	}
}

// readPayload reads the JSON body. An empty body is {} and any non-object
// JSON value is treated as an empty object.
func (h *ApplyHandler) readPayload(r *http.Request) (map[string]interface{}, error) {
	raw, truncated, err := commonhttp.ReadAllWithLimit(r.Body, h.maxBodyBytes)
	if err != nil {
		return nil, errors.NewInvalidJSONError(err)
	}
	if truncated {
		return nil, errors.NewInvalidJSONError(nil)
	}
	if len(raw) == 0 {
		return map[string]interface{}{}, nil
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, errors.NewInvalidJSONError(err)
	}

	payload, ok := v.(map[string]interface{})
	if !ok {
		return map[string]interface{}{}, nil
	}
	return payload, nil
}

func (h *ApplyHandler) fail(w http.ResponseWriter, span trace.Span, err error) string {
	stdErr := errors.WriteError(w, err)
	if stdErr.HTTPStatus() >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, stdErr.Message)
	}
	return strings.ToLower(string(stdErr.Code))
}
