package notifyrecruiters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"renaissance-story/internal/common/errors"
	"renaissance-story/internal/common/logger"
	"renaissance-story/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "notify-recruiters"

	// SNS subjects must be ASCII without line breaks, so applicant names stay in the body.
	snsSubject = "New instructor application"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type template struct {
	subject string
	body    string
}

var (
	recruiterTemplate = template{
		subject: "New instructor application: {{name}}",
		body: "{{name}} <{{email}}> applied to teach {{subject}}.\n\n" +
			"Experience: {{experience}}\n" +
			"Phone: {{phone}}\n" +
			"Portfolio: {{portfolio}}\n" +
			"Social: {{social}}\n\n" +
			"Teaching philosophy:\n{{philosophy}}\n\n" +
			"Submission {{submissionId}} received {{receivedAt}}.",
	}

	applicantTemplate = template{
		subject: "We received your application",
		body: "Hi {{name}},\n\n" +
			"Thanks for applying to teach with the Renaissance. " +
			"We can't wait to meet you and will be in touch soon.",
	}
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	sesClient    SESService
	snsClient    SNSService
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       l,
		sesClient:    sesClient,
		snsClient:    snsClient,
		errorHandler: errors.NewErrorHandler(l),
	}
}

// Handle runs the task as a Zeebe job of the onboarding process.
func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, fmt.Errorf("parse input: %w", err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, output)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	data := templateData(input)
	var (
		notifications []models.Notification
		lastErr       error
		sent          int
	)

	record := func(recipientType, channel, messageID string, err error) {
		n := models.Notification{
			ID:            uuid.New().String(),
			RecipientType: recipientType,
			Channel:       channel,
			Status:        StatusSent,
			MessageID:     messageID,
			SentAt:        time.Now().UTC().Format(time.RFC3339),
		}
		if err != nil {
			n.Status = StatusFailed
			lastErr = errors.NewNotificationSendFailedError(channel, err)
			h.logger.Error("notification send failed", map[string]interface{}{
				"error":         err,
				"channel":       channel,
				"recipientType": recipientType,
				"submissionId":  input.SubmissionID,
			})
		} else {
			sent++
		}
		notifications = append(notifications, n)
	}

	if h.sesClient != nil && h.config.RecruiterEmail != "" {
		id, err := h.sendEmail(ctx, h.config.RecruiterEmail, recruiterTemplate, data, input.Email)
		record(RecipientTypeRecruiter, ChannelEmail, id, err)
	}

	if h.snsClient != nil && h.config.SNSTopicARN != "" {
		id, err := h.publish(ctx, recruiterTemplate, data)
		record(RecipientTypeRecruiter, ChannelSNS, id, err)
	}

	if h.sesClient != nil && h.config.ConfirmApplicant {
		id, err := h.sendEmail(ctx, input.Email, applicantTemplate, data, "")
		record(RecipientTypeApplicant, ChannelEmail, id, err)
	}

	output := &Output{Status: StatusDisabled, Notifications: notifications}
	switch {
	case len(notifications) == 0:
		h.logger.Warn("no notification channel configured", map[string]interface{}{
			"submissionId": input.SubmissionID,
		})
		return output, nil
	case sent == 0:
		return nil, lastErr
	case sent < len(notifications):
		output.Status = StatusFailed
	default:
		output.Status = StatusSent
	}

	h.logger.Info("recruiters notified", map[string]interface{}{
		"submissionId": input.SubmissionID,
		"status":       output.Status,
		"sent":         sent,
	})
	return output, nil
}

func (h *Handler) sendEmail(ctx context.Context, to string, tmpl template, data map[string]string, replyTo string) (string, error) {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(renderTemplate(tmpl.subject, data))},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(renderTemplate(tmpl.body, data))},
			},
		},
		Source: aws.String(h.config.FromEmail),
	}
	if replyTo != "" {
		input.ReplyToAddresses = []string{replyTo}
	}

	out, err := h.sesClient.SendEmail(ctx, input)
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

func (h *Handler) publish(ctx context.Context, tmpl template, data map[string]string) (string, error) {
	out, err := h.snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(h.config.SNSTopicARN),
		Subject:  aws.String(snsSubject),
		Message:  aws.String(renderTemplate(tmpl.body, data)),
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(map[string]interface{}{"notificationStatus": output.Status})
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	h.logger.Info("job completed successfully", map[string]interface{}{
		"jobKey": job.Key,
	})
}

func templateData(input *Input) map[string]string {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	return map[string]string{
		"submissionId": input.SubmissionID,
		"receivedAt":   input.ReceivedAt,
		"name":         input.Name,
		"email":        input.Email,
		"phone":        deref(input.Phone),
		"subject":      deref(input.Subject),
		"experience":   deref(input.Experience),
		"philosophy":   deref(input.Philosophy),
		"portfolio":    deref(input.Portfolio),
		"social":       deref(input.Social),
	}
}

// renderTemplate substitutes every placeholder in one pass, so values that
// look like placeholders are written literally.
func renderTemplate(tmpl string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		if v == "" {
			v = "-"
		}
		pairs = append(pairs, "{{"+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

