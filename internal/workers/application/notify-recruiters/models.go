// internal/workers/application/notify-recruiters/models.go
package notifyrecruiters

import "renaissance-story/internal/models"

type Input = models.SubmissionRecord

type Output struct {
	Status        string                `json:"status"` // "sent", "failed", "disabled"
	Notifications []models.Notification `json:"notifications"`
}

const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

const (
	RecipientTypeRecruiter = "recruiter"
	RecipientTypeApplicant = "applicant"
)

const (
	ChannelEmail = "email"
	ChannelSNS   = "sns"
)
