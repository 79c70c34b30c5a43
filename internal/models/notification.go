// internal/models/notification.go
package models

// Notification records one delivery attempt of the notify-recruiters follow-up.
type Notification struct {
	ID            string `json:"id"`
	RecipientType string `json:"recipientType"` // "recruiter" or "applicant"
	Channel       string `json:"channel"`       // "email", "sns"
	Status        string `json:"status"`        // "sent", "failed", "disabled"
	MessageID     string `json:"messageId,omitempty"`
	SentAt        string `json:"sentAt"`
}
