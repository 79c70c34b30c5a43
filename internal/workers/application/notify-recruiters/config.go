// internal/workers/application/notify-recruiters/config.go
package notifyrecruiters

import (
	"time"

	"renaissance-story/internal/common/config"
)

type Config struct {
	FromEmail        string
	RecruiterEmail   string
	ConfirmApplicant bool
	SNSTopicARN      string
	Timeout          time.Duration
}

func LoadConfig(n config.NotificationConfig, followups config.FollowupConfig) *Config {
	return &Config{
		FromEmail:        n.FromEmail,
		RecruiterEmail:   n.RecruiterEmail,
		ConfirmApplicant: n.ConfirmApplicant,
		SNSTopicARN:      n.SNSTopicARN,
		Timeout:          config.GetDuration(followups.Timeout),
	}
}
