// internal/workers/application/start-onboarding/models.go
package startonboarding

import "renaissance-story/internal/models"

type Input = models.SubmissionRecord

type Output struct {
	ProcessID          string `json:"processId"`
	ProcessInstanceKey int64  `json:"processInstanceKey"`
	StartedAt          string `json:"startedAt"` // ISO 8601
}
