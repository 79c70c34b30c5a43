// internal/workers/application/submit-application/models.go
package submitapplication

import "renaissance-story/internal/models"

// Input is the decoded request body. A nil Payload is treated as empty.
type Input struct {
	Payload map[string]interface{} `json:"payload"`
}

type Output struct {
	Record *models.SubmissionRecord `json:"record"`
}
