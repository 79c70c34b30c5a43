// internal/workers/application/index-submission/models.go
package indexsubmission

import "renaissance-story/internal/models"

type Input = models.SubmissionRecord

type Output struct {
	DocumentID string `json:"documentId"`
	Index      string `json:"index"`
	Version    int64  `json:"version"`
	IndexedAt  string `json:"indexedAt"` // ISO 8601
}
