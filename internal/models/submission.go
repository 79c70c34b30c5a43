// internal/models/submission.go
package models

// ApplicantSubmission is one row of applicant_submissions. Optional columns
// are nil when the applicant left them blank and serialize as JSON null.
type ApplicantSubmission struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      *string `json:"phone"`
	Subject    *string `json:"subject"`
	Experience *string `json:"experience"`
	Philosophy *string `json:"philosophy"`
	Portfolio  *string `json:"portfolio"`
	Social     *string `json:"social"`
	Referrer   *string `json:"referrer"`
	UserAgent  *string `json:"user_agent"`
}

// SubmissionColumns lists the table columns in insert order.
var SubmissionColumns = []string{
	"name", "email", "phone", "subject", "experience",
	"philosophy", "portfolio", "social", "referrer", "user_agent",
}

// OptionalString returns nil for the empty string.
func OptionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Values returns the row values in SubmissionColumns order, with nil for NULL.
func (s *ApplicantSubmission) Values() []interface{} {
	return []interface{}{
		s.Name, s.Email,
		nullable(s.Phone), nullable(s.Subject), nullable(s.Experience),
		nullable(s.Philosophy), nullable(s.Portfolio), nullable(s.Social),
		nullable(s.Referrer), nullable(s.UserAgent),
	}
}

// Document returns the submission as a flat map, skipping NULL columns.
func (s *ApplicantSubmission) Document() map[string]interface{} {
	doc := make(map[string]interface{}, len(SubmissionColumns))
	for i, v := range s.Values() {
		if v != nil {
			doc[SubmissionColumns[i]] = v
		}
	}
	return doc
}

func nullable(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// SubmissionRecord is a stored submission plus the id and timestamp assigned
// on receipt. It is the variable set handed to follow-ups and workflow jobs.
type SubmissionRecord struct {
	SubmissionID string `json:"submissionId"`
	ReceivedAt   string `json:"receivedAt"` // ISO 8601
	ApplicantSubmission
}
