package submit

import "time"

// Submission is the envelope posted to the remote service.
type Submission struct {
	FormID      string    `json:"formId"`
	Data        Payload   `json:"data"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// NewSubmission stamps a payload with its form id and the current time.
func NewSubmission(formID string, payload Payload) Submission {
	return Submission{
		FormID:      formID,
		Data:        payload,
		SubmittedAt: time.Now().UTC(),
	}
}
