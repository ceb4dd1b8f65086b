package waitlist

import "github.com/grahmind/careers-waitlist/internal/models"

// JoinWaitlistRequest is bound without validation tags so that the email
// shape check, and its message, stay in one place.
type JoinWaitlistRequest struct {
	Email string `json:"email"`
}

type SubmissionResponse struct {
	State   State                  `json:"state"`
	Message string                 `json:"message"`
	Record  *models.WaitlistRecord `json:"record,omitempty"`
}

func ToSubmissionResponse(submission *Submission) SubmissionResponse {
	if submission == nil {
		return SubmissionResponse{State: StateIdle}
	}
	return SubmissionResponse{
		State:   submission.State,
		Message: submission.Message,
		Record:  submission.Record,
	}
}
