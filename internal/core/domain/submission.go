package domain

import "time"

// EventNewSubmission names the real-time event emitted after a submit.
const EventNewSubmission = "newSubmission"

// TextSubmission is an immutable piece of text owned by a user.
type TextSubmission struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmissionOwner is the part of a user resolved when listing submissions.
type SubmissionOwner struct {
	ID    string `json:"_id"`
	Email string `json:"email"`
}

// SubmissionView is a submission joined with its owner. User is nil when the
// owner has been deleted since the submission was made.
type SubmissionView struct {
	TextSubmission
	User *SubmissionOwner `json:"user,omitempty"`
}

// SubmissionEvent is broadcast to real-time listeners on every new submission.
type SubmissionEvent struct {
	Username       string    `json:"username"`
	SubmissionTime time.Time `json:"submissionTime"`
	SubmittedText  string    `json:"submittedText"`
}
