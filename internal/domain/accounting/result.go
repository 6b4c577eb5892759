package accounting

import "github.com/google/uuid"

// SubmissionResult is the outcome of one submission attempt. It is created
// by the submission workflow and handed to the owning persistence
// collaborator; this module never stores it.
type SubmissionResult struct {
	// Success reports whether the remote accepted the entry
	Success bool
	// Key is the remote-assigned entry key, set on success
	Key string
	// Message is the human-readable outcome description
	Message string
	// DocumentIDs references the source document(s) this result covers.
	// Individual-mode results carry one id, combined-mode results carry all.
	DocumentIDs []uuid.UUID
	// RequiresConfirmation is set when the batch was refused because the
	// caller did not confirm it
	RequiresConfirmation bool
	// Retryable reports whether the underlying failure was transient
	Retryable bool
}
