package accounting

import (
	"errors"
	"fmt"
	"time"
)

// ---------------------------------------------------------------------------
// Error Taxonomy
// ---------------------------------------------------------------------------

// ErrorKind classifies a remote accounting API failure into an actionable
// category. The request engine is the sole producer of these classifications;
// every other component propagates them unchanged.
type ErrorKind string

const (
	// ErrorKindConnection indicates a network-level failure (dial, TLS, timeout)
	ErrorKindConnection ErrorKind = "CONNECTION"
	// ErrorKindAuthentication indicates a rejected API key (HTTP 401)
	ErrorKindAuthentication ErrorKind = "AUTHENTICATION"
	// ErrorKindForbidden indicates insufficient permissions (HTTP 403)
	ErrorKindForbidden ErrorKind = "FORBIDDEN"
	// ErrorKindNotFound indicates a missing resource (HTTP 404)
	ErrorKindNotFound ErrorKind = "NOT_FOUND"
	// ErrorKindValidation indicates the remote rejected the request data (HTTP 422)
	ErrorKindValidation ErrorKind = "VALIDATION"
	// ErrorKindRateLimit indicates throttling (HTTP 429), possibly with a retry hint
	ErrorKindRateLimit ErrorKind = "RATE_LIMIT"
	// ErrorKindServer indicates a remote-side failure (HTTP 5xx)
	ErrorKindServer ErrorKind = "SERVER"
	// ErrorKindGeneric covers anything that does not classify more precisely
	ErrorKindGeneric ErrorKind = "GENERIC"
)

// IsValid returns true if the kind is one of the defined classifications
func (k ErrorKind) IsValid() bool {
	switch k {
	case ErrorKindConnection, ErrorKindAuthentication, ErrorKindForbidden,
		ErrorKindNotFound, ErrorKindValidation, ErrorKindRateLimit,
		ErrorKindServer, ErrorKindGeneric:
		return true
	default:
		return false
	}
}

// String returns the string representation of ErrorKind
func (k ErrorKind) String() string {
	return string(k)
}

// RemoteError is a classified failure from the remote accounting API.
type RemoteError struct {
	// Kind is the failure classification
	Kind ErrorKind
	// StatusCode is the HTTP status that produced the classification, 0 for
	// network-level failures
	StatusCode int
	// Message is a human-readable description extracted from the response
	Message string
	// RetryAfter carries the remote's Retry-After hint for rate limits
	RetryAfter time.Duration
	// Ambiguous marks a write whose outcome is unknown: the request may have
	// reached the remote before the failure, so the entry may exist there.
	// Callers must treat such writes as "status unknown", not "failed".
	Ambiguous bool
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("accounting api: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("accounting api: %s: %s", e.Kind, e.Message)
}

// Retryable reports whether the failure is transient. Only transient
// failures may be retried, and only on the read path.
func (e *RemoteError) Retryable() bool {
	switch e.Kind {
	case ErrorKindConnection, ErrorKindServer, ErrorKindRateLimit:
		return true
	default:
		return false
	}
}

// AsRemoteError unwraps err into a *RemoteError if one is in its chain.
func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// Domain Errors
// ---------------------------------------------------------------------------

var (
	// ErrInvalidPayload indicates a write payload failed local validation
	// before any network call was attempted
	ErrInvalidPayload = errors.New("accounting: invalid payload")
	// ErrUnknownDocumentType indicates a document whose classified type maps
	// to no writer operation
	ErrUnknownDocumentType = errors.New("accounting: unknown document type")
	// ErrDocumentNotSubmittable indicates a document outside the processed state
	ErrDocumentNotSubmittable = errors.New("accounting: document is not in a submittable state")
)
