package message

import (
	"errors"
	"fmt"
)

// Precondition errors. These are programming errors on the caller's side and
// are returned before any network call is made.
var (
	// ErrInvalidRecipient reports an input shape RecipientList.Add does not
	// accept.
	ErrInvalidRecipient = errors.New("recipients must be an address string, a Recipient, a NamedAddress or a list of those")

	// ErrMissingConnection reports a Message built without a parent or a
	// connection.
	ErrMissingConnection = errors.New("need a parent or a connection")

	// ErrUnsavedMessage reports an operation that requires a stored message id.
	ErrUnsavedMessage = errors.New("message has not been saved to the cloud")

	// ErrIsDraft reports an operation that requires a sent message.
	ErrIsDraft = errors.New("message is a draft")

	// ErrNotDraft reports an operation that only applies to drafts.
	ErrNotDraft = errors.New("message is not a draft")

	// ErrAlreadySaved reports saving a draft that already has a cloud id.
	ErrAlreadySaved = errors.New("message has already been saved to the cloud")

	// ErrInvalidFolder reports a folder target that resolves to an empty id.
	ErrInvalidFolder = errors.New("must provide a valid folder id")
)

// RemoteError reports a failed remote operation: either the transport
// returned an error or the API answered with an unexpected status code.
// Remote failures are always returned as values, never panicked; callers
// branch on the result instead of recovering.
type RemoteError struct {
	// Op is the operation that failed, e.g. "send" or "move".
	Op string
	// StatusCode is the HTTP status received, or 0 for transport errors.
	StatusCode int
	// Reason is the HTTP status text or the transport error message.
	Reason string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed: unexpected status %d (%s)", e.Op, e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Reason)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
