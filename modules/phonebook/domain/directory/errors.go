package directory

import (
	"errors"
	"fmt"
)

var (
	// ErrContactNotFound is returned when an operation references a contact id
	// that is absent from the freshly loaded snapshot.
	ErrContactNotFound = errors.New("contact not found")
	// ErrGroupNotEmpty is returned when a group deletion without cascade is
	// attempted while contacts still reference the group.
	ErrGroupNotEmpty = errors.New("group still has contacts")
	// ErrUploadExpired is returned when a wizard step references an uploaded
	// file that no longer exists on disk.
	ErrUploadExpired = errors.New("uploaded file no longer exists")
)

// ValidationError reports a field or limit violation. Save is all-or-nothing:
// a single validation error aborts the whole write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// FormatError reports an import file that lacks the required structure.
type FormatError struct {
	Message string
}

func (e *FormatError) Error() string { return e.Message }
