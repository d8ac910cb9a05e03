package staffdir

import "fmt"

// =====================================
// Error Handling
// =====================================

// ErrorType classifies the failures surfaced by the core and its adapters.
type ErrorType string

const (
	// ErrorTypeNotFound is returned by identity lookups that miss.
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeDuplicate is returned when a uniqueness guard failed or the
	// store rejected a duplicate key.
	ErrorTypeDuplicate ErrorType = "duplicate"
	// ErrorTypeInvalidArgument is returned for malformed caller input, such
	// as a non-positive page size or an empty password.
	ErrorTypeInvalidArgument ErrorType = "invalid_argument"
	// ErrorTypeInvalidCredentials is the single failure the authentication
	// gate exposes, regardless of which check failed.
	ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"
	// ErrorTypeFieldNotFound is raised at predicate build time when a field
	// name does not exist on the entity type.
	ErrorTypeFieldNotFound ErrorType = "field_not_found"
	// ErrorTypeTypeMismatch is raised at predicate build time when a field
	// exists but its type is incompatible with the requested comparison.
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeStorage marks a query that could not complete: connection
	// loss, driver failure, transient I/O. Distinct from an empty result.
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeConflict marks a rejected state transition, such as deleting
	// a role still referenced by active users.
	ErrorTypeConflict    ErrorType = "conflict"
	ErrorTypeConstraint  ErrorType = "constraint"
	ErrorTypeTimeout     ErrorType = "timeout"
	ErrorTypeTransaction ErrorType = "transaction"
	ErrorTypeValidation  ErrorType = "validation"
	ErrorTypeUnsupported ErrorType = "unsupported"
)

// Error is the error value used throughout the module.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
}

// Error implements the error interface
func (e Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e Error) Is(target error) bool {
	if targetErr, ok := target.(Error); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// NewError creates a new Error
func NewError(errorType ErrorType, message string) Error {
	return Error{
		Type:    errorType,
		Message: message,
	}
}

// NewErrorWithCause creates a new Error wrapping a cause
func NewErrorWithCause(errorType ErrorType, message string, cause error) Error {
	return Error{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}

// IsDuplicate checks if an error is a "duplicate" error
func IsDuplicate(err error) bool {
	return IsErrorType(err, ErrorTypeDuplicate)
}

// IsInvalidArgument checks if an error is an "invalid argument" error
func IsInvalidArgument(err error) bool {
	return IsErrorType(err, ErrorTypeInvalidArgument)
}

// IsInvalidCredentials checks if an error is an "invalid credentials" error
func IsInvalidCredentials(err error) bool {
	return IsErrorType(err, ErrorTypeInvalidCredentials)
}

// IsStorage checks if an error is a "storage" error
func IsStorage(err error) bool {
	return IsErrorType(err, ErrorTypeStorage)
}

// IsConflict checks if an error is a "conflict" error
func IsConflict(err error) bool {
	return IsErrorType(err, ErrorTypeConflict)
}

// IsFieldNotFound checks if an error is a "field not found" error
func IsFieldNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeFieldNotFound)
}

// IsTypeMismatch checks if an error is a "type mismatch" error
func IsTypeMismatch(err error) bool {
	return IsErrorType(err, ErrorTypeTypeMismatch)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if e, ok := err.(Error); ok {
		return e.Type == errorType
	}
	return false
}
