package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ID identifies one of the closed set of upload backends.
type ID int

const (
	// AnonymousHost posts bytes to a public host with no account.
	AnonymousHost ID = iota
	// CloudStore uploads to a credentialed object store.
	CloudStore
)

// String returns the canonical name of the backend
func (id ID) String() string {
	switch id {
	case AnonymousHost:
		return "anonhost"
	case CloudStore:
		return "cloudstore"
	default:
		return "unknown"
	}
}

// ParseID maps a configured backend name to its ID
func ParseID(name string) (ID, error) {
	switch name {
	case "anonhost":
		return AnonymousHost, nil
	case "cloudstore":
		return CloudStore, nil
	default:
		return 0, fmt.Errorf("unknown provider: %q", name)
	}
}

// Provider is a backend capable of storing bytes and returning a
// retrievable URL. Implementations hold no engine state and each call
// is independent; the only side effect is the network I/O itself.
type Provider interface {
	Name() string
	Upload(ctx context.Context, filename string, file io.Reader, size int64) (string, error)
}

// ErrorKind categorizes upload failures
type ErrorKind int

const (
	// KindUnknown wraps unexpected failures with no better category
	KindUnknown ErrorKind = iota
	// KindConfiguration means missing or invalid credentials, detected
	// before any network call
	KindConfiguration
	// KindNetwork means a non-success HTTP/API response, including a
	// partial multi-step failure
	KindNetwork
)

// String returns the human-readable tag for the kind
func (k ErrorKind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// UploadError represents a structured provider error
type UploadError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`    // Provider-specific error code
	Message string    `json:"message"` // Human-readable error message
	Cause   error     `json:"-"`       // Original error for logging
}

// Error implements the error interface
func (ue *UploadError) Error() string {
	if ue.Code != "" {
		return ue.Message + " (code: " + ue.Code + ")"
	}
	return ue.Message
}

// Unwrap returns the underlying cause
func (ue *UploadError) Unwrap() error {
	return ue.Cause
}

// Is checks if the error matches the target
func (ue *UploadError) Is(target error) bool {
	if targetErr, ok := target.(*UploadError); ok {
		return ue.Kind == targetErr.Kind
	}
	return false
}

// NewUploadError creates a new UploadError
func NewUploadError(kind ErrorKind, code, message string, cause error) *UploadError {
	return &UploadError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Predefined error constructors
func NewConfigurationError(message string, cause error) *UploadError {
	return NewUploadError(KindConfiguration, "", message, cause)
}

func NewNetworkError(code, message string, cause error) *UploadError {
	return NewUploadError(KindNetwork, code, message, cause)
}

func NewUnknownError(message string, cause error) *UploadError {
	return NewUploadError(KindUnknown, "", message, cause)
}

// GetKind extracts the ErrorKind from an error. Errors produced
// outside the provider layer report KindUnknown.
func GetKind(err error) ErrorKind {
	var upErr *UploadError
	if errors.As(err, &upErr) {
		return upErr.Kind
	}
	return KindUnknown
}

// UserMessage renders an error as the kind-tagged, human-readable
// string stored on a failed entry.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var upErr *UploadError
	if errors.As(err, &upErr) {
		return fmt.Sprintf("%s: %s", upErr.Kind, upErr.Message)
	}
	return fmt.Sprintf("%s: %s", KindUnknown, err.Error())
}
