package errors

import (
	"errors"
	"fmt"
)

// Kind represents the classification of errors for handling purposes
type Kind int

const (
	// KindLifecycle represents invalid state transitions (programmer error,
	// fatal to the call, never retried)
	KindLifecycle Kind = iota
	// KindConnection represents open-time transport or address failures
	// (fatal to that open attempt, caller may retry)
	KindConnection
	// KindTransport represents runtime send/receive failures (reported
	// per-call, lifecycle state unchanged)
	KindTransport
	// KindValidation represents schema violations on the send path
	// (programmer/input error, non-retryable)
	KindValidation
	// KindMalformedData represents schema violations on the receive path
	// (recovered internally, message dropped, subscription continues)
	KindMalformedData
	// KindUnsupportedConfig represents factory-time configuration rejection
	// (fatal before any resource is opened)
	KindUnsupportedConfig
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindLifecycle:
		return "lifecycle"
	case KindConnection:
		return "connection"
	case KindTransport:
		return "transport"
	case KindValidation:
		return "validation"
	case KindMalformedData:
		return "malformed_data"
	case KindUnsupportedConfig:
		return "unsupported_config"
	default:
		return "unknown"
	}
}

// Standard error variables for common conditions
var (
	// Lifecycle errors
	ErrNotOpen     = errors.New("endpoint not open")
	ErrClosed      = errors.New("endpoint closed")
	ErrAlreadyOpen = errors.New("endpoint already open")

	// Connection errors
	ErrBadAddress          = errors.New("malformed transport address")
	ErrTopologyUnsupported = errors.New("topology mode not supported by transport")
	ErrAddressInUse        = errors.New("address already bound")

	// Validation errors (send path)
	ErrSchemaNotRegistered = errors.New("schema not registered")
	ErrVersionMismatch     = errors.New("schema version mismatch")
	ErrInvalidPayload      = errors.New("payload validation failed")

	// Malformed data errors (receive path)
	ErrMalformedData = errors.New("malformed message data")

	// Configuration errors
	ErrUnknownTransport = errors.New("unknown transport kind")
	ErrUnknownMode      = errors.New("unknown execution mode")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// Classified wraps an error with its classification
type Classified struct {
	Kind      Kind
	Err       error
	Message   string
	Component string
	Operation string
}

// Error implements the error interface
func (ce *Classified) Error() string {
	if ce.Message != "" {
		return ce.Message
	}
	return ce.Err.Error()
}

// Unwrap returns the underlying error
func (ce *Classified) Unwrap() error {
	return ce.Err
}

// KindOf returns the classification of an error. Unclassified errors that
// do not match any sentinel default to KindTransport so that unknown runtime
// failures are reported without terminating the session.
func KindOf(err error) Kind {
	var ce *Classified
	if errors.As(err, &ce) {
		return ce.Kind
	}

	switch {
	case errors.Is(err, ErrNotOpen), errors.Is(err, ErrClosed), errors.Is(err, ErrAlreadyOpen):
		return KindLifecycle
	case errors.Is(err, ErrBadAddress), errors.Is(err, ErrTopologyUnsupported), errors.Is(err, ErrAddressInUse):
		return KindConnection
	case errors.Is(err, ErrSchemaNotRegistered), errors.Is(err, ErrVersionMismatch), errors.Is(err, ErrInvalidPayload):
		return KindValidation
	case errors.Is(err, ErrMalformedData):
		return KindMalformedData
	case errors.Is(err, ErrUnknownTransport), errors.Is(err, ErrUnknownMode), errors.Is(err, ErrInvalidConfig):
		return KindUnsupportedConfig
	}

	return KindTransport
}

// IsLifecycle checks if an error is an invalid state transition
func IsLifecycle(err error) bool {
	return err != nil && KindOf(err) == KindLifecycle
}

// IsConnection checks if an error is an open-time connection failure
func IsConnection(err error) bool {
	return err != nil && KindOf(err) == KindConnection
}

// IsTransport checks if an error is a runtime send/receive failure
func IsTransport(err error) bool {
	return err != nil && KindOf(err) == KindTransport
}

// IsValidation checks if an error is a send-path schema violation
func IsValidation(err error) bool {
	return err != nil && KindOf(err) == KindValidation
}

// IsMalformedData checks if an error is a receive-path data error
func IsMalformedData(err error) bool {
	return err != nil && KindOf(err) == KindMalformedData
}

// IsUnsupportedConfig checks if an error is a factory-time config rejection
func IsUnsupportedConfig(err error) bool {
	return err != nil && KindOf(err) == KindUnsupportedConfig
}

// newClassified creates a new classified error.
// This is an internal helper - use the Wrap* functions instead.
func newClassified(kind Kind, err error, component, operation, message string) *Classified {
	return &Classified{
		Kind:      kind,
		Err:       err,
		Message:   message,
		Component: component,
		Operation: operation,
	}
}

// Wrap creates a standardized error with context following the pattern:
// "component.method: action failed: %w"
func Wrap(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s.%s: %s failed: %w", component, method, action, err)
}

// WrapLifecycle wraps an error as a lifecycle violation with context
func WrapLifecycle(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(KindLifecycle, wrapped, component, method, wrapped.Error())
}

// WrapConnection wraps an error as an open-time connection failure with context
func WrapConnection(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(KindConnection, wrapped, component, method, wrapped.Error())
}

// WrapTransport wraps an error as a runtime transport failure with context
func WrapTransport(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(KindTransport, wrapped, component, method, wrapped.Error())
}

// WrapValidation wraps an error as a send-path schema violation with context
func WrapValidation(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(KindValidation, wrapped, component, method, wrapped.Error())
}

// WrapMalformedData wraps an error as a receive-path data error with context
func WrapMalformedData(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(KindMalformedData, wrapped, component, method, wrapped.Error())
}

// WrapUnsupportedConfig wraps an error as a factory-time config rejection with context
func WrapUnsupportedConfig(err error, component, method, action string) error {
	if err == nil {
		return nil
	}
	wrapped := Wrap(err, component, method, action)
	return newClassified(KindUnsupportedConfig, wrapped, component, method, wrapped.Error())
}
