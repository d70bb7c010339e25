package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration marks a missing or invalid credential. Fatal for any
	// gateway-dependent action; retrying cannot fix it.
	ErrConfiguration = errors.New("configuration error")
	// ErrMalformedResponse marks a gateway reply that did not parse as the
	// expected structure. Retryable by resubmission.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrTransient marks connectivity, quota, or timeout failures. Retryable.
	ErrTransient = errors.New("transient failure")
	// ErrDeviceUnavailable marks a denied or missing camera device.
	ErrDeviceUnavailable = errors.New("device unavailable")
	// ErrNoActiveStream marks a frame capture attempted before acquire.
	ErrNoActiveStream = errors.New("no active stream")
	// ErrInvalidImport marks an imported snapshot missing required content.
	ErrInvalidImport = errors.New("invalid import")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRetryable reports whether resubmitting the same request can succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrMalformedResponse)
}

// IsFatalConfig reports whether the failure requires fixing configuration
// rather than retrying.
func IsFatalConfig(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
