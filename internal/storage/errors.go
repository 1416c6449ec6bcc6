// Package storage defines the contracts shared by the source and destination
// store adapters, plus the error taxonomy the transfer engine keys its
// behavior on. The classification granularity here is a contract: the CLI's
// recoverable affordances (create-container prompt, CORS guidance) are
// triggered by these kinds, not by message matching.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy. Adapter failures are always one of these sentinels,
// usually wrapped with status/context via %w.
var (
	// ErrAuthRequired means no credential was present when one was needed.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired means a store rejected the credential (401/403). The
	// engine clears the stored credential when it sees this.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrContainerNotFound means the destination container is absent.
	// Recoverable at listing level; fatal for a single write inside a run.
	ErrContainerNotFound = errors.New("container not found")

	// ErrContainerExists means a create hit an existing container.
	// Informational, non-blocking.
	ErrContainerExists = errors.New("container already exists")

	// ErrTransportBlocked means no response reached us at all (network or
	// cross-origin failure), as opposed to a remote rejection.
	ErrTransportBlocked = errors.New("transport blocked")

	// ErrUnsupportedExport means a Google-native type has no export mapping.
	ErrUnsupportedExport = errors.New("unsupported export")

	// Generic non-2xx failures per operation.
	ErrListingFailed = errors.New("remote listing failed")
	ErrFetchFailed   = errors.New("remote fetch failed")
	ErrWriteFailed   = errors.New("remote write failed")

	// Run preconditions.
	ErrNoSourceFiles            = errors.New("no source files to migrate")
	ErrDestinationNotConfigured = errors.New("destination not configured")
)

// StatusError wraps a remote non-2xx response with its status code and the
// remote-provided description, attached to one of the taxonomy sentinels.
type StatusError struct {
	Kind    error // taxonomy sentinel
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", e.Kind, e.Status)
	}
	return fmt.Sprintf("%v: status %d: %s", e.Kind, e.Status, e.Message)
}

func (e *StatusError) Unwrap() error { return e.Kind }

// NewStatusError builds a StatusError for a sentinel kind.
func NewStatusError(kind error, status int, message string) *StatusError {
	return &StatusError{Kind: kind, Status: status, Message: message}
}

// IsAuthStatus reports whether an HTTP status indicates a rejected credential.
func IsAuthStatus(status int) bool {
	return status == 401 || status == 403
}

// IsTransportError reports whether an error happened before any response was
// received. String matching mirrors what the net stack actually produces;
// there is no reliable typed signal across transports.
func IsTransportError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	indicators := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"tls handshake",
		"broken pipe",
		"eof",
		"context deadline exceeded",
	}
	for _, ind := range indicators {
		if strings.Contains(errStr, ind) {
			return true
		}
	}
	return false
}

// Describe normalizes any adapter failure into the human-readable form used
// for TransferItem.Message and log lines. Transport failures carry explicit
// guidance distinguishing them from a normal remote rejection.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTransportBlocked):
		return "network transport blocked: no response received (check connectivity and the storage account's CORS rules)"
	case errors.Is(err, ErrAuthExpired):
		return "credential rejected by the remote store; re-authenticate and run again"
	case errors.Is(err, ErrAuthRequired):
		return "no credential available; authenticate first"
	case errors.Is(err, ErrContainerNotFound):
		return "destination container does not exist; create it and retry"
	case errors.Is(err, ErrUnsupportedExport):
		return err.Error()
	default:
		return err.Error()
	}
}
