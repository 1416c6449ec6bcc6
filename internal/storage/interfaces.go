package storage

import (
	"context"

	"github.com/cloudmigrate/drive2blob/internal/models"
)

// ProgressFunc receives upload progress as a percentage in [0,100].
// Values are monotonically non-decreasing; exactly 100 is delivered only
// after a write fully succeeds.
type ProgressFunc func(percent float64)

// FetchResult is the payload produced by a source fetch, with the content
// type the bytes actually have. ResolvedType differs from the requested type
// when a Google-native document was exported.
type FetchResult struct {
	Content      []byte
	ResolvedType string
}

// SourceStore lists and fetches file content from the migration source.
type SourceStore interface {
	// ListFiles returns leaf-file metadata, excluding trashed entries and
	// folders. Fails with ErrAuthRequired when no token is held, or
	// ErrAuthExpired when the store rejects it.
	ListFiles(ctx context.Context) ([]models.RemoteFile, error)

	// FetchContent retrieves one file's bytes. Google-native document types
	// are exported to a universally-readable format instead of fetched raw.
	FetchContent(ctx context.Context, fileID, contentType string) (FetchResult, error)
}

// Listing is a destination listing result. ContainerMissing marks the
// recoverable "collection absent" condition: the caller may offer to create
// the container rather than treating the listing as an error.
type Listing struct {
	Files            []models.RemoteFile
	ContainerMissing bool
}

// DestinationStore lists, creates, and writes objects in the destination
// container.
type DestinationStore interface {
	// ListObjects enumerates the container. A missing container resolves to
	// an empty Listing with ContainerMissing set, not an error.
	ListObjects(ctx context.Context) (Listing, error)

	// CreateContainer creates the container. A duplicate create fails with
	// ErrContainerExists so callers can treat it as informational.
	CreateContainer(ctx context.Context) error

	// WriteObject uploads file.Content under file.Name tagged with
	// file.ContentType, relaying progress through onProgress.
	WriteObject(ctx context.Context, file models.RemoteFile, onProgress ProgressFunc) error
}
