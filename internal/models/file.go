package models

// RemoteFile represents one object on either store (Drive file or Azure blob).
type RemoteFile struct {
	// ID is the store-scoped stable identifier. For Azure blobs the blob name
	// doubles as the identifier.
	ID string `json:"id"`

	// Name is the display and destination name. It may be rewritten during a
	// transfer when an exported Google-native document needs an extension
	// appended for its resolved content type.
	Name string `json:"name"`

	// Size is the byte length. 0 is a valid "unknown" sentinel: Google-native
	// documents report no size before export.
	Size int64 `json:"size"`

	// ContentType is the MIME type. For Google-native documents this is the
	// native type (application/vnd.google-apps.*), not the exported one.
	ContentType string `json:"contentType"`

	// LastModified is the store-native timestamp string, display-only.
	LastModified string `json:"lastModified"`

	// Content is the in-memory payload, populated only on a per-transfer copy
	// immediately before the destination write. Listing entries never carry it.
	Content []byte `json:"-"`
}

// WithContent returns a copy of the file carrying the given payload.
// The receiver is left untouched so canonical listing entries stay
// payload-free.
func (f RemoteFile) WithContent(content []byte) RemoteFile {
	c := f
	c.Content = content
	return c
}

// IsGoogleNative reports whether the file is a Google-native document format
// that has no raw byte form and must be exported before transfer.
func (f RemoteFile) IsGoogleNative() bool {
	return IsGoogleNativeType(f.ContentType)
}

const googleNativePrefix = "application/vnd.google-apps"

// IsGoogleNativeType reports whether a MIME type is a Google-native
// document type.
func IsGoogleNativeType(contentType string) bool {
	return len(contentType) >= len(googleNativePrefix) &&
		contentType[:len(googleNativePrefix)] == googleNativePrefix
}
