package drive

import (
	"fmt"
	"strings"

	"github.com/cloudmigrate/drive2blob/internal/storage"
)

// MIME types involved in export translation.
const (
	MIMETypePDF         = "application/pdf"
	MIMETypeOOXMLSheet  = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMETypeJSON        = "application/json"
	mimeTypeDriveFolder = "application/vnd.google-apps.folder"
)

// exportTargets maps Google-native document types to the format they are
// exported as. Anything native but unmapped falls back to PDF, the
// best-effort default for document-like content.
var exportTargets = map[string]string{
	"application/vnd.google-apps.document":     MIMETypePDF,
	"application/vnd.google-apps.spreadsheet":  MIMETypeOOXMLSheet,
	"application/vnd.google-apps.presentation": MIMETypePDF,
	"application/vnd.google-apps.script":       MIMETypeJSON,
}

// nonExportable lists native types with no byte representation in any
// universally-readable format. These fail instead of falling back.
var nonExportable = map[string]bool{
	mimeTypeDriveFolder:                       true,
	"application/vnd.google-apps.shortcut":    true,
	"application/vnd.google-apps.form":        true,
	"application/vnd.google-apps.fusiontable": true,
	"application/vnd.google-apps.map":         true,
	"application/vnd.google-apps.site":        true,
}

// ExportTarget resolves the export format for a Google-native content type.
// Returns storage.ErrUnsupportedExport for types that cannot be coerced to
// bytes at all (folders, shortcuts, forms, third-party drive-sdk types).
func ExportTarget(contentType string) (string, error) {
	if target, ok := exportTargets[contentType]; ok {
		return target, nil
	}
	if nonExportable[contentType] ||
		strings.HasPrefix(contentType, "application/vnd.google-apps.drive-sdk") {
		return "", fmt.Errorf("%w: no export mapping for %s", storage.ErrUnsupportedExport, contentType)
	}
	// Unmapped native subtype: best-effort PDF export.
	return MIMETypePDF, nil
}
