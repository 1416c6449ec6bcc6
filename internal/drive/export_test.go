package drive

import (
	"errors"
	"testing"

	"github.com/cloudmigrate/drive2blob/internal/storage"
)

func TestExportTarget(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"application/vnd.google-apps.document", MIMETypePDF},
		{"application/vnd.google-apps.spreadsheet", MIMETypeOOXMLSheet},
		{"application/vnd.google-apps.presentation", MIMETypePDF},
		{"application/vnd.google-apps.script", MIMETypeJSON},
		// unmapped native subtypes fall back to PDF
		{"application/vnd.google-apps.drawing", MIMETypePDF},
		{"application/vnd.google-apps.jam", MIMETypePDF},
	}

	for _, tt := range tests {
		got, err := ExportTarget(tt.contentType)
		if err != nil {
			t.Errorf("ExportTarget(%q) error = %v, want nil", tt.contentType, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExportTarget(%q) = %q, want %q", tt.contentType, got, tt.want)
		}
	}
}

func TestExportTargetUnsupported(t *testing.T) {
	unsupported := []string{
		"application/vnd.google-apps.folder",
		"application/vnd.google-apps.shortcut",
		"application/vnd.google-apps.form",
		"application/vnd.google-apps.fusiontable",
		"application/vnd.google-apps.map",
		"application/vnd.google-apps.site",
		"application/vnd.google-apps.drive-sdk.123456",
	}

	for _, ct := range unsupported {
		_, err := ExportTarget(ct)
		if !errors.Is(err, storage.ErrUnsupportedExport) {
			t.Errorf("ExportTarget(%q) error = %v, want ErrUnsupportedExport", ct, err)
		}
	}
}
