package transfer

import (
	"testing"

	"github.com/cloudmigrate/drive2blob/internal/models"
)

func TestItemLifecycle(t *testing.T) {
	item := newItem(models.RemoteFile{ID: "1", Name: "report", ContentType: "application/vnd.google-apps.document"})

	if item.Status() != StatusPending {
		t.Errorf("new item status = %s, want PENDING", item.Status())
	}

	item.start()
	if item.Status() != StatusInProgress {
		t.Errorf("started item status = %s, want IN_PROGRESS", item.Status())
	}
	if item.Progress() != 0 {
		t.Errorf("started item progress = %v, want 0", item.Progress())
	}

	item.complete()
	if item.Status() != StatusCompleted {
		t.Errorf("completed item status = %s, want COMPLETED", item.Status())
	}
	if item.Progress() != 100 {
		t.Errorf("completed item progress = %v, want 100", item.Progress())
	}
}

func TestItemProgressNeverDecreases(t *testing.T) {
	item := newItem(models.RemoteFile{ID: "1", Name: "a.bin"})
	item.start()

	item.setProgress(40)
	item.setProgress(25) // regressions are dropped
	if item.Progress() != 40 {
		t.Errorf("progress = %v after regression, want 40", item.Progress())
	}
	item.setProgress(90)
	if item.Progress() != 90 {
		t.Errorf("progress = %v, want 90", item.Progress())
	}
}

func TestItemFailCarriesMessage(t *testing.T) {
	item := newItem(models.RemoteFile{ID: "1", Name: "a.bin"})
	item.start()
	item.fail("remote fetch failed: status 500")

	if item.Status() != StatusError {
		t.Errorf("failed item status = %s, want ERROR", item.Status())
	}
	if item.Message() != "remote fetch failed: status 500" {
		t.Errorf("message = %q", item.Message())
	}
}

func TestItemAdaptRewritesIdentity(t *testing.T) {
	item := newItem(models.RemoteFile{ID: "1", Name: "B", ContentType: "application/vnd.google-apps.document"})
	item.adapt("B.pdf", "application/pdf", 2048)

	f := item.File()
	if f.Name != "B.pdf" || f.ContentType != "application/pdf" || f.Size != 2048 {
		t.Errorf("adapted file = %+v", f)
	}
	if f.ID != "1" {
		t.Errorf("adapt changed the ID to %q", f.ID)
	}
}

func TestItemFileStripsPayload(t *testing.T) {
	item := newItem(models.RemoteFile{ID: "1", Name: "a.bin", Content: []byte("secret")})
	if item.File().Content != nil {
		t.Error("File() leaked the payload")
	}
}
