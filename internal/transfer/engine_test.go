package transfer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudmigrate/drive2blob/internal/events"
	"github.com/cloudmigrate/drive2blob/internal/journal"
	"github.com/cloudmigrate/drive2blob/internal/models"
	"github.com/cloudmigrate/drive2blob/internal/session"
	"github.com/cloudmigrate/drive2blob/internal/storage"
)

type fakeSource struct {
	fetches int
	fetch   func(fileID, contentType string) (storage.FetchResult, error)
}

func (s *fakeSource) ListFiles(ctx context.Context) ([]models.RemoteFile, error) {
	return nil, nil
}

func (s *fakeSource) FetchContent(ctx context.Context, fileID, contentType string) (storage.FetchResult, error) {
	s.fetches++
	return s.fetch(fileID, contentType)
}

type fakeDest struct {
	writes   []models.RemoteFile
	writeErr func(name string) error
	lists    int
	listing  storage.Listing
	listErr  error
}

func (d *fakeDest) ListObjects(ctx context.Context) (storage.Listing, error) {
	d.lists++
	return d.listing, d.listErr
}

func (d *fakeDest) CreateContainer(ctx context.Context) error { return nil }

func (d *fakeDest) WriteObject(ctx context.Context, file models.RemoteFile, onProgress storage.ProgressFunc) error {
	if d.writeErr != nil {
		if err := d.writeErr(file.Name); err != nil {
			return err
		}
	}
	d.writes = append(d.writes, file)
	if onProgress != nil {
		onProgress(30)
		onProgress(80)
		onProgress(100)
	}
	return nil
}

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(nil)
	if err != nil {
		t.Fatalf("session.New() error = %v", err)
	}
	if err := sess.SetDriveToken("test-token", false); err != nil {
		t.Fatalf("SetDriveToken() error = %v", err)
	}
	if err := sess.SetAzure(models.AzureConfig{
		AccountName:   "testacct",
		ContainerName: "migrated",
		SASToken:      "sv=test&sig=abc",
	}); err != nil {
		t.Fatalf("SetAzure() error = %v", err)
	}
	return sess
}

func rawFetch(fileID, contentType string) (storage.FetchResult, error) {
	return storage.FetchResult{Content: []byte("content-" + fileID), ResolvedType: contentType}, nil
}

func plainFiles(names ...string) []models.RemoteFile {
	files := make([]models.RemoteFile, len(names))
	for i, n := range names {
		files[i] = models.RemoteFile{ID: "id-" + n, Name: n, Size: 10, ContentType: "text/plain"}
	}
	return files
}

func TestRunPreconditions(t *testing.T) {
	source := &fakeSource{fetch: rawFetch}
	dest := &fakeDest{}

	t.Run("empty listing", func(t *testing.T) {
		sess := newTestSession(t)
		engine := NewEngine(source, dest, sess, nil, nil, nil)
		_, err := engine.Run(context.Background(), nil)
		if !errors.Is(err, storage.ErrNoSourceFiles) {
			t.Errorf("Run() error = %v, want ErrNoSourceFiles", err)
		}
	})

	t.Run("destination not configured", func(t *testing.T) {
		sess, _ := session.New(nil)
		_ = sess.SetDriveToken("tok", false)
		engine := NewEngine(source, dest, sess, nil, nil, nil)
		_, err := engine.Run(context.Background(), plainFiles("a.txt"))
		if !errors.Is(err, storage.ErrDestinationNotConfigured) {
			t.Errorf("Run() error = %v, want ErrDestinationNotConfigured", err)
		}
	})

	t.Run("no token", func(t *testing.T) {
		sess := newTestSession(t)
		_ = sess.ClearDriveToken()
		engine := NewEngine(source, dest, sess, nil, nil, nil)
		_, err := engine.Run(context.Background(), plainFiles("a.txt"))
		if !errors.Is(err, storage.ErrAuthRequired) {
			t.Errorf("Run() error = %v, want ErrAuthRequired", err)
		}
	})

	t.Run("run already in progress", func(t *testing.T) {
		sess := newTestSession(t)
		engine := NewEngine(source, dest, sess, nil, nil, nil)
		engine.running.Store(true)
		_, err := engine.Run(context.Background(), plainFiles("a.txt"))
		if !errors.Is(err, ErrRunInProgress) {
			t.Errorf("Run() error = %v, want ErrRunInProgress", err)
		}
	})
}

// TestRunOneOutcomePerFile verifies the fixed-queue contract: each listed
// file ends in exactly one terminal state, no more, no fewer, in listing
// order, regardless of per-item failures.
func TestRunOneOutcomePerFile(t *testing.T) {
	source := &fakeSource{fetch: func(fileID, contentType string) (storage.FetchResult, error) {
		if fileID == "id-bad.bin" {
			return storage.FetchResult{}, storage.ErrFetchFailed
		}
		return rawFetch(fileID, contentType)
	}}
	dest := &fakeDest{}
	engine := NewEngine(source, dest, newTestSession(t), nil, nil, nil)

	files := plainFiles("a.txt", "bad.bin", "c.txt", "d.txt", "e.txt")
	outcomes, err := engine.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if len(outcomes) != len(files) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(files))
	}
	for i, out := range outcomes {
		if out.Status != StatusCompleted && out.Status != StatusError {
			t.Errorf("outcome[%d] status = %s, want terminal state", i, out.Status)
		}
	}
	if outcomes[1].Status != StatusError {
		t.Errorf("outcome[1] status = %s, want ERROR", outcomes[1].Status)
	}
	if outcomes[0].Name != "a.txt" || outcomes[4].Name != "e.txt" {
		t.Errorf("outcomes not in listing order: %v", outcomes)
	}
}

// TestRunContinuesAfterWriteFailure covers a mid-queue destination failure:
// the failed item is recorded, its neighbors complete, and the end-of-run
// destination refresh still happens.
func TestRunContinuesAfterWriteFailure(t *testing.T) {
	source := &fakeSource{fetch: rawFetch}
	dest := &fakeDest{writeErr: func(name string) error {
		if name == "b.txt" {
			return storage.ErrTransportBlocked
		}
		return nil
	}}
	jnl := journal.New(nil)
	engine := NewEngine(source, dest, newTestSession(t), jnl, nil, nil)

	outcomes, err := engine.Run(context.Background(), plainFiles("a.txt", "b.txt", "c.txt"))
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	if outcomes[0].Status != StatusCompleted {
		t.Errorf("a.txt status = %s, want COMPLETED", outcomes[0].Status)
	}
	if outcomes[1].Status != StatusError {
		t.Errorf("b.txt status = %s, want ERROR", outcomes[1].Status)
	}
	if !strings.Contains(outcomes[1].Message, "transport blocked") {
		t.Errorf("b.txt message = %q, want transport guidance", outcomes[1].Message)
	}
	if outcomes[2].Status != StatusCompleted {
		t.Errorf("c.txt status = %s, want COMPLETED", outcomes[2].Status)
	}
	if len(dest.writes) != 2 {
		t.Errorf("got %d destination writes, want 2", len(dest.writes))
	}
	if dest.lists != 1 {
		t.Errorf("destination listed %d times, want 1 end-of-run refresh", dest.lists)
	}
}

// TestRunRenamesExportedDocument is the end-to-end shape of a mixed run:
// a Google-native document comes back as PDF and its bare name gains the
// extension, while raw files pass through untouched.
func TestRunRenamesExportedDocument(t *testing.T) {
	source := &fakeSource{fetch: func(fileID, contentType string) (storage.FetchResult, error) {
		if contentType == "application/vnd.google-apps.document" {
			return storage.FetchResult{Content: []byte("%PDF-1.4"), ResolvedType: "application/pdf"}, nil
		}
		return rawFetch(fileID, contentType)
	}}
	dest := &fakeDest{}
	jnl := journal.New(nil)
	engine := NewEngine(source, dest, newTestSession(t), jnl, nil, nil)

	files := []models.RemoteFile{
		{ID: "1", Name: "A.txt", Size: 5, ContentType: "text/plain"},
		{ID: "2", Name: "B", ContentType: "application/vnd.google-apps.document"},
		{ID: "3", Name: "C.jpg", Size: 9, ContentType: "image/jpeg"},
	}
	outcomes, err := engine.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}

	if outcomes[1].Name != "B.pdf" {
		t.Errorf("exported doc name = %q, want %q", outcomes[1].Name, "B.pdf")
	}
	if outcomes[0].Name != "A.txt" || outcomes[2].Name != "C.jpg" {
		t.Errorf("raw file names changed: %q, %q", outcomes[0].Name, outcomes[2].Name)
	}
	for i, out := range outcomes {
		if out.Status != StatusCompleted {
			t.Errorf("outcome[%d] status = %s, want COMPLETED", i, out.Status)
		}
	}
	if dest.writes[1].ContentType != "application/pdf" {
		t.Errorf("written content type = %q, want application/pdf", dest.writes[1].ContentType)
	}

	var info, success int
	for _, e := range jnl.Entries() {
		switch e.Level {
		case journal.LevelSuccess:
			success++
		case journal.LevelInfo:
			info++
		}
	}
	if success != 3 {
		t.Errorf("journal has %d SUCCESS entries, want 3", success)
	}
	// run start, run finish, 3 per-item "processing", 1 rename, 1 refresh
	if info != 7 {
		t.Errorf("journal has %d INFO entries, want 7", info)
	}
}

// TestRunClearsExpiredCredential verifies the expiry contract: an expired
// token fails the current item, clears the stored credential, and makes the
// next run fail its precondition without any network call.
func TestRunClearsExpiredCredential(t *testing.T) {
	source := &fakeSource{fetch: func(fileID, contentType string) (storage.FetchResult, error) {
		return storage.FetchResult{}, storage.NewStatusError(storage.ErrAuthExpired, 401, "Invalid Credentials")
	}}
	dest := &fakeDest{}
	sess := newTestSession(t)
	jnl := journal.New(nil)
	engine := NewEngine(source, dest, sess, jnl, nil, nil)

	outcomes, err := engine.Run(context.Background(), plainFiles("a.txt", "b.txt"))
	if err != nil {
		t.Fatalf("Run() error = %v, want nil (expiry is an item failure, not a run failure)", err)
	}
	for i, out := range outcomes {
		if out.Status != StatusError {
			t.Errorf("outcome[%d] status = %s, want ERROR", i, out.Status)
		}
	}
	if sess.Drive().HasToken() {
		t.Error("token still present after expiry, want cleared")
	}

	fetchesBefore := source.fetches
	_, err = engine.Run(context.Background(), plainFiles("a.txt"))
	if !errors.Is(err, storage.ErrAuthRequired) {
		t.Errorf("second Run() error = %v, want ErrAuthRequired", err)
	}
	if source.fetches != fetchesBefore {
		t.Error("second run reached the source despite missing token")
	}

	var warned bool
	for _, e := range jnl.Entries() {
		if e.Level == journal.LevelWarning && strings.Contains(e.Message, "expired") {
			warned = true
		}
	}
	if !warned {
		t.Error("journal has no WARNING about the cleared credential")
	}
}

// TestRunProgressMonotonic watches the event stream for one upload and
// requires per-item progress to never decrease, with 100 observed only once
// the item completes.
func TestRunProgressMonotonic(t *testing.T) {
	source := &fakeSource{fetch: rawFetch}
	dest := &fakeDest{}
	bus := events.NewBus(64)
	engine := NewEngine(source, dest, newTestSession(t), nil, bus, nil)

	ch := bus.SubscribeAll()
	outcomes, err := engine.Run(context.Background(), plainFiles("a.txt"))
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	bus.Close()

	last := -1.0
	var sawHundred bool
	var completed bool
	for ev := range ch {
		ie, ok := ev.(*events.ItemEvent)
		if !ok {
			continue
		}
		switch ie.Type() {
		case events.EventItemProgress:
			if completed {
				t.Error("progress event after completion")
			}
			if ie.Progress < last {
				t.Errorf("progress regressed: %v after %v", ie.Progress, last)
			}
			last = ie.Progress
			if ie.Progress == 100 {
				sawHundred = true
			}
		case events.EventItemCompleted:
			completed = true
		}
	}
	if !completed {
		t.Fatal("no completion event observed")
	}
	if !sawHundred {
		t.Error("progress never reached 100 for a successful upload")
	}
	if outcomes[0].Status != StatusCompleted {
		t.Errorf("outcome status = %s, want COMPLETED", outcomes[0].Status)
	}
}

// TestRunWarnsOnRejectedDestinationToken: an expired SAS token on a write
// fails the item and warns the operator. The destination descriptor is kept
// (there is no separately clearable credential on that side) and the queue
// keeps draining.
func TestRunWarnsOnRejectedDestinationToken(t *testing.T) {
	source := &fakeSource{fetch: rawFetch}
	dest := &fakeDest{writeErr: func(name string) error {
		if name == "a.txt" {
			return storage.NewStatusError(storage.ErrAuthExpired, 403, "AuthenticationFailed")
		}
		return nil
	}}
	sess := newTestSession(t)
	jnl := journal.New(nil)
	engine := NewEngine(source, dest, sess, jnl, nil, nil)

	outcomes, err := engine.Run(context.Background(), plainFiles("a.txt", "b.txt"))
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if outcomes[0].Status != StatusError {
		t.Errorf("a.txt status = %s, want ERROR", outcomes[0].Status)
	}
	if outcomes[1].Status != StatusCompleted {
		t.Errorf("b.txt status = %s, want COMPLETED", outcomes[1].Status)
	}

	if !sess.Azure().Configured() {
		t.Error("destination descriptor cleared by a rejected token")
	}
	if !sess.Drive().HasToken() {
		t.Error("source token cleared by a destination-side rejection")
	}

	var warned bool
	for _, e := range jnl.Entries() {
		if e.Level == journal.LevelWarning && strings.Contains(e.Message, "SAS token") {
			warned = true
		}
	}
	if !warned {
		t.Error("journal has no WARNING about the rejected access token")
	}
}

// TestRunRefreshFlagsMissingContainer: a missing container at the end-of-run
// re-list is a recoverable annotation, not an error. The run still succeeds
// and the condition surfaces as a refresh event plus a journal warning.
func TestRunRefreshFlagsMissingContainer(t *testing.T) {
	source := &fakeSource{fetch: rawFetch}
	dest := &fakeDest{listing: storage.Listing{ContainerMissing: true}}
	bus := events.NewBus(16)
	jnl := journal.New(nil)
	engine := NewEngine(source, dest, newTestSession(t), jnl, bus, nil)

	ch := bus.Subscribe(events.EventDestRefreshed)
	outcomes, err := engine.Run(context.Background(), plainFiles("a.txt"))
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	bus.Close()

	if outcomes[0].Status != StatusCompleted {
		t.Errorf("outcome status = %s, want COMPLETED", outcomes[0].Status)
	}

	var refresh *events.RefreshEvent
	for ev := range ch {
		refresh, _ = ev.(*events.RefreshEvent)
	}
	if refresh == nil {
		t.Fatal("no refresh event published")
	}
	if !refresh.ContainerMissing {
		t.Error("refresh event not annotated ContainerMissing")
	}
	if refresh.Err != nil {
		t.Errorf("refresh event carries error %v, missing container is not an error", refresh.Err)
	}

	var warned bool
	for _, e := range jnl.Entries() {
		if e.Level == journal.LevelWarning && strings.Contains(e.Message, "container is missing") {
			warned = true
		}
	}
	if !warned {
		t.Error("journal has no WARNING about the missing container")
	}
}

// TestRunCancelledContextDrainsQueue: cancellation must not shrink the
// outcome set. Remaining items fail in place with no network calls.
func TestRunCancelledContextDrainsQueue(t *testing.T) {
	source := &fakeSource{fetch: rawFetch}
	dest := &fakeDest{}
	engine := NewEngine(source, dest, newTestSession(t), nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcomes, err := engine.Run(ctx, plainFiles("a.txt", "b.txt", "c.txt"))
	if err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3", len(outcomes))
	}
	for i, out := range outcomes {
		if out.Status != StatusError {
			t.Errorf("outcome[%d] status = %s, want ERROR", i, out.Status)
		}
		if !strings.Contains(out.Message, "run cancelled") {
			t.Errorf("outcome[%d] message = %q, want cancellation notice", i, out.Message)
		}
	}
	if source.fetches != 0 {
		t.Errorf("source fetched %d times under cancelled context, want 0", source.fetches)
	}
}
