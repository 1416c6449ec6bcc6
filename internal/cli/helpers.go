package cli

import (
	"errors"

	"github.com/cloudmigrate/drive2blob/internal/storage"
)

// handleSourceError normalizes a source listing/fetch failure that happens
// outside a migration run. An expired credential is cleared here so the next
// command fails fast asking for re-authentication instead of re-hitting the
// network with a stale token; inside a run the engine owns this reaction.
func handleSourceError(err error) error {
	if errors.Is(err, storage.ErrAuthExpired) {
		if cerr := sess.ClearDriveToken(); cerr != nil && logger != nil {
			logger.Warnf("failed to clear expired token: %v", cerr)
		}
		jnl.Warning("Google Drive token expired; cleared stored credential")
	}
	return errors.New(storage.Describe(err))
}
