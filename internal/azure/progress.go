package azure

import (
	"bytes"
	"io"

	"github.com/cloudmigrate/drive2blob/internal/storage"
)

// uploadProgressCeiling caps reader-driven progress. Bytes handed to the
// transport are not yet acknowledged by the store, so 100 is reserved for
// the moment the upload call returns success.
const uploadProgressCeiling = 99.5

// progressReader wraps an in-memory payload as an io.ReadSeekCloser and
// reports percent progress as the transport consumes it. Emitted values are
// monotonically non-decreasing even if the SDK's retry policy rewinds the
// reader.
type progressReader struct {
	r          *bytes.Reader
	total      int64
	read       int64
	maxEmitted float64
	onProgress storage.ProgressFunc
}

func newProgressReader(r *bytes.Reader, total int64, onProgress storage.ProgressFunc) *progressReader {
	return &progressReader{r: r, total: total, onProgress: onProgress}
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.read += int64(n)
		p.emit()
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.r.Seek(offset, whence)
	if err == nil {
		p.read = pos
	}
	return pos, err
}

func (p *progressReader) Close() error { return nil }

func (p *progressReader) emit() {
	if p.onProgress == nil || p.total <= 0 {
		return
	}
	pct := float64(p.read) / float64(p.total) * 100
	if pct > uploadProgressCeiling {
		pct = uploadProgressCeiling
	}
	if pct > p.maxEmitted {
		p.maxEmitted = pct
		p.onProgress(pct)
	}
}

var _ io.ReadSeekCloser = (*progressReader)(nil)
