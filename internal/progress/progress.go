// Package progress renders per-item transfer progress in the terminal.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
)

// Bar wraps a percent-scaled progress bar for one transfer item.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar creates a 0-100 bar labeled with the file name.
func NewBar(description string) *Bar {
	return &Bar{
		bar: progressbar.NewOptions64(100,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetWidth(40),
			progressbar.OptionThrottle(100),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprint(os.Stderr, "\n")
			}),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionSetRenderBlankState(true),
		),
	}
}

// Update moves the bar to a percentage in [0,100].
func (b *Bar) Update(percent float64) {
	if b.bar != nil {
		_ = b.bar.Set64(int64(percent))
	}
}

// Finish completes the bar.
func (b *Bar) Finish() {
	if b.bar != nil {
		_ = b.bar.Finish()
	}
}

// Abandon stops the bar without filling it, leaving the failure visible.
func (b *Bar) Abandon() {
	if b.bar != nil {
		_ = b.bar.Exit()
		fmt.Fprint(os.Stderr, "\n")
	}
}
