package cli

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/cloudmigrate/drive2blob/internal/azure"
	"github.com/cloudmigrate/drive2blob/internal/constants"
	"github.com/cloudmigrate/drive2blob/internal/drive"
	"github.com/cloudmigrate/drive2blob/internal/events"
	"github.com/cloudmigrate/drive2blob/internal/progress"
	"github.com/cloudmigrate/drive2blob/internal/storage"
	"github.com/cloudmigrate/drive2blob/internal/summary"
	"github.com/cloudmigrate/drive2blob/internal/transfer"
)

func newMigrateCmd() *cobra.Command {
	var logFile string
	var analyze bool
	var noProgress bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Transfer all Google Drive files to Azure Blob Storage",
		Long: `Lists every file in Google Drive and uploads each one to the
configured Azure Blob container, re-encoding Google-native documents
(Docs, Sheets, Slides, Apps Script) to portable formats on the way.

Files are transferred one at a time. A failed file is recorded and the
run continues with the next one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			source := drive.NewClient(sess, logger)
			dest := azure.NewClient(sess, logger)

			files, err := source.ListFiles(ctx)
			if err != nil {
				return handleSourceError(err)
			}

			bus := events.NewBus(constants.EventBusDefaultBuffer)
			defer bus.Close()

			var wg sync.WaitGroup
			if !noProgress {
				wg.Add(1)
				go func() {
					defer wg.Done()
					renderProgress(bus.SubscribeAll())
				}()
			}

			engine := transfer.NewEngine(source, dest, sess, jnl, bus, logger)
			outcomes, runErr := engine.Run(ctx, files)

			bus.Close()
			wg.Wait()

			if logFile != "" {
				if werr := jnl.WriteFile(logFile); werr != nil {
					logger.Warnf("failed to write operation log: %v", werr)
				} else {
					logger.Infof("operation log written to %s", logFile)
				}
			}

			if analyze {
				analyzer := summary.NewAnalyzer(sess.Drive().APIKey)
				fmt.Println()
				fmt.Println(analyzer.Analyze(ctx, jnl.Entries()))
			}

			if runErr != nil {
				return fmt.Errorf("%s", storage.Describe(runErr))
			}

			for _, out := range outcomes {
				if out.Status == transfer.StatusError {
					logger.Warnf("%s: %s", out.Name, out.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write the operation log as JSON to this path")
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Summarize the run with Gemini when it finishes")
	cmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable per-file progress bars")
	return cmd
}

// renderProgress drives one progress bar per file from the event stream.
// It returns when the bus channel is closed.
func renderProgress(ch <-chan events.Event) {
	var bar *progress.Bar
	for ev := range ch {
		switch e := ev.(type) {
		case *events.ItemEvent:
			switch e.Type() {
			case events.EventItemStarted:
				bar = progress.NewBar(e.Name)
			case events.EventItemProgress:
				if bar != nil {
					bar.Update(e.Progress)
				}
			case events.EventItemCompleted:
				if bar != nil {
					bar.Update(100)
					bar.Finish()
					bar = nil
				}
			case events.EventItemFailed:
				if bar != nil {
					bar.Abandon()
					bar = nil
				}
			}
		case *events.RunEvent:
			if e.Type() == events.EventRunFinished && bar != nil {
				bar.Abandon()
				bar = nil
			}
		}
	}
}
