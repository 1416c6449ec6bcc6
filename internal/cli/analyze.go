package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudmigrate/drive2blob/internal/journal"
	"github.com/cloudmigrate/drive2blob/internal/summary"
)

func newAnalyzeCmd() *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Summarize a saved operation log with Gemini",
		Long: `Reads an operation log written by 'migrate --log-file' and asks
Gemini for a short plain-language summary of the run. Requires the
Google API key from the config; without one a generic summary of the
log counts is printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := journal.ReadFile(logFile)
			if err != nil {
				return fmt.Errorf("failed to read operation log: %w", err)
			}
			analyzer := summary.NewAnalyzer(sess.Drive().APIKey)
			fmt.Println(analyzer.Analyze(cmd.Context(), entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Path to the operation log JSON")
	_ = cmd.MarkFlagRequired("log-file")
	return cmd
}
