// Package cli provides the command-line interface for drive2blob.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cloudmigrate/drive2blob/internal/config"
	"github.com/cloudmigrate/drive2blob/internal/journal"
	"github.com/cloudmigrate/drive2blob/internal/logging"
	"github.com/cloudmigrate/drive2blob/internal/session"
	"github.com/cloudmigrate/drive2blob/internal/version"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	// Shared collaborators, initialized in PersistentPreRunE
	logger *logging.Logger
	sess   *session.Session
	jnl    *journal.Journal
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "drive2blob",
		Short: "Migrate files from Google Drive to Azure Blob Storage",
		Long: `drive2blob ` + version.Version + ` - Built: ` + version.BuildTime + `
Copies files from Google Drive to an Azure Blob Storage container.

Google-native documents (Docs, Sheets, Slides) are exported to a portable
format (PDF, XLSX, JSON) during transfer and renamed accordingly.

Typical workflow:
  drive2blob config set-google --client-id ... --api-key ...
  drive2blob config set-azure --account ... --container ... --sas-token ...
  drive2blob login
  drive2blob source ls
  drive2blob dest ls          (offers 'dest create' if the container is missing)
  drive2blob migrate`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = logging.NewDefaultLogger()
			if verbose {
				logging.SetGlobalLevel(zerolog.DebugLevel)
			}

			store, err := config.NewINIStore(cfgFile)
			if err != nil {
				return err
			}
			sess, err = session.New(store)
			if err != nil {
				logger.Warnf("config load failed, starting with empty session: %v", err)
			}
			jnl = journal.New(logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (shows debug messages)")

	rootCmd.Version = version.Version + " (" + version.BuildTime + ")"

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newSourceCmd())
	rootCmd.AddCommand(newDestCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newAnalyzeCmd())

	return rootCmd
}

// Execute runs the CLI with signal-aware context cancellation.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Errorf("%v", err)
		}
		return err
	}
	return nil
}
