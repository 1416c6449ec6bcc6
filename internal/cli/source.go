package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudmigrate/drive2blob/internal/drive"
	"github.com/cloudmigrate/drive2blob/internal/storage"
)

func newSourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Inspect the Google Drive source",
	}
	cmd.AddCommand(newSourceListCmd())
	return cmd
}

func newSourceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List files available for migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !sess.Drive().HasToken() {
				return storage.ErrAuthRequired
			}

			client := drive.NewClient(sess, logger)
			files, err := client.ListFiles(cmd.Context())
			if err != nil {
				return handleSourceError(err)
			}
			if len(files) == 0 {
				logger.Infof("no files found in Google Drive")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tTYPE\tMODIFIED")
			for _, f := range files {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.Name, f.Size, f.ContentType, f.LastModified)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			logger.Infof("%d file(s) in Google Drive", len(files))
			return nil
		},
	}
}
