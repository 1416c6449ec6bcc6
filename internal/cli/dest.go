package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cloudmigrate/drive2blob/internal/azure"
	"github.com/cloudmigrate/drive2blob/internal/storage"
)

func newDestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dest",
		Short: "Inspect and manage the Azure Blob destination",
	}
	cmd.AddCommand(newDestListCmd(), newDestCreateCmd())
	return cmd
}

func newDestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List blobs in the destination container",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := azure.NewClient(sess, logger)
			listing, err := client.ListObjects(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s", storage.Describe(err))
			}
			if listing.ContainerMissing {
				logger.Warnf("container %q does not exist yet; run 'drive2blob dest create' to create it",
					sess.Azure().ContainerName)
				return nil
			}
			if len(listing.Files) == 0 {
				logger.Infof("container is empty")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSIZE\tTYPE\tMODIFIED")
			for _, f := range listing.Files {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", f.Name, f.Size, f.ContentType, f.LastModified)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			logger.Infof("%d blob(s) in container %q", len(listing.Files), sess.Azure().ContainerName)
			return nil
		},
	}
}

func newDestCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Create the destination container",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := azure.NewClient(sess, logger)
			err := client.CreateContainer(cmd.Context())
			if errors.Is(err, storage.ErrContainerExists) {
				// Not a failure; the destination is usable as-is.
				logger.Infof("container %q already exists", sess.Azure().ContainerName)
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s", storage.Describe(err))
			}
			logger.Infof("container %q created", sess.Azure().ContainerName)
			return nil
		},
	}
}
