package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudmigrate/drive2blob/internal/models"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View and edit stored settings",
	}
	cmd.AddCommand(newConfigShowCmd(), newConfigSetGoogleCmd(), newConfigSetAzureCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current settings with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := sess.Snapshot()
			fmt.Println("[google]")
			fmt.Printf("client_id    = %s\n", snap.Drive.ClientID)
			fmt.Printf("api_key      = %s\n", mask(snap.Drive.APIKey))
			fmt.Printf("access_token = %s\n", mask(snap.Drive.AccessToken))
			fmt.Println()
			fmt.Println("[azure]")
			fmt.Printf("account_name   = %s\n", snap.Azure.AccountName)
			fmt.Printf("container_name = %s\n", snap.Azure.ContainerName)
			fmt.Printf("sas_token      = %s\n", mask(snap.Azure.SASToken))
			fmt.Println()
			fmt.Println("[session]")
			fmt.Printf("remember_token = %t\n", snap.RememberToken)
			return nil
		},
	}
}

func newConfigSetGoogleCmd() *cobra.Command {
	var clientID, apiKey string

	cmd := &cobra.Command{
		Use:   "set-google",
		Short: "Store the Google application credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID == "" && apiKey == "" {
				return fmt.Errorf("nothing to set; pass --client-id and/or --api-key")
			}
			cur := sess.Drive()
			if clientID == "" {
				clientID = cur.ClientID
			}
			if apiKey == "" {
				apiKey = cur.APIKey
			}
			if err := sess.SetDriveApp(clientID, apiKey); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			logger.Infof("Google application credentials saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "API key used for Drive listing and Gemini")
	return cmd
}

func newConfigSetAzureCmd() *cobra.Command {
	var account, container, sasToken string

	cmd := &cobra.Command{
		Use:   "set-azure",
		Short: "Store the Azure Blob destination settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if account == "" || container == "" || sasToken == "" {
				return fmt.Errorf("--account, --container and --sas-token are all required")
			}
			if err := sess.SetAzure(models.AzureConfig{
				AccountName:   account,
				ContainerName: container,
				SASToken:      sasToken,
			}); err != nil {
				return fmt.Errorf("failed to save settings: %w", err)
			}
			logger.Infof("Azure destination saved: account %q, container %q", account, container)
			return nil
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Storage account name")
	cmd.Flags().StringVar(&container, "container", "", "Blob container name")
	cmd.Flags().StringVar(&sasToken, "sas-token", "", "SAS token with read/write/list/create permissions")
	return cmd
}

func mask(s string) string {
	if s == "" {
		return "(unset)"
	}
	if len(s) <= 8 {
		return "********"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
