package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// newLoginCmd stores a Google Drive access token in the session.
// The token comes from an external consent flow (OAuth playground, gcloud,
// or a browser flow) and is pasted here; the engine never cares which path
// produced it.
func newLoginCmd() *cobra.Command {
	var remember bool
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a Google Drive access token for this session",
		Long: `Stores an OAuth 2.0 bearer token with drive.readonly scope.

The token is read from --token, or prompted for interactively (input is
hidden on a terminal). Tokens are short-lived; by default they are kept
in memory/config only for the current run unless --remember is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if token == "" {
				var err error
				token, err = promptToken()
				if err != nil {
					return err
				}
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("no token provided")
			}
			if err := sess.SetDriveToken(token, remember); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}
			if remember {
				logger.Infof("access token stored and persisted")
			} else {
				logger.Infof("access token stored for this session")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Access token (prompted when omitted)")
	cmd.Flags().BoolVar(&remember, "remember", false, "Persist the token to the config file")
	return cmd
}

func promptToken() (string, error) {
	fmt.Fprint(os.Stderr, "Paste Google Drive access token: ")
	if term.IsTerminal(int(os.Stdin.Fd())) {
		b, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return string(b), nil
	}
	// Piped input (scripts, tests)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return line, nil
}
