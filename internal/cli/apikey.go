package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go-barcode-generator/internal/middleware"
)

// APIKeyCmd produces the bcrypt hash the server checks X-API-Key against.
func APIKeyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage the HTTP API key",
	}

	hash := &cobra.Command{
		Use:   "hash [key]",
		Short: "Print the bcrypt hash of key (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read key: %w", err)
				}
				key = strings.TrimRight(line, "\r\n")
			}
			if key == "" {
				return errors.New("api key must not be empty")
			}

			hashed, err := middleware.HashAPIKey(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s store it as auth.api_key_hash in %s or in API_KEY_HASH\n", okMark, app.ConfigPath)
			return nil
		},
	}

	cmd.AddCommand(hash)
	return cmd
}
