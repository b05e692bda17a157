package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the configured endpoint and session state",
	Long: `Show the configured endpoint and session state. The command
establishes the connection and, when credentials are stored, runs the
login handshake, so it doubles as a connectivity check.

Examples:
  # Check the connection
  pair status

  # Check the connection in JSON format
  pair status -j`,
	RunE: getStatus,
}

// getStatus handles retrieving the connection and session state
func getStatus(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		if jsonOutput {
			kv := map[string]string{
				"version_cli": getCLIVersion(),
				"error":       err.Error(),
			}
			printJSON(kv)
		} else {
			fmt.Printf("pair CLI %s\n", getCLIVersion())
			fmt.Println("Error: " + err.Error())
		}
		return ErrAlreadyHandled
	}

	if err := client.EnsureSession(cmd.Context()); err != nil {
		if jsonOutput {
			kv := map[string]string{
				"version_cli": getCLIVersion(),
				"error":       "Unable to connect to server: " + err.Error(),
			}
			printJSON(kv)
		} else {
			fmt.Printf("pair CLI %s\n", getCLIVersion())
			fmt.Println("Error: Unable to connect to server: " + err.Error())
		}
		return ErrAlreadyHandled
	}

	authenticated := client.Authenticated()
	expiry := client.TokenExpiry()

	if jsonOutput {
		value := map[string]any{
			"endpoint":      client.Endpoint(),
			"authenticated": authenticated,
		}
		if !expiry.IsZero() {
			value["token_expiry"] = expiry.Format(time.RFC3339)
		}
		output := map[string]any{
			"result":      1,
			"version_cli": getCLIVersion(),
			"value":       value,
		}

		jsonBytes, err := json.MarshalIndent(output, "", "    ")
		if err != nil {
			return fmt.Errorf("failed to format JSON output: %v", err)
		}
		fmt.Println(string(jsonBytes))
	} else {
		fmt.Printf("pair CLI %s\n", getCLIVersion())
		fmt.Printf("Endpoint: %s\n", client.Endpoint())
		if authenticated {
			okLabel.Println("Authenticated")
			if !expiry.IsZero() {
				// Show the expiry in local time
				fmt.Printf("Token expires at: %s\n", expiry.Local().Format("2006-01-02 15:04:05 MST"))
			}
		} else {
			fmt.Println("Not authenticated. Run \"pair login\" to authenticate.")
		}
	}

	return nil
}

// init initializes the status command and adds it to the root command
func init() {
	rootCmd.AddCommand(statusCmd)
}
