package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the DQM server",
		Long: `Login to the DQM server and store the session token in your
configuration file. Subsequent commands resume the token until it expires.

The email and password resolve in order from the flags, the DQM_EMAIL and
DQM_PASSWORD environment variables, and the config file. When no password
is found anywhere the command prompts for one without echo.

Example:
  pair login --email you@example.com
  pair login  # uses credentials from the environment or config file`,
		RunE: runLogin,
	}

	cmd.Flags().String("email", "", "Email address for authentication")
	cmd.Flags().String("password", "", "Password for authentication")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		email = os.Getenv("DQM_EMAIL")
	}
	if email == "" {
		email = cfg.Email
	}
	if email == "" {
		return errors.New("no email provided. Use --email or set email in the config file")
	}

	password, _ := cmd.Flags().GetString("password")
	if password == "" {
		password = os.Getenv("DQM_PASSWORD")
	}
	if password == "" {
		password = cfg.Password
	}
	if password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		pw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("could not read password: %w", err)
		}
		password = string(pw)
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ok, err := client.LoginAs(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if !ok {
		return errors.New("login rejected: the server returned no token")
	}

	cfg.Email = email
	cfg.Password = password
	cfg.Token = client.Token()
	cfg.TokenExpiry = ""
	if exp := client.TokenExpiry(); !exp.IsZero() {
		cfg.TokenExpiry = exp.Format(time.RFC3339)
	}
	if cfg.GraphQLEndpoint == "" {
		cfg.GraphQLEndpoint = client.Endpoint()
	}
	if cfg.Version == "" {
		cfg.Version = configVersion
	}

	// Save updated configuration
	if err := cfg.WriteConfig(configFile); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Print success message
	if jsonOutput {
		kv := map[string]interface{}{
			"status":  "success",
			"message": "Login successful",
		}
		if cfg.TokenExpiry != "" {
			kv["expires_at"] = cfg.TokenExpiry
		}
		printJSON(kv)
	} else {
		okLabel.Println("✓ Login successful")
		if cfg.TokenExpiry != "" {
			fmt.Printf("Token expires at: %s\n", cfg.TokenExpiry)
		}
	}

	return nil
}
