package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// notificationsCmd groups the notification subcommands
var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Manage configured notifications",
	Long: `Manage configured notifications. A configured notification names a
channel (email, webhook) and the evaluation outcomes that trigger it.

Examples:
  # List configured notifications
  pair notifications list`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// notificationsListCmd lists the configured notifications
var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		notifications, err := client.ListConfiguredNotifications(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResult(notifications)
		}
		fmt.Println("Configured notifications:")
		for _, n := range notifications {
			fmt.Printf("- %s  %s on %s -> %s\n", n.ID, n.NotificationType, n.NotifyOn, n.Value)
		}
		return nil
	},
}

// init initializes the notifications commands and adds them to the root command
func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.AddCommand(notificationsListCmd)
}
