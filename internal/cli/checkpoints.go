package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Checkpoint command flags
	checkpointOutputFile      string
	checkpointIncludeInactive bool
)

// checkpointsCmd groups the checkpoint subcommands
var checkpointsCmd = &cobra.Command{
	Use:   "checkpoints",
	Short: "Manage checkpoints",
	Long: `Manage checkpoints. A checkpoint wraps an expectation suite in the
sections and questions an evaluation walks through.

Examples:
  # List checkpoints
  pair checkpoints list

  # Export checkpoint 48 as an expectations config
  pair checkpoints export 48 -o ratings.json`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// checkpointsListCmd lists the checkpoints
var checkpointsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List checkpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		checkpoints, err := client.ListCheckpoints(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResult(checkpoints)
		}
		fmt.Println("Checkpoints:")
		for _, cp := range checkpoints {
			fmt.Printf("- %s  %s\n", cp.ID, cp.Name)
		}
		return nil
	},
}

// checkpointsExportCmd renders a checkpoint as an expectations config
var checkpointsExportCmd = &cobra.Command{
	Use:   "export CHECKPOINT_ID",
	Short: "Export a checkpoint as an expectations config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		doc, err := client.CheckpointAsJSON(cmd.Context(), args[0], checkpointIncludeInactive)
		if err != nil {
			return err
		}
		return writeExport(doc, checkpointOutputFile)
	},
}

// init initializes the checkpoints commands with their flags and adds them to the root command
func init() {
	rootCmd.AddCommand(checkpointsCmd)
	checkpointsCmd.AddCommand(checkpointsListCmd)
	checkpointsCmd.AddCommand(checkpointsExportCmd)

	// Add flags
	checkpointsExportCmd.Flags().StringVarP(&checkpointOutputFile, "output", "o", "", "Write the config to a file instead of stdout")
	checkpointsExportCmd.Flags().BoolVar(&checkpointIncludeInactive, "include-inactive", false, "Keep deactivated expectations in the export")
}
