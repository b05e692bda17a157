package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	// Dataset command flags
	datasetProject string
	uploadURL      string
)

// datasetsCmd groups the dataset subcommands
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage datasets",
	Long: `Manage datasets. A dataset is a file registered with the service and
stored in object storage; evaluations run checkpoints against it.

Examples:
  # List datasets
  pair datasets list

  # Register ratings.csv under project 129 and upload its contents
  pair datasets add ratings.csv --project 129

  # Upload a file to a presigned object-storage URL
  pair datasets upload ratings.csv --url "https://bucket.s3.amazonaws.com/?key=..."`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// datasetsListCmd lists the datasets visible to the caller
var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		datasets, err := client.ListDatasets(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResult(datasets)
		}
		fmt.Println("Datasets:")
		for _, d := range datasets {
			fmt.Printf("- %s  %s\n", d.ID, d.Filename)
		}
		return nil
	},
}

// datasetsAddCmd registers a dataset and uploads the file behind it
var datasetsAddCmd = &cobra.Command{
	Use:   "add FILE",
	Short: "Register a dataset and upload its file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if datasetProject == "" {
			return errors.New("a project id is required. Pass --project")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("unable to open %s: %w", args[0], err)
		}
		defer f.Close()

		client, err := newClient()
		if err != nil {
			return err
		}
		dataset, err := client.AddDatasetFromReader(cmd.Context(), f, datasetProject, "")
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResult(dataset)
		}
		okLabel.Printf("✓ Dataset %s created\n", dataset.ID)
		fmt.Printf("Filename: %s\n", dataset.Filename)
		if dataset.S3Key != "" {
			fmt.Printf("Object key: %s\n", dataset.S3Key)
		}
		return nil
	},
}

// datasetsUploadCmd uploads a file to a presigned object-storage URL
var datasetsUploadCmd = &cobra.Command{
	Use:   "upload FILE",
	Short: "Upload a file to a presigned object-storage URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if uploadURL == "" {
			return errors.New("a presigned URL is required. Pass --url")
		}
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("unable to open %s: %w", args[0], err)
		}
		defer f.Close()

		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.UploadDataset(cmd.Context(), uploadURL, filepath.Base(args[0]), f); err != nil {
			return err
		}
		if jsonOutput {
			printJSON(map[string]int{"result": 1})
			return nil
		}
		okLabel.Printf("✓ Uploaded %s\n", filepath.Base(args[0]))
		return nil
	},
}

// init initializes the datasets commands with their flags and adds them to the root command
func init() {
	rootCmd.AddCommand(datasetsCmd)
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsAddCmd)
	datasetsCmd.AddCommand(datasetsUploadCmd)

	// Add flags
	datasetsAddCmd.Flags().StringVarP(&datasetProject, "project", "p", "", "Project id the dataset belongs to")
	datasetsUploadCmd.Flags().StringVarP(&uploadURL, "url", "u", "", "Presigned object-storage POST URL")
}
