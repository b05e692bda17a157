package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greatexpectationslabs/cooper-pair/pkg/pair"
)

var (
	// Evaluate command flags
	evaluateCheckpoint string
	evaluateSuite      string
	evaluateProject    string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate FILE",
	Short: "Evaluate a file against a checkpoint or suite",
	Long: `Evaluate a file against a checkpoint or an expectation suite. The
file is registered as a dataset, uploaded to object storage, and an
evaluation is queued over it. The server runs the evaluation
asynchronously.

Examples:
  # Evaluate ratings.csv against checkpoint 48
  pair evaluate ratings.csv --checkpoint 48 --project 129

  # Evaluate ratings.csv against expectation suite 235
  pair evaluate ratings.csv --suite 235 --project 129`,
	Args: cobra.ExactArgs(1),
	RunE: runEvaluate,
}

// runEvaluate handles the evaluate command execution
func runEvaluate(cmd *cobra.Command, args []string) error {
	if (evaluateCheckpoint == "") == (evaluateSuite == "") {
		return errors.New("exactly one of --checkpoint and --suite is required")
	}
	if evaluateProject == "" {
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

	ctx := cmd.Context()
	var evaluation *pair.Evaluation
	if evaluateCheckpoint != "" {
		evaluation, err = client.EvaluateCheckpointOnReader(ctx, evaluateCheckpoint, f, evaluateProject, "")
	} else {
		evaluation, err = client.EvaluateSuiteOnReader(ctx, evaluateSuite, f, evaluateProject, "")
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return printResult(evaluation)
	}
	okLabel.Printf("✓ Evaluation %s queued\n", evaluation.ID)
	if evaluation.Status != "" {
		fmt.Printf("Status: %s\n", evaluation.Status)
	}
	return nil
}

// init initializes the evaluate command with its flags and adds it to the root command
func init() {
	rootCmd.AddCommand(evaluateCmd)

	// Add flags
	evaluateCmd.Flags().StringVar(&evaluateCheckpoint, "checkpoint", "", "Checkpoint id to evaluate against")
	evaluateCmd.Flags().StringVar(&evaluateSuite, "suite", "", "Expectation suite id to evaluate against")
	evaluateCmd.Flags().StringVarP(&evaluateProject, "project", "p", "", "Project id the dataset belongs to")
}
