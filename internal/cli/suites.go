package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/greatexpectationslabs/cooper-pair/pkg/pair"
)

var (
	// Suite command flags
	suitesDetailed       bool
	suiteOutputFile      string
	suiteIncludeInactive bool
	suiteName            string
	suiteDatasetName     string
)

// suitesCmd groups the expectation-suite subcommands
var suitesCmd = &cobra.Command{
	Use:   "suites",
	Short: "Manage expectation suites",
	Long: `Manage expectation suites. A suite is a named collection of
expectations; export and import speak the expectations-config JSON format
shared with the evaluation engine.

Examples:
  # List expectation suites
  pair suites list

  # Export suite 235 as an expectations config
  pair suites export 235 -o ratings.json

  # Create a suite from an expectations config
  pair suites import ratings.json --name "Ratings checks"`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// suitesListCmd lists the expectation suites
var suitesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List expectation suites",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		suites, err := client.ListExpectationSuites(cmd.Context(), suitesDetailed)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResult(suites)
		}
		fmt.Println("Expectation suites:")
		for _, s := range suites {
			fmt.Printf("- %s  %s\n", s.ID, s.Name)
		}
		return nil
	},
}

// suitesExportCmd renders a suite as an expectations config
var suitesExportCmd = &cobra.Command{
	Use:   "export SUITE_ID",
	Short: "Export a suite as an expectations config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		doc, err := client.ExpectationSuiteAsJSON(cmd.Context(), args[0], suiteIncludeInactive)
		if err != nil {
			return err
		}
		return writeExport(doc, suiteOutputFile)
	},
}

// suitesImportCmd creates a suite from an expectations config
var suitesImportCmd = &cobra.Command{
	Use:   "import CONFIG_FILE",
	Short: "Create a suite from an expectations config",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if suiteName == "" {
			return errors.New("a suite name is required. Pass --name")
		}
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("unable to read %s: %w", args[0], err)
		}
		raw, err = applyDatasetName(raw, suiteDatasetName)
		if err != nil {
			return err
		}
		cfg, err := pair.ParseExpectationsConfig(raw)
		if err != nil {
			return err
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		suite, err := client.AddExpectationSuiteFromConfig(cmd.Context(), suiteName, *cfg)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printResult(suite)
		}
		okLabel.Printf("✓ Expectation suite %s created\n", suite.ID)
		fmt.Printf("Expectations: %d\n", len(suite.Expectations))
		return nil
	},
}

// applyDatasetName overrides the dataset_name field of a raw expectations
// config document. An empty name leaves the document untouched.
func applyDatasetName(raw []byte, name string) ([]byte, error) {
	if name == "" {
		return raw, nil
	}
	out, err := sjson.SetBytes(raw, "dataset_name", name)
	if err != nil {
		return nil, fmt.Errorf("unable to set dataset name: %w", err)
	}
	return out, nil
}

// writeExport prints an exported document to stdout, or writes it to the
// given file when one is named.
func writeExport(doc, file string) error {
	if file == "" {
		fmt.Println(doc)
		return nil
	}
	if err := os.WriteFile(file, []byte(doc+"\n"), os.FileMode(0644)); err != nil {
		return fmt.Errorf("unable to write %s: %w", file, err)
	}
	if jsonOutput {
		printJSON(map[string]string{"file": file})
		return nil
	}
	okLabel.Printf("✓ Wrote %s\n", file)
	return nil
}

// init initializes the suites commands with their flags and adds them to the root command
func init() {
	rootCmd.AddCommand(suitesCmd)
	suitesCmd.AddCommand(suitesListCmd)
	suitesCmd.AddCommand(suitesExportCmd)
	suitesCmd.AddCommand(suitesImportCmd)

	// Add flags
	suitesListCmd.Flags().BoolVar(&suitesDetailed, "detailed", false, "Include each suite's expectations")
	suitesExportCmd.Flags().StringVarP(&suiteOutputFile, "output", "o", "", "Write the config to a file instead of stdout")
	suitesExportCmd.Flags().BoolVar(&suiteIncludeInactive, "include-inactive", false, "Keep deactivated expectations in the export")
	suitesImportCmd.Flags().StringVar(&suiteName, "name", "", "Name for the new suite")
	suitesImportCmd.Flags().StringVar(&suiteDatasetName, "dataset-name", "", "Override the config's dataset name")
}
