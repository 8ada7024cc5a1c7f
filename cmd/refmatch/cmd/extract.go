package cmd

import (
	"fmt"

	"golang-refmatch-service/cmd/refmatch/config"
	"golang-refmatch-service/internal/patterns"
	"golang-refmatch-service/internal/reporter"

	"github.com/spf13/cobra"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <text>",
	Short: "Extract reference patterns from remittance text",
	Long: `Extract runs pattern recognition over a piece of remittance text and
prints every recognized reference with its type and confidence.

Examples:
  refmatch extract "Payment for INVOICE 2024-001 REF ABC123"
  refmatch extract "PO-4521 settlement" --output-format json`,

	Args:    cobra.ExactArgs(1),
	PreRunE: validateExtractFlags,
	RunE:    runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	extractCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")
}

func validateExtractFlags(cmd *cobra.Command, args []string) error {
	return validateOutputFlags(outputFormat, outputFile)
}

func runExtract(cmd *cobra.Command, args []string) error {
	text := args[0]
	extracted := patterns.ExtractPatterns(text)

	reportGenerator, err := reporter.NewReportGenerator(config.CreateReportConfig(outputFormat))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	output, closeOutput, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOutput()

	if err := reportGenerator.WritePatternReport(text, extracted, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	return nil
}
