package cmd

import (
	"fmt"
	"os"

	"golang-refmatch-service/cmd/refmatch/config"
	"golang-refmatch-service/internal/duplicates"
	"golang-refmatch-service/internal/reporter"
	"golang-refmatch-service/pkg/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the duplicates command
var (
	toleranceHours      float64
	similarityThreshold float64
	showProgress        bool
)

// duplicatesCmd represents the duplicates command
var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Detect likely duplicate transactions",
	Long: `Duplicates scans a transaction dataset for entries that repeat within a
time window with the same amount and either the same counterparty or a
highly similar description.

Examples:
  # Detect duplicates within the default 24-hour window
  refmatch duplicates --transactions transactions.json

  # Wider window and stricter description similarity
  refmatch duplicates -t transactions.json --tolerance-hours 48 --similarity-threshold 0.9

  # CSV output with a progress indicator on large datasets
  refmatch duplicates -t transactions.json --output-format csv -o dups.csv --progress`,

	PreRunE: validateDuplicatesFlags,
	RunE:    runDuplicates,
}

func init() {
	rootCmd.AddCommand(duplicatesCmd)

	// Dataset flags
	duplicatesCmd.Flags().StringVarP(&transactionsFile, "transactions", "t", "", "path to transaction JSON file (mock data if omitted)")
	duplicatesCmd.Flags().IntVar(&mockCount, "mock-count", 100, "number of mock transactions when no file is given")

	// Output flags
	duplicatesCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	duplicatesCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Detection flags
	duplicatesCmd.Flags().Float64Var(&toleranceHours, "tolerance-hours", 24, "value-date window in hours")
	duplicatesCmd.Flags().Float64Var(&similarityThreshold, "similarity-threshold", 0.8, "minimum description similarity (0.0-1.0)")

	// UI flags
	duplicatesCmd.Flags().BoolVar(&showProgress, "progress", false, "show progress indicators")

	// Bind flags to viper
	viper.BindPFlag("tolerance-hours", duplicatesCmd.Flags().Lookup("tolerance-hours"))
	viper.BindPFlag("similarity-threshold", duplicatesCmd.Flags().Lookup("similarity-threshold"))
	viper.BindPFlag("progress", duplicatesCmd.Flags().Lookup("progress"))
}

func validateDuplicatesFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	toleranceHours = viper.GetFloat64("tolerance-hours")
	similarityThreshold = viper.GetFloat64("similarity-threshold")
	showProgress = viper.GetBool("progress")

	if transactionsFile != "" {
		if err := validateFileExists(transactionsFile, "transaction file"); err != nil {
			return err
		}
	}
	if mockCount < 0 {
		return fmt.Errorf("mock-count cannot be negative")
	}

	if err := validateOutputFlags(outputFormat, outputFile); err != nil {
		return err
	}

	if toleranceHours < 0 {
		return fmt.Errorf("tolerance-hours cannot be negative")
	}
	if similarityThreshold < 0.0 || similarityThreshold > 1.0 {
		return fmt.Errorf("similarity-threshold must be between 0.0 and 1.0")
	}

	return nil
}

func runDuplicates(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Detecting duplicates (window %.0fh, similarity %.2f)...\n",
			toleranceHours, similarityThreshold)
	}

	transactions, err := loadDataset()
	if err != nil {
		return err
	}

	detector := duplicates.NewDetector(config.CreateDetectorConfig(toleranceHours, similarityThreshold))
	if showProgress {
		tracker := logger.NewProgressTracker("Scanning transactions", len(transactions))
		detector.Progress = func(done, total int) {
			tracker.Update(done)
		}
		defer tracker.Done()
	}

	groups := detector.Detect(transactions)

	reportGenerator, err := reporter.NewReportGenerator(config.CreateReportConfig(outputFormat))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	output, closeOutput, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOutput()

	if err := reportGenerator.WriteDuplicateReport(groups, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nFound %d duplicate groups in %d transactions.\n",
			len(groups), len(transactions))
	}

	return nil
}
