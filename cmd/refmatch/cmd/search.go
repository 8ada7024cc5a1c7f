package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang-refmatch-service/cmd/refmatch/config"
	"golang-refmatch-service/internal/loader"
	"golang-refmatch-service/internal/matcher"
	"golang-refmatch-service/internal/models"
	"golang-refmatch-service/internal/reporter"
	"golang-refmatch-service/pkg/errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags for the search command
var (
	transactionsFile string
	outputFormat     string
	outputFile       string
	mockCount        int

	useFuzzy       bool
	fuzzyThreshold float64
	maxConcurrency int
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find transactions matching a payment reference",
	Long: `Search extracts reference patterns from the query, matches them against
a transaction dataset using exact, partial, amount, and counterparty
strategies, and reports candidates ranked by confidence.

Examples:
  # Search a transaction file by invoice reference
  refmatch search "INVOICE 2024-001" --transactions transactions.json

  # Fuzzy search tolerating typos in descriptions
  refmatch search "aplha payment" --fuzzy --threshold 0.5

  # Machine-readable output
  refmatch search "PO-4521" -t transactions.json --output-format json -o result.json

  # Parallel scoring for large datasets
  refmatch search "REF ABC123" -t transactions.json --max-concurrency 8`,

	Args:    cobra.ExactArgs(1),
	PreRunE: validateSearchFlags,
	RunE:    runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	// Dataset flags
	searchCmd.Flags().StringVarP(&transactionsFile, "transactions", "t", "", "path to transaction JSON file (mock data if omitted)")
	searchCmd.Flags().IntVar(&mockCount, "mock-count", 100, "number of mock transactions when no file is given")

	// Output flags
	searchCmd.Flags().StringVarP(&outputFormat, "output-format", "f", "console", "output format: console, json, csv")
	searchCmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "output file path (default: stdout)")

	// Matching flags
	searchCmd.Flags().BoolVar(&useFuzzy, "fuzzy", false, "use fuzzy description matching instead of pattern matching")
	searchCmd.Flags().Float64Var(&fuzzyThreshold, "threshold", 0.6, "minimum similarity for fuzzy matches (0.0-1.0)")
	searchCmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 1, "number of concurrent scoring workers")

	// Bind flags to viper
	viper.BindPFlag("transactions", searchCmd.Flags().Lookup("transactions"))
	viper.BindPFlag("mock-count", searchCmd.Flags().Lookup("mock-count"))
	viper.BindPFlag("output-format", searchCmd.Flags().Lookup("output-format"))
	viper.BindPFlag("output-file", searchCmd.Flags().Lookup("output-file"))
	viper.BindPFlag("fuzzy", searchCmd.Flags().Lookup("fuzzy"))
	viper.BindPFlag("threshold", searchCmd.Flags().Lookup("threshold"))
	viper.BindPFlag("max-concurrency", searchCmd.Flags().Lookup("max-concurrency"))
}

func validateSearchFlags(cmd *cobra.Command, args []string) error {
	// Get values from viper (allows override from config file)
	transactionsFile = viper.GetString("transactions")
	mockCount = viper.GetInt("mock-count")
	outputFormat = viper.GetString("output-format")
	outputFile = viper.GetString("output-file")
	useFuzzy = viper.GetBool("fuzzy")
	fuzzyThreshold = viper.GetFloat64("threshold")
	maxConcurrency = viper.GetInt("max-concurrency")

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

	if fuzzyThreshold < 0.0 || fuzzyThreshold > 1.0 {
		return fmt.Errorf("threshold must be between 0.0 and 1.0")
	}
	if maxConcurrency < 1 {
		return fmt.Errorf("max-concurrency must be at least 1")
	}

	return nil
}

func validateFileExists(filePath, description string) error {
	if filePath == "" {
		return fmt.Errorf("%s path cannot be empty", description)
	}

	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("%s does not exist: %s", description, filePath)
	}
	if err != nil {
		return fmt.Errorf("error accessing %s: %w", description, err)
	}

	if info.IsDir() {
		return fmt.Errorf("%s is a directory, expected a file: %s", description, filePath)
	}

	// Check if file is readable
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s is not readable: %w", description, err)
	}
	file.Close()

	return nil
}

func validateOutputFlags(format, file string) error {
	validFormats := map[string]bool{"console": true, "json": true, "csv": true}
	if !validFormats[format] {
		return fmt.Errorf("invalid output format '%s'. Valid formats: console, json, csv", format)
	}

	if file != "" {
		dir := filepath.Dir(file)
		if dir != "." {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				return fmt.Errorf("output directory does not exist: %s", dir)
			}
		}
	}

	return nil
}

// loadDataset loads the transaction file, or mock data when none was given.
// Invalid records are reported on stderr but do not abort the run.
func loadDataset() ([]*models.Transaction, error) {
	transactions, err := loader.LoadOrMock(transactionsFile, mockCount)
	if err != nil {
		if summary, ok := err.(*errors.ErrorSummary); ok {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", summary.Error())
			return transactions, nil
		}
		return nil, err
	}
	return transactions, nil
}

// openOutput returns the report destination and a close function.
func openOutput() (io.Writer, func() error, error) {
	if outputFile == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	query := args[0]

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "Searching for %q...\n", query)
		if transactionsFile != "" {
			fmt.Fprintf(os.Stderr, "Transaction file: %s\n", transactionsFile)
		} else {
			fmt.Fprintf(os.Stderr, "Using %d mock transactions\n", mockCount)
		}
	}

	transactions, err := loadDataset()
	if err != nil {
		return err
	}

	engine := matcher.NewEngine(config.CreateMatcherConfig(maxConcurrency))

	var result *matcher.SearchResult
	if useFuzzy {
		matches := engine.FuzzySearch(query, transactions, fuzzyThreshold)
		result = &matcher.SearchResult{
			Query:   query,
			Matches: matches,
		}
	} else {
		result = engine.SearchContext(ctx, query, transactions)
	}

	reportGenerator, err := reporter.NewReportGenerator(config.CreateReportConfig(outputFormat))
	if err != nil {
		return fmt.Errorf("failed to create report generator: %w", err)
	}

	output, closeOutput, err := openOutput()
	if err != nil {
		return err
	}
	defer closeOutput()

	if err := reportGenerator.WriteSearchReport(result, output); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if viper.GetBool("verbose") {
		fmt.Fprintf(os.Stderr, "\nSearch completed: %d matches across %d transactions.\n",
			len(result.Matches), len(transactions))
	}

	return nil
}
