// Package config assembles component configurations from CLI settings.
package config

import (
	"github.com/shopspring/decimal"

	"golang-refmatch-service/internal/duplicates"
	"golang-refmatch-service/internal/matcher"
	"golang-refmatch-service/internal/reporter"
)

// CreateMatcherConfig creates a matching configuration with CLI overrides applied.
func CreateMatcherConfig(maxConcurrency int) *matcher.Config {
	config := matcher.DefaultConfig()

	if maxConcurrency > 0 {
		config.MaxConcurrency = maxConcurrency
	}

	return config
}

// CreateDetectorConfig creates a duplicate detection configuration with the
// specified thresholds.
func CreateDetectorConfig(toleranceHours, similarityThreshold float64) *duplicates.Config {
	config := duplicates.DefaultConfig()

	config.ToleranceHours = toleranceHours
	config.SimilarityThreshold = similarityThreshold
	config.AmountTolerance = decimal.NewFromFloat(0.01)

	return config
}

// CreateReportConfig creates a report configuration for the specified output format.
func CreateReportConfig(format string) *reporter.ReportConfig {
	config := reporter.DefaultReportConfig()

	switch format {
	case "console":
		config.Format = reporter.FormatConsole
		config.IncludePatterns = true
		config.IncludeSuggestions = true
		config.IncludeTiming = true
	case "json":
		config.Format = reporter.FormatJSON
	case "csv":
		config.Format = reporter.FormatCSV
		config.CSVHeaders = true
		config.CSVDelimiter = ','
	}

	return config
}
