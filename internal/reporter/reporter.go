// Package reporter renders search results, duplicate groups, and extracted
// reference patterns for terminal display and machine consumption.
//
// Supported output formats:
//   - Console: Human-readable output for terminal display
//   - JSON: Structured data format for programmatic consumption
//   - CSV: Comma-separated format for spreadsheet applications
//
// Example usage:
//
//	generator, err := reporter.NewReportGenerator(reporter.DefaultReportConfig())
//	err = generator.WriteSearchReport(result, os.Stdout)
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang-refmatch-service/internal/duplicates"
	"golang-refmatch-service/internal/matcher"
	"golang-refmatch-service/internal/models"
	"golang-refmatch-service/internal/patterns"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// ReportConfig holds configuration options for report generation
type ReportConfig struct {
	// Output format
	Format OutputFormat `json:"format"`

	// Detail level options
	IncludePatterns    bool `json:"include_patterns"`
	IncludeSuggestions bool `json:"include_suggestions"`
	IncludeTiming      bool `json:"include_timing"`

	// MaxItems caps list sections in console output; 0 means no cap.
	MaxItems int `json:"max_items"`

	// CSV options
	CSVDelimiter rune `json:"csv_delimiter"`
	CSVHeaders   bool `json:"csv_headers"`
}

// DefaultReportConfig returns a default report configuration
func DefaultReportConfig() *ReportConfig {
	return &ReportConfig{
		Format:             FormatConsole,
		IncludePatterns:    true,
		IncludeSuggestions: true,
		IncludeTiming:      true,
		MaxItems:           0,
		CSVDelimiter:       ',',
		CSVHeaders:         true,
	}
}

// Validate validates the report configuration
func (c *ReportConfig) Validate() error {
	if !c.Format.IsValid() {
		return fmt.Errorf("invalid output format: %s", c.Format)
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("max items cannot be negative, got %d", c.MaxItems)
	}
	return nil
}

// ReportGenerator renders reports in the configured format
type ReportGenerator struct {
	config *ReportConfig
}

// NewReportGenerator creates a new report generator with the specified configuration
func NewReportGenerator(config *ReportConfig) (*ReportGenerator, error) {
	if config == nil {
		config = DefaultReportConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid report configuration: %w", err)
	}

	return &ReportGenerator{
		config: config,
	}, nil
}

// WriteSearchReport renders a search result to the provided writer.
func (rg *ReportGenerator) WriteSearchReport(result *matcher.SearchResult, writer io.Writer) error {
	if result == nil {
		return fmt.Errorf("search result cannot be nil")
	}

	switch rg.config.Format {
	case FormatConsole:
		return rg.writeSearchConsole(result, writer)
	case FormatJSON:
		return writeJSON(result, writer)
	case FormatCSV:
		return rg.writeSearchCSV(result, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// WriteDuplicateReport renders duplicate groups to the provided writer.
func (rg *ReportGenerator) WriteDuplicateReport(groups []duplicates.Group, writer io.Writer) error {
	switch rg.config.Format {
	case FormatConsole:
		return rg.writeDuplicatesConsole(groups, writer)
	case FormatJSON:
		return writeJSON(map[string]interface{}{
			"group_count": len(groups),
			"groups":      groups,
		}, writer)
	case FormatCSV:
		return rg.writeDuplicatesCSV(groups, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

// WritePatternReport renders extracted reference patterns to the provided writer.
func (rg *ReportGenerator) WritePatternReport(text string, extracted []patterns.ReferencePattern, writer io.Writer) error {
	switch rg.config.Format {
	case FormatConsole:
		return rg.writePatternsConsole(text, extracted, writer)
	case FormatJSON:
		return writeJSON(map[string]interface{}{
			"text":     text,
			"patterns": extracted,
		}, writer)
	case FormatCSV:
		return rg.writePatternsCSV(extracted, writer)
	default:
		return fmt.Errorf("unsupported output format: %s", rg.config.Format)
	}
}

func (rg *ReportGenerator) writeSearchConsole(result *matcher.SearchResult, writer io.Writer) error {
	fmt.Fprintf(writer, "SEARCH REPORT\n")
	fmt.Fprintf(writer, "Query: %q\n", result.Query)
	if rg.config.IncludeTiming {
		fmt.Fprintf(writer, "Search Time: %.2f ms\n", result.SearchTimeMs)
	}
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludePatterns && len(result.Patterns) > 0 {
		fmt.Fprintf(writer, "=== EXTRACTED PATTERNS ===\n")
		for _, p := range result.Patterns {
			fmt.Fprintf(writer, "  %-14s %-24s confidence %.2f\n", p.Type, p.Value, p.Confidence)
		}
		fmt.Fprintf(writer, "\n")
	}

	fmt.Fprintf(writer, "=== MATCHES (%d) ===\n", len(result.Matches))
	if len(result.Matches) == 0 {
		fmt.Fprintf(writer, "  No matching transactions found.\n")
	}
	for i, match := range result.Matches {
		if rg.config.MaxItems > 0 && i >= rg.config.MaxItems {
			fmt.Fprintf(writer, "  ... and %d more\n", len(result.Matches)-rg.config.MaxItems)
			break
		}
		tx := match.Transaction
		fmt.Fprintf(writer, "  %d. [%s %.0f%%] %s\n", i+1, match.MatchType, match.Confidence*100, tx.ID)
		fmt.Fprintf(writer, "     %s | %s | %s\n",
			tx.Amount.String(),
			tx.ValueDate.Format("2006-01-02"),
			tx.Description)
		fmt.Fprintf(writer, "     Reason: %s\n", match.MatchReason)
	}
	fmt.Fprintf(writer, "\n")

	if rg.config.IncludeSuggestions && len(result.Suggestions) > 0 {
		fmt.Fprintf(writer, "=== SUGGESTIONS ===\n")
		for _, s := range result.Suggestions {
			fmt.Fprintf(writer, "  - %s\n", s)
		}
	}

	return nil
}

func (rg *ReportGenerator) writeSearchCSV(result *matcher.SearchResult, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"Rank",
			"Transaction_ID",
			"Amount",
			"Currency",
			"Value_Date",
			"Description",
			"Counterparty",
			"Match_Type",
			"Confidence",
			"Match_Reason",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for i, match := range result.Matches {
		tx := match.Transaction
		record := []string{
			strconv.Itoa(i + 1),
			tx.ID,
			tx.Amount.Value.StringFixed(2),
			tx.Amount.Currency,
			tx.ValueDate.Format("2006-01-02"),
			tx.Description,
			tx.Counterparty.Name,
			match.MatchType.String(),
			fmt.Sprintf("%.2f", match.Confidence),
			match.MatchReason,
		}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write match record: %w", err)
		}
	}

	return nil
}

func (rg *ReportGenerator) writeDuplicatesConsole(groups []duplicates.Group, writer io.Writer) error {
	fmt.Fprintf(writer, "DUPLICATE REPORT\n")
	fmt.Fprintf(writer, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(writer, "Groups Found: %d\n\n", len(groups))

	if len(groups) == 0 {
		fmt.Fprintf(writer, "No duplicate transactions detected.\n")
		return nil
	}

	for i, group := range groups {
		if rg.config.MaxItems > 0 && i >= rg.config.MaxItems {
			fmt.Fprintf(writer, "... and %d more groups\n", len(groups)-rg.config.MaxItems)
			break
		}
		fmt.Fprintf(writer, "Group %d (%d transactions):\n", i+1, group.Size())
		rg.printGroupTransaction(writer, "Original ", group.Original)
		for _, dup := range group.Duplicates {
			rg.printGroupTransaction(writer, "Duplicate", dup)
		}
		fmt.Fprintf(writer, "\n")
	}

	return nil
}

func (rg *ReportGenerator) printGroupTransaction(writer io.Writer, label string, tx *models.Transaction) {
	fmt.Fprintf(writer, "  %s  %s | %s | %s | %s\n",
		label,
		tx.ID,
		tx.Amount.String(),
		tx.ValueDate.Format("2006-01-02 15:04"),
		tx.Description)
}

func (rg *ReportGenerator) writeDuplicatesCSV(groups []duplicates.Group, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		headers := []string{
			"Group",
			"Role",
			"Transaction_ID",
			"Amount",
			"Currency",
			"Value_Date",
			"Description",
			"Counterparty",
		}
		if err := csvWriter.Write(headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	writeRow := func(group int, role string, tx *models.Transaction) error {
		record := []string{
			strconv.Itoa(group),
			role,
			tx.ID,
			tx.Amount.Value.StringFixed(2),
			tx.Amount.Currency,
			tx.ValueDate.Format("2006-01-02 15:04:05"),
			tx.Description,
			tx.Counterparty.Name,
		}
		return csvWriter.Write(record)
	}

	for i, group := range groups {
		if err := writeRow(i+1, "original", group.Original); err != nil {
			return fmt.Errorf("failed to write duplicate record: %w", err)
		}
		for _, dup := range group.Duplicates {
			if err := writeRow(i+1, "duplicate", dup); err != nil {
				return fmt.Errorf("failed to write duplicate record: %w", err)
			}
		}
	}

	return nil
}

func (rg *ReportGenerator) writePatternsConsole(text string, extracted []patterns.ReferencePattern, writer io.Writer) error {
	fmt.Fprintf(writer, "PATTERN EXTRACTION\n")
	fmt.Fprintf(writer, "Text: %q\n\n", text)
	for _, p := range extracted {
		fmt.Fprintf(writer, "  %-14s %-24s confidence %.2f\n", p.Type, p.Value, p.Confidence)
	}
	return nil
}

func (rg *ReportGenerator) writePatternsCSV(extracted []patterns.ReferencePattern, writer io.Writer) error {
	csvWriter := csv.NewWriter(writer)
	csvWriter.Comma = rg.config.CSVDelimiter
	defer csvWriter.Flush()

	if rg.config.CSVHeaders {
		if err := csvWriter.Write([]string{"Type", "Value", "Confidence"}); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	}

	for _, p := range extracted {
		record := []string{string(p.Type), p.Value, fmt.Sprintf("%.2f", p.Confidence)}
		if err := csvWriter.Write(record); err != nil {
			return fmt.Errorf("failed to write pattern record: %w", err)
		}
	}

	return nil
}

func writeJSON(v interface{}, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// UpdateConfiguration replaces the report generator configuration
func (rg *ReportGenerator) UpdateConfiguration(config *ReportConfig) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid report configuration: %w", err)
	}

	rg.config = config
	return nil
}

// GetConfiguration returns the current configuration
func (rg *ReportGenerator) GetConfiguration() *ReportConfig {
	return rg.config
}
