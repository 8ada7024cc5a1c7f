package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"golang-refmatch-service/internal/duplicates"
	"golang-refmatch-service/internal/matcher"
	"golang-refmatch-service/internal/models"
	"golang-refmatch-service/internal/patterns"
)

func reportTransaction(id, description string, amount float64, counterparty string) *models.Transaction {
	return models.NewTransaction(id, description, models.NewMoney(amount, "USD"),
		time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), counterparty)
}

func sampleSearchResult() *matcher.SearchResult {
	tx := reportTransaction("tx-1", "Payment for INVOICE 2024-001", 1500.00, "ACME Corporation")
	return &matcher.SearchResult{
		Query: "INVOICE 2024-001",
		Patterns: []patterns.ReferencePattern{
			{Type: patterns.PatternInvoice, Value: "2024-001", Confidence: 0.9},
		},
		Matches: []matcher.TransactionMatch{
			{
				Transaction: tx,
				MatchReason: "Exact INVOICE reference match: 2024-001",
				Confidence:  0.95,
				MatchType:   matcher.MatchExact,
			},
		},
		Suggestions:  []string{"2024-001*", "ACME Corporation"},
		SearchTimeMs: 1.25,
	}
}

func sampleGroups() []duplicates.Group {
	return []duplicates.Group{
		{
			Original: reportTransaction("tx-1", "Payment INV-2024-001", 1500.00, "ACME Corporation"),
			Duplicates: []*models.Transaction{
				reportTransaction("tx-2", "Payment INV-2024-001", 1500.00, "ACME Corporation"),
			},
		},
	}
}

func TestOutputFormat_IsValid(t *testing.T) {
	for _, f := range []OutputFormat{FormatConsole, FormatJSON, FormatCSV} {
		if !f.IsValid() {
			t.Errorf("Expected %s to be valid", f)
		}
	}
	if OutputFormat("xml").IsValid() {
		t.Error("Expected xml to be invalid")
	}
}

func TestReportConfig_Validate(t *testing.T) {
	config := DefaultReportConfig()
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}

	config.Format = "yaml"
	if err := config.Validate(); err == nil {
		t.Error("Expected error for unsupported format")
	}

	config = DefaultReportConfig()
	config.MaxItems = -1
	if err := config.Validate(); err == nil {
		t.Error("Expected error for negative max items")
	}
}

func TestNewReportGenerator(t *testing.T) {
	if _, err := NewReportGenerator(nil); err != nil {
		t.Errorf("Nil config should use defaults, got %v", err)
	}

	bad := &ReportConfig{Format: "xml"}
	if _, err := NewReportGenerator(bad); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestWriteSearchReport_Console(t *testing.T) {
	generator, _ := NewReportGenerator(nil)
	var buf bytes.Buffer

	if err := generator.WriteSearchReport(sampleSearchResult(), &buf); err != nil {
		t.Fatalf("WriteSearchReport failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"SEARCH REPORT",
		`"INVOICE 2024-001"`,
		"EXTRACTED PATTERNS",
		"MATCHES (1)",
		"tx-1",
		"EXACT",
		"SUGGESTIONS",
		"2024-001*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected console output to contain %q\n%s", want, out)
		}
	}
}

func TestWriteSearchReport_ConsoleNoMatches(t *testing.T) {
	generator, _ := NewReportGenerator(nil)
	var buf bytes.Buffer

	result := &matcher.SearchResult{Query: "nothing"}
	if err := generator.WriteSearchReport(result, &buf); err != nil {
		t.Fatalf("WriteSearchReport failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No matching transactions found") {
		t.Errorf("Expected empty-result notice, got:\n%s", buf.String())
	}
}

func TestWriteSearchReport_NilResult(t *testing.T) {
	generator, _ := NewReportGenerator(nil)
	if err := generator.WriteSearchReport(nil, &bytes.Buffer{}); err == nil {
		t.Error("Expected error for nil result")
	}
}

func TestWriteSearchReport_JSON(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatJSON
	generator, _ := NewReportGenerator(config)
	var buf bytes.Buffer

	if err := generator.WriteSearchReport(sampleSearchResult(), &buf); err != nil {
		t.Fatalf("WriteSearchReport failed: %v", err)
	}

	var decoded matcher.SearchResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if decoded.Query != "INVOICE 2024-001" {
		t.Errorf("Expected query round trip, got %q", decoded.Query)
	}
	if len(decoded.Matches) != 1 {
		t.Errorf("Expected 1 match in JSON output, got %d", len(decoded.Matches))
	}
}

func TestWriteSearchReport_CSV(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatCSV
	generator, _ := NewReportGenerator(config)
	var buf bytes.Buffer

	if err := generator.WriteSearchReport(sampleSearchResult(), &buf); err != nil {
		t.Fatalf("WriteSearchReport failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header plus 1 row, got %d records", len(records))
	}
	if records[0][0] != "Rank" {
		t.Errorf("Expected Rank header, got %q", records[0][0])
	}
	if records[1][1] != "tx-1" {
		t.Errorf("Expected tx-1 in first row, got %q", records[1][1])
	}
	if records[1][7] != "EXACT" {
		t.Errorf("Expected EXACT match type, got %q", records[1][7])
	}
}

func TestWriteDuplicateReport_Console(t *testing.T) {
	generator, _ := NewReportGenerator(nil)
	var buf bytes.Buffer

	if err := generator.WriteDuplicateReport(sampleGroups(), &buf); err != nil {
		t.Fatalf("WriteDuplicateReport failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"DUPLICATE REPORT", "Groups Found: 1", "tx-1", "tx-2"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected console output to contain %q\n%s", want, out)
		}
	}
}

func TestWriteDuplicateReport_ConsoleEmpty(t *testing.T) {
	generator, _ := NewReportGenerator(nil)
	var buf bytes.Buffer

	if err := generator.WriteDuplicateReport(nil, &buf); err != nil {
		t.Fatalf("WriteDuplicateReport failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No duplicate transactions detected") {
		t.Errorf("Expected empty notice, got:\n%s", buf.String())
	}
}

func TestWriteDuplicateReport_CSV(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatCSV
	generator, _ := NewReportGenerator(config)
	var buf bytes.Buffer

	if err := generator.WriteDuplicateReport(sampleGroups(), &buf); err != nil {
		t.Fatalf("WriteDuplicateReport failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(records))
	}
	if records[1][1] != "original" || records[2][1] != "duplicate" {
		t.Errorf("Expected original/duplicate roles, got %q and %q", records[1][1], records[2][1])
	}
}

func TestWritePatternReport_Console(t *testing.T) {
	generator, _ := NewReportGenerator(nil)
	var buf bytes.Buffer

	extracted := []patterns.ReferencePattern{
		{Type: patterns.PatternInvoice, Value: "2024-001", Confidence: 0.9},
		{Type: patterns.PatternCustomerRef, Value: "ABC123", Confidence: 0.75},
	}
	if err := generator.WritePatternReport("Payment INVOICE 2024-001 REF ABC123", extracted, &buf); err != nil {
		t.Fatalf("WritePatternReport failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"PATTERN EXTRACTION", "INVOICE", "2024-001", "CUSTOMER_REF", "ABC123"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected console output to contain %q\n%s", want, out)
		}
	}
}

func TestWritePatternReport_JSON(t *testing.T) {
	config := DefaultReportConfig()
	config.Format = FormatJSON
	generator, _ := NewReportGenerator(config)
	var buf bytes.Buffer

	extracted := []patterns.ReferencePattern{
		{Type: patterns.PatternInvoice, Value: "2024-001", Confidence: 0.9},
	}
	if err := generator.WritePatternReport("INVOICE 2024-001", extracted, &buf); err != nil {
		t.Fatalf("WritePatternReport failed: %v", err)
	}

	var decoded struct {
		Text     string                      `json:"text"`
		Patterns []patterns.ReferencePattern `json:"patterns"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(decoded.Patterns) != 1 || decoded.Patterns[0].Value != "2024-001" {
		t.Errorf("Expected pattern round trip, got %v", decoded.Patterns)
	}
}

func TestUpdateConfiguration(t *testing.T) {
	generator, _ := NewReportGenerator(nil)

	updated := DefaultReportConfig()
	updated.Format = FormatJSON
	if err := generator.UpdateConfiguration(updated); err != nil {
		t.Fatalf("UpdateConfiguration failed: %v", err)
	}
	if generator.GetConfiguration().Format != FormatJSON {
		t.Error("Expected configuration to be replaced")
	}

	if err := generator.UpdateConfiguration(&ReportConfig{Format: "xml"}); err == nil {
		t.Error("Expected error for invalid configuration")
	}
}
