package patterns

import (
	"testing"
)

func TestPatternType_IsValid(t *testing.T) {
	valid := []PatternType{
		PatternInvoice, PatternPO, PatternContract,
		PatternBankRef, PatternCustomerRef, PatternBatch, PatternUnknown,
	}
	for _, pt := range valid {
		if !pt.IsValid() {
			t.Errorf("Expected %s to be valid", pt)
		}
	}

	if PatternType("BOGUS").IsValid() {
		t.Error("Expected BOGUS to be invalid")
	}
}

func TestExtractPatterns_KeywordReferences(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantType       PatternType
		wantValue      string
		wantConfidence float64
	}{
		{
			name:           "Invoice with keyword and space",
			text:           "Payment for INVOICE 2024-001",
			wantType:       PatternInvoice,
			wantValue:      "2024-001",
			wantConfidence: 0.9,
		},
		{
			name:           "Invoice with short prefix",
			text:           "INV-2024-00123 for services",
			wantType:       PatternInvoice,
			wantValue:      "2024-00123",
			wantConfidence: 0.9,
		},
		{
			name:           "Short invoice number",
			text:           "INV 42A",
			wantType:       PatternInvoice,
			wantValue:      "42A",
			wantConfidence: 0.7,
		},
		{
			name:           "Purchase order",
			text:           "PO-445566 settlement",
			wantType:       PatternPO,
			wantValue:      "445566",
			wantConfidence: 0.85,
		},
		{
			name:           "Purchase order long form",
			text:           "PURCHASE ORDER 7788",
			wantType:       PatternPO,
			wantValue:      "7788",
			wantConfidence: 0.85,
		},
		{
			name:           "Contract reference",
			text:           "per CNT-2023-001 terms",
			wantType:       PatternContract,
			wantValue:      "2023-001",
			wantConfidence: 0.8,
		},
		{
			name:           "Customer reference",
			text:           "REF ABC123",
			wantType:       PatternCustomerRef,
			wantValue:      "ABC123",
			wantConfidence: 0.75,
		},
		{
			name:           "Hash customer reference",
			text:           "payment #CUST-001",
			wantType:       PatternCustomerRef,
			wantValue:      "CUST-001",
			wantConfidence: 0.75,
		},
		{
			name:           "Batch number",
			text:           "BATCH 0042 processed",
			wantType:       PatternBatch,
			wantValue:      "0042",
			wantConfidence: 0.7,
		},
		{
			name:           "Lowercase keyword",
			text:           "invoice 2024-001",
			wantType:       PatternInvoice,
			wantValue:      "2024-001",
			wantConfidence: 0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := ExtractPatterns(tt.text)
			if len(found) == 0 {
				t.Fatal("Expected at least one pattern")
			}

			got := findPattern(found, tt.wantType)
			if got == nil {
				t.Fatalf("Expected a %s pattern in %v", tt.wantType, found)
			}
			if got.Value != tt.wantValue {
				t.Errorf("Expected value %q, got %q", tt.wantValue, got.Value)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("Expected confidence %v, got %v", tt.wantConfidence, got.Confidence)
			}
		})
	}
}

func TestExtractPatterns_BankReference(t *testing.T) {
	found := ExtractPatterns("wire 1234567890 received")

	bankRef := findPattern(found, PatternBankRef)
	if bankRef == nil {
		t.Fatalf("Expected a BANK_REF pattern in %v", found)
	}
	if bankRef.Value != "1234567890" {
		t.Errorf("Expected value 1234567890, got %q", bankRef.Value)
	}
	if bankRef.Confidence != 0.95 {
		t.Errorf("Expected confidence 0.95, got %v", bankRef.Confidence)
	}

	// The same digits also match the generic 10-digit shape.
	custRef := findPattern(found, PatternCustomerRef)
	if custRef == nil {
		t.Fatalf("Expected a CUSTOMER_REF pattern in %v", found)
	}
	if custRef.Confidence != 0.7 {
		t.Errorf("Expected confidence 0.7, got %v", custRef.Confidence)
	}
}

func TestExtractPatterns_ShortBankReference(t *testing.T) {
	found := ExtractPatterns("txn 87654321")

	bankRef := findPattern(found, PatternBankRef)
	if bankRef == nil {
		t.Fatalf("Expected a BANK_REF pattern in %v", found)
	}
	if bankRef.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8 for 8-digit reference, got %v", bankRef.Confidence)
	}
}

func TestExtractPatterns_GenericShapes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"Two letters eight digits", "paid via AB 12345678 today", "AB 12345678"},
		{"Grouped digits", "card 1111-2222-3333", "1111-2222-3333"},
		{"Three letters six digits", "code XYZ 123456", "XYZ 123456"},
		{"Digits letters digits", "iban 1234 AB 5678", "1234 AB 5678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := ExtractPatterns(tt.text)
			got := findPatternValue(found, PatternCustomerRef, tt.want)
			if got == nil {
				t.Fatalf("Expected CUSTOMER_REF %q in %v", tt.want, found)
			}
			if got.Confidence != 0.7 {
				t.Errorf("Expected confidence 0.7, got %v", got.Confidence)
			}
		})
	}
}

func TestExtractPatterns_UnknownFallback(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantValue string
	}{
		{"Plain words", "hello world", "hello world"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
		{"Trimmed value", "  quarterly rent  ", "quarterly rent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := ExtractPatterns(tt.text)
			if len(found) != 1 {
				t.Fatalf("Expected exactly one pattern, got %d", len(found))
			}
			if found[0].Type != PatternUnknown {
				t.Errorf("Expected UNKNOWN, got %s", found[0].Type)
			}
			if found[0].Value != tt.wantValue {
				t.Errorf("Expected value %q, got %q", tt.wantValue, found[0].Value)
			}
			if found[0].Confidence != 0.1 {
				t.Errorf("Expected confidence 0.1, got %v", found[0].Confidence)
			}
		})
	}
}

func TestExtractPatterns_AlwaysReturnsResult(t *testing.T) {
	inputs := []string{
		"", " ", "x", "INVOICE", "####", "1234567", "\t\n",
		"Payment for INVOICE 2024-001 REF ABC123",
	}
	for _, text := range inputs {
		if found := ExtractPatterns(text); len(found) == 0 {
			t.Errorf("ExtractPatterns(%q) returned no patterns", text)
		}
	}
}

func TestExtractPatterns_SortedByConfidence(t *testing.T) {
	found := ExtractPatterns("INVOICE ABC-12345 ref 9876543210")

	if len(found) < 3 {
		t.Fatalf("Expected at least 3 patterns, got %v", found)
	}
	for i := 1; i < len(found); i++ {
		if found[i].Confidence > found[i-1].Confidence {
			t.Errorf("Patterns not sorted by confidence: %v before %v", found[i-1], found[i])
		}
	}
	if found[0].Type != PatternBankRef {
		t.Errorf("Expected BANK_REF first at 0.95, got %s", found[0].Type)
	}
	if found[1].Type != PatternInvoice {
		t.Errorf("Expected INVOICE second at 0.9, got %s", found[1].Type)
	}
}

func TestExtractPatterns_Deduplication(t *testing.T) {
	found := ExtractPatterns("REF ABC123 then again REF ABC123")

	count := 0
	for _, p := range found {
		if p.Type == PatternCustomerRef && p.Value == "ABC123" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected duplicate tokens to collapse to one, got %d", count)
	}
}

func TestExtractPatterns_MultipleReferences(t *testing.T) {
	found := ExtractPatterns("Payment for INVOICE 2024-001 REF ABC123")

	if findPatternValue(found, PatternInvoice, "2024-001") == nil {
		t.Errorf("Expected INVOICE 2024-001 in %v", found)
	}
	if findPatternValue(found, PatternCustomerRef, "ABC123") == nil {
		t.Errorf("Expected CUSTOMER_REF ABC123 in %v", found)
	}
	if findPattern(found, PatternUnknown) != nil {
		t.Error("Did not expect UNKNOWN when references were found")
	}
}

func findPattern(found []ReferencePattern, patternType PatternType) *ReferencePattern {
	for i := range found {
		if found[i].Type == patternType {
			return &found[i]
		}
	}
	return nil
}

func findPatternValue(found []ReferencePattern, patternType PatternType, value string) *ReferencePattern {
	for i := range found {
		if found[i].Type == patternType && found[i].Value == value {
			return &found[i]
		}
	}
	return nil
}
