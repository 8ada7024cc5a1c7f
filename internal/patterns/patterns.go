// Package patterns extracts structured reference tokens from unstructured
// remittance text.
//
// Free-text payment descriptions routinely embed the identifiers needed for
// reconciliation: invoice numbers, purchase orders, contract references,
// bank references, batch numbers. This package scans a text blob with a
// fixed, ordered table of matchers and emits typed tokens ranked by a
// deterministic confidence score.
//
// The extractor is total: every input, including the empty string, yields a
// non-empty result. When no recognizable token is present a single UNKNOWN
// pattern with confidence 0.1 is emitted so callers never have to handle an
// empty list.
//
// Example usage:
//
//	found := patterns.ExtractPatterns("Payment INV-2024-00123 for services")
//	// found[0] = {Type: INVOICE, Value: "2024-00123", Confidence: 0.9}
package patterns

import (
	"regexp"
	"sort"
	"strings"
)

// PatternType classifies the kind of reference a token represents.
type PatternType string

const (
	// PatternInvoice is an invoice number, e.g. "INV-2024-00123".
	PatternInvoice PatternType = "INVOICE"
	// PatternPO is a purchase order reference, e.g. "PO-445566".
	PatternPO PatternType = "PO"
	// PatternContract is a contract reference, e.g. "CNT-2023-001".
	PatternContract PatternType = "CONTRACT"
	// PatternBankRef is a standalone run of eight or more digits.
	PatternBankRef PatternType = "BANK_REF"
	// PatternCustomerRef is a customer reference or a generic enterprise
	// identifier shape.
	PatternCustomerRef PatternType = "CUSTOMER_REF"
	// PatternBatch is a batch number, e.g. "BATCH-0042".
	PatternBatch PatternType = "BATCH"
	// PatternUnknown is the fallback emitted when nothing else matched.
	PatternUnknown PatternType = "UNKNOWN"
)

// String returns the string representation of PatternType
func (pt PatternType) String() string {
	return string(pt)
}

// IsValid checks if the pattern type is valid
func (pt PatternType) IsValid() bool {
	switch pt {
	case PatternInvoice, PatternPO, PatternContract, PatternBankRef,
		PatternCustomerRef, PatternBatch, PatternUnknown:
		return true
	default:
		return false
	}
}

// ReferencePattern is a typed token extracted from free text together with
// a heuristic confidence in [0,1]. Patterns are ephemeral: they are created
// per extraction call and never cached or persisted.
type ReferencePattern struct {
	Type       PatternType `json:"type"`
	Value      string      `json:"value"`
	Confidence float64     `json:"confidence"`
}

// matcherEntry couples a compiled regex with its pattern type and
// confidence rule. group selects the submatch holding the token
// (0 means the whole match).
type matcherEntry struct {
	patternType PatternType
	re          *regexp.Regexp
	group       int
	confidence  func(token string) float64
}

func fixedConfidence(c float64) func(string) float64 {
	return func(string) float64 { return c }
}

func lengthConfidence(minLen int, long, short float64) func(string) float64 {
	return func(token string) float64 {
		if len(token) >= minLen {
			return long
		}
		return short
	}
}

// Matchers are evaluated in declaration order; ties in confidence keep that
// order. Keyword alternations list the longest form first so "INVOICE"
// is preferred over its prefix "INV" at the same position.
var matchers = []matcherEntry{
	{
		patternType: PatternInvoice,
		re:          regexp.MustCompile(`(?i)\b(?:INVOICE|INV)[-\s]*([A-Z0-9][A-Z0-9-]{1,19})`),
		group:       1,
		confidence:  lengthConfidence(6, 0.9, 0.7),
	},
	{
		patternType: PatternPO,
		re:          regexp.MustCompile(`(?i)\b(?:PURCHASE[-\s]ORDER|P\.O\.|PO)[-\s]*([A-Z0-9][A-Z0-9-]{1,19})`),
		group:       1,
		confidence:  lengthConfidence(4, 0.85, 0.6),
	},
	{
		patternType: PatternContract,
		re:          regexp.MustCompile(`(?i)\b(?:CONTRACT|CONTR|CNT)[-\s]*([A-Z0-9][A-Z0-9-]{1,19})`),
		group:       1,
		confidence:  fixedConfidence(0.8),
	},
	{
		patternType: PatternBankRef,
		re:          regexp.MustCompile(`\b\d{8,}\b`),
		group:       0,
		confidence:  lengthConfidence(10, 0.95, 0.8),
	},
	{
		patternType: PatternCustomerRef,
		re:          regexp.MustCompile(`(?i)(?:\b(?:REFERENCE|REF)|#)[-\s]*([A-Z0-9][A-Z0-9-]{2,19})`),
		group:       1,
		confidence:  lengthConfidence(5, 0.75, 0.5),
	},
	{
		patternType: PatternBatch,
		re:          regexp.MustCompile(`(?i)\b(?:BATCH|BTH|B)[-\s]*(\d{3,10})\b`),
		group:       1,
		confidence:  fixedConfidence(0.7),
	},
}

// Generic enterprise identifier shapes. These are scanned after the keyword
// matchers and tagged CUSTOMER_REF with a fixed confidence of 0.7.
var genericShapes = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{10}\b`),               // 10-digit block
	regexp.MustCompile(`\b[A-Z]{2}\s?\d{8}\b`),     // LL NNNNNNNN
	regexp.MustCompile(`\b\d{4}-\d{4}-\d{4}\b`),    // NNNN-NNNN-NNNN
	regexp.MustCompile(`\b[A-Z]{3}\s?\d{6}\b`),     // LLL NNNNNN
	regexp.MustCompile(`\b\d{4}\s[A-Z]{2}\s\d{4}\b`), // NNNN LL NNNN
}

// ExtractPatterns scans text for known reference shapes and returns the
// extracted tokens sorted by descending confidence. Identical (type, value)
// pairs are collapsed to their first occurrence. The result is never empty:
// with no recognizable token, a single UNKNOWN pattern carrying the trimmed
// input at confidence 0.1 is returned.
func ExtractPatterns(text string) []ReferencePattern {
	var found []ReferencePattern
	seen := make(map[string]bool)

	collect := func(patternType PatternType, token string, confidence float64) {
		key := string(patternType) + "\x00" + token
		if seen[key] {
			return
		}
		seen[key] = true
		found = append(found, ReferencePattern{
			Type:       patternType,
			Value:      token,
			Confidence: confidence,
		})
	}

	for _, m := range matchers {
		for _, sub := range m.re.FindAllStringSubmatch(text, -1) {
			token := sub[m.group]
			collect(m.patternType, token, m.confidence(token))
		}
	}

	for _, re := range genericShapes {
		for _, token := range re.FindAllString(text, -1) {
			collect(PatternCustomerRef, token, 0.7)
		}
	}

	if len(found) == 0 {
		return []ReferencePattern{{
			Type:       PatternUnknown,
			Value:      strings.TrimSpace(text),
			Confidence: 0.1,
		}}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Confidence > found[j].Confidence
	})

	return found
}
