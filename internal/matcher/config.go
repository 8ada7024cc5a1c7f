// Package matcher ranks candidate transactions against a free-text search
// query using multiple matching strategies with a confidence score.
//
// For each transaction the strategies run in a fixed order and the first hit
// wins, so a transaction appears at most once in a result set:
//  1. Exact token match between references extracted from the query and the
//     transaction description (confidence 0.95)
//  2. Partial substring match of the raw query in the description (0.7)
//  3. Amount match within an absolute tolerance (0.8)
//  4. Counterparty name containment (0.85)
//
// The final match list is sorted by descending confidence and capped.
// A separate FuzzySearch entry point scores every description with the
// similarity engine; callers choose when a fuzzy fallback is warranted,
// typically after Search returns nothing.
//
// Example usage:
//
//	engine := matcher.NewEngine(nil)
//	result := engine.Search("INV-2024-00123", transactions)
//	if len(result.Matches) == 0 {
//		fallback := engine.FuzzySearch("INV-2024-00123", transactions, 0.6)
//	}
package matcher

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MatchType represents the strategy that produced a match.
type MatchType string

const (
	// MatchExact means a reference token from the query matched one
	// extracted from the transaction description.
	MatchExact MatchType = "EXACT"
	// MatchPartial means the raw query appeared as a substring of the
	// transaction description.
	MatchPartial MatchType = "PARTIAL"
	// MatchPattern means a structured attribute (amount or counterparty)
	// matched the query.
	MatchPattern MatchType = "PATTERN"
	// MatchFuzzy means the description scored above the similarity
	// threshold. Produced only by FuzzySearch.
	MatchFuzzy MatchType = "FUZZY"
)

// String returns the string representation of MatchType
func (mt MatchType) String() string {
	return string(mt)
}

// IsValid checks if the match type is valid
func (mt MatchType) IsValid() bool {
	switch mt {
	case MatchExact, MatchPartial, MatchPattern, MatchFuzzy:
		return true
	default:
		return false
	}
}

// Config holds configuration parameters for the matching engine.
type Config struct {
	// MaxMatches caps the number of matches returned by Search
	MaxMatches int `json:"max_matches"`

	// MaxSuggestions caps the number of deduplicated search suggestions
	MaxSuggestions int `json:"max_suggestions"`

	// TopCounterparties is how many frequent counterparty names feed the
	// suggestion list
	TopCounterparties int `json:"top_counterparties"`

	// RecentWindow is how many of the most recent transactions are scanned
	// for reference-based suggestions
	RecentWindow int `json:"recent_window"`

	// RecentReferences caps the reference values taken from the recent window
	RecentReferences int `json:"recent_references"`

	// SuggestionMinConfidence filters reference patterns used for suggestions
	SuggestionMinConfidence float64 `json:"suggestion_min_confidence"`

	// AmountTolerance is the absolute tolerance for the amount strategy
	AmountTolerance decimal.Decimal `json:"amount_tolerance"`

	// DefaultFuzzyThreshold is the similarity cutoff used when callers do
	// not supply their own
	DefaultFuzzyThreshold float64 `json:"default_fuzzy_threshold"`

	// MaxConcurrency bounds the workers scoring the per-transaction loop.
	// 1 keeps scoring single-threaded.
	MaxConcurrency int `json:"max_concurrency"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxMatches:              20,
		MaxSuggestions:          10,
		TopCounterparties:       3,
		RecentWindow:            50,
		RecentReferences:        3,
		SuggestionMinConfidence: 0.7,
		AmountTolerance:         decimal.NewFromFloat(0.01),
		DefaultFuzzyThreshold:   0.6,
		MaxConcurrency:          1,
	}
}

// Validate checks if the matcher configuration is valid
func (c *Config) Validate() error {
	if c.MaxMatches <= 0 {
		return fmt.Errorf("max matches must be positive: %d", c.MaxMatches)
	}

	if c.MaxSuggestions <= 0 {
		return fmt.Errorf("max suggestions must be positive: %d", c.MaxSuggestions)
	}

	if c.TopCounterparties < 0 {
		return fmt.Errorf("top counterparties cannot be negative: %d", c.TopCounterparties)
	}

	if c.RecentWindow < 0 {
		return fmt.Errorf("recent window cannot be negative: %d", c.RecentWindow)
	}

	if c.RecentReferences < 0 {
		return fmt.Errorf("recent references cannot be negative: %d", c.RecentReferences)
	}

	if c.SuggestionMinConfidence < 0.0 || c.SuggestionMinConfidence > 1.0 {
		return fmt.Errorf("suggestion min confidence must be between 0.0 and 1.0: %f", c.SuggestionMinConfidence)
	}

	if c.AmountTolerance.IsNegative() {
		return fmt.Errorf("amount tolerance cannot be negative: %s", c.AmountTolerance.String())
	}

	if c.DefaultFuzzyThreshold < 0.0 || c.DefaultFuzzyThreshold > 1.0 {
		return fmt.Errorf("default fuzzy threshold must be between 0.0 and 1.0: %f", c.DefaultFuzzyThreshold)
	}

	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max concurrency must be positive: %d", c.MaxConcurrency)
	}

	return nil
}

// Clone creates a deep copy of the matcher configuration
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	return &clone
}

// String returns a human-readable description of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{MaxMatches: %d, MaxSuggestions: %d, AmountTolerance: %s, FuzzyThreshold: %.2f, MaxConcurrency: %d}",
		c.MaxMatches, c.MaxSuggestions, c.AmountTolerance.String(), c.DefaultFuzzyThreshold, c.MaxConcurrency)
}
