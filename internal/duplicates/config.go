package duplicates

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config controls how strictly two transactions must agree before they are
// considered duplicates of each other.
type Config struct {
	// ToleranceHours is the maximum value-date spread between an original
	// and its duplicate.
	ToleranceHours float64

	// AmountTolerance bounds the absolute amount difference; the diff
	// must stay strictly below it. Amounts must also share a currency.
	AmountTolerance decimal.Decimal

	// SimilarityThreshold is the normalized edit similarity the two
	// descriptions (case-insensitive) must exceed, unless the
	// counterparty names already match exactly.
	SimilarityThreshold float64
}

// DefaultConfig returns the detection thresholds used when none are supplied.
func DefaultConfig() *Config {
	return &Config{
		ToleranceHours:      24,
		AmountTolerance:     decimal.NewFromFloat(0.01),
		SimilarityThreshold: 0.8,
	}
}

// Validate checks that all thresholds are in range.
func (c *Config) Validate() error {
	if c.ToleranceHours < 0 {
		return fmt.Errorf("tolerance hours cannot be negative, got %v", c.ToleranceHours)
	}
	if c.AmountTolerance.IsNegative() {
		return fmt.Errorf("amount tolerance cannot be negative, got %v", c.AmountTolerance)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity threshold must be between 0 and 1, got %v", c.SimilarityThreshold)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
