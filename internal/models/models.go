package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Money represents a monetary amount with its currency code.
type Money struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// NewMoney creates a Money value from a float and a currency code.
func NewMoney(value float64, currency string) Money {
	return Money{
		Value:    decimal.NewFromFloat(value),
		Currency: strings.ToUpper(strings.TrimSpace(currency)),
	}
}

// Equal compares two Money values for exact equality of value and currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Value.Equal(other.Value)
}

// WithinTolerance reports whether the absolute difference between the two
// amounts is strictly below the given tolerance. Currency is not considered.
func (m Money) WithinTolerance(other Money, tolerance decimal.Decimal) bool {
	return m.Value.Sub(other.Value).Abs().LessThan(tolerance)
}

// Abs returns the absolute value of the amount.
func (m Money) Abs() decimal.Decimal {
	return m.Value.Abs()
}

// String returns a human-readable representation like "USD 1500.00".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Currency, m.Value.StringFixed(2))
}

// Validate performs basic validation on the Money value
func (m Money) Validate() error {
	if len(m.Currency) != 3 {
		return fmt.Errorf("currency must be a 3-letter code: %q", m.Currency)
	}
	return nil
}

// MarshalJSON implements custom JSON marshaling for Money
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	}{
		Value:    m.Value.String(),
		Currency: m.Currency,
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Money.
// The value may arrive as a JSON number or as a string.
func (m *Money) UnmarshalJSON(data []byte) error {
	aux := &struct {
		Value    json.Number `json:"value"`
		Currency string      `json:"currency"`
	}{}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	value, err := decimal.NewFromString(aux.Value.String())
	if err != nil {
		return fmt.Errorf("invalid amount format: %w", err)
	}

	m.Value = value
	m.Currency = strings.TrimSpace(aux.Currency)
	return nil
}

// Counterparty identifies the other party of a transaction.
type Counterparty struct {
	Name string `json:"name"`
}

// Transaction represents a bank transaction with its free-text remittance
// description. Transactions are owned by the data-loading layer and are
// treated as immutable by the matching and duplicate-detection engines.
type Transaction struct {
	ID           string       `json:"id"`
	Description  string       `json:"description"`
	Amount       Money        `json:"amount"`
	ValueDate    time.Time    `json:"valueDate"`
	Counterparty Counterparty `json:"counterparty"`
}

// NewTransaction creates a new Transaction instance
func NewTransaction(id, description string, amount Money, valueDate time.Time, counterparty string) *Transaction {
	return &Transaction{
		ID:           id,
		Description:  description,
		Amount:       amount,
		ValueDate:    valueDate,
		Counterparty: Counterparty{Name: counterparty},
	}
}

// Validate performs basic validation on the Transaction
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("transaction ID cannot be empty")
	}

	if err := t.Amount.Validate(); err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	if t.ValueDate.IsZero() {
		return fmt.Errorf("transaction value date cannot be zero")
	}

	if len(t.Description) > 140 {
		return fmt.Errorf("description exceeds 140 characters: %d", len(t.Description))
	}

	return nil
}

// String returns a string representation of the Transaction
func (t *Transaction) String() string {
	return fmt.Sprintf("Transaction{ID: %s, Amount: %s, Date: %s, Counterparty: %s}",
		t.ID, t.Amount.String(), t.ValueDate.Format("2006-01-02"), t.Counterparty.Name)
}

// Equals compares two Transaction instances for equality
func (t *Transaction) Equals(other *Transaction) bool {
	if other == nil {
		return false
	}

	return t.ID == other.ID &&
		t.Description == other.Description &&
		t.Amount.Equal(other.Amount) &&
		t.ValueDate.Equal(other.ValueDate) &&
		t.Counterparty.Name == other.Counterparty.Name
}

// MarshalJSON implements custom JSON marshaling for Transaction
func (t *Transaction) MarshalJSON() ([]byte, error) {
	type Alias Transaction
	return json.Marshal(&struct {
		ValueDate string `json:"valueDate"`
		*Alias
	}{
		ValueDate: t.ValueDate.Format(time.RFC3339),
		Alias:     (*Alias)(t),
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Transaction
func (t *Transaction) UnmarshalJSON(data []byte) error {
	type Alias Transaction
	aux := &struct {
		ValueDate string `json:"valueDate"`
		*Alias
	}{
		Alias: (*Alias)(t),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	valueDate, err := ParseTimeWithFormats(aux.ValueDate)
	if err != nil {
		return fmt.Errorf("invalid value date format: %w", err)
	}

	t.ValueDate = valueDate
	return nil
}

// Utility functions for type conversion and validation

// ParseDecimalFromString parses a decimal value from string with validation
func ParseDecimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount string cannot be empty")
	}

	// Remove common currency symbols and thousand separators
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal format '%s': %w", s, err)
	}

	return d, nil
}

// ParseTimeWithFormats attempts to parse time from string using multiple common formats
func ParseTimeWithFormats(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("time string cannot be empty")
	}

	// Common formats used in transaction exports
	formats := []string{
		time.RFC3339,          // "2006-01-02T15:04:05Z07:00"
		"2006-01-02 15:04:05", // "2006-01-02 15:04:05"
		"2006-01-02T15:04:05", // "2006-01-02T15:04:05"
		"2006-01-02",          // "2006-01-02"
		"01/02/2006",          // "01/02/2006"
		"Jan 2, 2006",         // "Jan 2, 2006"
	}

	var lastErr error
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse time '%s': %w", s, lastErr)
}

// CompareDatesWithTolerance reports whether two dates lie within the given
// tolerance expressed in hours.
func CompareDatesWithTolerance(a, b time.Time, toleranceHours float64) bool {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}

	return diff.Hours() <= toleranceHours
}
