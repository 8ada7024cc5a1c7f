package duplicates

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"golang-refmatch-service/internal/models"
)

func dupTransaction(id, description string, amount float64, currency string, at time.Time, counterparty string) *models.Transaction {
	return models.NewTransaction(id, description, models.NewMoney(amount, currency), at, counterparty)
}

var baseTime = time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)

func TestDetect_ExactDuplicates(t *testing.T) {
	transactions := []*models.Transaction{
		dupTransaction("tx-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
		dupTransaction("tx-2", "Payment INV-2024-001", 1500.00, "USD", baseTime.Add(2*time.Hour), "ACME Corporation"),
		dupTransaction("tx-3", "Office rent March", 4200.00, "USD", baseTime, "Wayne Logistics"),
	}

	groups := NewDetector(nil).Detect(transactions)

	if len(groups) != 1 {
		t.Fatalf("Expected 1 group, got %d", len(groups))
	}
	if groups[0].Original.ID != "tx-1" {
		t.Errorf("Expected tx-1 as original, got %s", groups[0].Original.ID)
	}
	if len(groups[0].Duplicates) != 1 || groups[0].Duplicates[0].ID != "tx-2" {
		t.Errorf("Expected tx-2 as duplicate, got %v", groups[0].Duplicates)
	}
	if groups[0].Size() != 2 {
		t.Errorf("Expected group size 2, got %d", groups[0].Size())
	}
}

func TestDetect_RejectionCriteria(t *testing.T) {
	tests := []struct {
		name  string
		other *models.Transaction
	}{
		{
			name:  "Outside date window",
			other: dupTransaction("tx-2", "Payment INV-2024-001", 1500.00, "USD", baseTime.Add(30*time.Hour), "ACME Corporation"),
		},
		{
			name:  "Different currency",
			other: dupTransaction("tx-2", "Payment INV-2024-001", 1500.00, "EUR", baseTime, "ACME Corporation"),
		},
		{
			name:  "Amount beyond tolerance",
			other: dupTransaction("tx-2", "Payment INV-2024-001", 1500.50, "USD", baseTime, "ACME Corporation"),
		},
		{
			name:  "Amount at tolerance boundary",
			other: dupTransaction("tx-2", "Payment INV-2024-001", 1500.01, "USD", baseTime, "ACME Corporation"),
		},
		{
			name:  "Neither similar description nor matching counterparty",
			other: dupTransaction("tx-2", "Quarterly consulting retainer fee", 1500.00, "USD", baseTime, "Globex Industries"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transactions := []*models.Transaction{
				dupTransaction("tx-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
				tt.other,
			}

			if groups := NewDetector(nil).Detect(transactions); len(groups) != 0 {
				t.Errorf("Expected no groups, got %v", groups)
			}
		})
	}
}

func TestDetect_AmountWithinTolerance(t *testing.T) {
	transactions := []*models.Transaction{
		dupTransaction("tx-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
		dupTransaction("tx-2", "Payment INV-2024-001", 1500.005, "USD", baseTime, "ACME Corporation"),
	}

	if groups := NewDetector(nil).Detect(transactions); len(groups) != 1 {
		t.Errorf("Expected a half-cent difference to stay within tolerance, got %v", groups)
	}
}

func TestDetect_SimilarDescriptionDifferentCounterparty(t *testing.T) {
	transactions := []*models.Transaction{
		dupTransaction("tx-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
		dupTransaction("tx-2", "Payment INV-2024-001.", 1500.00, "USD", baseTime.Add(time.Hour), "ACME Corp"),
	}

	groups := NewDetector(nil).Detect(transactions)

	if len(groups) != 1 {
		t.Fatalf("Expected similar descriptions alone to group, got %d groups", len(groups))
	}
	if groups[0].Original.ID != "tx-1" || len(groups[0].Duplicates) != 1 {
		t.Errorf("Expected tx-1 with one duplicate, got %v", groups[0])
	}
}

func TestDetect_MatchingCounterpartyDissimilarDescription(t *testing.T) {
	transactions := []*models.Transaction{
		dupTransaction("tx-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
		dupTransaction("tx-2", "Quarterly consulting retainer fee", 1500.00, "USD", baseTime.Add(time.Hour), "ACME Corporation"),
	}

	if groups := NewDetector(nil).Detect(transactions); len(groups) != 1 {
		t.Errorf("Expected counterparty equality alone to group, got %v", groups)
	}
}

func TestDetect_CaseInsensitiveDescriptions(t *testing.T) {
	transactions := []*models.Transaction{
		dupTransaction("tx-1", "PAYMENT INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
		dupTransaction("tx-2", "payment inv-2024-001", 1500.00, "USD", baseTime, "ACME Corp"),
	}

	if groups := NewDetector(nil).Detect(transactions); len(groups) != 1 {
		t.Errorf("Expected case-insensitive description comparison, got %v", groups)
	}
}

func TestDetect_TransactionsGroupedOnce(t *testing.T) {
	transactions := []*models.Transaction{
		dupTransaction("tx-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
		dupTransaction("tx-2", "Payment INV-2024-001", 1500.00, "USD", baseTime.Add(time.Hour), "ACME Corporation"),
		dupTransaction("tx-3", "Payment INV-2024-001", 1500.00, "USD", baseTime.Add(2*time.Hour), "ACME Corporation"),
	}

	groups := NewDetector(nil).Detect(transactions)

	if len(groups) != 1 {
		t.Fatalf("Expected a single group, got %d", len(groups))
	}
	if len(groups[0].Duplicates) != 2 {
		t.Errorf("Expected both later transactions in the group, got %v", groups[0].Duplicates)
	}

	seen := make(map[string]int)
	seen[groups[0].Original.ID]++
	for _, d := range groups[0].Duplicates {
		seen[d.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("Transaction %s appears %d times", id, n)
		}
	}
}

func TestDetect_MultipleGroups(t *testing.T) {
	transactions := []*models.Transaction{
		dupTransaction("a-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
		dupTransaction("b-1", "PO-445566 settlement", 780.25, "USD", baseTime, "Initech LLC"),
		dupTransaction("a-2", "Payment INV-2024-001", 1500.00, "USD", baseTime.Add(time.Hour), "ACME Corporation"),
		dupTransaction("b-2", "PO-445566 settlement", 780.25, "USD", baseTime.Add(3*time.Hour), "Initech LLC"),
	}

	groups := NewDetector(nil).Detect(transactions)

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[0].Original.ID != "a-1" || groups[1].Original.ID != "b-1" {
		t.Errorf("Expected originals in input order, got %s and %s",
			groups[0].Original.ID, groups[1].Original.ID)
	}
}

func TestDetect_SmallInputs(t *testing.T) {
	detector := NewDetector(nil)

	if groups := detector.Detect(nil); groups == nil || len(groups) != 0 {
		t.Errorf("Expected empty non-nil result for nil input, got %v", groups)
	}

	single := []*models.Transaction{
		dupTransaction("tx-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
	}
	if groups := detector.Detect(single); groups == nil || len(groups) != 0 {
		t.Errorf("Expected empty non-nil result for single transaction, got %v", groups)
	}
}

func TestFindDuplicates_WiderWindow(t *testing.T) {
	transactions := []*models.Transaction{
		dupTransaction("tx-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
		dupTransaction("tx-2", "Payment INV-2024-001", 1500.00, "USD", baseTime.Add(40*time.Hour), "ACME Corporation"),
	}

	if groups := FindDuplicates(transactions, 24); len(groups) != 0 {
		t.Errorf("Expected no groups within 24h window, got %v", groups)
	}
	if groups := FindDuplicates(transactions, 48); len(groups) != 1 {
		t.Errorf("Expected 1 group within 48h window, got %v", groups)
	}
}

func TestDetect_ProgressCallback(t *testing.T) {
	transactions := []*models.Transaction{
		dupTransaction("tx-1", "Payment INV-2024-001", 1500.00, "USD", baseTime, "ACME Corporation"),
		dupTransaction("tx-2", "Payment INV-2024-001", 1500.00, "USD", baseTime.Add(time.Hour), "ACME Corporation"),
		dupTransaction("tx-3", "Office rent March", 4200.00, "USD", baseTime, "Wayne Logistics"),
	}

	detector := NewDetector(nil)
	var calls int
	var lastDone, lastTotal int
	detector.Progress = func(done, total int) {
		calls++
		lastDone, lastTotal = done, total
	}

	detector.Detect(transactions)

	if calls != len(transactions) {
		t.Errorf("Expected %d progress calls, got %d", len(transactions), calls)
	}
	if lastDone != 3 || lastTotal != 3 {
		t.Errorf("Expected final progress 3/3, got %d/%d", lastDone, lastTotal)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{
			name:      "Valid defaults",
			modify:    func(c *Config) {},
			wantError: false,
		},
		{
			name:      "Negative tolerance hours",
			modify:    func(c *Config) { c.ToleranceHours = -1 },
			wantError: true,
		},
		{
			name:      "Negative amount tolerance",
			modify:    func(c *Config) { c.AmountTolerance = decimal.NewFromFloat(-0.01) },
			wantError: true,
		},
		{
			name:      "Similarity threshold above one",
			modify:    func(c *Config) { c.SimilarityThreshold = 1.1 },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			err := config.Validate()
			if (err != nil) != tt.wantError {
				t.Errorf("Validate() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}
