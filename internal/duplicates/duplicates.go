// Package duplicates finds likely duplicate transactions within a dataset.
//
// Two transactions are duplicates when their value dates fall within a
// configurable window, their amounts agree within a small tolerance in the
// same currency, and either their descriptions are highly similar or their
// counterparties match exactly. Detection runs a single left-to-right pass: the
// earliest transaction in input order that has at least one duplicate becomes
// the original of its group, and grouped transactions are not considered
// again.
package duplicates

import (
	"strings"

	"golang-refmatch-service/internal/models"
	"golang-refmatch-service/internal/similarity"
	"golang-refmatch-service/pkg/logger"
)

// Group is one detected cluster: the original transaction and the later
// entries judged to duplicate it.
type Group struct {
	Original   *models.Transaction   `json:"original"`
	Duplicates []*models.Transaction `json:"duplicates"`
}

// Size returns the total number of transactions in the group.
func (g *Group) Size() int {
	return 1 + len(g.Duplicates)
}

// Detector scans transaction sets for duplicate groups.
type Detector struct {
	Config *Config
	logger logger.Logger

	// Progress, when set, is invoked after each position in the outer scan.
	// done counts outer-loop positions, not pairwise comparisons, so the
	// per-step cost shrinks as the scan advances.
	Progress func(done, total int)
}

// NewDetector creates a detector with the given configuration, falling back
// to DefaultConfig when config is nil.
func NewDetector(config *Config) *Detector {
	if config == nil {
		config = DefaultConfig()
	}
	return &Detector{
		Config: config,
		logger: logger.GetGlobalLogger().WithComponent("duplicates"),
	}
}

// FindDuplicates detects duplicate groups using the default configuration
// with the given value-date tolerance.
func FindDuplicates(transactions []*models.Transaction, toleranceHours float64) []Group {
	config := DefaultConfig()
	config.ToleranceHours = toleranceHours
	return NewDetector(config).Detect(transactions)
}

// Detect scans transactions in input order and returns the duplicate groups
// found. Transactions with no duplicates appear in no group. The result is
// never nil.
func (d *Detector) Detect(transactions []*models.Transaction) []Group {
	groups := []Group{}
	if len(transactions) < 2 {
		return groups
	}

	processed := make(map[string]bool, len(transactions))
	for i, tx := range transactions {
		if !processed[tx.ID] {
			var dups []*models.Transaction
			for _, candidate := range transactions[i+1:] {
				if processed[candidate.ID] {
					continue
				}
				if d.isDuplicate(tx, candidate) {
					dups = append(dups, candidate)
					processed[candidate.ID] = true
				}
			}

			if len(dups) > 0 {
				processed[tx.ID] = true
				groups = append(groups, Group{Original: tx, Duplicates: dups})
			}
		}

		if d.Progress != nil {
			d.Progress(i+1, len(transactions))
		}
	}

	d.logger.WithFields(logger.Fields{
		"transactions": len(transactions),
		"groups":       len(groups),
	}).Debug("Duplicate detection completed")

	return groups
}

// isDuplicate applies the criteria in order of increasing cost. The amount
// must agree strictly within the tolerance; counterparty equality and
// description similarity are alternatives, either one suffices.
func (d *Detector) isDuplicate(a, b *models.Transaction) bool {
	if !models.CompareDatesWithTolerance(a.ValueDate, b.ValueDate, d.Config.ToleranceHours) {
		return false
	}
	if a.Amount.Currency != b.Amount.Currency {
		return false
	}
	if !a.Amount.Value.Sub(b.Amount.Value).Abs().LessThan(d.Config.AmountTolerance) {
		return false
	}
	if a.Counterparty.Name == b.Counterparty.Name {
		return true
	}
	score := similarity.Similarity(strings.ToLower(a.Description), strings.ToLower(b.Description))
	return score > d.Config.SimilarityThreshold
}
