package matcher

import (
	"sort"
	"strings"

	"golang-refmatch-service/internal/models"
	"golang-refmatch-service/internal/patterns"
)

// buildSuggestions assembles related search terms for a query: variants of the
// extracted reference patterns, the most frequent counterparty names, and
// high-confidence references from recent transactions. The result is
// deduplicated and capped at MaxSuggestions.
func (e *Engine) buildSuggestions(queryPatterns []patterns.ReferencePattern, transactions []*models.Transaction) []string {
	suggestions := make([]string, 0, e.Config.MaxSuggestions)
	seen := make(map[string]bool)

	add := func(s string) {
		if s == "" || seen[s] || len(suggestions) >= e.Config.MaxSuggestions {
			return
		}
		seen[s] = true
		suggestions = append(suggestions, s)
	}

	for _, qp := range queryPatterns {
		if qp.Type == patterns.PatternUnknown || qp.Value == "" {
			continue
		}
		add(qp.Value + "*")
		add("*" + qp.Value)
		switch qp.Type {
		case patterns.PatternInvoice:
			if !strings.HasPrefix(qp.Value, "INV") {
				add("INV-" + qp.Value)
			}
			add("INVOICE " + qp.Value)
		case patterns.PatternPO:
			if !strings.HasPrefix(qp.Value, "PO") {
				add("PO-" + qp.Value)
			}
			add("PURCHASE ORDER " + qp.Value)
		}
	}

	for _, name := range topCounterparties(transactions, e.Config.TopCounterparties) {
		add(name)
	}

	for _, ref := range e.recentReferences(transactions) {
		add(ref)
	}

	return suggestions
}

// topCounterparties returns the limit most frequent non-empty counterparty
// names, ties broken by first appearance.
func topCounterparties(transactions []*models.Transaction, limit int) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, tx := range transactions {
		name := tx.Counterparty.Name
		if name == "" {
			continue
		}
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}
	return order
}

// recentReferences extracts distinct high-confidence reference values from the
// most recently dated transactions.
func (e *Engine) recentReferences(transactions []*models.Transaction) []string {
	recent := make([]*models.Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].ValueDate.After(recent[j].ValueDate)
	})
	if len(recent) > e.Config.RecentWindow {
		recent = recent[:e.Config.RecentWindow]
	}

	refs := make([]string, 0, e.Config.RecentReferences)
	seen := make(map[string]bool)
	for _, tx := range recent {
		for _, p := range patterns.ExtractPatterns(tx.Description) {
			if p.Type == patterns.PatternUnknown || p.Confidence <= e.Config.SuggestionMinConfidence {
				continue
			}
			if seen[p.Value] {
				continue
			}
			seen[p.Value] = true
			refs = append(refs, p.Value)
			if len(refs) >= e.Config.RecentReferences {
				return refs
			}
		}
	}
	return refs
}
