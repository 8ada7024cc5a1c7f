package matcher

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"golang-refmatch-service/internal/models"
	"golang-refmatch-service/internal/patterns"
	"golang-refmatch-service/internal/similarity"
	"golang-refmatch-service/pkg/logger"

	"github.com/shopspring/decimal"
)

// TransactionMatch links a transaction to the strategy that matched it.
// The transaction is referenced, never copied or mutated.
type TransactionMatch struct {
	Transaction *models.Transaction `json:"transaction"`
	MatchReason string              `json:"matchReason"`
	Confidence  float64             `json:"confidence"`
	MatchType   MatchType           `json:"matchType"`
}

// SearchResult is the complete outcome of one query execution.
type SearchResult struct {
	Query        string                      `json:"query"`
	Patterns     []patterns.ReferencePattern `json:"patterns"`
	Matches      []TransactionMatch          `json:"matches"`
	Suggestions  []string                    `json:"suggestions"`
	SearchTimeMs float64                     `json:"searchTimeMs"`
}

// Engine runs search strategies over an in-memory transaction collection.
type Engine struct {
	Config *Config
	logger logger.Logger
}

// NewEngine creates a matching engine with the specified configuration.
// A nil config selects the defaults.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}

	return &Engine{
		Config: config,
		logger: logger.GetGlobalLogger().WithComponent("matcher"),
	}
}

// Search is a convenience wrapper for callers using the default engine.
func Search(query string, transactions []*models.Transaction) *SearchResult {
	return NewEngine(nil).Search(query, transactions)
}

// FuzzySearch is a convenience wrapper for callers using the default engine.
func FuzzySearch(query string, transactions []*models.Transaction, threshold float64) []TransactionMatch {
	return NewEngine(nil).FuzzySearch(query, transactions, threshold)
}

// Search runs all strategies for the query against the transaction set and
// returns the ranked matches together with search suggestions. The function
// is total: empty and malformed queries produce a well-formed result, never
// an error.
func (e *Engine) Search(query string, transactions []*models.Transaction) *SearchResult {
	return e.SearchContext(context.Background(), query, transactions)
}

// SearchContext is Search with cancellation. Workers check the context
// between transactions; no single comparison is long-running.
func (e *Engine) SearchContext(ctx context.Context, query string, transactions []*models.Transaction) *SearchResult {
	start := time.Now()

	queryPatterns := patterns.ExtractPatterns(query)
	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryAmount, hasAmount := parseQueryAmount(query)

	matches := e.scoreAll(ctx, queryLower, queryPatterns, queryAmount, hasAmount, transactions)

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	if len(matches) > e.Config.MaxMatches {
		matches = matches[:e.Config.MaxMatches]
	}

	suggestions := e.buildSuggestions(queryPatterns, transactions)

	elapsed := float64(time.Since(start).Nanoseconds()) / 1e6

	e.logger.WithFields(logger.Fields{
		"query":       query,
		"matches":     len(matches),
		"suggestions": len(suggestions),
		"elapsed_ms":  elapsed,
	}).Debug("search completed")

	return &SearchResult{
		Query:        query,
		Patterns:     queryPatterns,
		Matches:      matches,
		Suggestions:  suggestions,
		SearchTimeMs: elapsed,
	}
}

// scoreAll evaluates every transaction and collects the hits in input
// order. With MaxConcurrency > 1 the loop runs on a worker pool writing to
// index-aligned slots, so no lock is needed and ordering is preserved for
// the stable sort that follows.
func (e *Engine) scoreAll(ctx context.Context, queryLower string, queryPatterns []patterns.ReferencePattern, queryAmount decimal.Decimal, hasAmount bool, transactions []*models.Transaction) []TransactionMatch {
	if queryLower == "" {
		return nil
	}

	slots := make([]*TransactionMatch, len(transactions))

	if e.Config.MaxConcurrency > 1 && len(transactions) > 1 {
		var wg sync.WaitGroup
		indexes := make(chan int)

		workers := e.Config.MaxConcurrency
		if workers > len(transactions) {
			workers = len(transactions)
		}

		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range indexes {
					slots[i] = e.scoreTransaction(queryLower, queryPatterns, queryAmount, hasAmount, transactions[i])
				}
			}()
		}

	feed:
		for i := range transactions {
			select {
			case <-ctx.Done():
				break feed
			case indexes <- i:
			}
		}
		close(indexes)
		wg.Wait()
	} else {
	scan:
		for i, tx := range transactions {
			select {
			case <-ctx.Done():
				break scan
			default:
			}
			slots[i] = e.scoreTransaction(queryLower, queryPatterns, queryAmount, hasAmount, tx)
		}
	}

	var matches []TransactionMatch
	for _, match := range slots {
		if match != nil {
			matches = append(matches, *match)
		}
	}
	return matches
}

// scoreTransaction runs the strategies in their fixed order and returns the
// first hit, guaranteeing at most one match per transaction.
func (e *Engine) scoreTransaction(queryLower string, queryPatterns []patterns.ReferencePattern, queryAmount decimal.Decimal, hasAmount bool, tx *models.Transaction) *TransactionMatch {
	// 1. Exact token match between query and description references. The
	// UNKNOWN fallback pattern is raw text, not a reference token, so it
	// never takes part on either side.
	txPatterns := patterns.ExtractPatterns(tx.Description)
	for _, qp := range queryPatterns {
		if qp.Type == patterns.PatternUnknown {
			continue
		}
		for _, tp := range txPatterns {
			if tp.Type == patterns.PatternUnknown {
				continue
			}
			if qp.Value != "" && strings.EqualFold(qp.Value, tp.Value) {
				return &TransactionMatch{
					Transaction: tx,
					MatchReason: fmt.Sprintf("Exact %s reference match: %s", tp.Type, tp.Value),
					Confidence:  0.95,
					MatchType:   MatchExact,
				}
			}
		}
	}

	// 2. Partial substring match
	if strings.Contains(strings.ToLower(tx.Description), queryLower) {
		return &TransactionMatch{
			Transaction: tx,
			MatchReason: fmt.Sprintf("Description contains %q", queryLower),
			Confidence:  0.7,
			MatchType:   MatchPartial,
		}
	}

	// 3. Amount match
	if hasAmount && tx.Amount.Value.Sub(queryAmount).Abs().LessThan(e.Config.AmountTolerance) {
		return &TransactionMatch{
			Transaction: tx,
			MatchReason: fmt.Sprintf("Amount match: %s", tx.Amount.String()),
			Confidence:  0.8,
			MatchType:   MatchPattern,
		}
	}

	// 4. Counterparty match
	if tx.Counterparty.Name != "" && strings.Contains(strings.ToLower(tx.Counterparty.Name), queryLower) {
		return &TransactionMatch{
			Transaction: tx,
			MatchReason: fmt.Sprintf("Counterparty match: %s", tx.Counterparty.Name),
			Confidence:  0.85,
			MatchType:   MatchPattern,
		}
	}

	return nil
}

// FuzzySearch scores every transaction description against the query with
// the similarity engine and keeps those at or above threshold, sorted by
// descending confidence. It is a separate entry point from Search; callers
// decide when a fuzzy fallback is warranted. The caller validates
// threshold as a precondition.
func (e *Engine) FuzzySearch(query string, transactions []*models.Transaction, threshold float64) []TransactionMatch {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	var matches []TransactionMatch
	for _, tx := range transactions {
		score := similarity.Similarity(queryLower, strings.ToLower(tx.Description))
		if score >= threshold {
			matches = append(matches, TransactionMatch{
				Transaction: tx,
				MatchReason: fmt.Sprintf("Description similarity: %.0f%%", score*100),
				Confidence:  score,
				MatchType:   MatchFuzzy,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})

	return matches
}

// amountPattern recognizes comma-grouped amounts with optional cents and
// plain digit runs. Grouped forms are tried first so "1,500.00" is taken
// whole instead of stopping at the first group.
var amountPattern = regexp.MustCompile(`\d{1,3}(?:,\d{3})+(?:\.\d{2})?|\d+(?:\.\d{2})?`)

// parseQueryAmount extracts the first amount-shaped token from the query.
// Parse failure means the amount strategy is skipped, never an error.
func parseQueryAmount(query string) (decimal.Decimal, bool) {
	token := amountPattern.FindString(query)
	if token == "" {
		return decimal.Decimal{}, false
	}

	value, err := models.ParseDecimalFromString(token)
	if err != nil {
		return decimal.Decimal{}, false
	}

	return value, true
}
