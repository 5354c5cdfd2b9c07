package matcher

import (
	"fmt"

	"bookkeeping-service/internal/models"
)

// Match represents an accepted pairing of a bank record and a ledger record
type Match struct {
	Bank       *models.BankRecord   `json:"bank_record"`
	Ledger     *models.LedgerRecord `json:"ledger_record"`
	Confidence float64              `json:"confidence"`
	Type       MatchType            `json:"match_type"`
	Details    map[string]float64   `json:"details,omitempty"`
}

// Result represents the complete outcome of a reconciliation run. Every
// input record appears in exactly one match or exactly one unmatched list,
// never both and never twice.
type Result struct {
	Matches                []*Match               `json:"matches"`
	UnmatchedBankRecords   []*models.BankRecord   `json:"unmatched_bank_records"`
	UnmatchedLedgerRecords []*models.LedgerRecord `json:"unmatched_ledger_records"`
	TotalBankRecords       int                    `json:"total_bank_records"`
	TotalLedgerRecords     int                    `json:"total_ledger_records"`
}

// MatchedCount returns the number of accepted matches
func (r *Result) MatchedCount() int {
	return len(r.Matches)
}

// MatchRate returns the fraction of the larger input side that was matched.
// The max(1, ...) guard keeps the rate at 0 for two empty inputs.
func (r *Result) MatchRate() float64 {
	denominator := r.TotalBankRecords
	if r.TotalLedgerRecords > denominator {
		denominator = r.TotalLedgerRecords
	}
	if denominator < 1 {
		denominator = 1
	}

	return float64(r.MatchedCount()) / float64(denominator)
}

// Engine performs two-phase matching of bank records against ledger
// records. The engine holds no per-run state; a single Engine is safe to
// use from multiple goroutines with disjoint inputs.
type Engine struct {
	config *Config
	scorer *Scorer
}

// NewEngine creates a matching engine with the specified configuration.
// The configuration is validated once here; the engine never runs with an
// invalid one.
func NewEngine(config *Config) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching configuration: %w", err)
	}

	return &Engine{
		config: config.Clone(),
		scorer: NewScorer(nil),
	}, nil
}

// WithSimilarity replaces the counterparty name similarity algorithm
func (e *Engine) WithSimilarity(similarity NameSimilarity) *Engine {
	e.scorer = NewScorer(similarity)
	return e
}

// Config returns a copy of the engine configuration
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// MatchRecords runs the exact pass and, if enabled, the fuzzy pass over the
// given records and returns the resulting partition. Inputs are read-only;
// the result is freshly allocated on every call and iteration order is
// deterministic for identical inputs.
func (e *Engine) MatchRecords(bankRecords []*models.BankRecord, ledgerRecords []*models.LedgerRecord) *Result {
	result := &Result{
		Matches:            make([]*Match, 0),
		TotalBankRecords:   len(bankRecords),
		TotalLedgerRecords: len(ledgerRecords),
	}

	bankConsumed := make([]bool, len(bankRecords))
	ledgerConsumed := make([]bool, len(ledgerRecords))

	e.exactPass(bankRecords, ledgerRecords, bankConsumed, ledgerConsumed, result)

	if e.config.EnableFuzzyMatching {
		e.fuzzyPass(bankRecords, ledgerRecords, bankConsumed, ledgerConsumed, result)
	}

	// Leftovers keep their original input order
	result.UnmatchedBankRecords = make([]*models.BankRecord, 0)
	for i, bank := range bankRecords {
		if !bankConsumed[i] {
			result.UnmatchedBankRecords = append(result.UnmatchedBankRecords, bank)
		}
	}

	result.UnmatchedLedgerRecords = make([]*models.LedgerRecord, 0)
	for j, ledger := range ledgerRecords {
		if !ledgerConsumed[j] {
			result.UnmatchedLedgerRecords = append(result.UnmatchedLedgerRecords, ledger)
		}
	}

	return result
}

// exactPass pairs each bank record with the first remaining ledger record
// that agrees exactly on amount and date, with equal or containing
// counterparty names. First qualifying candidate wins.
func (e *Engine) exactPass(
	bankRecords []*models.BankRecord,
	ledgerRecords []*models.LedgerRecord,
	bankConsumed, ledgerConsumed []bool,
	result *Result,
) {
	for i, bank := range bankRecords {
		if bankConsumed[i] {
			continue
		}

		for j, ledger := range ledgerRecords {
			if ledgerConsumed[j] {
				continue
			}

			if !e.isExactMatch(bank, ledger) {
				continue
			}

			result.Matches = append(result.Matches, &Match{
				Bank:       bank,
				Ledger:     ledger,
				Confidence: 1.0,
				Type:       MatchExact,
			})
			bankConsumed[i] = true
			ledgerConsumed[j] = true
			break
		}
	}
}

// isExactMatch checks the exact-pass criteria for a single pairing
func (e *Engine) isExactMatch(bank *models.BankRecord, ledger *models.LedgerRecord) bool {
	if !bank.Amount.Equal(ledger.Amount) {
		return false
	}

	if !models.SameDay(bank.Date, ledger.Date) {
		return false
	}

	bankName := normalizeName(bank.Counterparty)
	ledgerName := normalizeName(ledger.Counterparty)

	return bankName == ledgerName || nameContains(bankName, ledgerName)
}

// fuzzyPass pairs each remaining bank record with its best-scoring
// remaining ledger record, accepting the pairing when the overall score
// reaches the acceptance threshold. Ties among equal top scores go to the
// earliest remaining ledger record, keeping the assignment deterministic.
//
// This is a greedy, input-order-dependent heuristic, not a globally optimal
// bipartite assignment; an early pick can block a better later pairing.
func (e *Engine) fuzzyPass(
	bankRecords []*models.BankRecord,
	ledgerRecords []*models.LedgerRecord,
	bankConsumed, ledgerConsumed []bool,
	result *Result,
) {
	for i, bank := range bankRecords {
		if bankConsumed[i] {
			continue
		}

		bestIndex := -1
		var bestScore Score

		for j, ledger := range ledgerRecords {
			if ledgerConsumed[j] {
				continue
			}

			score := e.scorer.ScoreMatch(bank, ledger, e.config)
			if bestIndex == -1 || score.Overall > bestScore.Overall {
				bestIndex = j
				bestScore = score
			}
		}

		if bestIndex == -1 || bestScore.Overall < FuzzyAcceptanceThreshold {
			continue
		}

		result.Matches = append(result.Matches, &Match{
			Bank:       bank,
			Ledger:     ledgerRecords[bestIndex],
			Confidence: bestScore.Overall,
			Type:       MatchFuzzy,
			Details:    bestScore.Details(),
		})
		bankConsumed[i] = true
		ledgerConsumed[bestIndex] = true
	}
}

// MatchRecords is a convenience wrapper that builds a one-shot engine for
// the given configuration and runs it over the records.
func MatchRecords(bankRecords []*models.BankRecord, ledgerRecords []*models.LedgerRecord, config *Config) (*Result, error) {
	engine, err := NewEngine(config)
	if err != nil {
		return nil, err
	}

	return engine.MatchRecords(bankRecords, ledgerRecords), nil
}
