package matcher

import (
	"math"

	"bookkeeping-service/internal/models"
)

// Score holds the per-field sub-scores and the combined confidence value
// for one bank/ledger record pairing. All values are in [0,1].
type Score struct {
	Amount       float64
	Date         float64
	Counterparty float64
	Overall      float64
}

// Details returns the sub-scores as a map keyed by field name, kept on each
// fuzzy match for auditability.
func (s Score) Details() map[string]float64 {
	return map[string]float64{
		"amount":       s.Amount,
		"date":         s.Date,
		"counterparty": s.Counterparty,
		"overall":      s.Overall,
	}
}

// Scorer computes similarity scores between bank records and ledger
// records. It is a pure function of its inputs; the only state is the
// pluggable name similarity algorithm.
type Scorer struct {
	similarity NameSimilarity
}

// NewScorer creates a Scorer with the given name similarity algorithm.
// A nil similarity falls back to the default Levenshtein ratio.
func NewScorer(similarity NameSimilarity) *Scorer {
	if similarity == nil {
		similarity = NewLevenshteinSimilarity()
	}

	return &Scorer{similarity: similarity}
}

// ScoreMatch computes the per-field sub-scores for a bank/ledger pairing
// and combines them into one weighted confidence value.
func (s *Scorer) ScoreMatch(bank *models.BankRecord, ledger *models.LedgerRecord, config *Config) Score {
	score := Score{
		Amount:       s.amountScore(bank, ledger, config),
		Date:         s.dateScore(bank, ledger, config),
		Counterparty: s.counterpartyScore(bank, ledger),
	}

	score.Overall = amountWeight*score.Amount +
		dateWeight*score.Date +
		counterpartyWeight*score.Counterparty

	return score
}

// amountScore decays linearly from 1.0 at equal amounts to 0.0 at the
// allowed deviation. With zero tolerance only exact equality scores.
func (s *Scorer) amountScore(bank *models.BankRecord, ledger *models.LedgerRecord, config *Config) float64 {
	diff := bank.Amount.Sub(ledger.Amount).Abs()
	allowed := config.AllowedAmountDeviation(bank.Amount, ledger.Amount)

	if allowed.IsZero() {
		if diff.IsZero() {
			return 1.0
		}
		return 0.0
	}

	ratio := diff.Div(allowed).InexactFloat64()
	return math.Max(0.0, 1.0-ratio)
}

// dateScore decays linearly from 1.0 on the same day to 0.0 at the date
// tolerance. With zero tolerance only same-day records score.
func (s *Scorer) dateScore(bank *models.BankRecord, ledger *models.LedgerRecord, config *Config) float64 {
	dayDiff := models.DayDifference(bank.Date, ledger.Date)

	if config.DateToleranceDays == 0 {
		if dayDiff == 0 {
			return 1.0
		}
		return 0.0
	}

	ratio := float64(dayDiff) / float64(config.DateToleranceDays)
	return math.Max(0.0, 1.0-ratio)
}

// counterpartyScore compares the two counterparty names case-insensitively.
// Two empty names agree fully; an empty name against a non-empty one does
// not agree at all. Containment counts as full agreement regardless of the
// underlying similarity ratio.
func (s *Scorer) counterpartyScore(bank *models.BankRecord, ledger *models.LedgerRecord) float64 {
	bankName := normalizeName(bank.Counterparty)
	ledgerName := normalizeName(ledger.Counterparty)

	if bankName == "" && ledgerName == "" {
		return 1.0
	}

	if bankName == "" || ledgerName == "" {
		return 0.0
	}

	if nameContains(bankName, ledgerName) {
		return 1.0
	}

	return s.similarity.Ratio(bankName, ledgerName)
}
