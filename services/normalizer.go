package services

import (
	"strings"

	"github.com/olibranch/analysis-api/models"
)

// DefaultFeeKeywords flags fee-candidate transactions during normalization.
// Matched against the lowercased name+merchant text of each transaction.
var DefaultFeeKeywords = []string{
	"fee", "service charge", "maintenance", "wire", "nsf",
	"overdraft", "monthly", "atm", "cash deposit", "penalty",
	"minimum balance", "account analysis", "return item",
	"stop payment", "account research", "inactivity",
}

// Normalizer converts raw provider transactions into the canonical shape the
// detectors run on. The keyword set is injected so tests can substitute
// alternate sets deterministically.
type Normalizer struct {
	feeKeywords []string
}

func NewNormalizer(feeKeywords []string) *Normalizer {
	return &Normalizer{feeKeywords: feeKeywords}
}

// Normalize produces one canonical transaction per raw record. It never
// fails: unmatched records simply carry IsFee=false.
func (n *Normalizer) Normalize(raw []models.RawTransaction) []models.Transaction {
	txns := make([]models.Transaction, 0, len(raw))
	for _, r := range raw {
		t := models.Transaction{
			ID:            r.ID,
			BankAccountID: r.BankAccountID,
			PostedAt:      r.PostedAt,
			Name:          r.Name,
			Merchant:      r.Merchant,
			Amount:        r.Amount,
			Direction:     r.Direction,
			Category:      r.Category,
			AmountAbs:     abs(r.Amount),
		}

		// Positive amounts are outflows on business accounts.
		if t.Direction == "" {
			if r.Amount > 0 {
				t.Direction = models.DirectionDebit
			} else {
				t.Direction = models.DirectionCredit
			}
		}

		combined := strings.ToLower(r.Name) + " " + strings.ToLower(r.Merchant)
		for _, kw := range n.feeKeywords {
			if strings.Contains(combined, kw) {
				t.IsFee = true
				break
			}
		}
		if t.IsFee {
			t.FeeType = classifyFeeType(combined)
		}

		txns = append(txns, t)
	}
	return txns
}

// classifyFeeType assigns a fee type by keyword precedence. Order matters:
// "monthly service charge" must win over the generic transfer keywords.
func classifyFeeType(text string) string {
	switch {
	case containsAny(text, "monthly", "maintenance", "service charge"):
		return models.FeeTypeMonthlyMaintenance
	case strings.Contains(text, "cash deposit"):
		return models.FeeTypeCashDeposit
	case containsAny(text, "wire", "ach", "transfer"):
		return models.FeeTypeWireACH
	case containsAny(text, "overdraft", "nsf", "insufficient"):
		return models.FeeTypeOverdraftNSF
	case strings.Contains(text, "atm"):
		return models.FeeTypeATM
	}
	return ""
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
