package services

import (
	"strings"

	"github.com/olibranch/analysis-api/models"
)

// defaultVolatility is substituted when fewer than two months of revenue
// data exist. Arbitrary placeholder for "moderate volatility", kept for
// compatibility with historical reports.
const defaultVolatility = 0.15

// ScoringContext carries everything the metrics extractor needs besides the
// findings themselves. Transactions are the normalized ones the detectors
// ran on.
type ScoringContext struct {
	Transactions []models.Transaction
	Profile      models.BusinessProfile
	WindowDays   int
}

func (c ScoringContext) monthsInWindow() float64 {
	days := c.WindowDays
	if days <= 0 {
		days = DefaultWindowDays
	}
	return float64(days) / 30.0
}

// ExtractMetrics derives the flat metrics record scoring runs over. Every
// division is guarded; degenerate inputs resolve to safe defaults rather
// than errors.
func ExtractMetrics(ctx ScoringContext, findings []models.Finding) models.Metrics {
	var m models.Metrics
	months := ctx.monthsInWindow()

	// Revenue: prefer observed inflows, fall back to the self-reported
	// number, floor at 1 to keep every ratio below well-defined.
	var actualRevenue float64
	for _, t := range ctx.Transactions {
		if t.Direction == models.DirectionCredit && t.Amount > 0 {
			actualRevenue += t.Amount
		}
	}
	actualRevenue /= months
	m.MonthlyRevenue = max3(actualRevenue, ctx.Profile.MonthlyRevenue, 1)

	var actualExpenses float64
	for _, t := range ctx.Transactions {
		if t.Direction == models.DirectionDebit {
			actualExpenses += t.AmountAbs
		}
	}
	actualExpenses /= months
	m.MonthlyExpenses = max3(actualExpenses, ctx.Profile.MonthlyExpenses, 0)

	m.Margin = (m.MonthlyRevenue - m.MonthlyExpenses) / m.MonthlyRevenue

	var monthlyFees, monthlyLeaks float64
	for _, f := range findings {
		monthlyLeaks += f.MonthlyCost
		if f.Category == models.CategoryFees {
			monthlyFees += f.MonthlyCost
		}
	}
	m.FeeRatio = monthlyFees / m.MonthlyRevenue
	m.LeakRatio = monthlyLeaks / m.MonthlyRevenue

	if ctx.Profile.UsesCash() {
		m.CashIntensityFlag = 1
	}
	m.ProcessorFriction = m.CashIntensityFlag

	debitCount := 0
	for _, t := range ctx.Transactions {
		if t.Direction == models.DirectionDebit {
			debitCount++
		}
	}
	m.TransactionVolume = float64(debitCount) / months

	if strings.Contains(strings.ToLower(ctx.Profile.BankUsed), "personal") {
		m.AccountMismatchFlag = 1
	}

	for _, t := range ctx.Transactions {
		if containsAny(strings.ToLower(t.Name), "nsf", "insufficient", "overdraft") {
			m.NSFCount++
		}
	}

	m.DebtRatio = debtRatio(ctx, months, m.MonthlyRevenue)
	m.Volatility = revenueVolatility(ctx.Transactions)

	return m
}

// debtRatio estimates monthly loan servicing from loan/interest-named
// debits, relative to revenue. Zero when the business reports no loans.
func debtRatio(ctx ScoringContext, months, monthlyRevenue float64) float64 {
	if strings.TrimSpace(ctx.Profile.LoansTaken) == "" {
		return 0
	}
	var loanPayments float64
	for _, t := range ctx.Transactions {
		if t.Direction != models.DirectionDebit {
			continue
		}
		if containsAny(strings.ToLower(t.Name), "loan", "interest") {
			loanPayments += t.AmountAbs
		}
	}
	return (loanPayments / months) / monthlyRevenue
}

// revenueVolatility measures the max deviation of monthly revenue from its
// mean. With fewer than two observed months there is nothing to measure and
// the moderate default applies.
func revenueVolatility(txns []models.Transaction) float64 {
	monthlyRevenues := make(map[string]float64)
	for _, t := range txns {
		if t.Direction == models.DirectionCredit && !t.PostedAt.IsZero() {
			monthlyRevenues[t.Month()] += t.Amount
		}
	}
	if len(monthlyRevenues) < 2 {
		return defaultVolatility
	}

	var total float64
	for _, v := range monthlyRevenues {
		total += v
	}
	mean := total / float64(len(monthlyRevenues))
	if mean <= 0 {
		return 0
	}

	var maxDeviation float64
	for _, v := range monthlyRevenues {
		if d := abs(v - mean); d > maxDeviation {
			maxDeviation = d
		}
	}
	return maxDeviation / mean
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
