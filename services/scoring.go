package services

import (
	"fmt"
	"math"

	"github.com/olibranch/analysis-api/models"
)

// Risk labels for the mismatch score
const (
	RiskLabelHigh   = "High"
	RiskLabelMedium = "Medium"
	RiskLabelLow    = "Low"
)

// Health labels for the financial health score
const (
	HealthLabelHealthy  = "Healthy"
	HealthLabelOptimize = "Needs optimization"
	HealthLabelAtRisk   = "At risk"
	HealthLabelCritical = "Critical"
)

// CalculateScores derives the metrics record from the context and findings,
// then applies the two fixed weighted formulas. Both headline scores are
// integers clamped to [0,100] regardless of how extreme the inputs are.
func CalculateScores(ctx ScoringContext, findings []models.Finding) models.ScoreResult {
	metrics := ExtractMetrics(ctx, findings)
	return ScoreMetrics(metrics)
}

// ScoreMetrics applies the scoring formulas to an already-extracted metrics
// record. Split out so tests can drive the formulas with arbitrary metrics.
func ScoreMetrics(metrics models.Metrics) models.ScoreResult {
	mismatch := mismatchScore(metrics)
	health := financialHealthScore(metrics)

	return models.ScoreResult{
		Mismatch:        mismatch,
		FinancialHealth: health,
		RiskLabel:       riskLabel(mismatch),
		HealthLabel:     healthLabel(health),
		Components:      componentScores(metrics),
		Metrics:         metrics,
	}
}

// mismatchScore estimates how poorly the banking setup fits the business.
// Higher = worse fit.
//
//	35 pts: fee and leak burden relative to revenue
//	25 pts: personal account used for business
//	25 pts: cash intensity and processor friction
//	15 pts: NSF/overdraft risk events
func mismatchScore(m models.Metrics) int {
	feePenalty := clamp01(m.FeeRatio / 0.03)
	leakPenalty := clamp01(m.LeakRatio / 0.05)
	accountPenalty := float64(m.AccountMismatchFlag)
	cashPenalty := float64(m.CashIntensityFlag)
	riskPenalty := clamp01(float64(m.NSFCount) / 3)

	score := 35*(0.6*feePenalty+0.4*leakPenalty) +
		25*accountPenalty +
		25*(0.6*cashPenalty+0.4*float64(m.ProcessorFriction)) +
		15*riskPenalty

	return int(math.Round(clamp(score, 0, 100)))
}

// financialHealthScore estimates overall financial condition. Higher =
// healthier.
//
//	40 pts: profit margin (maps -10%..20% onto 0..1)
//	25 pts: fee + leak burden (6% of revenue saturates the penalty)
//	15 pts: debt servicing (25% of revenue is heavy)
//	10 pts: revenue volatility (30% deviation is bad)
//	10 pts: NSF/overdraft risk events
func financialHealthScore(m models.Metrics) int {
	marginScore := clamp01((m.Margin - (-0.10)) / 0.30)
	burdenScore := 1 - clamp01((m.FeeRatio+m.LeakRatio)/0.06)
	debtScore := 1 - clamp01(m.DebtRatio/0.25)
	volScore := 1 - clamp01(m.Volatility/0.30)
	riskScore := 1 - clamp01(float64(m.NSFCount)/3)

	s := 40*marginScore +
		25*burdenScore +
		15*debtScore +
		10*volScore +
		10*riskScore

	return int(math.Round(clamp(s, 0, 100)))
}

// componentScores is the per-dimension breakdown attached to the result for
// report display.
func componentScores(m models.Metrics) map[string]int {
	return map[string]int{
		"profit_margin":     int(math.Round(clamp(m.Margin*100, 0, 100))),
		"fee_efficiency":    int(math.Round(100 - m.FeeRatio*100)),
		"debt_health":       int(math.Round(100 - m.DebtRatio*100)),
		"revenue_stability": int(math.Round(100 - m.Volatility*100)),
		"cash_efficiency":   int(math.Round(100 - float64(m.CashIntensityFlag)*50)),
	}
}

func riskLabel(mismatch int) string {
	switch {
	case mismatch >= 70:
		return RiskLabelHigh
	case mismatch >= 40:
		return RiskLabelMedium
	default:
		return RiskLabelLow
	}
}

func healthLabel(health int) string {
	switch {
	case health >= 80:
		return HealthLabelHealthy
	case health >= 60:
		return HealthLabelOptimize
	case health >= 40:
		return HealthLabelAtRisk
	default:
		return HealthLabelCritical
	}
}

// ExplainScore returns the display sentence for a score tier.
func ExplainScore(scoreType string, score int) string {
	switch scoreType {
	case "mismatch":
		switch {
		case score >= 70:
			return fmt.Sprintf("Your banking setup has significant mismatches (score: %d). You're likely paying too much in fees and using the wrong account types.", score)
		case score >= 40:
			return fmt.Sprintf("Your banking setup has some mismatches (score: %d). There are opportunities to optimize your accounts and reduce fees.", score)
		default:
			return fmt.Sprintf("Your banking setup is well-matched to your needs (score: %d). Keep monitoring for changes.", score)
		}
	case "financial_health":
		switch {
		case score >= 80:
			return fmt.Sprintf("Your business is financially healthy (score: %d). Strong profit margins and good financial management.", score)
		case score >= 60:
			return fmt.Sprintf("Your business needs some optimization (score: %d). Good foundation but room for improvement.", score)
		case score >= 40:
			return fmt.Sprintf("Your business is at risk (score: %d). Address leaks and improve cash flow.", score)
		default:
			return fmt.Sprintf("Your business is in critical condition (score: %d). Immediate action needed on expenses and cash flow.", score)
		}
	}
	return fmt.Sprintf("Score: %d", score)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
