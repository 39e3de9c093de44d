package services

import (
	"sort"

	"github.com/olibranch/analysis-api/models"
)

var severityWeights = map[string]int{
	models.SeverityHigh:   3,
	models.SeverityMedium: 2,
	models.SeverityLow:    1,
}

// annualize normalizes monthly/annual costs across findings relative to the
// analysis window. months_in_window = window_days / 30.0 is the single
// conversion constant used everywhere.
func annualize(findings []models.Finding, windowDays int) {
	monthsInWindow := float64(windowDays) / 30.0

	for i := range findings {
		f := &findings[i]
		if f.MonthlyCost == 0 && f.Evidence != nil {
			// Findings that only carry evidence totals get costed here.
			if total, ok := f.Evidence["total_fees"].(float64); ok && total > 0 {
				f.MonthlyCost = total / monthsInWindow
			}
		}
		f.AnnualCost = f.MonthlyCost * 12
	}
}

// rankFindings total-orders findings: monthly cost descending, then
// confidence descending, then severity weight descending. Findings equal on
// all three keys fall back to code order, so repeated runs on identical
// input always produce the same sequence.
func rankFindings(findings []models.Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.MonthlyCost != b.MonthlyCost {
			return a.MonthlyCost > b.MonthlyCost
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if severityWeights[a.Severity] != severityWeights[b.Severity] {
			return severityWeights[a.Severity] > severityWeights[b.Severity]
		}
		return a.Code < b.Code
	})
}

// SummarizeFindings aggregates a ranked finding list for report headers.
func SummarizeFindings(findings []models.Finding) models.FindingsSummary {
	summary := models.FindingsSummary{
		BySeverity: make(map[string]int),
		ByCategory: make(map[string]int),
	}
	for _, f := range findings {
		summary.TotalLeaks++
		summary.TotalMonthlyCost += f.MonthlyCost
		summary.BySeverity[f.Severity]++
		summary.ByCategory[f.Category]++
	}
	summary.TotalAnnualCost = summary.TotalMonthlyCost * 12
	return summary
}
