package services

import (
	"fmt"

	"github.com/olibranch/analysis-api/models"
)

// RecommendAction maps a single finding to a concrete next step, or nil when
// no rule applies. Savings estimates assume the full leak is recoverable
// except where noted.
func RecommendAction(f models.Finding) *models.Recommendation {
	switch f.Code {
	case models.CodeMonthlyMaintenanceFee:
		return &models.Recommendation{
			FindingCode:      f.Code,
			Type:             "FEE_WAIVER",
			Title:            "Get your maintenance fee waived",
			Message:          fmt.Sprintf("Ask your bank about waiver conditions, most waive the fee above a minimum balance. Otherwise a fee-free business account saves you $%.0f/year.", f.AnnualCost),
			PotentialSavings: f.AnnualCost,
			Priority:         f.Severity,
			NeedsBankSwitch:  false,
		}

	case models.CodeOverdraftNSFFees:
		return &models.Recommendation{
			FindingCode:      f.Code,
			Type:             "CASH_FLOW",
			Title:            "Stop overdraft charges",
			Message:          "Set up low-balance alerts and link a backup account. Overdraft fees are a cash flow symptom, fixing the timing of outflows removes them entirely.",
			PotentialSavings: f.AnnualCost,
			Priority:         f.Severity,
			NeedsBankSwitch:  false,
		}

	case models.CodeSubscriptionWaste:
		return &models.Recommendation{
			FindingCode:      f.Code,
			Type:             "SUBSCRIPTION_AUDIT",
			Title:            "Audit your subscriptions",
			Message:          fmt.Sprintf("Cancel unused tools and consolidate duplicates. Cutting a third of your $%.0f/month subscription spend is typical after a first audit.", f.MonthlyCost),
			PotentialSavings: f.AnnualCost / 3,
			Priority:         f.Severity,
			NeedsBankSwitch:  false,
		}

	case models.CodePersonalAccountUsage:
		return &models.Recommendation{
			FindingCode:      f.Code,
			Type:             "ACCOUNT_SWITCH",
			Title:            "Open a business account",
			Message:          "Move business activity off your personal account. This separates liability, simplifies taxes and unlocks business banking features.",
			PotentialSavings: f.AnnualCost,
			Priority:         f.Severity,
			NeedsBankSwitch:  true,
		}

	case models.CodeCashDepositFees, models.CodeWireTransferFees,
		models.CodeACHTransferFees, models.CodeATMFees,
		models.CodeAccountTierMismatch:
		return &models.Recommendation{
			FindingCode:      f.Code,
			Type:             "BANK_COMPARISON",
			Title:            fmt.Sprintf("Compare banks on %s", f.Title),
			Message:          fmt.Sprintf("You're paying $%.2f/month here. Several business banks charge nothing for this, compare before your next statement cycle.", f.MonthlyCost),
			PotentialSavings: f.AnnualCost,
			Priority:         f.Severity,
			NeedsBankSwitch:  f.RequiresBankChange,
		}
	}

	return nil
}

// RecommendActions maps a ranked finding list to its action list, preserving
// order. Findings without a matching rule are skipped.
func RecommendActions(findings []models.Finding) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(findings))
	for _, f := range findings {
		if r := RecommendAction(f); r != nil {
			recs = append(recs, *r)
		}
	}
	return recs
}
