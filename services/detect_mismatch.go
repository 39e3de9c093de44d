package services

import (
	"fmt"
	"strings"

	"github.com/olibranch/analysis-api/models"
)

// digitalPaymentKeywords defines what counts as a digital payment method
// when checking for manual processing.
var digitalPaymentKeywords = []string{"card", "ach", "wire", "online", "paypal", "stripe"}

// detectProcessorFriction flags cash-heavy operations and businesses with no
// digital payment rail at all. Both carry fixed estimated efficiency costs
// rather than observed fee totals.
func (e *LeakEngine) detectProcessorFriction(in detectInput) []models.Finding {
	var findings []models.Finding
	methods := in.profile.PaymentMethodList()

	if in.profile.UsesCash() {
		cashCount := 0
		for _, t := range in.txns {
			name := strings.ToLower(t.Name)
			if strings.Contains(name, "cash") || strings.Contains(name, "atm") {
				cashCount++
			}
		}

		total := len(in.txns)
		if total < 1 {
			total = 1
		}
		cashRatio := float64(cashCount) / float64(total)

		if cashRatio > 0.3 {
			severity := models.SeverityLow
			if cashRatio > 0.5 {
				severity = models.SeverityMedium
			}
			findings = append(findings, models.Finding{
				Code:               models.CodeCashHeavyOperations,
				Title:              "Cash-Heavy Operations",
				Description:        fmt.Sprintf("%.0f%% of your transactions involve cash. This increases risk and reduces efficiency.", cashRatio*100),
				Category:           models.CategoryInefficiency,
				MonthlyCost:        50, // estimated efficiency cost
				AnnualCost:         600,
				Confidence:         0.6,
				Severity:           severity,
				FixComplexity:      models.FixHard,
				RequiresBankChange: false,
				Evidence: map[string]interface{}{
					"cash_transaction_count": cashCount,
					"total_transactions":     len(in.txns),
					"cash_ratio":             cashRatio,
				},
			})
		}
	}

	hasDigital := false
	for _, m := range methods {
		if containsAny(m, digitalPaymentKeywords...) {
			hasDigital = true
			break
		}
	}

	if !hasDigital && len(methods) > 0 {
		findings = append(findings, models.Finding{
			Code:               models.CodeManualProcessing,
			Title:              "Manual Payment Processing",
			Description:        "Your business relies on manual payment methods, which is inefficient and error-prone.",
			Category:           models.CategoryInefficiency,
			MonthlyCost:        75, // estimated efficiency cost
			AnnualCost:         900,
			Confidence:         0.5,
			Severity:           models.SeverityMedium,
			FixComplexity:      models.FixMedium,
			RequiresBankChange: false,
			Evidence: map[string]interface{}{
				"payment_methods": methods,
				"has_digital":     false,
			},
		})
	}

	return findings
}

// detectAccountTypeMismatch flags personal accounts used for business and
// basic-tier accounts saturated by transaction volume.
func (e *LeakEngine) detectAccountTypeMismatch(in detectInput) []models.Finding {
	var findings []models.Finding

	bankUsed := strings.ToLower(in.profile.BankUsed)

	accountTypes := make([]string, 0, len(in.accounts))
	accountSubtypes := make([]string, 0, len(in.accounts))
	hasChecking := false
	for _, a := range in.accounts {
		accountTypes = append(accountTypes, strings.ToLower(a.Type))
		subtype := strings.ToLower(a.Subtype)
		accountSubtypes = append(accountSubtypes, subtype)
		if subtype == "checking" {
			hasChecking = true
		}
	}

	// Retail bank name plus a checking account and no "business" anywhere in
	// the declared bank points at a personal account doing business duty.
	retailBank := strings.Contains(bankUsed, "personal") || strings.Contains(bankUsed, "chase")
	if retailBank && hasChecking && !strings.Contains(bankUsed, "business") {
		findings = append(findings, models.Finding{
			Code:               models.CodePersonalAccountUsage,
			Title:              "Using Personal Account for Business",
			Description:        "You appear to be using a personal bank account for business. This can cause tax issues, liability risks, and missing business features.",
			Category:           models.CategoryMismatch,
			MonthlyCost:        100, // estimated cost of issues
			AnnualCost:         1200,
			Confidence:         0.8,
			Severity:           models.SeverityHigh,
			FixComplexity:      models.FixMedium,
			RequiresBankChange: true,
			Evidence: map[string]interface{}{
				"bank_used":        bankUsed,
				"account_types":    accountTypes,
				"account_subtypes": accountSubtypes,
			},
		})
	}

	debitCount := 0
	for _, t := range in.txns {
		if t.Direction == models.DirectionDebit {
			debitCount++
		}
	}
	monthlyTxns := float64(debitCount) / in.months

	if monthlyTxns > 100 {
		basicAccount := false
		for _, a := range in.accounts {
			name := strings.ToLower(a.Name)
			if strings.Contains(name, "basic") || strings.Contains(name, "free") {
				basicAccount = true
				break
			}
		}
		if basicAccount {
			findings = append(findings, models.Finding{
				Code:               models.CodeAccountTierMismatch,
				Title:              "Account Tier Mismatch",
				Description:        fmt.Sprintf("Your business processes %.0f transactions per month, but you have a basic account with limited transactions.", monthlyTxns),
				Category:           models.CategoryMismatch,
				MonthlyCost:        50, // estimated excess fee cost
				AnnualCost:         600,
				Confidence:         0.7,
				Severity:           models.SeverityMedium,
				FixComplexity:      models.FixEasy,
				RequiresBankChange: true,
				Evidence: map[string]interface{}{
					"monthly_transactions": int(monthlyTxns),
					"account_tier":         "basic",
					"recommended_tier":     "business",
				},
			})
		}
	}

	return findings
}
