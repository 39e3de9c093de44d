package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olibranch/analysis-api/models"
)

// detectMonthlyMaintenance looks for recurring monthly maintenance fees per
// account. At least two distinct months of fees are required before a
// pattern is reported.
func (e *LeakEngine) detectMonthlyMaintenance(in detectInput) []models.Finding {
	accountFees := make(map[string][]models.Transaction)
	for _, t := range in.txns {
		if t.FeeType == models.FeeTypeMonthlyMaintenance && t.BankAccountID != "" {
			accountFees[t.BankAccountID] = append(accountFees[t.BankAccountID], t)
		}
	}

	accountIDs := make([]string, 0, len(accountFees))
	for id := range accountFees {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	var findings []models.Finding
	for _, accountID := range accountIDs {
		fees := accountFees[accountID]
		if len(fees) < 2 {
			continue
		}

		accountName := "Unknown Account"
		for _, a := range in.accounts {
			if a.ID == accountID {
				accountName = a.Name
				break
			}
		}

		monthlyTotals := make(map[string]float64)
		for _, fee := range fees {
			monthlyTotals[fee.Month()] += fee.AmountAbs
		}
		if len(monthlyTotals) < 2 {
			continue
		}

		months := make([]string, 0, len(monthlyTotals))
		var total float64
		for m, v := range monthlyTotals {
			months = append(months, m)
			total += v
		}
		sort.Strings(months)
		avgMonthly := total / float64(len(monthlyTotals))

		confidence := 0.7
		if len(monthlyTotals) >= 3 {
			confidence = 0.9
		}

		findings = append(findings, models.Finding{
			Code:               models.CodeMonthlyMaintenanceFee,
			Title:              "Monthly Account Maintenance Fee",
			Description:        fmt.Sprintf("Your %s charges a monthly maintenance fee of $%.2f. Many business accounts waive this fee with minimum balance or transaction volume.", accountName, avgMonthly),
			Category:           models.CategoryFees,
			MonthlyCost:        avgMonthly,
			AnnualCost:         avgMonthly * 12,
			Confidence:         confidence,
			Severity:           severityForMonthlyCost(avgMonthly),
			FixComplexity:      models.FixEasy,
			RequiresBankChange: false,
			Evidence: map[string]interface{}{
				"account_id":      accountID,
				"account_name":    accountName,
				"months_detected": months,
				"monthly_amounts": monthlyTotals,
				"pattern":         "monthly",
			},
		})
	}
	return findings
}

// detectCashDepositFees only fires for businesses that declare cash among
// their payment methods.
func (e *LeakEngine) detectCashDepositFees(in detectInput) []models.Finding {
	if !in.profile.UsesCash() {
		return nil
	}

	var cashFees []models.Transaction
	var depositCount int
	for _, t := range in.txns {
		name := strings.ToLower(t.Name)
		if strings.Contains(name, "cash deposit") && strings.Contains(name, "fee") {
			cashFees = append(cashFees, t)
		}
		if strings.Contains(name, "deposit") && t.Direction == models.DirectionCredit {
			depositCount++
		}
	}
	if len(cashFees) == 0 {
		return nil
	}

	totalFees := sumAbs(cashFees)
	monthly := totalFees / in.months

	return []models.Finding{{
		Code:               models.CodeCashDepositFees,
		Title:              "Cash Deposit Fees",
		Description:        fmt.Sprintf("Your business handles cash and is paying $%.2f/month in cash deposit fees. Many banks offer free cash deposits for business accounts.", monthly),
		Category:           models.CategoryFees,
		MonthlyCost:        monthly,
		AnnualCost:         monthly * 12,
		Confidence:         0.8,
		Severity:           severityForMonthlyCost(monthly),
		FixComplexity:      models.FixMedium,
		RequiresBankChange: true,
		Evidence: map[string]interface{}{
			"fee_count":           len(cashFees),
			"total_fees":          totalFees,
			"deposit_count":       depositCount,
			"avg_fee_per_deposit": totalFees / float64(len(cashFees)),
		},
	}}
}

// detectWireACHFees splits wire_ach fee transactions into wire vs ACH by
// name. Wire fees are always reported; ACH fees only above $10/month, since
// small ACH charges are often one-off.
func (e *LeakEngine) detectWireACHFees(in detectInput) []models.Finding {
	var wireFees, achFees []models.Transaction
	for _, t := range in.txns {
		if t.FeeType != models.FeeTypeWireACH {
			continue
		}
		if strings.Contains(strings.ToLower(t.Name), "wire") {
			wireFees = append(wireFees, t)
		} else {
			achFees = append(achFees, t)
		}
	}

	var findings []models.Finding

	if len(wireFees) > 0 {
		total := sumAbs(wireFees)
		monthly := total / in.months
		findings = append(findings, models.Finding{
			Code:               models.CodeWireTransferFees,
			Title:              "Wire Transfer Fees",
			Description:        fmt.Sprintf("You're paying $%.2f/month in wire transfer fees. Consider using ACH transfers or banks with free wires.", monthly),
			Category:           models.CategoryFees,
			MonthlyCost:        monthly,
			AnnualCost:         monthly * 12,
			Confidence:         0.9,
			Severity:           severityForMonthlyCost(monthly),
			FixComplexity:      models.FixMedium,
			RequiresBankChange: true,
			Evidence: map[string]interface{}{
				"fee_count":  len(wireFees),
				"total_fees": total,
				"avg_fee":    total / float64(len(wireFees)),
			},
		})
	}

	if len(achFees) > 0 {
		total := sumAbs(achFees)
		monthly := total / in.months
		if monthly > 10 {
			severity := models.SeverityLow
			if monthly >= 50 {
				severity = models.SeverityMedium
			}
			findings = append(findings, models.Finding{
				Code:               models.CodeACHTransferFees,
				Title:              "ACH Transfer Fees",
				Description:        fmt.Sprintf("You're paying $%.2f/month in ACH transfer fees. Many business accounts offer free ACH.", monthly),
				Category:           models.CategoryFees,
				MonthlyCost:        monthly,
				AnnualCost:         monthly * 12,
				Confidence:         0.85,
				Severity:           severity,
				FixComplexity:      models.FixEasy,
				RequiresBankChange: true,
				Evidence: map[string]interface{}{
					"fee_count":  len(achFees),
					"total_fees": total,
					"avg_fee":    total / float64(len(achFees)),
				},
			})
		}
	}

	return findings
}

// detectOverdraftNSF emits a single high-severity finding for any
// overdraft/NSF activity. These fees signal cash flow problems, not a bad
// bank, so no bank change is suggested.
func (e *LeakEngine) detectOverdraftNSF(in detectInput) []models.Finding {
	var fees []models.Transaction
	for _, t := range in.txns {
		if t.FeeType == models.FeeTypeOverdraftNSF {
			fees = append(fees, t)
		}
	}
	if len(fees) == 0 {
		return nil
	}

	total := sumAbs(fees)
	monthly := total / in.months

	return []models.Finding{{
		Code:               models.CodeOverdraftNSFFees,
		Title:              "Overdraft/NSF Fees",
		Description:        fmt.Sprintf("Your account has been charged %d overdraft/NSF fees totaling $%.2f/month. This indicates cash flow issues and expensive penalties.", len(fees), monthly),
		Category:           models.CategoryFees,
		MonthlyCost:        monthly,
		AnnualCost:         monthly * 12,
		Confidence:         0.95,
		Severity:           models.SeverityHigh,
		FixComplexity:      models.FixHard,
		RequiresBankChange: false,
		Evidence: map[string]interface{}{
			"fee_count":  len(fees),
			"total_fees": total,
			"avg_fee":    total / float64(len(fees)),
		},
	}}
}

// detectATMFees sums ATM withdrawal fees over the window.
func (e *LeakEngine) detectATMFees(in detectInput) []models.Finding {
	var fees []models.Transaction
	for _, t := range in.txns {
		if t.FeeType == models.FeeTypeATM {
			fees = append(fees, t)
		}
	}
	if len(fees) == 0 {
		return nil
	}

	total := sumAbs(fees)
	monthly := total / in.months

	severity := models.SeverityLow
	if monthly >= 50 {
		severity = models.SeverityMedium
	}

	return []models.Finding{{
		Code:               models.CodeATMFees,
		Title:              "ATM Withdrawal Fees",
		Description:        fmt.Sprintf("You're paying $%.2f/month in ATM fees. Use in-network ATMs or switch to a bank that reimburses ATM fees.", monthly),
		Category:           models.CategoryFees,
		MonthlyCost:        monthly,
		AnnualCost:         monthly * 12,
		Confidence:         0.9,
		Severity:           severity,
		FixComplexity:      models.FixEasy,
		RequiresBankChange: true,
		Evidence: map[string]interface{}{
			"fee_count":  len(fees),
			"total_fees": total,
			"avg_fee":    total / float64(len(fees)),
		},
	}}
}
