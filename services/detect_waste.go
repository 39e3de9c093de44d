package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/olibranch/analysis-api/models"
)

// subscription is one recurring merchant detected by cadence analysis.
type subscription struct {
	Merchant          string  `json:"merchant"`
	MonthlyCost       float64 `json:"monthly_cost"`
	TransactionCount  int     `json:"transaction_count"`
	IsBusinessService bool    `json:"is_business_service"`
}

// duplicateGroup flags two or more subscriptions in the same tool family.
type duplicateGroup struct {
	Category  string         `json:"category"`
	Services  []subscription `json:"services"`
	TotalCost float64        `json:"total_cost"`
}

// detectSubscriptionWaste groups outflows by merchant and flags merchants
// charging on a monthly cadence (every consecutive gap within 20-40 days),
// then checks the qualifying subscriptions for same-family duplicates.
func (e *LeakEngine) detectSubscriptionWaste(in detectInput) []models.Finding {
	merchantGroups := make(map[string][]models.Transaction)
	for _, t := range in.txns {
		if t.Direction != models.DirectionDebit {
			continue
		}
		merchant := t.Merchant
		if merchant == "" {
			merchant = t.Name
		}
		if merchant != "" {
			merchantGroups[merchant] = append(merchantGroups[merchant], t)
		}
	}

	merchants := make([]string, 0, len(merchantGroups))
	for m := range merchantGroups {
		merchants = append(merchants, m)
	}
	sort.Strings(merchants)

	var subscriptions []subscription
	for _, merchant := range merchants {
		group := merchantGroups[merchant]
		if len(group) < 2 {
			continue
		}

		dates := make([]models.Transaction, len(group))
		copy(dates, group)
		sort.Slice(dates, func(i, j int) bool { return dates[i].PostedAt.Before(dates[j].PostedAt) })

		monthlyCadence := true
		for i := 1; i < len(dates); i++ {
			gap := int(dates[i].PostedAt.Sub(dates[i-1].PostedAt).Hours() / 24)
			if gap < 20 || gap > 40 {
				monthlyCadence = false
				break
			}
		}
		if !monthlyCadence {
			continue
		}

		var total float64
		for _, t := range group {
			total += t.AmountAbs
		}
		avgAmount := total / float64(len(group))

		lower := strings.ToLower(merchant)
		subscriptions = append(subscriptions, subscription{
			Merchant:          merchant,
			MonthlyCost:       avgAmount,
			TransactionCount:  len(group),
			IsBusinessService: containsAny(lower, businessServiceKeywords...),
		})
	}

	if len(subscriptions) == 0 {
		return nil
	}

	var totalMonthly float64
	for _, s := range subscriptions {
		totalMonthly += s.MonthlyCost
	}

	duplicates := e.findDuplicateServices(subscriptions)

	severity := models.SeverityLow
	switch {
	case totalMonthly >= 250:
		severity = models.SeverityHigh
	case totalMonthly >= 100:
		severity = models.SeverityMedium
	}

	return []models.Finding{{
		Code:               models.CodeSubscriptionWaste,
		Title:              "Subscription Waste",
		Description:        fmt.Sprintf("You're spending $%.2f/month on subscriptions. Review for unused or duplicate services.", totalMonthly),
		Category:           models.CategoryWaste,
		MonthlyCost:        totalMonthly,
		AnnualCost:         totalMonthly * 12,
		Confidence:         0.7,
		Severity:           severity,
		FixComplexity:      models.FixEasy,
		RequiresBankChange: false,
		Evidence: map[string]interface{}{
			"subscriptions":    subscriptions,
			"total_monthly":    totalMonthly,
			"duplicates_found": duplicates,
		},
	}}
}

// findDuplicateServices returns tool families with two or more of the
// detected subscriptions, e.g. paying for QuickBooks and Xero at once.
func (e *LeakEngine) findDuplicateServices(subscriptions []subscription) []duplicateGroup {
	categories := make([]string, 0, len(e.cfg.ServiceCategories))
	for c := range e.cfg.ServiceCategories {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	duplicates := make([]duplicateGroup, 0)
	for _, category := range categories {
		vendors := e.cfg.ServiceCategories[category]
		var matched []subscription
		var total float64
		for _, s := range subscriptions {
			if containsAny(strings.ToLower(s.Merchant), vendors...) {
				matched = append(matched, s)
				total += s.MonthlyCost
			}
		}
		if len(matched) > 1 {
			duplicates = append(duplicates, duplicateGroup{
				Category:  category,
				Services:  matched,
				TotalCost: total,
			})
		}
	}
	return duplicates
}
