package models

import "strings"

// BusinessProfile is the self-reported financial snapshot a business fills in
// during assessment. Read-only input to the analysis core.
type BusinessProfile struct {
	MonthlyRevenue  float64 `json:"monthly_revenue"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	BankUsed        string  `json:"bank_used"`
	PaymentMethods  string  `json:"payment_methods"` // comma-separated, e.g. "cash, card"
	LoansTaken      string  `json:"loans_taken"`
	ServicesUsed    string  `json:"services_used"`
	PrimaryGoal     string  `json:"primary_goal"`
}

// PaymentMethodList splits the comma-separated payment methods into trimmed
// lowercase entries. Empty input yields an empty list.
func (p BusinessProfile) PaymentMethodList() []string {
	if strings.TrimSpace(p.PaymentMethods) == "" {
		return nil
	}
	parts := strings.Split(p.PaymentMethods, ",")
	methods := make([]string, 0, len(parts))
	for _, part := range parts {
		m := strings.ToLower(strings.TrimSpace(part))
		if m != "" {
			methods = append(methods, m)
		}
	}
	return methods
}

// UsesCash reports whether the business declares cash among its payment
// methods.
func (p BusinessProfile) UsesCash() bool {
	return strings.Contains(strings.ToLower(p.PaymentMethods), "cash")
}

// BankAccount is bank-account metadata supplied alongside transactions.
type BankAccount struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Type    string  `json:"type"`
	Subtype string  `json:"subtype"`
	Balance float64 `json:"balance"`
}
