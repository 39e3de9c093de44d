package models

import "time"

// Transaction directions
const (
	DirectionDebit  = "debit"
	DirectionCredit = "credit"
)

// Fee types assigned during normalization
const (
	FeeTypeMonthlyMaintenance = "monthly_maintenance"
	FeeTypeCashDeposit        = "cash_deposit"
	FeeTypeWireACH            = "wire_ach"
	FeeTypeOverdraftNSF       = "overdraft_nsf"
	FeeTypeATM                = "atm_fee"
)

// RawTransaction is a transaction as supplied by the caller (bank provider
// shape, DB row, or inline API payload). Direction may be empty; the
// normalizer infers it from the sign of the amount.
type RawTransaction struct {
	ID            string    `json:"id"`
	BankAccountID string    `json:"bank_account_id"`
	PostedAt      time.Time `json:"posted_at"`
	Name          string    `json:"name"`
	Merchant      string    `json:"merchant"`
	Amount        float64   `json:"amount"`
	Direction     string    `json:"direction,omitempty"`
	Category      string    `json:"category,omitempty"`
}

// Transaction is the canonical normalized form. Produced once per raw record
// and never mutated afterward.
type Transaction struct {
	ID            string    `json:"id"`
	BankAccountID string    `json:"bank_account_id"`
	PostedAt      time.Time `json:"posted_at"`
	Name          string    `json:"name"`
	Merchant      string    `json:"merchant"`
	Amount        float64   `json:"amount"`
	Direction     string    `json:"direction"`
	Category      string    `json:"category,omitempty"`
	IsFee         bool      `json:"is_fee"`
	FeeType       string    `json:"fee_type,omitempty"`
	AmountAbs     float64   `json:"amount_abs"`
}

// Month returns the posting month in YYYY-MM form, used for grouping
// recurring fees and revenue by calendar month.
func (t Transaction) Month() string {
	return t.PostedAt.Format("2006-01")
}
