package models

// Recommendation is a concrete next action attached to a finding in the
// analysis report. Savings are annual estimates derived from the finding's
// cost.
type Recommendation struct {
	FindingCode      string  `json:"finding_code"`
	Type             string  `json:"type"`
	Title            string  `json:"title"`
	Message          string  `json:"message"`
	PotentialSavings float64 `json:"potential_savings"`
	Priority         string  `json:"priority"`
	NeedsBankSwitch  bool    `json:"needs_bank_switch"`
}
