package models

// Finding codes. Stable strings: repeated runs on identical input emit the
// same codes, so downstream consumers can use them as idempotent references.
const (
	CodeMonthlyMaintenanceFee = "MONTHLY_MAINTENANCE_FEE"
	CodeCashDepositFees       = "CASH_DEPOSIT_FEES"
	CodeWireTransferFees      = "WIRE_TRANSFER_FEES"
	CodeACHTransferFees       = "ACH_TRANSFER_FEES"
	CodeOverdraftNSFFees      = "OVERDRAFT_NSF_FEES"
	CodeATMFees               = "ATM_FEES"
	CodeSubscriptionWaste     = "SUBSCRIPTION_WASTE"
	CodeCashHeavyOperations   = "CASH_HEAVY_OPERATIONS"
	CodeManualProcessing      = "MANUAL_PROCESSING"
	CodePersonalAccountUsage  = "PERSONAL_ACCOUNT_USAGE"
	CodeAccountTierMismatch   = "ACCOUNT_TIER_MISMATCH"
)

// Finding categories
const (
	CategoryFees         = "fees"
	CategoryWaste        = "waste"
	CategoryInefficiency = "inefficiency"
	CategoryMismatch     = "mismatch"
)

// Severity tiers
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Fix complexity tiers
const (
	FixEasy   = "easy"
	FixMedium = "medium"
	FixHard   = "hard"
)

// Finding is a detected financial leak. Created exactly once by exactly one
// detector and immutable afterward.
//
// Evidence is a free-form key/value map rather than a per-detector struct:
// it is a display contract for downstream report rendering, and keeping it
// schemaless lets detectors attach whatever counts, amounts and date ranges
// justify the finding without a type per detector.
type Finding struct {
	Code               string                 `json:"code"`
	Title              string                 `json:"title"`
	Description        string                 `json:"description"`
	Category           string                 `json:"category"`
	MonthlyCost        float64                `json:"monthly_cost"`
	AnnualCost         float64                `json:"annual_cost"`
	Confidence         float64                `json:"confidence"`
	Severity           string                 `json:"severity"`
	FixComplexity      string                 `json:"fix_complexity"`
	RequiresBankChange bool                   `json:"requires_bank_change"`
	Evidence           map[string]interface{} `json:"evidence"`
}

// FindingsSummary aggregates a finding list for report headers.
type FindingsSummary struct {
	TotalLeaks       int            `json:"total_leaks"`
	TotalMonthlyCost float64        `json:"total_monthly_cost"`
	TotalAnnualCost  float64        `json:"total_annual_cost"`
	BySeverity       map[string]int `json:"by_severity"`
	ByCategory       map[string]int `json:"by_category"`
}
