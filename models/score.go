package models

// Metrics is the flat numeric record derived from transactions, profile and
// findings. Ephemeral: recomputed on every scoring run, never persisted.
type Metrics struct {
	MonthlyRevenue      float64 `json:"monthly_revenue"`
	MonthlyExpenses     float64 `json:"monthly_expenses"`
	Margin              float64 `json:"margin"`
	FeeRatio            float64 `json:"fee_ratio"`
	LeakRatio           float64 `json:"leak_ratio"`
	CashIntensityFlag   int     `json:"cash_intensity_flag"`
	ProcessorFriction   int     `json:"processor_friction"`
	TransactionVolume   float64 `json:"transaction_volume"`
	AccountMismatchFlag int     `json:"account_mismatch_flag"`
	NSFCount            int     `json:"nsf_count"`
	DebtRatio           float64 `json:"debt_ratio"`
	Volatility          float64 `json:"volatility"`
}

// ScoreResult carries the two headline scores, their labels, the component
// breakdown and the metrics the formulas ran over.
type ScoreResult struct {
	Mismatch        int            `json:"mismatch"`
	FinancialHealth int            `json:"financial_health"`
	RiskLabel       string         `json:"risk_label"`
	HealthLabel     string         `json:"health_label"`
	Components      map[string]int `json:"components"`
	Metrics         Metrics        `json:"metrics"`
}
