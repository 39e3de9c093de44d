package services

import (
	"testing"
	"time"

	"github.com/olibranch/analysis-api/models"
)

func credit(id string, posted time.Time, amount float64) models.Transaction {
	return models.Transaction{ID: id, PostedAt: posted, Name: "Customer payment", Amount: amount, AmountAbs: amount, Direction: models.DirectionCredit}
}

func debit(id, name string, posted time.Time, amount float64) models.Transaction {
	return models.Transaction{ID: id, PostedAt: posted, Name: name, Amount: amount, AmountAbs: amount, Direction: models.DirectionDebit}
}

func TestExtractMetrics_RevenueFloor(t *testing.T) {
	m := ExtractMetrics(ScoringContext{WindowDays: 90}, nil)

	if m.MonthlyRevenue != 1 {
		t.Errorf("MonthlyRevenue = %v, want floor of 1", m.MonthlyRevenue)
	}
	if m.Margin != 1 {
		t.Errorf("Margin = %v, want 1 with zero expenses", m.Margin)
	}
	if m.Volatility != defaultVolatility {
		t.Errorf("Volatility = %v, want default %v", m.Volatility, defaultVolatility)
	}
}

func TestExtractMetrics_ProfileFallback(t *testing.T) {
	ctx := ScoringContext{
		Profile:    models.BusinessProfile{MonthlyRevenue: 5000, MonthlyExpenses: 3000},
		WindowDays: 90,
	}

	m := ExtractMetrics(ctx, nil)

	if m.MonthlyRevenue != 5000 {
		t.Errorf("MonthlyRevenue = %v, want self-reported 5000", m.MonthlyRevenue)
	}
	if m.MonthlyExpenses != 3000 {
		t.Errorf("MonthlyExpenses = %v, want self-reported 3000", m.MonthlyExpenses)
	}
	if m.Margin != 0.4 {
		t.Errorf("Margin = %v, want 0.4", m.Margin)
	}
}

func TestExtractMetrics_ObservedInflowsWin(t *testing.T) {
	ctx := ScoringContext{
		Transactions: []models.Transaction{
			credit("r1", date(2025, time.January, 31), 9000),
			credit("r2", date(2025, time.February, 28), 9000),
		},
		Profile:    models.BusinessProfile{MonthlyRevenue: 5000},
		WindowDays: 90,
	}

	m := ExtractMetrics(ctx, nil)

	// 18000 over 3 months beats the self-reported 5000.
	if m.MonthlyRevenue != 6000 {
		t.Errorf("MonthlyRevenue = %v, want observed 6000", m.MonthlyRevenue)
	}
}

func TestExtractMetrics_FeeAndLeakRatios(t *testing.T) {
	ctx := ScoringContext{
		Profile:    models.BusinessProfile{MonthlyRevenue: 1000},
		WindowDays: 90,
	}
	findings := []models.Finding{
		{Code: models.CodeMonthlyMaintenanceFee, Category: models.CategoryFees, MonthlyCost: 30},
		{Code: models.CodeSubscriptionWaste, Category: models.CategoryWaste, MonthlyCost: 20},
	}

	m := ExtractMetrics(ctx, findings)

	if m.FeeRatio != 0.03 {
		t.Errorf("FeeRatio = %v, want 0.03 (fees category only)", m.FeeRatio)
	}
	if m.LeakRatio != 0.05 {
		t.Errorf("LeakRatio = %v, want 0.05 (all findings)", m.LeakRatio)
	}
}

func TestExtractMetrics_Flags(t *testing.T) {
	ctx := ScoringContext{
		Profile: models.BusinessProfile{
			PaymentMethods: "cash, card",
			BankUsed:       "Chase Personal",
		},
		WindowDays: 90,
	}

	m := ExtractMetrics(ctx, nil)

	if m.CashIntensityFlag != 1 || m.ProcessorFriction != 1 {
		t.Errorf("cash flags = (%d, %d), want (1, 1)", m.CashIntensityFlag, m.ProcessorFriction)
	}
	if m.AccountMismatchFlag != 1 {
		t.Errorf("AccountMismatchFlag = %d, want 1", m.AccountMismatchFlag)
	}

	clean := ExtractMetrics(ScoringContext{
		Profile:    models.BusinessProfile{PaymentMethods: "card", BankUsed: "Mercury Business"},
		WindowDays: 90,
	}, nil)
	if clean.CashIntensityFlag != 0 || clean.AccountMismatchFlag != 0 {
		t.Errorf("clean profile flags = (%d, %d), want zeros", clean.CashIntensityFlag, clean.AccountMismatchFlag)
	}
}

func TestExtractMetrics_NSFCount(t *testing.T) {
	ctx := ScoringContext{
		Transactions: []models.Transaction{
			debit("t1", "NSF Fee", date(2025, time.January, 5), 35),
			debit("t2", "Overdraft Fee", date(2025, time.January, 12), 35),
			debit("t3", "Insufficient Funds Charge", date(2025, time.February, 2), 35),
			debit("t4", "Office supplies", date(2025, time.February, 10), 80),
		},
		WindowDays: 90,
	}

	m := ExtractMetrics(ctx, nil)

	if m.NSFCount != 3 {
		t.Errorf("NSFCount = %d, want 3", m.NSFCount)
	}
}

func TestExtractMetrics_DebtRatio(t *testing.T) {
	ctx := ScoringContext{
		Transactions: []models.Transaction{
			debit("t1", "SBA Loan Payment", date(2025, time.January, 15), 1500),
			debit("t2", "SBA Loan Payment", date(2025, time.February, 15), 1500),
			debit("t3", "Rent", date(2025, time.January, 1), 2000),
		},
		Profile:    models.BusinessProfile{MonthlyRevenue: 5000, LoansTaken: "sba loan"},
		WindowDays: 90,
	}

	m := ExtractMetrics(ctx, nil)

	// 3000 of loan payments over 3 months against 5000/month revenue.
	if m.DebtRatio != 0.2 {
		t.Errorf("DebtRatio = %v, want 0.2", m.DebtRatio)
	}
}

func TestExtractMetrics_DebtRatioRequiresDeclaredLoans(t *testing.T) {
	ctx := ScoringContext{
		Transactions: []models.Transaction{
			debit("t1", "Loan Payment", date(2025, time.January, 15), 1500),
		},
		Profile:    models.BusinessProfile{MonthlyRevenue: 5000},
		WindowDays: 90,
	}

	if m := ExtractMetrics(ctx, nil); m.DebtRatio != 0 {
		t.Errorf("DebtRatio = %v, want 0 when no loans declared", m.DebtRatio)
	}
}

func TestRevenueVolatility(t *testing.T) {
	tests := []struct {
		name string
		txns []models.Transaction
		want float64
	}{
		{
			name: "single month gets default",
			txns: []models.Transaction{credit("r1", date(2025, time.January, 15), 10000)},
			want: defaultVolatility,
		},
		{
			name: "steady revenue",
			txns: []models.Transaction{
				credit("r1", date(2025, time.January, 15), 10000),
				credit("r2", date(2025, time.February, 15), 10000),
			},
			want: 0,
		},
		{
			name: "uneven months",
			txns: []models.Transaction{
				credit("r1", date(2025, time.January, 15), 5000),
				credit("r2", date(2025, time.February, 15), 15000),
			},
			// mean 10000, max deviation 5000
			want: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := revenueVolatility(tt.txns); got != tt.want {
				t.Errorf("revenueVolatility() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractMetrics_TransactionVolume(t *testing.T) {
	ctx := ScoringContext{
		Transactions: []models.Transaction{
			debit("t1", "Rent", date(2025, time.January, 1), 2000),
			debit("t2", "Payroll", date(2025, time.January, 15), 4000),
			debit("t3", "Rent", date(2025, time.February, 1), 2000),
			credit("r1", date(2025, time.January, 31), 9000),
		},
		WindowDays: 90,
	}

	if m := ExtractMetrics(ctx, nil); m.TransactionVolume != 1 {
		t.Errorf("TransactionVolume = %v, want 1 debit/month", m.TransactionVolume)
	}
}
