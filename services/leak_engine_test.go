package services

import (
	"reflect"
	"testing"
	"time"

	"github.com/olibranch/analysis-api/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDetectLeaks_EmptyInput(t *testing.T) {
	engine := NewLeakEngine()

	findings, err := engine.DetectLeaks(nil, models.BusinessProfile{}, nil, DefaultWindowDays)
	if err != nil {
		t.Fatalf("DetectLeaks() error = %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("DetectLeaks() on empty input returned %d findings, want 0", len(findings))
	}
}

func TestDetectLeaks_InvalidWindow(t *testing.T) {
	engine := NewLeakEngine()

	for _, window := range []int{0, -30} {
		if _, err := engine.DetectLeaks(nil, models.BusinessProfile{}, nil, window); err != ErrInvalidWindow {
			t.Errorf("DetectLeaks(window=%d) error = %v, want ErrInvalidWindow", window, err)
		}
	}
}

func TestDetectLeaks_MonthlyMaintenanceScenario(t *testing.T) {
	// Three $15 maintenance fees in three distinct months.
	raw := []models.RawTransaction{
		{ID: "t1", BankAccountID: "acc-1", PostedAt: date(2025, 1, 5), Name: "Monthly Maintenance Fee", Amount: 15},
		{ID: "t2", BankAccountID: "acc-1", PostedAt: date(2025, 2, 5), Name: "Monthly Maintenance Fee", Amount: 15},
		{ID: "t3", BankAccountID: "acc-1", PostedAt: date(2025, 3, 5), Name: "Monthly Maintenance Fee", Amount: 15},
	}
	accounts := []models.BankAccount{{ID: "acc-1", Name: "Business Checking", Subtype: "checking"}}

	engine := NewLeakEngine()
	findings, err := engine.DetectLeaks(raw, models.BusinessProfile{}, accounts, 90)
	if err != nil {
		t.Fatalf("DetectLeaks() error = %v", err)
	}

	f := findByCode(t, findings, models.CodeMonthlyMaintenanceFee)
	if f.MonthlyCost != 15 {
		t.Errorf("MonthlyCost = %v, want 15", f.MonthlyCost)
	}
	if f.AnnualCost != 180 {
		t.Errorf("AnnualCost = %v, want 180", f.AnnualCost)
	}
	if f.Severity != models.SeverityLow {
		t.Errorf("Severity = %q, want low", f.Severity)
	}
	if f.Confidence != 0.9 {
		t.Errorf("Confidence = %v, want 0.9 with 3 months observed", f.Confidence)
	}
	months, ok := f.Evidence["months_detected"].([]string)
	if !ok || len(months) != 3 {
		t.Errorf("months_detected = %v, want 3 months", f.Evidence["months_detected"])
	}
}

func TestDetectLeaks_MaintenanceRequiresTwoMonths(t *testing.T) {
	// Two fees inside the same calendar month: no recurring pattern yet.
	raw := []models.RawTransaction{
		{ID: "t1", BankAccountID: "acc-1", PostedAt: date(2025, 1, 5), Name: "Monthly Maintenance Fee", Amount: 15},
		{ID: "t2", BankAccountID: "acc-1", PostedAt: date(2025, 1, 25), Name: "Monthly Maintenance Fee", Amount: 15},
	}

	engine := NewLeakEngine()
	findings, err := engine.DetectLeaks(raw, models.BusinessProfile{}, nil, 90)
	if err != nil {
		t.Fatalf("DetectLeaks() error = %v", err)
	}
	for _, f := range findings {
		if f.Code == models.CodeMonthlyMaintenanceFee {
			t.Error("maintenance finding emitted with only one month of fees")
		}
	}
}

func TestDetectLeaks_CashDepositScenario(t *testing.T) {
	profile := models.BusinessProfile{PaymentMethods: "cash, card"}
	raw := []models.RawTransaction{
		{ID: "t1", PostedAt: date(2025, 1, 10), Name: "Cash Deposit Fee", Amount: 30},
		{ID: "t2", PostedAt: date(2025, 2, 10), Name: "Cash Deposit Fee", Amount: 30},
	}

	engine := NewLeakEngine()
	findings, err := engine.DetectLeaks(raw, profile, nil, 90)
	if err != nil {
		t.Fatalf("DetectLeaks() error = %v", err)
	}

	f := findByCode(t, findings, models.CodeCashDepositFees)
	if f.MonthlyCost != 20 {
		t.Errorf("MonthlyCost = %v, want 20", f.MonthlyCost)
	}
	if f.Severity != models.SeverityLow {
		t.Errorf("Severity = %q, want low", f.Severity)
	}
	if !f.RequiresBankChange {
		t.Error("RequiresBankChange = false, want true")
	}
	if f.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", f.Confidence)
	}
}

func TestDetectLeaks_CashDepositRequiresCashBusiness(t *testing.T) {
	profile := models.BusinessProfile{PaymentMethods: "card, ach"}
	raw := []models.RawTransaction{
		{ID: "t1", PostedAt: date(2025, 1, 10), Name: "Cash Deposit Fee", Amount: 30},
		{ID: "t2", PostedAt: date(2025, 2, 10), Name: "Cash Deposit Fee", Amount: 30},
	}

	engine := NewLeakEngine()
	findings, err := engine.DetectLeaks(raw, profile, nil, 90)
	if err != nil {
		t.Fatalf("DetectLeaks() error = %v", err)
	}
	for _, f := range findings {
		if f.Code == models.CodeCashDepositFees {
			t.Error("cash deposit finding emitted for a non-cash business")
		}
	}
}

func TestDetectLeaks_OverdraftScenario(t *testing.T) {
	raw := []models.RawTransaction{
		{ID: "t1", PostedAt: date(2025, 1, 3), Name: "NSF Fee", Amount: 35},
		{ID: "t2", PostedAt: date(2025, 1, 17), Name: "Overdraft Fee", Amount: 35},
		{ID: "t3", PostedAt: date(2025, 2, 8), Name: "NSF Fee", Amount: 35},
		{ID: "t4", PostedAt: date(2025, 3, 2), Name: "Insufficient Funds Fee", Amount: 35},
	}

	engine := NewLeakEngine()
	findings, err := engine.DetectLeaks(raw, models.BusinessProfile{}, nil, 90)
	if err != nil {
		t.Fatalf("DetectLeaks() error = %v", err)
	}

	f := findByCode(t, findings, models.CodeOverdraftNSFFees)
	if f.Severity != models.SeverityHigh {
		t.Errorf("Severity = %q, want high regardless of dollar magnitude", f.Severity)
	}
	if f.Confidence != 0.95 {
		t.Errorf("Confidence = %v, want 0.95", f.Confidence)
	}
	if f.RequiresBankChange {
		t.Error("RequiresBankChange = true, want false: overdrafts are behavioral")
	}
	if count, _ := f.Evidence["fee_count"].(int); count != 4 {
		t.Errorf("fee_count = %v, want 4", f.Evidence["fee_count"])
	}
}

func TestDetectLeaks_WireAndACHFees(t *testing.T) {
	raw := []models.RawTransaction{
		{ID: "t1", PostedAt: date(2025, 1, 8), Name: "Outgoing Wire Fee", Amount: 25},
		{ID: "t2", PostedAt: date(2025, 2, 8), Name: "Outgoing Wire Fee", Amount: 25},
		// $45 of ACH fees: $15/month clears the $10 reporting floor
		{ID: "t3", PostedAt: date(2025, 1, 20), Name: "ACH Transfer Fee", Amount: 15},
		{ID: "t4", PostedAt: date(2025, 2, 20), Name: "ACH Transfer Fee", Amount: 15},
		{ID: "t5", PostedAt: date(2025, 3, 20), Name: "ACH Transfer Fee", Amount: 15},
	}

	engine := NewLeakEngine()
	findings, err := engine.DetectLeaks(raw, models.BusinessProfile{}, nil, 90)
	if err != nil {
		t.Fatalf("DetectLeaks() error = %v", err)
	}

	wire := findByCode(t, findings, models.CodeWireTransferFees)
	if wire.Confidence != 0.9 {
		t.Errorf("wire Confidence = %v, want 0.9", wire.Confidence)
	}
	ach := findByCode(t, findings, models.CodeACHTransferFees)
	if ach.MonthlyCost != 15 {
		t.Errorf("ACH MonthlyCost = %v, want 15", ach.MonthlyCost)
	}
}

func TestDetectLeaks_ACHBelowFloorSuppressed(t *testing.T) {
	raw := []models.RawTransaction{
		{ID: "t1", PostedAt: date(2025, 1, 20), Name: "ACH Transfer Fee", Amount: 10},
	}

	engine := NewLeakEngine()
	findings, err := engine.DetectLeaks(raw, models.BusinessProfile{}, nil, 90)
	if err != nil {
		t.Fatalf("DetectLeaks() error = %v", err)
	}
	for _, f := range findings {
		if f.Code == models.CodeACHTransferFees {
			t.Errorf("ACH finding emitted at $%.2f/month, below the $10 floor", f.MonthlyCost)
		}
	}
}

func TestDetectLeaks_Invariants(t *testing.T) {
	findings := runRichFixture(t)

	if len(findings) == 0 {
		t.Fatal("rich fixture produced no findings")
	}

	validSeverities := map[string]bool{"low": true, "medium": true, "high": true}
	validCategories := map[string]bool{"fees": true, "waste": true, "inefficiency": true, "mismatch": true}

	for _, f := range findings {
		if f.MonthlyCost < 0 {
			t.Errorf("%s: MonthlyCost = %v, want >= 0", f.Code, f.MonthlyCost)
		}
		if diff := f.AnnualCost - f.MonthlyCost*12; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: AnnualCost = %v, want monthly*12 = %v", f.Code, f.AnnualCost, f.MonthlyCost*12)
		}
		if f.Confidence < 0 || f.Confidence > 1 {
			t.Errorf("%s: Confidence = %v, want within [0,1]", f.Code, f.Confidence)
		}
		if !validSeverities[f.Severity] {
			t.Errorf("%s: invalid severity %q", f.Code, f.Severity)
		}
		if !validCategories[f.Category] {
			t.Errorf("%s: invalid category %q", f.Code, f.Category)
		}
		if f.Evidence == nil || len(f.Evidence) == 0 {
			t.Errorf("%s: evidence must always be populated", f.Code)
		}
	}
}

func TestDetectLeaks_Idempotence(t *testing.T) {
	first := runRichFixture(t)
	second := runRichFixture(t)

	if !reflect.DeepEqual(first, second) {
		t.Error("two runs over identical input produced different output")
	}
}

func TestDetectLeaks_RankedOrder(t *testing.T) {
	findings := runRichFixture(t)

	for i := 1; i < len(findings); i++ {
		a, b := findings[i-1], findings[i]
		if a.MonthlyCost < b.MonthlyCost {
			t.Errorf("findings[%d] ($%.2f) ranked above findings[%d] ($%.2f)", i-1, a.MonthlyCost, i, b.MonthlyCost)
		}
	}
}

// runRichFixture exercises every detector at once: recurring maintenance and
// subscription charges, wire/ATM/NSF/cash-deposit fees, a cash-heavy
// personal-bank profile and a basic-tier account.
func runRichFixture(t *testing.T) []models.Finding {
	t.Helper()

	profile := models.BusinessProfile{
		MonthlyRevenue:  12000,
		MonthlyExpenses: 9000,
		BankUsed:        "Chase Personal",
		PaymentMethods:  "cash, check",
		LoansTaken:      "equipment loan",
	}
	accounts := []models.BankAccount{
		{ID: "acc-1", Name: "Basic Checking", Type: "depository", Subtype: "checking", Balance: 4200},
	}

	raw := []models.RawTransaction{
		{ID: "m1", BankAccountID: "acc-1", PostedAt: date(2025, 1, 5), Name: "Monthly Maintenance Fee", Amount: 55},
		{ID: "m2", BankAccountID: "acc-1", PostedAt: date(2025, 2, 5), Name: "Monthly Maintenance Fee", Amount: 55},
		{ID: "m3", BankAccountID: "acc-1", PostedAt: date(2025, 3, 5), Name: "Monthly Maintenance Fee", Amount: 55},
		{ID: "c1", PostedAt: date(2025, 1, 12), Name: "Cash Deposit Fee", Amount: 40},
		{ID: "c2", PostedAt: date(2025, 2, 12), Name: "Cash Deposit Fee", Amount: 40},
		{ID: "w1", PostedAt: date(2025, 1, 18), Name: "Outgoing Wire Fee", Amount: 30},
		{ID: "w2", PostedAt: date(2025, 2, 18), Name: "Outgoing Wire Fee", Amount: 30},
		{ID: "n1", PostedAt: date(2025, 1, 22), Name: "NSF Fee", Amount: 35},
		{ID: "n2", PostedAt: date(2025, 2, 22), Name: "Overdraft Fee", Amount: 35},
		{ID: "a1", PostedAt: date(2025, 1, 25), Name: "ATM Fee", Amount: 3},
		{ID: "a2", PostedAt: date(2025, 2, 25), Name: "ATM Fee", Amount: 3},
		{ID: "s1", PostedAt: date(2025, 1, 2), Name: "QuickBooks", Merchant: "QuickBooks", Amount: 80},
		{ID: "s2", PostedAt: date(2025, 2, 2), Name: "QuickBooks", Merchant: "QuickBooks", Amount: 80},
		{ID: "s3", PostedAt: date(2025, 3, 2), Name: "QuickBooks", Merchant: "QuickBooks", Amount: 80},
		{ID: "s4", PostedAt: date(2025, 1, 9), Name: "Xero", Merchant: "Xero", Amount: 40},
		{ID: "s5", PostedAt: date(2025, 2, 9), Name: "Xero", Merchant: "Xero", Amount: 40},
		{ID: "r1", PostedAt: date(2025, 1, 31), Name: "Customer deposit", Amount: -9000, Direction: "credit"},
		{ID: "r2", PostedAt: date(2025, 2, 28), Name: "Customer deposit", Amount: -11000, Direction: "credit"},
	}

	engine := NewLeakEngine()
	findings, err := engine.DetectLeaks(raw, profile, accounts, 90)
	if err != nil {
		t.Fatalf("DetectLeaks() error = %v", err)
	}
	return findings
}

func findByCode(t *testing.T, findings []models.Finding, code string) models.Finding {
	t.Helper()
	for _, f := range findings {
		if f.Code == code {
			return f
		}
	}
	t.Fatalf("no finding with code %q in %v", code, codes(findings))
	return models.Finding{}
}

func codes(findings []models.Finding) []string {
	out := make([]string, len(findings))
	for i, f := range findings {
		out[i] = f.Code
	}
	return out
}
