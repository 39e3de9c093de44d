package services

import (
	"errors"
	"log"
	"sync"

	"github.com/olibranch/analysis-api/models"
)

// DefaultWindowDays is the transaction history window the analysis covers
// when the caller does not specify one.
const DefaultWindowDays = 90

// ErrInvalidWindow is returned when the caller supplies a non-positive
// analysis window. Missing business data is never an error: detectors
// return no findings instead.
var ErrInvalidWindow = errors.New("window_days must be positive")

// ServiceCategories lists vendor keywords per tool family, used to flag
// duplicate subscriptions (two accounting tools, two CRMs, ...).
var DefaultServiceCategories = map[string][]string{
	"accounting": {"quickbooks", "xero", "freshbooks", "wave"},
	"payroll":    {"gusto", "adp", "paychex"},
	"payment":    {"stripe", "square", "paypal"},
	"crm":        {"salesforce", "hubspot", "pipedrive"},
	"marketing":  {"mailchimp", "constant contact", "klaviyo"},
}

// businessServiceKeywords marks a recurring merchant as a known business
// service in subscription evidence.
var businessServiceKeywords = []string{"software", "saas", "subscription", "monthly", "cloud", "app"}

// LeakEngineConfig is the immutable configuration injected into the engine.
type LeakEngineConfig struct {
	FeeKeywords       []string
	ServiceCategories map[string][]string
}

// DefaultLeakEngineConfig returns the production keyword sets.
func DefaultLeakEngineConfig() LeakEngineConfig {
	return LeakEngineConfig{
		FeeKeywords:       DefaultFeeKeywords,
		ServiceCategories: DefaultServiceCategories,
	}
}

// LeakEngine runs the leak detection pipeline: normalize, run the eight
// detectors, annualize costs, rank. It is a pure function of its inputs;
// identical input always yields identical ordered output.
type LeakEngine struct {
	cfg        LeakEngineConfig
	normalizer *Normalizer
}

func NewLeakEngine() *LeakEngine {
	return NewLeakEngineWithConfig(DefaultLeakEngineConfig())
}

func NewLeakEngineWithConfig(cfg LeakEngineConfig) *LeakEngine {
	return &LeakEngine{
		cfg:        cfg,
		normalizer: NewNormalizer(cfg.FeeKeywords),
	}
}

// detectInput is the shared read-only input every detector sees.
type detectInput struct {
	txns     []models.Transaction
	profile  models.BusinessProfile
	accounts []models.BankAccount
	months   float64 // windowDays / 30.0
}

// DetectLeaks is the main entry point. windowDays must be positive; use
// DefaultWindowDays for the standard 90-day analysis.
func (e *LeakEngine) DetectLeaks(raw []models.RawTransaction, profile models.BusinessProfile, accounts []models.BankAccount, windowDays int) ([]models.Finding, error) {
	if windowDays <= 0 {
		return nil, ErrInvalidWindow
	}

	log.Printf("[LeakEngine] Running leak detection on %d transactions over %d days", len(raw), windowDays)

	in := detectInput{
		txns:     e.normalizer.Normalize(raw),
		profile:  profile,
		accounts: accounts,
		months:   float64(windowDays) / 30.0,
	}

	// Detectors share only read-only input and write no shared state, so
	// each runs in its own goroutine. Results land in indexed slots to keep
	// the concatenation order fixed regardless of completion order.
	detectors := []func(detectInput) []models.Finding{
		e.detectMonthlyMaintenance,
		e.detectCashDepositFees,
		e.detectWireACHFees,
		e.detectOverdraftNSF,
		e.detectATMFees,
		e.detectSubscriptionWaste,
		e.detectProcessorFriction,
		e.detectAccountTypeMismatch,
	}

	results := make([][]models.Finding, len(detectors))
	var wg sync.WaitGroup
	for i, detect := range detectors {
		wg.Add(1)
		go func(slot int, detect func(detectInput) []models.Finding) {
			defer wg.Done()
			results[slot] = detect(in)
		}(i, detect)
	}
	wg.Wait()

	var findings []models.Finding
	for _, fs := range results {
		findings = append(findings, fs...)
	}

	annualize(findings, windowDays)
	rankFindings(findings)

	log.Printf("[LeakEngine] Leak detection complete: %d leaks found", len(findings))
	return findings, nil
}

// severityForMonthlyCost applies the shared fee severity thresholds.
func severityForMonthlyCost(monthly float64) string {
	switch {
	case monthly >= 250:
		return models.SeverityHigh
	case monthly >= 50:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

func sumAbs(txns []models.Transaction) float64 {
	var total float64
	for _, t := range txns {
		total += t.AmountAbs
	}
	return total
}
