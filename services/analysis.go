package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olibranch/analysis-api/models"
)

// AnalysisReport is the full response for one analysis run: the ranked
// findings, both scores, the summary header and display explanations.
// Reports are returned to the caller, never persisted.
type AnalysisReport struct {
	AnalysisID      string                  `json:"analysis_id"`
	BusinessID      string                  `json:"business_id,omitempty"`
	WindowDays      int                     `json:"window_days"`
	GeneratedAt     time.Time               `json:"generated_at"`
	Findings        []models.Finding        `json:"findings"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Scores          models.ScoreResult      `json:"scores"`
	Summary         models.FindingsSummary  `json:"summary"`
	Explanations    map[string]string       `json:"explanations"`
}

// AnalysisService loads a business's stored inputs, runs the leak engine and
// scoring over them, and assembles the report.
type AnalysisService struct {
	db     *sql.DB
	engine *LeakEngine
}

func NewAnalysisService(db *sql.DB) *AnalysisService {
	return &AnalysisService{
		db:     db,
		engine: NewLeakEngine(),
	}
}

// Normalize exposes the engine's normalizer so scoring can run over the
// same canonical transactions the detectors saw.
func (e *LeakEngine) Normalize(raw []models.RawTransaction) []models.Transaction {
	return e.normalizer.Normalize(raw)
}

// Run executes the full pipeline over caller-supplied inputs. This is the
// inline path used by the /analysis/run endpoint; nothing touches the
// database.
func (s *AnalysisService) Run(raw []models.RawTransaction, profile models.BusinessProfile, accounts []models.BankAccount, windowDays int) (*AnalysisReport, error) {
	if windowDays == 0 {
		windowDays = DefaultWindowDays
	}

	findings, err := s.engine.DetectLeaks(raw, profile, accounts, windowDays)
	if err != nil {
		return nil, err
	}

	scores := CalculateScores(ScoringContext{
		Transactions: s.engine.Normalize(raw),
		Profile:      profile,
		WindowDays:   windowDays,
	}, findings)

	return &AnalysisReport{
		AnalysisID:      uuid.New().String(),
		WindowDays:      windowDays,
		GeneratedAt:     time.Now().UTC(),
		Findings:        findings,
		Recommendations: RecommendActions(findings),
		Scores:          scores,
		Summary:         SummarizeFindings(findings),
		Explanations: map[string]string{
			"mismatch":         ExplainScore("mismatch", scores.Mismatch),
			"financial_health": ExplainScore("financial_health", scores.FinancialHealth),
		},
	}, nil
}

// AnalyzeBusiness loads the stored assessment, accounts and transactions
// for a business and runs the same pipeline over them.
func (s *AnalysisService) AnalyzeBusiness(ctx context.Context, businessID string, windowDays int) (*AnalysisReport, error) {
	if windowDays == 0 {
		windowDays = DefaultWindowDays
	}

	profile, err := s.GetAssessment(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("load assessment: %w", err)
	}

	accounts, err := s.GetAccounts(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	raw, err := s.GetTransactions(ctx, businessID, windowDays)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	report, err := s.Run(raw, profile, accounts, windowDays)
	if err != nil {
		return nil, err
	}
	report.BusinessID = businessID
	return report, nil
}

// SaveAssessment stores a new assessment snapshot for the business. The
// latest snapshot wins at analysis time.
func (s *AnalysisService) SaveAssessment(ctx context.Context, businessID string, p models.BusinessProfile) error {
	query := `
		INSERT INTO assessments (id, business_id, monthly_revenue, monthly_expenses, bank_used, payment_methods, loans_taken, services_used, primary_goal, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.New().String(), businessID,
		p.MonthlyRevenue, p.MonthlyExpenses,
		p.BankUsed, p.PaymentMethods, p.LoansTaken, p.ServicesUsed, p.PrimaryGoal,
	)
	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

// GetAssessment returns the latest assessment snapshot, or a zero profile
// when the business has never filled one in (the core treats missing data
// as safe defaults).
func (s *AnalysisService) GetAssessment(ctx context.Context, businessID string) (models.BusinessProfile, error) {
	query := `
		SELECT monthly_revenue, monthly_expenses, bank_used, payment_methods, loans_taken, services_used, primary_goal
		FROM assessments
		WHERE business_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var p models.BusinessProfile
	err := s.db.QueryRowContext(ctx, query, businessID).Scan(
		&p.MonthlyRevenue, &p.MonthlyExpenses,
		&p.BankUsed, &p.PaymentMethods, &p.LoansTaken, &p.ServicesUsed, &p.PrimaryGoal,
	)
	if err == sql.ErrNoRows {
		return models.BusinessProfile{}, nil
	}
	if err != nil {
		return models.BusinessProfile{}, err
	}
	return p, nil
}

// SaveAccounts replaces the stored account metadata for the business.
func (s *AnalysisService) SaveAccounts(ctx context.Context, businessID string, accounts []models.BankAccount) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bank_accounts WHERE business_id = $1`, businessID); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}

	for _, a := range accounts {
		id := a.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO bank_accounts (id, business_id, name, type, subtype, balance)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, id, businessID, a.Name, a.Type, a.Subtype, a.Balance)
		if err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
	}

	return tx.Commit()
}

// GetAccounts returns all account metadata for the business.
func (s *AnalysisService) GetAccounts(ctx context.Context, businessID string) ([]models.BankAccount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, type, subtype, balance
		FROM bank_accounts
		WHERE business_id = $1
		ORDER BY name
	`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.BankAccount
	for rows.Next() {
		var a models.BankAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Subtype, &a.Balance); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// SaveTransactions appends transaction history for the business.
func (s *AnalysisService) SaveTransactions(ctx context.Context, businessID string, txns []models.RawTransaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, t := range txns {
		id := t.ID
		if id == "" {
			id = uuid.New().String()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, business_id, bank_account_id, posted_at, name, merchant, amount, direction, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, id, businessID, t.BankAccountID, t.PostedAt, t.Name, t.Merchant, t.Amount, t.Direction, t.Category)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}

	return tx.Commit()
}

// GetTransactions returns the business's transactions inside the analysis
// window, oldest first.
func (s *AnalysisService) GetTransactions(ctx context.Context, businessID string, windowDays int) ([]models.RawTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, bank_account_id, posted_at, name, merchant, amount, direction, category
		FROM transactions
		WHERE business_id = $1
		  AND posted_at >= NOW() - ($2 || ' days')::interval
		ORDER BY posted_at ASC
	`, businessID, windowDays)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []models.RawTransaction
	for rows.Next() {
		var t models.RawTransaction
		if err := rows.Scan(&t.ID, &t.BankAccountID, &t.PostedAt, &t.Name, &t.Merchant, &t.Amount, &t.Direction, &t.Category); err != nil {
			return nil, err
		}
		txns = append(txns, t)
	}
	return txns, rows.Err()
}
