package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations creates the input tables: businesses, their assessment
// snapshots, account metadata and transaction history. Analysis outputs are
// computed on demand and never stored.
func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS businesses (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			name VARCHAR(255) NOT NULL,
			industry VARCHAR(255),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS assessments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			business_id UUID NOT NULL,
			monthly_revenue NUMERIC(14,2) DEFAULT 0,
			monthly_expenses NUMERIC(14,2) DEFAULT 0,
			bank_used VARCHAR(255) DEFAULT '',
			payment_methods VARCHAR(500) DEFAULT '',
			loans_taken VARCHAR(500) DEFAULT '',
			services_used TEXT DEFAULT '',
			primary_goal VARCHAR(500) DEFAULT '',
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS bank_accounts (
			id VARCHAR(255) PRIMARY KEY,
			business_id UUID NOT NULL,
			name VARCHAR(255) DEFAULT '',
			type VARCHAR(100) DEFAULT '',
			subtype VARCHAR(100) DEFAULT '',
			balance NUMERIC(14,2) DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id VARCHAR(255) PRIMARY KEY,
			business_id UUID NOT NULL,
			bank_account_id VARCHAR(255) DEFAULT '',
			posted_at TIMESTAMP NOT NULL,
			name VARCHAR(500) DEFAULT '',
			merchant VARCHAR(500) DEFAULT '',
			amount NUMERIC(14,2) NOT NULL,
			direction VARCHAR(10) DEFAULT '',
			category VARCHAR(255) DEFAULT '',
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_assessments_business_id ON assessments(business_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bank_accounts_business_id ON bank_accounts(business_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_business_id ON transactions(business_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_posted_at ON transactions(posted_at)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
