package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/phishguard/phishguard/internal/domain"
)

// PostgresStore implements ports.AnalysisStore for PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage instance
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	// In production, should be set based on workload
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// InitSchema creates database tables if they don't exist
// In production, use proper migration tools
func (s *PostgresStore) InitSchema() error {
	schema := `
	-- ============================================================================
	-- ANALYSES TABLE
	-- ============================================================================
	-- History of completed analyses, used for the stats endpoint and audits.
	--
	-- Prototype simplifications:
	-- 1. content_hash (SHA-256) instead of the content itself
	--    Why: analyzed content is user-submitted and may contain PII; the hash
	--         is enough for deduplication and abuse investigation
	--    Production: optional encrypted raw-content store with a retention policy
	--
	-- 2. indicator_count instead of the full indicator list
	--    Why: indicators are deterministic given the content; re-analysis
	--         reproduces them exactly, so storing them duplicates state
	--    Production: JSONB indicator snapshot pinned to analysis_version, so
	--                history survives rule updates

	CREATE TABLE IF NOT EXISTS analyses (
		id UUID PRIMARY KEY,
		content_hash CHAR(64) NOT NULL,
		content_type VARCHAR(10) NOT NULL CHECK (content_type IN ('email', 'sms', 'url')),
		classification VARCHAR(20) NOT NULL,
		score DECIMAL(5,4) NOT NULL,
		risk_level VARCHAR(10) NOT NULL,
		indicator_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	-- Backs RecentAnalyses: newest first
	CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
	-- Backs CountByClassification and dashboard filters
	CREATE INDEX IF NOT EXISTS idx_analyses_classification ON analyses(classification);
	-- Repeat-content lookups ("have we seen this exact message before")
	CREATE INDEX IF NOT EXISTS idx_analyses_hash ON analyses(content_hash);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateAnalysis inserts one completed analysis record
func (s *PostgresStore) CreateAnalysis(ctx context.Context, record *domain.AnalysisRecord) error {
	query := `
		INSERT INTO analyses (id, content_hash, content_type, classification, score, risk_level, indicator_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		record.ID, record.ContentHash, record.ContentType, record.Classification,
		record.Score, record.RiskLevel, record.IndicatorCount, record.CreatedAt,
	)
	return err
}

// GetAnalysis retrieves an analysis record by ID
func (s *PostgresStore) GetAnalysis(ctx context.Context, id uuid.UUID) (*domain.AnalysisRecord, error) {
	query := `
		SELECT id, content_hash, content_type, classification, score, risk_level, indicator_count, created_at
		FROM analyses
		WHERE id = $1
	`
	record := &domain.AnalysisRecord{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&record.ID, &record.ContentHash, &record.ContentType, &record.Classification,
		&record.Score, &record.RiskLevel, &record.IndicatorCount, &record.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

// RecentAnalyses retrieves the newest analyses first, up to limit
func (s *PostgresStore) RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisRecord, error) {
	query := `
		SELECT id, content_hash, content_type, classification, score, risk_level, indicator_count, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.AnalysisRecord, 0)
	for rows.Next() {
		var record domain.AnalysisRecord
		err := rows.Scan(
			&record.ID, &record.ContentHash, &record.ContentType, &record.Classification,
			&record.Score, &record.RiskLevel, &record.IndicatorCount, &record.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// CountByClassification returns total analyses per classification label
func (s *PostgresStore) CountByClassification(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT classification, COUNT(*)
		FROM analyses
		GROUP BY classification
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var classification string
		var count int
		if err := rows.Scan(&classification, &count); err != nil {
			return nil, err
		}
		counts[classification] = count
	}

	return counts, rows.Err()
}
