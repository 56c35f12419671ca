package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/phishguard/phishguard/internal/domain"
)

// AnalysisStore defines the contract for persisting analysis history and
// serving aggregate statistics
type AnalysisStore interface {
	// CreateAnalysis records one completed analysis
	CreateAnalysis(ctx context.Context, record *domain.AnalysisRecord) error

	// GetAnalysis fetches a single record by id
	GetAnalysis(ctx context.Context, id uuid.UUID) (*domain.AnalysisRecord, error)

	// RecentAnalyses returns the newest records first, up to limit
	RecentAnalyses(ctx context.Context, limit int) ([]domain.AnalysisRecord, error)

	// CountByClassification returns total analyses per classification label
	CountByClassification(ctx context.Context) (map[string]int, error)

	// Lifecycle
	Close() error
}
