package ports

import (
	"context"

	"github.com/maxWiklund/txConverter/internal/domain"
)

// ReportStore handles persistence of conversion batch reports.
type ReportStore interface {
	// Get retrieves a report by batch ID.
	Get(ctx context.Context, id string) (*domain.BatchReport, error)

	// Save stores a report, stamping its expiry.
	Save(ctx context.Context, report *domain.BatchReport) error

	// List returns all unexpired reports, newest first.
	List(ctx context.Context) ([]*domain.BatchReport, error)

	// Delete removes a single report.
	Delete(ctx context.Context, id string) error

	// CleanExpired removes all expired reports and returns the count removed.
	CleanExpired(ctx context.Context) (int, error)

	// Clear removes all reports.
	Clear(ctx context.Context) error
}
