package application

import (
	"context"

	"github.com/maxWiklund/txConverter/internal/domain"
	"github.com/maxWiklund/txConverter/internal/ports"
)

// HistoryStats holds batch history statistics
type HistoryStats struct {
	Batches  int
	Commands int
	Failed   int
}

// HistoryService handles the recorded conversion batches
type HistoryService struct {
	reports ports.ReportStore
}

// NewHistoryService creates a new history service
func NewHistoryService(reports ports.ReportStore) *HistoryService {
	return &HistoryService{reports: reports}
}

// List returns the recorded batches, newest first
func (s *HistoryService) List(ctx context.Context) ([]*domain.BatchReport, error) {
	return s.reports.List(ctx)
}

// Get returns a single batch report
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.BatchReport, error) {
	return s.reports.Get(ctx, id)
}

// Stats totals commands and failures across every recorded batch
func (s *HistoryService) Stats(ctx context.Context) (*HistoryStats, error) {
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &HistoryStats{Batches: len(reports)}
	for _, r := range reports {
		stats.Commands += r.Total
		stats.Failed += r.Failed()
	}
	return stats, nil
}

// CleanExpired removes reports past their retention
func (s *HistoryService) CleanExpired(ctx context.Context) (int, error) {
	return s.reports.CleanExpired(ctx)
}

// Clear removes all reports
func (s *HistoryService) Clear(ctx context.Context) error {
	return s.reports.Clear(ctx)
}
