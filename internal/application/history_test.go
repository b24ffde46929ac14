package application

import (
	"context"
	"errors"
	"testing"

	"github.com/maxWiklund/txConverter/internal/domain"
)

func TestHistoryService_Stats(t *testing.T) {
	store := newMockReportStore()
	ctx := context.Background()
	_ = store.Save(ctx, &domain.BatchReport{ID: "a", Total: 3})
	_ = store.Save(ctx, &domain.BatchReport{ID: "b", Total: 2, Failures: []domain.FailedCommand{{Command: "maketx"}}})

	svc := NewHistoryService(store)
	stats, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Batches != 2 || stats.Commands != 5 || stats.Failed != 1 {
		t.Errorf("Stats() = %+v, want 2 batches / 5 commands / 1 failed", stats)
	}
}

func TestHistoryService_ListAndGet(t *testing.T) {
	store := newMockReportStore()
	ctx := context.Background()
	_ = store.Save(ctx, &domain.BatchReport{ID: "old"})
	_ = store.Save(ctx, &domain.BatchReport{ID: "new"})

	svc := NewHistoryService(store)
	reports, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(reports) != 2 || reports[0].ID != "new" {
		t.Errorf("List() = %v, want newest first", reports)
	}

	if _, err := svc.Get(ctx, "missing"); !errors.Is(err, domain.ErrReportNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrReportNotFound", err)
	}
}

func TestHistoryService_CleanAndClear(t *testing.T) {
	store := newMockReportStore()
	store.cleaned = 4
	ctx := context.Background()
	_ = store.Save(ctx, &domain.BatchReport{ID: "a"})

	svc := NewHistoryService(store)
	n, err := svc.CleanExpired(ctx)
	if err != nil || n != 4 {
		t.Errorf("CleanExpired() = %d, %v, want 4", n, err)
	}

	if err := svc.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	reports, _ := svc.List(ctx)
	if len(reports) != 0 {
		t.Errorf("List() after Clear = %v", reports)
	}
}
