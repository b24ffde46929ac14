package application

import (
	"context"
	"errors"
	"sync"

	"github.com/maxWiklund/txConverter/internal/domain"
)

// Mock implementations for testing
type mockDiscoverer struct {
	dirs      map[string]bool
	sequences []*domain.Sequence
	err       error // returned after all sequences were delivered
}

func (m *mockDiscoverer) IsDir(path string) bool { return m.dirs[path] }

func (m *mockDiscoverer) Discover(ctx context.Context, root string, fn func(*domain.Sequence) error) error {
	for _, seq := range m.sequences {
		if err := fn(seq); err != nil {
			return err
		}
	}
	return m.err
}

type mockRunner struct {
	mu       sync.Mutex
	commands []string
	failOn   map[string]bool
}

var errExitStatus = errors.New("exit status 1")

func (m *mockRunner) Run(ctx context.Context, command string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, command)
	if m.failOn[command] {
		return errExitStatus
	}
	return nil
}

func (m *mockRunner) ran() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.commands))
	copy(out, m.commands)
	return out
}

func collect(events <-chan domain.Event) []domain.Event {
	var out []domain.Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func seq(name string, frames ...int) *domain.Sequence {
	return &domain.Sequence{Dir: "/mock", Name: name, Sep: ".", Padding: 4, Ext: ".exr", Frames: frames}
}

type mockReportStore struct {
	mu      sync.Mutex
	reports map[string]*domain.BatchReport
	order   []string
	cleaned int
	saveErr error
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{reports: make(map[string]*domain.BatchReport)}
}

func (m *mockReportStore) Get(ctx context.Context, id string) (*domain.BatchReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return r, nil
}

func (m *mockReportStore) Save(ctx context.Context, report *domain.BatchReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.reports[report.ID]; !ok {
		m.order = append(m.order, report.ID)
	}
	m.reports[report.ID] = report
	return nil
}

func (m *mockReportStore) List(ctx context.Context) ([]*domain.BatchReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.BatchReport
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.reports[m.order[i]])
	}
	return out, nil
}

func (m *mockReportStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.reports, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockReportStore) CleanExpired(ctx context.Context) (int, error) {
	return m.cleaned, nil
}

func (m *mockReportStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports = make(map[string]*domain.BatchReport)
	m.order = nil
	return nil
}
