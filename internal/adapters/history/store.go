package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/afero"

	"github.com/maxWiklund/txConverter/internal/domain"
	"github.com/maxWiklund/txConverter/internal/ports"
)

const reportExt = ".json"

// FileStore keeps one JSON file per conversion batch
type FileStore struct {
	fs      afero.Fs
	baseDir string
	ttl     time.Duration
	now     func() time.Time
	lock    *flock.Flock
}

// NewFileStore creates a store under baseDir. A nil fs uses the OS filesystem.
func NewFileStore(fs afero.Fs, baseDir string, ttl time.Duration) *FileStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileStore{
		fs:      fs,
		baseDir: baseDir,
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithLock guards writes with an advisory file lock shared by every
// txconverter process.
func (s *FileStore) WithLock(path string) *FileStore {
	s.lock = flock.New(path)
	return s
}

func (s *FileStore) locked(fn func() error) error {
	if s.lock == nil {
		return fn()
	}
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("acquire history lock: %w", err)
	}
	defer s.lock.Unlock()
	return fn()
}

func (s *FileStore) reportPath(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid report id: %q", id)
	}
	return filepath.Join(s.baseDir, id+reportExt), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*domain.BatchReport, error) {
	path, err := s.reportPath(id)
	if err != nil {
		return nil, err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}

	var report domain.BatchReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", id, err)
	}

	if s.now().After(report.ExpiresAt) {
		return nil, domain.ErrReportExpired
	}
	return &report, nil
}

func (s *FileStore) Save(ctx context.Context, report *domain.BatchReport) error {
	path, err := s.reportPath(report.ID)
	if err != nil {
		return err
	}
	if err := s.fs.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}

	stamped := *report
	base := stamped.FinishedAt
	if base.IsZero() {
		base = s.now()
	}
	stamped.ExpiresAt = base.Add(s.ttl)

	data, err := json.MarshalIndent(stamped, "", "  ")
	if err != nil {
		return err
	}
	return s.locked(func() error {
		return afero.WriteFile(s.fs, path, data, 0644)
	})
}

func (s *FileStore) List(ctx context.Context) ([]*domain.BatchReport, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}

	var reports []*domain.BatchReport
	for _, id := range ids {
		report, err := s.Get(ctx, id)
		if err != nil {
			// Expired or unreadable reports are not listed
			continue
		}
		reports = append(reports, report)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt.After(reports[j].StartedAt)
	})
	return reports, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.reportPath(id)
	if err != nil {
		return err
	}
	return s.locked(func() error { return s.remove(path) })
}

func (s *FileStore) remove(path string) error {
	if err := s.fs.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileStore) CleanExpired(ctx context.Context) (int, error) {
	ids, err := s.ids()
	if err != nil {
		return 0, err
	}

	cleaned := 0
	err = s.locked(func() error {
		for _, id := range ids {
			if _, err := s.Get(ctx, id); !errors.Is(err, domain.ErrReportExpired) {
				continue
			}
			path, _ := s.reportPath(id)
			if s.remove(path) == nil {
				cleaned++
			}
		}
		return nil
	})
	return cleaned, err
}

func (s *FileStore) Clear(ctx context.Context) error {
	ids, err := s.ids()
	if err != nil {
		return err
	}
	return s.locked(func() error {
		for _, id := range ids {
			path, err := s.reportPath(id)
			if err != nil {
				continue
			}
			_ = s.remove(path)
		}
		return nil
	})
}

func (s *FileStore) ids() ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), reportExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), reportExt))
	}
	return ids, nil
}

var _ ports.ReportStore = (*FileStore)(nil)
