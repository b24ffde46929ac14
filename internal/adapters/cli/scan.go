package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/maxWiklund/txConverter/internal/domain"
)

// scanDirs scans every dir into coll in order, draining each event stream
// before starting the next. onEvent may be nil.
func scanDirs(ctx context.Context, app *App, dirs []string, coll *domain.Collection, onEvent func(domain.Event)) error {
	var problems []string

	for _, dir := range dirs {
		for ev := range app.ScanSvc.ScanInto(ctx, dir, coll) {
			if onEvent != nil {
				onEvent(ev)
			}
			switch e := ev.(type) {
			case domain.ScanAborted:
				problems = append(problems, fmt.Sprintf("%s: %s", e.Path, e.Reason))
			case domain.ScanFinished:
				if e.Err != nil {
					problems = append(problems, fmt.Sprintf("%s: %v", e.Path, e.Err))
				}
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if len(problems) > 0 {
		return fmt.Errorf("scan failed for %d of %d directories:\n  %s", len(problems), len(dirs), strings.Join(problems, "\n  "))
	}
	return nil
}

// duplicates returns the names of the rows excluded as duplicates
func duplicates(coll *domain.Collection) []*domain.Element {
	var out []*domain.Element
	for e := range coll.All() {
		if e.Duplicated() {
			out = append(out, e)
		}
	}
	return out
}
