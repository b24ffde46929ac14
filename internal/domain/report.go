package domain

import "time"

// BatchReport summarizes one conversion batch for later inspection.
type BatchReport struct {
	ID         string          `json:"id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	DryRun     bool            `json:"dry_run"`
	Status     string          `json:"status"`
	Elements   int             `json:"elements"`
	Total      int             `json:"total"`
	Failures   []FailedCommand `json:"failures,omitempty"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// FailedCommand is one command that did not succeed.
type FailedCommand struct {
	Element string `json:"element"`
	Command string `json:"command"`
	Error   string `json:"error"`
}

// Failed returns the number of failed commands.
func (r *BatchReport) Failed() int {
	return len(r.Failures)
}

// Apply folds a conversion event into the report.
func (r *BatchReport) Apply(ev Event, now time.Time) {
	switch e := ev.(type) {
	case ConvertStarted:
		r.ID = e.BatchID
		r.StartedAt = now
		r.Elements = e.Elements
		r.Total = e.Commands
		r.Status = BatchRunning.String()
	case CommandFinished:
		if e.Err != nil {
			r.Failures = append(r.Failures, FailedCommand{
				Element: e.Element,
				Command: e.Command,
				Error:   e.Err.Error(),
			})
		}
	case ConvertFinished:
		r.FinishedAt = now
		r.Status = e.Status.String()
	}
}
