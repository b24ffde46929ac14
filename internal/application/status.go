package application

import (
	"errors"
	"fmt"

	"github.com/maxWiklund/txConverter/internal/domain"
)

// StatusText turns an event into the one-line message shown to the user.
// Events that carry no status (per-element and per-command events) return
// an empty string.
func StatusText(ev domain.Event) string {
	switch e := ev.(type) {
	case domain.ScanStarted:
		return "Start scanning directory:"
	case domain.ScanFinished:
		if e.Err != nil {
			return fmt.Sprintf("Scanning stopped: %v", e.Err)
		}
		return "Scanning done:"
	case domain.ScanAborted:
		return "Scanning aborted file path does not exist:"
	case domain.ConvertStarted:
		return "Start converting images:"
	case domain.ConvertFinished:
		if e.Status == domain.BatchSucceeded {
			return "All images converted:"
		}
		return "Conversion of images failed."
	}
	return ""
}

// ErrorText turns a caller-side rejection into status text.
func ErrorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrNoEnabledElements):
		return "No images to convert:"
	case errors.Is(err, domain.ErrInvalidScanTarget):
		return "Scanning aborted file path does not exist:"
	case errors.Is(err, domain.ErrDuplicateElement):
		return "Element is a duplicate and can't be edited."
	}
	return err.Error()
}
