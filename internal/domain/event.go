package domain

// Event is a notification emitted by a background scan or conversion.
// Every task emits a start event, zero or more item events and exactly
// one terminal event, in that order.
type Event interface {
	event()
}

// ScanStarted is emitted before the first discovered element.
type ScanStarted struct {
	Path string
}

// ElementDiscovered carries one element, in discovery order.
type ElementDiscovered struct {
	Element *Element
}

// ScanFinished terminates a scan. Err is set when discovery stopped early.
type ScanFinished struct {
	Path  string
	Count int
	Err   error
}

// ScanAborted terminates a scan that never started because the target is
// not a directory.
type ScanAborted struct {
	Path   string
	Reason string
}

// ConvertStarted opens a conversion batch.
type ConvertStarted struct {
	BatchID  string
	Elements int
	Commands int
}

// CommandFinished reports one executed (or skipped) command.
type CommandFinished struct {
	BatchID string
	Element string
	Command string
	Index   int // 1-based position in the batch
	Total   int
	Err     error
}

// ConvertFinished terminates a conversion batch.
type ConvertFinished struct {
	BatchID string
	Status  BatchStatus
	Total   int
	Failed  int
}

func (ScanStarted) event()       {}
func (ElementDiscovered) event() {}
func (ScanFinished) event()      {}
func (ScanAborted) event()       {}
func (ConvertStarted) event()    {}
func (CommandFinished) event()   {}
func (ConvertFinished) event()   {}

// BatchStatus is the state of a conversion batch.
type BatchStatus int

const (
	BatchIdle BatchStatus = iota
	BatchRunning
	BatchSucceeded
	BatchFailed
)

func (s BatchStatus) String() string {
	switch s {
	case BatchRunning:
		return "running"
	case BatchSucceeded:
		return "completed"
	case BatchFailed:
		return "completed with failures"
	default:
		return "idle"
	}
}
