package model

import "time"

const (
	StatusStarted = "started"
	StatusSuccess = "success"

	// StatusTimeLayout is how status timestamps are rendered.
	StatusTimeLayout = "2006-01-02 15:04:05"
)

// ProcessStatus describes the outcome of the most recent save.
// Version increases by one on every overwrite.
type ProcessStatus struct {
	Label     string
	Timestamp string
	Version   uint64
}

func NewProcessStatus() ProcessStatus {
	return ProcessStatus{Label: StatusStarted}
}

// Next returns the status that replaces s after an event with the given label.
func (s ProcessStatus) Next(label string, at time.Time) ProcessStatus {
	return ProcessStatus{
		Label:     label,
		Timestamp: at.Format(StatusTimeLayout),
		Version:   s.Version + 1,
	}
}
