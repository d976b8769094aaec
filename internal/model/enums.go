package model

import (
	"encoding/json"
	"fmt"
)

// Resolution modes
type ResolutionMode string

const (
	ResolutionLow    ResolutionMode = "Low"
	ResolutionMedium ResolutionMode = "Medium"
	ResolutionHigh   ResolutionMode = "High"
	ResolutionOff    ResolutionMode = "Off"
)

// UnmarshalJSON rejects anything outside the closed set at decode time.
func (r *ResolutionMode) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	switch ResolutionMode(s) {
	case ResolutionLow, ResolutionMedium, ResolutionHigh, ResolutionOff:
		*r = ResolutionMode(s)
		return nil
	}
	return fmt.Errorf("invalid resolution_mode %q", s)
}

// Job status as reported by the queue service
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusTimedOut  JobStatus = "timed_out"
)
