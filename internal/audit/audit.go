// Package audit records the outcome of every gate invocation.
package audit

import "time"

// Writer is the sink for gate decision records.
// Write must never block or fail the caller.
type Writer interface {
	Write(entry *Entry)
	Close()
}

// Entry is one invocation's outcome.
type Entry struct {
	InvocationID string
	SessionID    string
	Timestamp    time.Time
	Action       string
	Command      string
	FilePath     string
	Branch       string
	Decision     string
	RuleHit      string
	Reason       string
	LatencyMs    float64
}
