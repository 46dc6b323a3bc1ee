// Package hook implements the wire contract with the invoking agent: one
// JSON record in on stdin, one JSON decision out on stdout, and the exit
// code as the machine-readable signal.
package hook

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/preflight-dev/preflight/internal/engine"
)

// Exit codes understood by the caller. Anything nonzero other than
// ExitBlock would be an internal fault, which the gate never surfaces.
const (
	ExitApprove = 0
	ExitBlock   = 1
)

// maxInputBytes caps how much of the payload is read. Hook records are
// small; an oversized one is truncated and left to the normalizer.
const maxInputBytes = 1 << 20

// Response is the decision record written to stdout.
type Response struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

// ReadInput drains the hook payload from r. It never fails: a read error
// yields whatever bytes arrived before it.
func ReadInput(r io.Reader) []byte {
	data, _ := io.ReadAll(io.LimitReader(r, maxInputBytes))
	return data
}

// WriteDecision emits the decision record for d, newline terminated.
func WriteDecision(w io.Writer, d engine.Decision) error {
	data, err := json.Marshal(Response{
		Decision: d.Status.String(),
		Reason:   d.Message,
	})
	if err != nil {
		return fmt.Errorf("encode decision: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write decision: %w", err)
	}
	return nil
}

// ExitCode maps d to the process exit status.
func ExitCode(d engine.Decision) int {
	if d.Status == engine.StatusBlock {
		return ExitBlock
	}
	return ExitApprove
}
