package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
)

const maxListedFiles = 5

// SessionAdvisoryRule watches the count of distinct files touched in the
// current session window. Past the threshold it reminds the operator to
// run the quality checklist. It never blocks.
type SessionAdvisoryRule struct{}

func NewSessionAdvisoryRule() *SessionAdvisoryRule {
	return &SessionAdvisoryRule{}
}

func (r *SessionAdvisoryRule) Name() string {
	return "session_advisory"
}

func (r *SessionAdvisoryRule) Evaluate(_ context.Context, req *engine.Request) engine.Verdict {
	ev := req.Event
	if ev.Kind != event.ActionWriteFile && ev.Kind != event.ActionEditFile {
		return engine.Approve()
	}

	count := req.Session.Count()
	if count < req.Config.AdvisoryThreshold {
		return engine.Approve()
	}

	var listed []string
	for i, p := range req.Session.TouchedPaths {
		if i == maxListedFiles {
			listed = append(listed, fmt.Sprintf("... and %d more", count-maxListedFiles))
			break
		}
		listed = append(listed, filepath.Base(p))
	}

	return engine.Advise(fmt.Sprintf(
		"Quality check reminder: %d files modified this session.\n\n"+
			"Modified files:\n  - %s\n\n"+
			"Run the checklist before finishing:\n"+
			"  1. Format and lint:  gofmt -l . && golangci-lint run\n"+
			"  2. Vet:              go vet ./...\n"+
			"  3. Tests:            go test ./...\n"+
			"  4. Size limits:      files under %d lines, functions under %d",
		count, strings.Join(listed, "\n  - "),
		req.Config.FileLineLimit, req.Config.FuncLineLimit))
}
