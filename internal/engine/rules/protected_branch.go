package rules

import (
	"context"
	"fmt"

	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
	"github.com/preflight-dev/preflight/internal/shell"
)

// ProtectedBranchRule blocks commit and merge commands issued while the
// working copy is checked out on a protected branch, independent of how
// the command is phrased. It relies on the external probe; when the probe
// could not answer, the rule is permissive.
type ProtectedBranchRule struct{}

func NewProtectedBranchRule() *ProtectedBranchRule {
	return &ProtectedBranchRule{}
}

func (r *ProtectedBranchRule) Name() string {
	return "protected_branch"
}

func (r *ProtectedBranchRule) Evaluate(_ context.Context, req *engine.Request) engine.Verdict {
	if req.Event.Kind != event.ActionRunCommand {
		return engine.Approve()
	}
	if !req.Branch.Known || !req.Config.IsProtectedBranch(req.Branch.Branch) {
		return engine.Approve()
	}

	for _, seg := range shell.Split(req.Event.Command) {
		sub, _, ok := gitSubcommand(shell.Fields(seg.Text))
		if !ok {
			continue
		}
		if sub == "commit" || sub == "merge" {
			return engine.Block(fmt.Sprintf(
				"Currently on protected branch %q: direct %s is disallowed.\n"+
					"Create a feature branch first:\n"+
					"  git checkout -b feature/<name>", req.Branch.Branch, sub))
		}
	}

	return engine.Approve()
}
