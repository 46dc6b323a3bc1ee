package rules

import (
	"context"
	"fmt"

	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
	"github.com/preflight-dev/preflight/internal/shell"
)

// DestructiveGitRule blocks git push invocations that can destroy shared
// history: a force push without a lease, a branch deletion on a protected
// branch, or any push that targets a protected branch directly. Matching
// is on tokenized command structure, so the same words inside a quoted
// argument do not trigger it.
type DestructiveGitRule struct{}

func NewDestructiveGitRule() *DestructiveGitRule {
	return &DestructiveGitRule{}
}

func (r *DestructiveGitRule) Name() string {
	return "destructive_git"
}

func (r *DestructiveGitRule) Evaluate(_ context.Context, req *engine.Request) engine.Verdict {
	if req.Event.Kind != event.ActionRunCommand {
		return engine.Approve()
	}

	for _, seg := range shell.Split(req.Event.Command) {
		sub, args, ok := gitSubcommand(shell.Fields(seg.Text))
		if !ok || sub != "push" {
			continue
		}
		if v := checkPush(req, args); v.Outcome == engine.OutcomeBlock {
			return v
		}
	}

	return engine.Approve()
}

func checkPush(req *engine.Request, args []string) engine.Verdict {
	isDelete := false
	var refs []string

	for _, arg := range args {
		switch {
		case arg == "--force" || arg == "-f":
			return engine.Block(
				"Never use 'git push --force'.\n" +
					"Use 'git push --force-with-lease' instead: it refuses to overwrite\n" +
					"work someone else pushed since your last fetch.")
		case arg == "--delete" || arg == "-d":
			isDelete = true
		case arg == "--force-with-lease" || len(arg) > 0 && arg[0] == '-':
			// Other flags, including the sanctioned lease form.
		default:
			refs = append(refs, arg)
		}
	}

	for _, ref := range refs {
		if protectedRef(req.Config, ref) {
			if isDelete {
				return engine.Block(fmt.Sprintf(
					"Refusing to delete protected branch %q.", ref))
			}
			return engine.Block(fmt.Sprintf(
				"Don't push directly to %q. Follow the feature-branch flow:\n"+
					"  1. git checkout -b feature/<name>\n"+
					"  2. git push origin feature/<name>\n"+
					"  3. open a pull request and merge after review", ref))
		}
	}

	return engine.Approve()
}
