package rules

import (
	"context"

	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
	"github.com/preflight-dev/preflight/internal/shell"
)

// SearchToolsRule blocks legacy search utilities invoked as a command in
// their own right and points at the ripgrep equivalent. A legacy tool
// consuming a pipe is left alone: filtering another command's output is a
// different job than searching the tree.
type SearchToolsRule struct{}

func NewSearchToolsRule() *SearchToolsRule {
	return &SearchToolsRule{}
}

func (r *SearchToolsRule) Name() string {
	return "search_tools"
}

func (r *SearchToolsRule) Evaluate(_ context.Context, req *engine.Request) engine.Verdict {
	if req.Event.Kind != event.ActionRunCommand {
		return engine.Approve()
	}

	for _, seg := range shell.Split(req.Event.Command) {
		if seg.Piped {
			continue
		}
		name, args := shell.Command(shell.Fields(seg.Text))

		switch name {
		case "grep":
			return engine.Block(
				"Use 'rg' (ripgrep) instead of 'grep':\n" +
					"  rg 'pattern'            search the tree\n" +
					"  rg 'pattern' *.py       search specific files\n" +
					"  rg -i 'pattern'         case insensitive\n" +
					"  rg -C 3 'pattern'       show context")
		case "ack", "ag":
			return engine.Block(
				"Use 'rg' (ripgrep) for searching: it is the standard search\n" +
					"tool for this project and is faster than " + name + ".")
		case "locate":
			return engine.Block(
				"Use 'rg --files' instead of 'locate': locate reads a database\n" +
					"that may be stale, rg --files lists the tree as it is now.")
		case "find":
			for _, a := range args {
				if a == "-name" || a == "-iname" {
					return engine.Block(
						"Use 'rg --files' instead of 'find -name':\n" +
							"  rg --files -g '*.py'    find files by glob\n" +
							"  rg --files              list all files")
				}
			}
		}
	}

	return engine.Approve()
}
