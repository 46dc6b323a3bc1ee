package rules

import (
	"context"
	"strings"

	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
	"github.com/preflight-dev/preflight/internal/shell"
)

// Interpreters and tools that must run inside the managed environment.
var wrappedTools = map[string]bool{
	"python":  true,
	"python3": true,
	"pytest":  true,
	"mypy":    true,
	"ruff":    true,
}

// EnvInvocationRule blocks Python interpreters and tooling invoked bare on
// the PATH instead of through the sanctioned environment wrapper. A
// command already routed through 'uv run' or addressed via an explicit
// virtualenv path passes.
type EnvInvocationRule struct{}

func NewEnvInvocationRule() *EnvInvocationRule {
	return &EnvInvocationRule{}
}

func (r *EnvInvocationRule) Name() string {
	return "env_invocation"
}

func (r *EnvInvocationRule) Evaluate(_ context.Context, req *engine.Request) engine.Verdict {
	if req.Event.Kind != event.ActionRunCommand {
		return engine.Approve()
	}

	for _, seg := range shell.Split(req.Event.Command) {
		fields := shell.Fields(seg.Text)
		name, args := shell.Command(fields)

		switch {
		case wrappedTools[name]:
			// An explicit virtualenv path is an acceptable routing.
			if strings.Contains(shell.Program(fields), "venv") {
				continue
			}
			if (name == "python" || name == "python3") && isVenvCreation(args) {
				return engine.Block(
					"Use uv to manage virtual environments:\n" +
						"  uv venv\n" +
						"  uv python install 3.12")
			}
			return engine.Block(
				"Run Python tooling through the managed environment:\n" +
					"  uv run " + name + " ...\n" +
					"or address the virtualenv explicitly:\n" +
					"  ./venv/bin/" + name + " ...")
		case name == "pip" || name == "pip3":
			if len(args) > 0 && args[0] == "install" {
				return engine.Block(
					"Use uv instead of pip:\n" +
						"  uv add <package>\n" +
						"  uv add --dev <package>\n" +
						"  uv sync")
			}
		case name == "poetry":
			if len(args) > 0 && (args[0] == "add" || args[0] == "install" || args[0] == "remove") {
				return engine.Block(
					"Use uv instead of poetry:\n" +
						"  uv add <package>\n" +
						"  uv remove <package>\n" +
						"  uv sync")
			}
		}
	}

	return engine.Approve()
}

func isVenvCreation(args []string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == "-m" && args[i+1] == "venv" {
			return true
		}
	}
	return false
}
