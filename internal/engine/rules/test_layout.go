package rules

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
	"github.com/preflight-dev/preflight/internal/shell"
)

var funcDeclPattern = regexp.MustCompile(`(?m)^func\s`)

// TestLayoutRule enforces test file conventions: test files are named
// *_test.go and live in the package directory next to the code they cover,
// not in a separate tests tree. A new implementation file that declares
// functions gets a test-first reminder. On the command side it redirects
// unittest runs to the standard test runner.
type TestLayoutRule struct{}

func NewTestLayoutRule() *TestLayoutRule {
	return &TestLayoutRule{}
}

func (r *TestLayoutRule) Name() string {
	return "test_layout"
}

func (r *TestLayoutRule) Evaluate(_ context.Context, req *engine.Request) engine.Verdict {
	ev := req.Event

	if ev.Kind == event.ActionRunCommand {
		return checkTestCommand(ev.Command)
	}
	if ev.Kind != event.ActionWriteFile && ev.Kind != event.ActionEditFile {
		return engine.Approve()
	}
	if filepath.Ext(ev.FilePath) != ".go" {
		return engine.Approve()
	}

	base := filepath.Base(ev.FilePath)

	if strings.HasPrefix(base, "test_") {
		proper := strings.TrimPrefix(base, "test_")
		proper = strings.TrimSuffix(proper, ".go") + "_test.go"
		return engine.Block(fmt.Sprintf(
			"Go test files end in _test.go, they don't start with test_.\n"+
				"Rename %q to %q.", base, proper))
	}

	if strings.HasSuffix(base, "_test.go") {
		for _, part := range strings.Split(filepath.Dir(ev.FilePath), string(filepath.Separator)) {
			if part == "test" || part == "tests" {
				return engine.Block(
					"Go tests live in the package directory next to the code they\n" +
						"cover, not in a separate tests/ tree. Move this file beside its\n" +
						"package sources; the _test.go suffix already keeps it out of\n" +
						"regular builds.")
			}
		}
		return engine.Approve()
	}

	// A new implementation file with declarations and no sibling test yet.
	if ev.Kind == event.ActionWriteFile && funcDeclPattern.MatchString(ev.Content) {
		sibling := strings.TrimSuffix(base, ".go") + "_test.go"
		return engine.Advise(fmt.Sprintf(
			"Write tests first: create %s next to %s and cover the new\n"+
				"declarations before wiring them in.", sibling, base))
	}

	return engine.Approve()
}

// checkTestCommand blocks unittest invocations however the interpreter is
// reached (bare, uv run, venv path).
func checkTestCommand(command string) engine.Verdict {
	for _, seg := range shell.Split(command) {
		fields := shell.Fields(seg.Text)
		for i := 0; i+1 < len(fields); i++ {
			if fields[i] == "-m" && fields[i+1] == "unittest" && hasPythonWord(fields[:i]) {
				return engine.Block(
					"Use pytest instead of unittest:\n" +
						"  uv run pytest\n" +
						"  uv run pytest tests/ -v")
			}
		}
	}
	return engine.Approve()
}

func hasPythonWord(fields []string) bool {
	for _, f := range fields {
		name := filepath.Base(f)
		if name == "python" || name == "python3" {
			return true
		}
	}
	return false
}
