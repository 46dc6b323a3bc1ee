package rules

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
)

// FileLimitsRule checks proposed Go source content against size ceilings:
// total file lines and lines per function or method. The content is
// parsed into a syntax tree so the per-declaration count is exact, not a
// brace heuristic. Content that fails to parse passes through — the
// acting agent is expected to fix its own syntax, and a guard cannot
// judge structure it cannot parse. Reading an already-oversized file
// earns an advisory so the size debt is visible before it grows.
type FileLimitsRule struct{}

func NewFileLimitsRule() *FileLimitsRule {
	return &FileLimitsRule{}
}

func (r *FileLimitsRule) Name() string {
	return "file_limits"
}

func (r *FileLimitsRule) Evaluate(_ context.Context, req *engine.Request) engine.Verdict {
	ev := req.Event
	if filepath.Ext(ev.FilePath) != ".go" {
		return engine.Approve()
	}

	switch ev.Kind {
	case event.ActionWriteFile:
		return checkWrite(req, ev.Content)
	case event.ActionEditFile:
		return checkEdits(req, ev.Edits)
	case event.ActionReadFile:
		return checkRead(req, ev.FilePath)
	default:
		return engine.Approve()
	}
}

func checkWrite(req *engine.Request, content string) engine.Verdict {
	total := countLines(content)
	if total > req.Config.FileLineLimit {
		return engine.Block(fmt.Sprintf(
			"File would be %d lines (max %d). Split it into smaller files.",
			total, req.Config.FileLineLimit))
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filepath.Base(req.Event.FilePath), content, 0)
	if err != nil {
		// Unparsable content passes through.
		return engine.Approve()
	}

	var violations []string
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if ok {
			start := fset.Position(fn.Pos()).Line
			end := fset.Position(fn.End()).Line
			lines := end - start + 1
			if lines > req.Config.FuncLineLimit {
				kind := "function"
				if fn.Recv != nil {
					kind = "method"
				}
				violations = append(violations, fmt.Sprintf(
					"%s '%s' at line %d is %d lines (max %d)",
					kind, fn.Name.Name, start, lines, req.Config.FuncLineLimit))
			}
		}
	}

	if len(violations) > 0 {
		return engine.Block(
			"Code structure violations:\n  - " + strings.Join(violations, "\n  - "))
	}
	return engine.Approve()
}

func checkEdits(req *engine.Request, edits []event.Edit) engine.Verdict {
	for _, ed := range edits {
		lines := countLines(ed.NewText)
		if lines > req.Config.EditLineLimit {
			return engine.Block(fmt.Sprintf(
				"Edit adds %d lines (max %d per edit). Break it into smaller "+
					"edits or refactor into separate declarations.",
				lines, req.Config.EditLineLimit))
		}
	}
	return engine.Approve()
}

// checkRead warns, never blocks, when an existing file already exceeds
// the line ceiling. An unreadable file is simply not judged.
func checkRead(req *engine.Request, path string) engine.Verdict {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Approve()
	}
	total := countLines(string(data))
	if total > req.Config.FileLineLimit {
		return engine.Advise(fmt.Sprintf(
			"This file is %d lines (over the %d-line ceiling) and should be "+
				"split when next touched.", total, req.Config.FileLineLimit))
	}
	return engine.Approve()
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
