package rules

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
)

var goModMutationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^\s*require\b`),
	regexp.MustCompile(`(?m)^\s*replace\b`),
	regexp.MustCompile(`(?m)^\s*exclude\b`),
	regexp.MustCompile(`\bv\d+\.\d+\.\d+(-[0-9A-Za-z.+-]+)?\b`),
}

var pyprojectMutationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\[project\.dependencies\]`),
	regexp.MustCompile(`(?i)\[tool\.uv\.dependencies\]`),
	regexp.MustCompile(`(?i)\[tool\.uv\.dev-dependencies\]`),
	regexp.MustCompile(`(?i)dependencies\s*=\s*\[`),
	regexp.MustCompile(`(?i)requires\s*=\s*\[`),
	regexp.MustCompile(`"[^"]+==[\d.]+"`),
	regexp.MustCompile(`"[^"]+>=[\d.]+"`),
	regexp.MustCompile(`"[^"]+~=[\d.]+"`),
}

// ManifestGuardRule blocks hand edits that mutate a project manifest's
// dependency list, directing the operator to the package manager instead.
// Other edits to the same files (descriptions, scripts, metadata) pass.
type ManifestGuardRule struct{}

func NewManifestGuardRule() *ManifestGuardRule {
	return &ManifestGuardRule{}
}

func (r *ManifestGuardRule) Name() string {
	return "manifest_guard"
}

func (r *ManifestGuardRule) Evaluate(_ context.Context, req *engine.Request) engine.Verdict {
	if req.Event.Kind != event.ActionWriteFile && req.Event.Kind != event.ActionEditFile {
		return engine.Approve()
	}

	text := req.Event.ProposedText()

	switch filepath.Base(req.Event.FilePath) {
	case "go.mod":
		for _, p := range goModMutationPatterns {
			if p.MatchString(text) {
				return engine.Block(
					"Don't edit the dependency list in go.mod by hand. Use the toolchain:\n" +
						"  go get <module>@<version>     add or bump a dependency\n" +
						"  go get <module>@none          drop a dependency\n" +
						"  go mod tidy                   reconcile the module graph\n" +
						"  go mod edit -replace ...      for local replacements")
			}
		}
	case "pyproject.toml":
		for _, p := range pyprojectMutationPatterns {
			if p.MatchString(text) {
				return engine.Block(
					"Don't edit dependencies in pyproject.toml by hand. Use uv:\n" +
						"  uv add <package>\n" +
						"  uv add --dev <package>\n" +
						"  uv remove <package>\n" +
						"  uv sync")
			}
		}
	}

	return engine.Approve()
}
