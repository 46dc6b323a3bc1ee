// Package rules contains the gate's policy rules. Each rule is an
// independent evaluator over the shared read-only request; files pair with
// sibling _test.go files.
package rules

import (
	"strings"

	"github.com/preflight-dev/preflight/internal/config"
	"github.com/preflight-dev/preflight/internal/shell"
)

// gitSubcommand extracts the subcommand and its arguments from a tokenized
// git invocation, skipping git's global flags. ok is false when the fields
// are not a git command at all.
func gitSubcommand(fields []string) (sub string, args []string, ok bool) {
	name, rest := shell.Command(fields)
	if name != "git" {
		return "", nil, false
	}

	i := 0
	for i < len(rest) {
		arg := rest[i]
		switch {
		case arg == "-C" || arg == "-c":
			// Both consume a value.
			i += 2
		case strings.HasPrefix(arg, "--git-dir") || strings.HasPrefix(arg, "--work-tree"):
			if !strings.Contains(arg, "=") {
				i++
			}
			i++
		case strings.HasPrefix(arg, "-"):
			i++
		default:
			return arg, rest[i+1:], true
		}
	}
	return "", nil, true
}

// protectedRef reports whether a push target names a protected branch. It
// canonicalizes the exact-name, remote-qualified (origin/main), refspec
// (local:main) and fully-qualified (refs/heads/main) forms to one
// predicate.
func protectedRef(cfg *config.Config, ref string) bool {
	ref = strings.TrimPrefix(ref, "refs/heads/")
	if i := strings.LastIndex(ref, ":"); i >= 0 {
		ref = ref[i+1:]
		ref = strings.TrimPrefix(ref, "refs/heads/")
	}
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	return cfg.IsProtectedBranch(ref)
}
