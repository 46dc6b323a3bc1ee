package rules

import "github.com/preflight-dev/preflight/internal/engine"

// Default returns the gate's rule set in evaluation order. Blocking is
// decided by existence of a block verdict, not its position; order only
// fixes how advisory messages compose.
func Default() []engine.Rule {
	return []engine.Rule{
		NewDestructiveGitRule(),
		NewCommitMessageRule(),
		NewProtectedBranchRule(),
		NewSearchToolsRule(),
		NewEnvInvocationRule(),
		NewManifestGuardRule(),
		NewFileLimitsRule(),
		NewTestLayoutRule(),
		NewSessionAdvisoryRule(),
	}
}
