// Package probe performs bounded queries of live external state, currently
// the version-control checkout. Probes are advisory context only: any
// failure or timeout yields an Unknown result, never a block.
package probe

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Result is the outcome of one probe query.
type Result struct {
	// Branch is the currently checked-out branch name.
	Branch string
	// Known is false when the probe failed, timed out, or the repository
	// state has no branch answer (e.g. detached HEAD). Absence of data is
	// always treated as permissive by rules.
	Known bool
}

// Unknown is the permissive zero result.
var Unknown = Result{}

// Prober answers branch queries. The interface exists so rules can be
// tested without a live repository.
type Prober interface {
	CurrentBranch(ctx context.Context) Result
}

// GitProber shells out to git with a hard wall-clock timeout.
type GitProber struct {
	dir     string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGitProber creates a prober that runs git in dir. An empty dir means
// the gate's own working directory.
func NewGitProber(dir string, timeout time.Duration, logger *zap.Logger) *GitProber {
	return &GitProber{dir: dir, timeout: timeout, logger: logger}
}

// CurrentBranch returns the checked-out branch name. The subprocess is
// bounded by the prober's timeout on top of any caller deadline.
func (p *GitProber) CurrentBranch(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "branch", "--show-current")
	if p.dir != "" {
		cmd.Dir = p.dir
	}

	out, err := cmd.Output()
	if err != nil {
		p.logger.Debug("branch probe failed", zap.Error(err))
		return Unknown
	}

	branch := strings.TrimSpace(string(out))
	if branch == "" {
		// Detached HEAD prints nothing.
		return Unknown
	}
	return Result{Branch: branch, Known: true}
}

// Static is a fixed-answer prober for tests and for hosts that already
// know their checkout.
type Static struct {
	Result Result
}

func (s Static) CurrentBranch(context.Context) Result {
	return s.Result
}
