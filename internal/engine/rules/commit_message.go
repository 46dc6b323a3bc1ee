package rules

import (
	"context"
	"regexp"
	"strings"

	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
	"github.com/preflight-dev/preflight/internal/shell"
)

// Phrases that must never appear in a commit, matched case-insensitively
// as substrings: they target human-written text, not command syntax.
var disclosurePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)claude\s+code`),
	regexp.MustCompile(`(?i)written\s+by\s+claude`),
	regexp.MustCompile(`(?i)generated\s+by\s+claude`),
	regexp.MustCompile(`(?i)claude\s+ai`),
	regexp.MustCompile(`(?i)anthropic`),
	regexp.MustCompile(`🤖`),
}

var conventionalFormat = regexp.MustCompile(
	`^(feat|fix|docs|style|refactor|test|chore)(\([^)]+\))?:\s+.+`)

const commitFormatHelp = "Commit message must follow <type>(<scope>): <subject>.\n" +
	"Types: feat, fix, docs, style, refactor, test, chore\n\n" +
	"Examples:\n" +
	"  feat(auth): add two-factor authentication\n" +
	"  fix(api): resolve timeout issue in payment endpoint\n" +
	"  docs: update API documentation"

// CommitMessageRule validates commit-creation commands: the message must
// follow the conventional-commit grammar (or be a descriptive sentence),
// and must not contain any authorship-disclosure phrase.
type CommitMessageRule struct{}

func NewCommitMessageRule() *CommitMessageRule {
	return &CommitMessageRule{}
}

func (r *CommitMessageRule) Name() string {
	return "commit_message"
}

func (r *CommitMessageRule) Evaluate(_ context.Context, req *engine.Request) engine.Verdict {
	if req.Event.Kind != event.ActionRunCommand {
		return engine.Approve()
	}

	for _, seg := range shell.Split(req.Event.Command) {
		fields := shell.Fields(seg.Text)
		sub, args, ok := gitSubcommand(fields)
		if !ok || sub != "commit" {
			continue
		}

		for _, p := range disclosurePatterns {
			if p.MatchString(seg.Text) {
				return engine.Block(
					"Never mention AI assistance in commit messages.\n" +
						"Write a professional message describing the change itself.\n\n" +
						commitFormatHelp)
			}
		}

		msg, found := commitMessage(args)
		if !found {
			continue
		}
		// A descriptive sentence is acceptable even without a type tag;
		// a short untyped message is not.
		if !conventionalFormat.MatchString(msg) && len(msg) < 10 {
			return engine.Block("Commit message too short or not in the required format.\n\n" + commitFormatHelp)
		}
	}

	return engine.Approve()
}

// commitMessage extracts the -m/--message value from tokenized commit
// arguments. Quotes were already stripped by the tokenizer.
func commitMessage(args []string) (string, bool) {
	for i, arg := range args {
		switch {
		case arg == "-m" || arg == "--message":
			if i+1 < len(args) {
				return args[i+1], true
			}
		case strings.HasPrefix(arg, "--message="):
			return strings.TrimPrefix(arg, "--message="), true
		case strings.HasPrefix(arg, "-m") && len(arg) > 2:
			return arg[2:], true
		}
	}
	return "", false
}
