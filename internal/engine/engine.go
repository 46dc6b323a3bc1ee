package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Engine runs registered rules in order against a request and collects
// their verdicts.
type Engine struct {
	rules  []Rule
	logger *zap.Logger
}

// New creates an engine with the given rules. Registration order fixes the
// order in which advisory messages compose.
func New(rules []Rule, logger *zap.Logger) *Engine {
	return &Engine{rules: rules, logger: logger}
}

// RuleVerdict pairs a verdict with the rule that produced it.
type RuleVerdict struct {
	Rule    string
	Verdict Verdict
}

// Evaluate runs rules sequentially and short-circuits on the first block:
// later rules are not evaluated, to avoid cost and conflicting messaging.
// Blocking is decided by existence of a block verdict, so the skipped
// rules could only have changed the advisory text, never the status. A
// rule that panics is recovered to a silent approve — a broken rule must
// never take the gate down or block the action.
func (e *Engine) Evaluate(ctx context.Context, req *Request) []RuleVerdict {
	verdicts := make([]RuleVerdict, 0, len(e.rules))

	for _, r := range e.rules {
		start := time.Now()
		v := e.evaluateOne(ctx, r, req)
		e.logger.Debug("rule evaluated",
			zap.String("rule", r.Name()),
			zap.String("outcome", v.Outcome.String()),
			zap.Duration("elapsed", time.Since(start)),
		)

		verdicts = append(verdicts, RuleVerdict{Rule: r.Name(), Verdict: v})
		if v.Outcome == OutcomeBlock {
			break
		}
	}

	return verdicts
}

func (e *Engine) evaluateOne(ctx context.Context, r Rule, req *Request) (v Verdict) {
	defer func() {
		if rec := recover(); rec != nil {
			e.logger.Warn("rule panicked, failing open",
				zap.String("rule", r.Name()),
				zap.Any("panic", rec),
			)
			v = Approve()
		}
	}()
	return r.Evaluate(ctx, req)
}
