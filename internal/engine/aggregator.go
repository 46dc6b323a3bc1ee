package engine

import "strings"

// Status is the final decision status emitted to the host.
type Status int

const (
	StatusApprove Status = iota
	StatusBlock
)

func (s Status) String() string {
	if s == StatusBlock {
		return "block"
	}
	return "approve"
}

// Decision is the aggregated final result of one invocation.
type Decision struct {
	Status Status
	// Message carries the block reason, or the concatenated advisory
	// texts for an approve. Empty for a silent approve.
	Message string
	// RuleHit names the blocking rule, if any.
	RuleHit string
}

// Aggregate folds ordered rule verdicts into a single decision. The first
// block verdict wins and carries its reason. Otherwise the decision is
// approve, with every non-empty advisory text concatenated in rule order;
// extra notes (e.g. the normalizer's malformed-input diagnostic) append
// after the advisories.
func Aggregate(verdicts []RuleVerdict, notes ...string) Decision {
	var advisories []string

	for _, rv := range verdicts {
		switch rv.Verdict.Outcome {
		case OutcomeBlock:
			return Decision{
				Status:  StatusBlock,
				Message: rv.Verdict.Message,
				RuleHit: rv.Rule,
			}
		case OutcomeAdvisory:
			if rv.Verdict.Message != "" {
				advisories = append(advisories, rv.Verdict.Message)
			}
		}
	}

	for _, n := range notes {
		if n != "" {
			advisories = append(advisories, n)
		}
	}

	return Decision{
		Status:  StatusApprove,
		Message: strings.Join(advisories, "\n\n"),
	}
}
