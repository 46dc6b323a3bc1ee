package engine

import (
	"context"

	"github.com/preflight-dev/preflight/internal/config"
	"github.com/preflight-dev/preflight/internal/event"
	"github.com/preflight-dev/preflight/internal/probe"
	"github.com/preflight-dev/preflight/internal/session"
)

// Rule is the interface every policy rule must implement. Rules are pure
// functions of the request: they share no mutable state with each other
// and must return exactly one verdict per invocation.
type Rule interface {
	// Name returns the rule's unique identifier.
	Name() string

	// Evaluate runs the rule against the request. Must respect ctx
	// deadline and return quickly.
	Evaluate(ctx context.Context, req *Request) Verdict
}

// Request carries the read-only inputs shared by all rules in one
// invocation.
type Request struct {
	Event   event.Event
	Session session.State
	Branch  probe.Result
	Config  *config.Config
}

// Outcome classifies a rule verdict.
type Outcome int

const (
	OutcomeApprove Outcome = iota
	OutcomeAdvisory
	OutcomeBlock
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAdvisory:
		return "advisory"
	case OutcomeBlock:
		return "block"
	default:
		return "approve"
	}
}

// Verdict is the output of one rule evaluation. Message is the advisory
// text for OutcomeAdvisory and the block reason for OutcomeBlock.
type Verdict struct {
	Outcome Outcome
	Message string
}

// Approve is the silent pass verdict.
func Approve() Verdict {
	return Verdict{Outcome: OutcomeApprove}
}

// Advise passes the action but attaches a message for the operator.
func Advise(message string) Verdict {
	return Verdict{Outcome: OutcomeAdvisory, Message: message}
}

// Block rejects the action with a remediation reason.
func Block(reason string) Verdict {
	return Verdict{Outcome: OutcomeBlock, Message: reason}
}
