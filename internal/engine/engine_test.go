package engine

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

type stubRule struct {
	name    string
	verdict Verdict
	calls   *int
}

func (r stubRule) Name() string { return r.name }

func (r stubRule) Evaluate(context.Context, *Request) Verdict {
	if r.calls != nil {
		*r.calls++
	}
	return r.verdict
}

type panicRule struct{}

func (panicRule) Name() string { return "panic" }

func (panicRule) Evaluate(context.Context, *Request) Verdict {
	panic("rule bug")
}

func TestEvaluate_RunsAllWhenNoBlock(t *testing.T) {
	var a, b int
	e := New([]Rule{
		stubRule{name: "a", verdict: Approve(), calls: &a},
		stubRule{name: "b", verdict: Advise("heads up"), calls: &b},
	}, zap.NewNop())

	verdicts := e.Evaluate(context.Background(), &Request{})
	if len(verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(verdicts))
	}
	if a != 1 || b != 1 {
		t.Fatalf("expected both rules called, got %d %d", a, b)
	}
}

func TestEvaluate_ShortCircuitsOnBlock(t *testing.T) {
	var after int
	e := New([]Rule{
		stubRule{name: "blocker", verdict: Block("no")},
		stubRule{name: "after", verdict: Approve(), calls: &after},
	}, zap.NewNop())

	verdicts := e.Evaluate(context.Background(), &Request{})
	if len(verdicts) != 1 {
		t.Fatalf("expected 1 verdict, got %d", len(verdicts))
	}
	if after != 0 {
		t.Fatal("rules after a block must not run")
	}
}

func TestEvaluate_PanicFailsOpen(t *testing.T) {
	var after int
	e := New([]Rule{
		panicRule{},
		stubRule{name: "after", verdict: Approve(), calls: &after},
	}, zap.NewNop())

	verdicts := e.Evaluate(context.Background(), &Request{})
	if len(verdicts) != 2 {
		t.Fatalf("expected 2 verdicts, got %d", len(verdicts))
	}
	if verdicts[0].Verdict.Outcome != OutcomeApprove {
		t.Fatalf("panicking rule must approve, got %v", verdicts[0].Verdict.Outcome)
	}
	if after != 1 {
		t.Fatal("later rules must still run after a recovered panic")
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := New([]Rule{
		stubRule{name: "a", verdict: Advise("note")},
	}, zap.NewNop())

	req := &Request{}
	first := e.Evaluate(context.Background(), req)
	second := e.Evaluate(context.Background(), req)
	if first[0].Verdict != second[0].Verdict {
		t.Fatalf("same input produced different verdicts: %+v vs %+v", first, second)
	}
}
