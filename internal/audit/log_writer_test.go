package audit

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogWriter_EmitsDecisionFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	w := NewLogWriter(zap.New(core))
	defer w.Close()

	w.Write(&Entry{
		InvocationID: "inv-1",
		SessionID:    "sess-1",
		Action:       "run-command",
		Decision:     "block",
		RuleHit:      "destructive_git",
		Reason:       "force push",
		LatencyMs:    1.5,
	})

	entries := logs.FilterMessage("gate_decision").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["decision"] != "block" {
		t.Fatalf("expected decision=block, got %v", fields["decision"])
	}
	if fields["rule_hit"] != "destructive_git" {
		t.Fatalf("expected rule_hit=destructive_git, got %v", fields["rule_hit"])
	}
	if fields["invocation_id"] != "inv-1" {
		t.Fatalf("expected invocation_id=inv-1, got %v", fields["invocation_id"])
	}
}
