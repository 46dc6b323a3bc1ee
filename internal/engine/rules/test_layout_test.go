package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/preflight-dev/preflight/internal/engine"
)

func TestTestLayout_PythonStyleNameBlocked(t *testing.T) {
	r := NewTestLayoutRule()
	v := r.Evaluate(context.Background(),
		writeRequest("/p/feature/test_worker.go", "package feature\n"))
	if v.Outcome != engine.OutcomeBlock {
		t.Fatalf("expected block, got %v", v.Outcome)
	}
	if !strings.Contains(v.Message, "worker_test.go") {
		t.Fatalf("remediation must name the proper file name, got: %s", v.Message)
	}
}

func TestTestLayout_TestsDirectoryBlocked(t *testing.T) {
	r := NewTestLayoutRule()
	for _, path := range []string{
		"/p/tests/worker_test.go",
		"/p/feature/test/worker_test.go",
	} {
		v := r.Evaluate(context.Background(), writeRequest(path, "package feature\n"))
		if v.Outcome != engine.OutcomeBlock {
			t.Fatalf("%s: expected block, got %v", path, v.Outcome)
		}
		if !strings.Contains(v.Message, "next to the code") {
			t.Fatalf("remediation must explain sibling placement, got: %s", v.Message)
		}
	}
}

func TestTestLayout_SiblingTestFileAllowed(t *testing.T) {
	r := NewTestLayoutRule()
	v := r.Evaluate(context.Background(),
		writeRequest("/p/feature/worker_test.go",
			"package feature\n\nfunc TestDrain(t *testing.T) {}\n"))
	if v.Outcome != engine.OutcomeApprove {
		t.Fatalf("expected approve, got %v: %s", v.Outcome, v.Message)
	}
}

func TestTestLayout_MisnamedEditAlsoBlocked(t *testing.T) {
	r := NewTestLayoutRule()
	v := r.Evaluate(context.Background(),
		editRequest("/p/tests/worker_test.go", "x := 1\n"))
	if v.Outcome != engine.OutcomeBlock {
		t.Fatalf("expected block, got %v", v.Outcome)
	}
}

func TestTestLayout_NewImplementationGetsTestFirstReminder(t *testing.T) {
	r := NewTestLayoutRule()
	v := r.Evaluate(context.Background(),
		writeRequest("/p/feature/worker.go",
			"package feature\n\nfunc Drain() error { return nil }\n"))
	if v.Outcome != engine.OutcomeAdvisory {
		t.Fatalf("expected advisory, got %v", v.Outcome)
	}
	if !strings.Contains(v.Message, "worker_test.go") {
		t.Fatalf("reminder must name the sibling test file, got: %s", v.Message)
	}
}

func TestTestLayout_DeclarationFreeWriteSilent(t *testing.T) {
	r := NewTestLayoutRule()
	v := r.Evaluate(context.Background(),
		writeRequest("/p/feature/doc.go", "// Package feature handles draining.\npackage feature\n"))
	if v.Outcome != engine.OutcomeApprove || v.Message != "" {
		t.Fatalf("expected silent approve, got %v: %s", v.Outcome, v.Message)
	}
}

func TestTestLayout_NonGoFilesIgnored(t *testing.T) {
	r := NewTestLayoutRule()
	v := r.Evaluate(context.Background(),
		writeRequest("/p/tests/test_helpers.py", "def test_x(): pass\n"))
	if v.Outcome != engine.OutcomeApprove {
		t.Fatalf("expected approve, got %v", v.Outcome)
	}
}

func TestTestLayout_UnittestBlocked(t *testing.T) {
	r := NewTestLayoutRule()
	for _, cmd := range []string{
		"python -m unittest discover",
		"uv run python -m unittest",
		"./venv/bin/python3 -m unittest tests",
	} {
		v := r.Evaluate(context.Background(), commandRequest(cmd))
		if v.Outcome != engine.OutcomeBlock {
			t.Fatalf("%q: expected block, got %v", cmd, v.Outcome)
		}
		if !strings.Contains(v.Message, "pytest") {
			t.Fatalf("remediation must name pytest, got: %s", v.Message)
		}
	}
}

func TestTestLayout_TestRunnersAllowed(t *testing.T) {
	r := NewTestLayoutRule()
	for _, cmd := range []string{
		"go test ./...",
		"uv run pytest tests/ -v",
	} {
		v := r.Evaluate(context.Background(), commandRequest(cmd))
		if v.Outcome != engine.OutcomeApprove {
			t.Fatalf("%q: expected approve, got %v: %s", cmd, v.Outcome, v.Message)
		}
	}
}
