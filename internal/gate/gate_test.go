package gate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/preflight-dev/preflight/internal/audit"
	"github.com/preflight-dev/preflight/internal/config"
	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/engine/rules"
	"github.com/preflight-dev/preflight/internal/probe"
	"github.com/preflight-dev/preflight/internal/session"
)

type captureWriter struct {
	entries []*audit.Entry
}

func (w *captureWriter) Write(entry *audit.Entry) { w.entries = append(w.entries, entry) }
func (w *captureWriter) Close()                   {}

type panicWriter struct{}

func (panicWriter) Write(*audit.Entry) { panic("sink gone") }
func (panicWriter) Close()             {}

func newTestGate(t *testing.T, branch string, writer audit.Writer) *Gate {
	t.Helper()
	logger := zap.NewNop()
	store := session.Open(filepath.Join(t.TempDir(), "session.db"), time.Hour, logger)
	t.Cleanup(store.Close)

	probes := func(string) probe.Prober {
		if branch == "" {
			return probe.Static{Result: probe.Unknown}
		}
		return probe.Static{Result: probe.Result{Branch: branch, Known: true}}
	}
	eng := engine.New(rules.Default(), logger)
	return New(eng, store, probes, writer, config.Default(), logger)
}

func commandPayload(cmd string) []byte {
	return []byte(fmt.Sprintf(
		`{"session_id":"s1","tool_name":"Bash","tool_input":{"command":%q},"cwd":"/work"}`, cmd))
}

func writePayload(path, content string) []byte {
	return []byte(fmt.Sprintf(
		`{"session_id":"s1","tool_name":"Write","tool_input":{"file_path":%q,"content":%q},"cwd":"/work"}`,
		path, content))
}

func TestCheck_ForcePushBlocked(t *testing.T) {
	w := &captureWriter{}
	g := newTestGate(t, "feature/login", w)

	dec := g.Check(context.Background(), commandPayload("git push --force origin feature/login"))
	if dec.Status != engine.StatusBlock {
		t.Fatalf("expected block, got %v: %s", dec.Status, dec.Message)
	}
	if !strings.Contains(dec.Message, "--force-with-lease") {
		t.Fatalf("reason must name the lease form, got: %s", dec.Message)
	}
	if len(w.entries) != 1 || w.entries[0].Decision != "block" || w.entries[0].RuleHit == "" {
		t.Fatalf("audit must record the blocking rule, got %+v", w.entries)
	}
}

func TestCheck_CommitOnProtectedBranchBlocked(t *testing.T) {
	g := newTestGate(t, "main", &captureWriter{})

	dec := g.Check(context.Background(),
		commandPayload(`git commit -m "fix(auth): resolve token expiry bug"`))
	if dec.Status != engine.StatusBlock {
		t.Fatalf("expected block, got %v: %s", dec.Status, dec.Message)
	}
	if !strings.Contains(dec.Message, "main") {
		t.Fatalf("reason must name the branch, got: %s", dec.Message)
	}
}

func TestCheck_SameCommitOffProtectedBranchApproved(t *testing.T) {
	g := newTestGate(t, "feature/login", &captureWriter{})

	dec := g.Check(context.Background(),
		commandPayload(`git commit -m "fix(auth): resolve token expiry bug"`))
	if dec.Status != engine.StatusApprove {
		t.Fatalf("expected approve, got %v: %s", dec.Status, dec.Message)
	}
}

func TestCheck_UnknownBranchIsPermissive(t *testing.T) {
	g := newTestGate(t, "", &captureWriter{})

	dec := g.Check(context.Background(),
		commandPayload(`git commit -m "fix(auth): resolve token expiry bug"`))
	if dec.Status != engine.StatusApprove {
		t.Fatalf("probe failure must never ground a block, got %v: %s", dec.Status, dec.Message)
	}
}

func TestCheck_MalformedPayloadApproves(t *testing.T) {
	w := &captureWriter{}
	g := newTestGate(t, "", w)

	dec := g.Check(context.Background(), []byte(`{"tool_name": nonsense`))
	if dec.Status != engine.StatusApprove {
		t.Fatalf("malformed input must approve, got %v", dec.Status)
	}
	if dec.Message == "" {
		t.Fatal("malformed input should surface a diagnostic note")
	}
	if len(w.entries) != 1 {
		t.Fatalf("malformed input is still audited, got %d entries", len(w.entries))
	}
}

func TestCheck_EmptyPayloadApproves(t *testing.T) {
	g := newTestGate(t, "", &captureWriter{})
	dec := g.Check(context.Background(), nil)
	if dec.Status != engine.StatusApprove {
		t.Fatalf("empty input must approve, got %v", dec.Status)
	}
}

func TestCheck_UnknownToolApprovesSilently(t *testing.T) {
	g := newTestGate(t, "", &captureWriter{})
	dec := g.Check(context.Background(),
		[]byte(`{"session_id":"s1","tool_name":"WebSearch","tool_input":{"query":"go generics"}}`))
	if dec.Status != engine.StatusApprove || dec.Message != "" {
		t.Fatalf("unknown tool must approve silently, got %v: %s", dec.Status, dec.Message)
	}
}

func TestCheck_ThirdWriteTriggersAdvisory(t *testing.T) {
	g := newTestGate(t, "", &captureWriter{})
	ctx := context.Background()

	for _, p := range []string{"/work/a.go", "/work/b.go"} {
		dec := g.Check(ctx, writePayload(p, "package work\n"))
		if dec.Status != engine.StatusApprove || dec.Message != "" {
			t.Fatalf("%s: expected silent approve, got %v: %s", p, dec.Status, dec.Message)
		}
	}

	dec := g.Check(ctx, writePayload("/work/c.go", "package work\n"))
	if dec.Status != engine.StatusApprove {
		t.Fatalf("advisory must not block, got %v", dec.Status)
	}
	for _, want := range []string{"3 files", "a.go", "b.go", "c.go"} {
		if !strings.Contains(dec.Message, want) {
			t.Fatalf("advisory missing %q: %s", want, dec.Message)
		}
	}
}

func TestCheck_OversizedWriteBlocked(t *testing.T) {
	var b strings.Builder
	b.WriteString("package work\n\nfunc process() {\n")
	for i := 0; i < 58; i++ {
		fmt.Fprintf(&b, "\t_ = %d\n", i)
	}
	b.WriteString("}\n")

	g := newTestGate(t, "", &captureWriter{})
	dec := g.Check(context.Background(), writePayload("/work/worker.go", b.String()))
	if dec.Status != engine.StatusBlock {
		t.Fatalf("expected block, got %v: %s", dec.Status, dec.Message)
	}
	if !strings.Contains(dec.Message, "process") {
		t.Fatalf("reason must name the function, got: %s", dec.Message)
	}
}

func TestCheck_AuditPanicDoesNotAlterDecision(t *testing.T) {
	g := newTestGate(t, "feature/login", panicWriter{})
	dec := g.Check(context.Background(),
		commandPayload("git push --force origin feature/login"))
	if dec.Status != engine.StatusBlock {
		t.Fatalf("a dead audit sink must not change a block, got %v", dec.Status)
	}
}

func TestCheck_InternalPanicFailsOpen(t *testing.T) {
	// A nil prober factory makes the command path panic inside Check.
	g := newTestGate(t, "", &captureWriter{})
	g.probes = nil
	dec := g.Check(context.Background(),
		commandPayload("git push --force origin feature/login"))
	if dec.Status != engine.StatusApprove {
		t.Fatalf("a panic below the gate must approve, got %v", dec.Status)
	}
	if dec.Message != "" {
		t.Fatalf("recovered approve must carry no message, got %q", dec.Message)
	}
}
