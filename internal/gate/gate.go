// Package gate wires normalization, session state, the branch probe, and
// the rule engine into the single check one hook invocation performs.
package gate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/preflight-dev/preflight/internal/audit"
	"github.com/preflight-dev/preflight/internal/config"
	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/event"
	"github.com/preflight-dev/preflight/internal/probe"
	"github.com/preflight-dev/preflight/internal/session"
)

// ProberFactory builds a prober rooted at the directory the proposed
// command would run in. The payload carries that directory per event, so
// the prober cannot be fixed at startup.
type ProberFactory func(dir string) probe.Prober

// Gate evaluates one proposed action and produces a decision.
type Gate struct {
	engine *engine.Engine
	store  *session.Store
	probes ProberFactory
	writer audit.Writer
	cfg    *config.Config
	logger *zap.Logger
}

func New(eng *engine.Engine, store *session.Store, probes ProberFactory, writer audit.Writer, cfg *config.Config, logger *zap.Logger) *Gate {
	return &Gate{
		engine: eng,
		store:  store,
		probes: probes,
		writer: writer,
		cfg:    cfg,
		logger: logger,
	}
}

// Check runs the full evaluation for one raw hook payload. It never fails
// outward: any internal fault, including a panic below this frame, is
// recovered to a plain approve.
func (g *Gate) Check(ctx context.Context, raw []byte) (dec engine.Decision) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("gate panic recovered, approving", zap.Any("panic", r))
			dec = engine.Decision{Status: engine.StatusApprove}
		}
	}()

	start := time.Now()
	invocationID := uuid.New().String()

	ev, note := event.Normalize(raw)

	req := &engine.Request{Event: ev, Config: g.cfg}
	switch ev.Kind {
	case event.ActionWriteFile, event.ActionEditFile:
		req.Session = g.store.MergeAndSave(ev.FilePath)
	case event.ActionRunCommand:
		req.Branch = g.probes(ev.WorkDir).CurrentBranch(ctx)
	}

	verdicts := g.engine.Evaluate(ctx, req)
	dec = engine.Aggregate(verdicts, note)

	g.writeAudit(&audit.Entry{
		InvocationID: invocationID,
		SessionID:    ev.SessionID,
		Timestamp:    start,
		Action:       ev.Kind.String(),
		Command:      ev.Command,
		FilePath:     ev.FilePath,
		Branch:       req.Branch.Branch,
		Decision:     dec.Status.String(),
		RuleHit:      dec.RuleHit,
		Reason:       dec.Message,
		LatencyMs:    float64(time.Since(start).Microseconds()) / 1000.0,
	})

	return dec
}

// writeAudit isolates the sink: a failing writer must not alter a decision
// that has already been made.
func (g *Gate) writeAudit(entry *audit.Entry) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("audit write panicked", zap.Any("panic", r))
		}
	}()
	g.writer.Write(entry)
}
