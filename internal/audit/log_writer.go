package audit

import "go.uber.org/zap"

// LogWriter emits audit entries through the process logger, which the gate
// keeps on stderr so stdout stays reserved for the decision record.
type LogWriter struct {
	logger *zap.Logger
}

// NewLogWriter creates a LogWriter that outputs entries to the given logger.
func NewLogWriter(logger *zap.Logger) *LogWriter {
	return &LogWriter{logger: logger}
}

func (w *LogWriter) Write(entry *Entry) {
	w.logger.Info("gate_decision",
		zap.String("invocation_id", entry.InvocationID),
		zap.String("session_id", entry.SessionID),
		zap.String("action", entry.Action),
		zap.String("decision", entry.Decision),
		zap.String("rule_hit", entry.RuleHit),
		zap.String("reason", entry.Reason),
		zap.Float64("latency_ms", entry.LatencyMs),
	)
}

func (w *LogWriter) Close() {}
