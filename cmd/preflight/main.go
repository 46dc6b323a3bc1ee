package main

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/preflight-dev/preflight/internal/audit"
	"github.com/preflight-dev/preflight/internal/config"
	"github.com/preflight-dev/preflight/internal/engine"
	"github.com/preflight-dev/preflight/internal/engine/rules"
	"github.com/preflight-dev/preflight/internal/gate"
	"github.com/preflight-dev/preflight/internal/hook"
	"github.com/preflight-dev/preflight/internal/probe"
	"github.com/preflight-dev/preflight/internal/session"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, cfgErr := config.Load()

	logger := buildLogger(cfg.LogLevel)
	defer logger.Sync() //nolint:errcheck // best-effort flush

	if cfgErr != nil {
		logger.Warn("config load failed, continuing on defaults", zap.Error(cfgErr))
	}

	store := session.Open(cfg.StatePath, cfg.SessionTTL, logger)
	defer store.Close()

	writer := audit.NewLogWriter(logger)
	defer writer.Close()

	probes := func(dir string) probe.Prober {
		return probe.NewGitProber(dir, cfg.ProbeTimeout, logger)
	}

	g := gate.New(engine.New(rules.Default(), logger), store, probes, writer, cfg, logger)

	dec := g.Check(context.Background(), hook.ReadInput(os.Stdin))

	if err := hook.WriteDecision(os.Stdout, dec); err != nil {
		logger.Error("decision write failed", zap.Error(err))
	}
	return hook.ExitCode(dec)
}

// buildLogger writes JSON logs to stderr; stdout belongs to the decision
// record. A logger that cannot be built is replaced by a no-op one rather
// than aborting the check.
func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.WarnLevel
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
