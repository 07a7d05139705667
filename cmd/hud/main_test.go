package main

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLoggerConfigLevelFallsBack(t *testing.T) {
	logger, err := newLogger("", "verbose")
	if err != nil {
		t.Fatalf("bad config level must not fail: %v", err)
	}
	if !logger.Core().Enabled(zapcore.WarnLevel) || logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("expected the warn default")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	logger, err := newLogger("", "debug")
	if err != nil || !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("config level not applied: %v", err)
	}

	logger, err = newLogger("error", "debug")
	if err != nil || logger.Core().Enabled(zapcore.WarnLevel) {
		t.Fatalf("flag should win over config: %v", err)
	}

	if _, err := newLogger("verbose", "debug"); err == nil {
		t.Fatalf("bad --log-level must fail")
	}
}
