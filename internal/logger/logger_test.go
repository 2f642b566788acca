package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"indyscope/internal/config"
)

func TestNewDefaults(t *testing.T) {
	l, err := New(config.LogConfig{})
	if err != nil {
		t.Fatalf("empty config should build: %v", err)
	}
	defer l.Sync()

	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Fatalf("info should be enabled by default")
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug should be off by default")
	}
}

func TestNewLevel(t *testing.T) {
	l, err := New(config.LogConfig{Level: "debug", Encoding: "json"})
	if err != nil {
		t.Fatalf("debug/json should build: %v", err)
	}
	defer l.Sync()

	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Fatalf("debug level not applied")
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(config.LogConfig{Level: "loud"}); err == nil {
		t.Fatalf("invalid level should be rejected")
	}
}
