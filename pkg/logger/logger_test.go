package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewFallsBackToInfo(t *testing.T) {
	l, err := New("loud", "json")
	if err != nil {
		t.Fatal(err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug enabled for unknown level")
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info disabled")
	}
}

func TestInitReplacesGlobal(t *testing.T) {
	if _, err := Init("debug", "console"); err != nil {
		t.Fatal(err)
	}
	if !Named("store").Core().Enabled(zapcore.DebugLevel) {
		t.Error("named logger does not inherit debug level")
	}
}
