package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestGetLoggerLevelByString(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"unknown": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := GetLoggerLevelByString(in); got != want {
			t.Errorf("GetLoggerLevelByString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONLoggerWithFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogx(zapcore.InfoLevel, false, false)
	l.InitLogger(&buf)

	l.Debug("hidden")
	l.With("session", "abc").Infof("move %s", "e2e4")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d log lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["MESSAGE"] != "move e2e4" {
		t.Errorf("MESSAGE = %v", rec["MESSAGE"])
	}
	if rec["session"] != "abc" {
		t.Errorf("session field = %v", rec["session"])
	}
	if rec["LEVEL"] != "info" {
		t.Errorf("LEVEL = %v", rec["LEVEL"])
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNop()
	l.Info("nothing")
	l.With("k", "v").Errorf("still nothing %d", 1)
}
