package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"loud", LevelWarn, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) succeeded")
	}
}

func TestInitLoggerText(t *testing.T) {
	defer InitLogger(LevelWarn, FormatText, os.Stderr)

	var buf bytes.Buffer
	InitLogger(LevelInfo, FormatText, &buf)
	Debug("hidden")
	Info("shown", "file", "a.txt")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged at info level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "file=a.txt") {
		t.Errorf("missing info message: %q", out)
	}
}

func TestInitLoggerJSON(t *testing.T) {
	defer InitLogger(LevelWarn, FormatText, os.Stderr)

	var buf bytes.Buffer
	InitLogger(LevelDebug, FormatJSON, &buf)
	GetLogger().Error("boom", "code", 2)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, buf.String())
	}
	if rec["level"] != "ERROR" || rec["msg"] != "boom" || rec["code"] != float64(2) {
		t.Errorf("record = %v", rec)
	}
	if _, ok := rec["time"].(string); !ok {
		t.Errorf("time = %v, want RFC3339 string", rec["time"])
	}
}

func TestDefaultLevelIsWarn(t *testing.T) {
	defer InitLogger(LevelWarn, FormatText, os.Stderr)

	var buf bytes.Buffer
	InitLogger(LevelWarn, FormatText, &buf)
	Info("quiet")
	GetLogger().Warn("loud")
	Error("louder")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info logged at warn level: %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "louder") {
		t.Errorf("missing warn or error message: %q", out)
	}
}
