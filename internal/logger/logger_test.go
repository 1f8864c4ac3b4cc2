package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Adda-Baaj/shifter-go/internal/config"
)

func TestZapLoggerWritesStructuredField(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{LogLevel: "info"}, &buf)

	log.InfoObj("job finished", "job_result", map[string]any{"job_id": "j1", "status": 200})

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "job finished" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts field in %v", entry)
	}
	field, ok := entry["job_result"].(map[string]any)
	if !ok || field["job_id"] != "j1" {
		t.Fatalf("unexpected job_result field %v", entry["job_result"])
	}
}

func TestZapLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{LogLevel: "warn"}, &buf)

	log.DebugObj("hidden", "k", 1)
	log.InfoObj("hidden", "k", 1)
	log.WarnObj("shown", "k", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("lower level entries leaked: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Fatalf("warn entry missing: %s", out)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("verbose"); got.String() != "info" {
		t.Fatalf("parseLevel(verbose) = %s", got)
	}
	if got := parseLevel(" DEBUG "); got.String() != "debug" {
		t.Fatalf("parseLevel(DEBUG) = %s", got)
	}
}

func TestZapLoggerSync(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{LogLevel: "info"}, &buf)
	log.InfoObj("flushed", "k", 1)

	if err := log.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if !strings.Contains(buf.String(), "flushed") {
		t.Fatalf("entry not written: %s", buf.String())
	}

	var nilLog *ZapLogger
	if err := nilLog.Sync(); err != nil {
		t.Fatalf("nil Sync: %v", err)
	}
}
