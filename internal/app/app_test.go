package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Adda-Baaj/shifter-go/internal/config"
	"github.com/Adda-Baaj/shifter-go/pkg/publishers"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient(&config.Config{}, nil); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestRunnerWritesResultsToStdoutSink(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "secret" {
			http.Error(w, "bad key", http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("scraped " + r.URL.Query().Get("url")))
	}))
	defer api.Close()

	dir := t.TempDir()
	jobsFile := writeFile(t, dir, "jobs.yaml", `
jobs:
  - id: one
    params:
      url: http://example.com/one
  - id: two
    method: POST
    params:
      url: http://example.com/two
    body:
      q: x
`)

	cfg := &config.Config{
		APIKey:         "secret",
		BaseURL:        api.URL,
		RequestTimeout: 2 * time.Second,
		JobsFile:       jobsFile,
	}

	var out bytes.Buffer
	r, err := NewRunner(context.Background(), cfg, nil, &out)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	sum, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Succeeded != 2 {
		t.Fatalf("unexpected summary %+v", sum)
	}

	dec := json.NewDecoder(&out)
	var first publishers.Result
	if err := dec.Decode(&first); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if first.JobID != "one" || first.StatusCode != 200 || first.Body != "scraped http://example.com/one" {
		t.Fatalf("unexpected result %#v", first)
	}
}

func TestNewRunnerRejectsSinksFileWithoutEnabledSinks(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		APIKey:   "secret",
		JobsFile: writeFile(t, dir, "jobs.yaml", "jobs:\n  - id: a\n    params: {url: \"http://a.com\"}\n"),
		SinksFile: writeFile(t, dir, "sinks.yaml", `
publishers:
  - id: out
    type: stdout
    enabled: false
`),
	}

	if _, err := NewRunner(context.Background(), cfg, nil, nil); err == nil {
		t.Fatalf("expected error when all sinks are disabled")
	}
}

func TestRunnerStdoutSinkFromFileUsesWriter(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer api.Close()

	dir := t.TempDir()
	cfg := &config.Config{
		APIKey:         "secret",
		BaseURL:        api.URL,
		RequestTimeout: 2 * time.Second,
		JobsFile: writeFile(t, dir, "jobs.yaml", `
jobs:
  - id: one
    params:
      url: http://example.com/one
`),
		SinksFile: writeFile(t, dir, "sinks.yaml", `
publishers:
  - id: console
    type: stdout
`),
	}

	var out bytes.Buffer
	r, err := NewRunner(context.Background(), cfg, nil, &out)
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var res publishers.Result
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &res); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if res.JobID != "one" || res.Body != "ok" {
		t.Fatalf("unexpected result %#v", res)
	}
}
