package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/csheth/dedupe/internal/source"
)

type fakeServer struct {
	*httptest.Server
	hits    int32
	lastReq map[string]any
}

func newFakeServer(t *testing.T, status int, body string) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fs.hits, 1)
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fs.lastReq = payload
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(fs.Close)
	return fs
}

const okBody = `{"original_text":"orig","cleaned_text":"clean","rewritten_text":"rewrite","final_text":"final text"}`

type runResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "dedupe.yaml")
	cfg := "download:\n  dir: " + filepath.Join(dir, "downloads") + "\nclipboard:\n  osc52_fallback: false\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCommand("test", "abc123")
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func TestProcessPrintsFinalStage(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	res := runCLI(t, "  my draft \n", "process", "--endpoint", srv.URL, "--intensity", "8", "--avoid", "none")
	if res.err != nil {
		t.Fatalf("process failed: %v\n%s", res.err, res.stderr)
	}
	if res.stdout != "final text\n" {
		t.Fatalf("unexpected stdout %q", res.stdout)
	}
	if srv.lastReq["text"] != "my draft" {
		t.Fatalf("text not trimmed: %v", srv.lastReq["text"])
	}
	if srv.lastReq["intensity"] != 0.8 {
		t.Fatalf("intensity = %v", srv.lastReq["intensity"])
	}
	avoid, ok := srv.lastReq["avoid_methods"].([]any)
	if !ok || len(avoid) != 0 {
		t.Fatalf("avoid_methods = %#v", srv.lastReq["avoid_methods"])
	}
	rewrite, ok := srv.lastReq["rewrite_methods"].([]any)
	if !ok || len(rewrite) != 3 {
		t.Fatalf("rewrite_methods should default to every method, got %#v", srv.lastReq["rewrite_methods"])
	}
}

func TestProcessSelectsStage(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	res := runCLI(t, "draft", "process", "--endpoint", srv.URL, "--stage", "cleaned")
	if res.err != nil {
		t.Fatalf("process failed: %v", res.err)
	}
	if res.stdout != "clean\n" {
		t.Fatalf("unexpected stdout %q", res.stdout)
	}
}

func TestProcessJSON(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	res := runCLI(t, "draft", "process", "--endpoint", srv.URL, "--json")
	if res.err != nil {
		t.Fatalf("process failed: %v", res.err)
	}
	var out processOutput
	if err := json.Unmarshal([]byte(res.stdout), &out); err != nil {
		t.Fatalf("decode output: %v\n%s", err, res.stdout)
	}
	if out.Final != "final text" || out.Original != "orig" || out.RequestID == "" {
		t.Fatalf("unexpected output %+v", out)
	}
	if out.ChangeRate <= 0 {
		t.Fatalf("expected a positive change rate, got %v", out.ChangeRate)
	}
}

func TestProcessEmptyInputSkipsService(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	res := runCLI(t, "   ", "process", "--endpoint", srv.URL)
	if res.err == nil || !strings.Contains(res.err.Error(), "nothing to process") {
		t.Fatalf("expected validation error, got %v", res.err)
	}
	if atomic.LoadInt32(&srv.hits) != 0 {
		t.Fatal("service must not be called for empty input")
	}
}

func TestProcessSurfacesServiceError(t *testing.T) {
	srv := newFakeServer(t, http.StatusInternalServerError, `{"error":"model offline"}`)
	res := runCLI(t, "draft", "process", "--endpoint", srv.URL)
	if res.err == nil || !strings.Contains(res.err.Error(), "model offline") {
		t.Fatalf("expected service message, got %v", res.err)
	}
	if res.stdout != "" {
		t.Fatalf("nothing should be printed on failure, got %q", res.stdout)
	}
}

func TestProcessRejectsUnknownMethod(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	res := runCLI(t, "draft", "process", "--endpoint", srv.URL, "--rewrite", "paraphrase")
	if res.err == nil || !strings.Contains(res.err.Error(), "paraphrase") {
		t.Fatalf("expected unknown method error, got %v", res.err)
	}
	if atomic.LoadInt32(&srv.hits) != 0 {
		t.Fatal("service must not be called")
	}
}

func TestProcessDownloadsSelectedStage(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	dir := t.TempDir()
	res := runCLI(t, "draft", "process", "--endpoint", srv.URL, "--download", "--download-dir", dir, "--stage", "rewritten")
	if res.err != nil {
		t.Fatalf("process failed: %v", res.err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "论文降重结果.txt"))
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if string(data) != "rewrite" {
		t.Fatalf("unexpected download %q", data)
	}
	if !strings.Contains(res.stderr, "saved rewritten text") {
		t.Fatalf("expected save report, got %q", res.stderr)
	}
}

func TestVersionCommand(t *testing.T) {
	res := runCLI(t, "", "version")
	if res.err != nil {
		t.Fatalf("version failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, "dedupe test (abc123)") {
		t.Fatalf("unexpected version output %q", res.stdout)
	}
}

func TestProcessReadsRemoteInput(t *testing.T) {
	t.Setenv("DEDUPE_CACHE_DIR", t.TempDir())
	draft := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("remote draft\r\n"))
	}))
	t.Cleanup(draft.Close)

	srv := newFakeServer(t, http.StatusOK, okBody)
	res := runCLI(t, "", "process", "--endpoint", srv.URL, "--input", draft.URL+"/chapter.txt")
	if res.err != nil {
		t.Fatalf("process failed: %v\n%s", res.err, res.stderr)
	}
	if srv.lastReq["text"] != "remote draft" {
		t.Fatalf("remote text not used: %v", srv.lastReq["text"])
	}
}

func TestProcessRejectsOversizedStdin(t *testing.T) {
	srv := newFakeServer(t, http.StatusOK, okBody)
	big := strings.Repeat("a", source.MaxFileSize+1)
	res := runCLI(t, big, "process", "--endpoint", srv.URL)
	if !errors.Is(res.err, source.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", res.err)
	}
	if atomic.LoadInt32(&srv.hits) != 0 {
		t.Fatalf("oversized stdin must not reach the service, got %d calls", srv.hits)
	}
}
