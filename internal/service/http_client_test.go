package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/csheth/dedupe/internal/options"
)

func newTestClient(t *testing.T, server *httptest.Server, scale IntensityScale) Client {
	t.Helper()
	client, err := New(Config{Endpoint: server.URL + "/process", IntensityScale: scale, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestProcessSendsWirePayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/process" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %s", ct)
		}
		if r.Header.Get(requestIDHeader) != "req-42" {
			t.Fatalf("request id not forwarded: %q", r.Header.Get(requestIDHeader))
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload["text"] != "原文" {
			t.Fatalf("unexpected text: %v", payload["text"])
		}
		if got := payload["rewrite_methods"].([]any); len(got) != 2 || got[0] != "synonym" {
			t.Fatalf("unexpected rewrite methods: %v", got)
		}
		if got, ok := payload["avoid_methods"].([]any); !ok || len(got) != 0 {
			t.Fatalf("avoid methods must be an empty array, got %#v", payload["avoid_methods"])
		}
		if payload["intensity"] != 0.7 {
			t.Fatalf("expected fractional intensity 0.7, got %v", payload["intensity"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"original_text":"A","cleaned_text":"B","rewritten_text":"C","final_text":"D"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, "")
	ctx := WithRequestID(context.Background(), "req-42")
	result, err := client.Process(ctx, options.Options{
		Text:           "原文",
		RewriteMethods: []string{"synonym", "word_order"},
		Intensity:      7,
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	want := Result{Original: "A", Cleaned: "B", Rewritten: "C", Final: "D"}
	if result != want {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestProcessRawIntensity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Intensity float64 `json:"intensity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode payload: %v", err)
		}
		if payload.Intensity != 4 {
			t.Fatalf("expected raw intensity 4, got %v", payload.Intensity)
		}
		w.Write([]byte(`{"original_text":"","cleaned_text":"","rewritten_text":"","final_text":""}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, ScaleRaw)
	if _, err := client.Process(context.Background(), options.Options{Text: "x", Intensity: 4}); err != nil {
		t.Fatalf("process failed: %v", err)
	}
}

func TestProcessClassifiesStatusFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"请提供文本"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, "")
	_, err := client.Process(context.Background(), options.Options{Text: "x", Intensity: 5})
	var failure *RequestFailedError
	if !errors.As(err, &failure) {
		t.Fatalf("expected RequestFailedError, got %T (%v)", err, err)
	}
	if failure.Kind != FailureStatus || failure.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected classification: %+v", failure)
	}
	if failure.Message != "请提供文本" {
		t.Fatalf("service error message not surfaced: %q", failure.Message)
	}
}

func TestProcessStatusFailureWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server, "")
	_, err := client.Process(context.Background(), options.Options{Text: "x", Intensity: 5})
	var failure *RequestFailedError
	if !errors.As(err, &failure) {
		t.Fatalf("expected RequestFailedError, got %v", err)
	}
	if !strings.Contains(failure.Error(), "502") {
		t.Fatalf("status missing from error: %v", failure)
	}
}

func TestProcessClassifiesMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	client := newTestClient(t, server, "")
	_, err := client.Process(context.Background(), options.Options{Text: "x", Intensity: 5})
	var failure *RequestFailedError
	if !errors.As(err, &failure) || failure.Kind != FailureDecode {
		t.Fatalf("expected decode failure, got %v", err)
	}
}

func TestProcessTreatsMissingFieldAsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"original_text":"A","cleaned_text":"B","final_text":"D"}`))
	}))
	defer server.Close()

	client := newTestClient(t, server, "")
	result, err := client.Process(context.Background(), options.Options{Text: "x", Intensity: 5})
	var failure *RequestFailedError
	if !errors.As(err, &failure) || failure.Kind != FailureContract {
		t.Fatalf("expected contract failure, got %v", err)
	}
	if !strings.Contains(failure.Message, "rewritten_text") {
		t.Fatalf("missing field not named: %q", failure.Message)
	}
	if result != (Result{}) {
		t.Fatalf("no partial result may be returned, got %#v", result)
	}
}

func TestProcessClassifiesTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client, err := New(Config{Endpoint: endpoint})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Process(context.Background(), options.Options{Text: "x", Intensity: 5})
	var failure *RequestFailedError
	if !errors.As(err, &failure) || failure.Kind != FailureTransport {
		t.Fatalf("expected transport failure, got %v", err)
	}
	if failure.Unwrap() == nil {
		t.Fatal("transport failure should wrap its cause")
	}
}
