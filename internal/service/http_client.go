package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/csheth/dedupe/internal/options"
)

const (
	requestIDHeader  = "X-Request-ID"
	maxErrorBodySize = 4 << 10
)

type httpClient struct {
	endpoint string
	scale    IntensityScale
	client   *http.Client
}

type processRequest struct {
	Text           string   `json:"text"`
	RewriteMethods []string `json:"rewrite_methods"`
	AvoidMethods   []string `json:"avoid_methods"`
	Intensity      float64  `json:"intensity"`
}

// Pointers distinguish an absent field from an empty string.
type processResponse struct {
	OriginalText  *string `json:"original_text"`
	CleanedText   *string `json:"cleaned_text"`
	RewrittenText *string `json:"rewritten_text"`
	FinalText     *string `json:"final_text"`
}

func (c *httpClient) Name() string {
	return fmt.Sprintf("rewrite service (%s)", c.endpoint)
}

func (c *httpClient) Process(ctx context.Context, opts options.Options) (Result, error) {
	buf, err := json.Marshal(c.payload(opts))
	if err != nil {
		return Result{}, failed(FailureInternal, 0, err, "encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf))
	if err != nil {
		return Result{}, failed(FailureInternal, 0, err, "build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestIDFrom(ctx))

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, failed(FailureTransport, 0, err, "service unreachable: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return Result{}, failed(FailureStatus, resp.StatusCode, nil, "%s", failureMessage(resp, body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, failed(FailureTransport, resp.StatusCode, err, "read response: %v", err)
	}
	var parsed processResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{}, failed(FailureDecode, resp.StatusCode, err, "malformed response body: %v", err)
	}
	return parsed.result(resp.StatusCode)
}

func (c *httpClient) payload(opts options.Options) processRequest {
	intensity := float64(options.ClampIntensity(opts.Intensity))
	if c.scale == ScaleFraction {
		intensity = intensity / float64(options.MaxIntensity)
	}
	return processRequest{
		Text:           opts.Text,
		RewriteMethods: nonNil(opts.RewriteMethods),
		AvoidMethods:   nonNil(opts.AvoidMethods),
		Intensity:      intensity,
	}
}

func (r processResponse) result(status int) (Result, error) {
	var missing []string
	pick := func(name string, v *string) string {
		if v == nil {
			missing = append(missing, name)
			return ""
		}
		return *v
	}
	res := Result{
		Original:  pick("original_text", r.OriginalText),
		Cleaned:   pick("cleaned_text", r.CleanedText),
		Rewritten: pick("rewritten_text", r.RewrittenText),
		Final:     pick("final_text", r.FinalText),
	}
	if len(missing) > 0 {
		return Result{}, failed(FailureContract, status, nil, "response missing %s", strings.Join(missing, ", "))
	}
	return res, nil
}

// failureMessage prefers the service's own {"error": "..."} message.
func failureMessage(resp *http.Response, body []byte) string {
	var parsed struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && strings.TrimSpace(parsed.Error) != "" {
		return strings.TrimSpace(parsed.Error)
	}
	if text := strings.TrimSpace(string(body)); text != "" && !strings.HasPrefix(text, "<") {
		return fmt.Sprintf("%s (%s)", resp.Status, text)
	}
	return resp.Status
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type requestIDKey struct{}

// WithRequestID attaches id so it is forwarded in the X-Request-ID header.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
