package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/csheth/dedupe/internal/options"
)

const DefaultEndpoint = "http://127.0.0.1:5000/process"

// IntensityScale selects how the 1-10 intensity is encoded on the wire.
type IntensityScale string

const (
	// ScaleFraction sends intensity/10, the 0-1 range the rewrite service consumes.
	ScaleFraction IntensityScale = "fraction"
	// ScaleRaw sends the integer unchanged.
	ScaleRaw IntensityScale = "raw"
)

// Config describes how to build a processing client.
type Config struct {
	Endpoint       string
	Timeout        time.Duration
	IntensityScale IntensityScale
	HTTPClient     *http.Client
}

// Result carries the four stages returned by a successful request.
type Result struct {
	Original  string
	Cleaned   string
	Rewritten string
	Final     string
}

// Client submits text to the de-duplication service.
type Client interface {
	Process(ctx context.Context, opts options.Options) (Result, error)
	Name() string
}

// New validates cfg and returns an HTTP backed client.
func New(cfg Config) (Client, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	scale := cfg.IntensityScale
	switch scale {
	case "":
		scale = ScaleFraction
	case ScaleFraction, ScaleRaw:
	default:
		return nil, fmt.Errorf("unknown intensity scale %q", scale)
	}
	return &httpClient{
		endpoint: endpoint,
		scale:    scale,
		client:   pickHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}, nil
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	// A zero timeout keeps net/http's default of waiting indefinitely; a hung
	// service shows up as an endless loading indicator.
	return &http.Client{Timeout: timeout}
}
