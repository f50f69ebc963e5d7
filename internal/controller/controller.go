package controller

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/dedupe/internal/options"
	"github.com/csheth/dedupe/internal/service"
)

// RequestState is the single-flight guard state.
type RequestState int

const (
	Idle RequestState = iota
	InFlight
)

func (s RequestState) String() string {
	if s == InFlight {
		return "in-flight"
	}
	return "idle"
}

// Config wires the collaborators a Controller needs.
type Config struct {
	Client       service.Client
	Clipboard    Clipboard
	Fallback     Clipboard
	Saver        FileSaver
	DownloadName string
}

// DefaultDownloadName is the file name offered for downloads.
const DefaultDownloadName = "论文降重结果.txt"

// Controller owns the request lifecycle and the result view state.
type Controller struct {
	config Config

	mu      sync.Mutex
	state   RequestState
	current string
	views   views
	last    *Outcome
}

// New returns an idle controller showing the final tab.
func New(cfg Config) *Controller {
	if cfg.DownloadName == "" {
		cfg.DownloadName = DefaultDownloadName
	}
	return &Controller{config: cfg, views: newViews()}
}

// Request is an admitted submission whose network call has not run yet.
type Request struct {
	ID      string
	Options options.Options
	client  service.Client
}

// Outcome is the settled result of a Request: exactly one of Result or Err is meaningful.
type Outcome struct {
	ID          string
	Result      service.Result
	Err         error
	StartedAt   time.Time
	CompletedAt time.Time
}

// Duration is the wall time of the network call.
func (o Outcome) Duration() time.Duration {
	return o.CompletedAt.Sub(o.StartedAt)
}

// Submit admits opts when the controller is idle and the text is non-empty.
// The returned Request must be run and its Outcome passed to Settle.
func (c *Controller) Submit(opts options.Options) (*Request, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == InFlight {
		return nil, ErrInFlight
	}
	if opts.Empty() {
		return nil, &ValidationError{Field: "text", Reason: "enter the text to process"}
	}
	if c.config.Client == nil {
		return nil, &ValidationError{Field: "service", Reason: "no processing service configured"}
	}
	id := uuid.NewString()
	c.state = InFlight
	c.current = id
	log.Printf("[controller] admitted %s (%d chars, intensity %d)", id, len([]rune(opts.Text)), opts.Intensity)
	return &Request{ID: id, Options: opts, client: c.config.Client}, nil
}

// Run performs the network call. It always returns an Outcome, including
// when the client panics.
func (r *Request) Run(ctx context.Context) (out Outcome) {
	out = Outcome{ID: r.ID, StartedAt: time.Now()}
	defer func() {
		if p := recover(); p != nil {
			out.Result = service.Result{}
			out.Err = &service.RequestFailedError{
				Kind:    service.FailureInternal,
				Message: fmt.Sprintf("client panic: %v", p),
			}
		}
		out.CompletedAt = time.Now()
	}()
	ctx = service.WithRequestID(ctx, r.ID)
	out.Result, out.Err = r.client.Process(ctx, r.Options)
	return out
}

// Settle releases the guard and applies the outcome. On failure the result
// fields and the active tab are left untouched and the request error is returned.
func (c *Controller) Settle(out Outcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != InFlight || out.ID != c.current {
		return ErrStaleOutcome
	}
	c.state = Idle
	c.current = ""
	settled := out
	c.last = &settled
	if out.Err != nil {
		log.Printf("[controller] %s failed after %s: %v", out.ID, out.Duration(), out.Err)
		return out.Err
	}
	c.views.apply(out.Result)
	log.Printf("[controller] %s succeeded after %s", out.ID, out.Duration())
	return nil
}

// Process runs a full submission synchronously.
func (c *Controller) Process(ctx context.Context, opts options.Options) error {
	req, err := c.Submit(opts)
	if err != nil {
		return err
	}
	return c.Settle(req.Run(ctx))
}

// State reports the guard state.
func (c *Controller) State() RequestState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// InFlight reports whether the loading indicator should be visible.
func (c *Controller) InFlight() bool {
	return c.State() == InFlight
}

// LastOutcome returns the most recently settled outcome.
func (c *Controller) LastOutcome() (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return Outcome{}, false
	}
	return *c.last, true
}

// SelectTab activates tab. Unknown tabs are ignored and reported as false.
func (c *Controller) SelectTab(tab Tab) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.views.selectTab(tab)
}

// ApplyResult writes all four result fields and activates the final tab.
func (c *Controller) ApplyResult(r service.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.views.apply(r)
}

// ActiveTab returns the visible tab.
func (c *Controller) ActiveTab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.views.active
}

// Field returns the text held by tab.
func (c *Controller) Field(tab Tab) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.views.fields[tab]
}

// ActiveContent returns the text of the visible tab.
func (c *Controller) ActiveContent() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.views.fields[c.views.active]
}

// HasResult reports whether any result has been applied.
func (c *Controller) HasResult() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.views.fields) > 0
}

// DownloadName is the fixed file name used by DownloadActive.
func (c *Controller) DownloadName() string {
	return c.config.DownloadName
}
