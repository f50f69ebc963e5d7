package tui

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

type jobStatus string

const (
	jobKindProcess  jobKind = "process"
	jobKindCopy     jobKind = "copy"
	jobKindDownload jobKind = "download"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobSignalMsg struct {
	Snapshot jobSnapshot
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

// jobRunner returns the payload delivered back to Update. A non-nil error only
// marks the snapshot as failed; the payload still carries the details.
type jobRunner func(context.Context) (tea.Msg, error)

type jobBus struct {
	counter int64
	ctx     context.Context
}

func newJobBus(ctx context.Context) *jobBus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &jobBus{ctx: ctx}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	startSnapshot := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}
	startCmd := func() tea.Msg {
		return jobSignalMsg{Snapshot: startSnapshot}
	}

	runCmd := func() tea.Msg {
		payload, err := runner(b.ctx)
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		log.Printf("[jobs] %s %s (duration=%s, err=%v)", id, snapshot.Status, snapshot.Duration, err)
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}

	return tea.Sequence(startCmd, runCmd)
}

// jobTracker keeps the running jobs and the most recent finished one per kind.
type jobTracker struct {
	running  map[string]jobSnapshot
	finished map[jobKind]jobSnapshot
}

func newJobTracker() jobTracker {
	return jobTracker{running: map[string]jobSnapshot{}, finished: map[jobKind]jobSnapshot{}}
}

func (t *jobTracker) observe(s jobSnapshot) {
	if s.Status == jobStatusRunning {
		t.running[s.ID] = s
		return
	}
	delete(t.running, s.ID)
	t.finished[s.Kind] = s
}

func (t *jobTracker) busy(kind jobKind) bool {
	for _, s := range t.running {
		if s.Kind == kind {
			return true
		}
	}
	return false
}

func (t *jobTracker) badges() []string {
	var out []string
	for _, kind := range []jobKind{jobKindProcess, jobKindCopy, jobKindDownload} {
		if t.busy(kind) {
			out = append(out, fmt.Sprintf("%s…", kind))
			continue
		}
		if s, ok := t.finished[kind]; ok && s.Status == jobStatusFailed {
			out = append(out, fmt.Sprintf("%s failed", kind))
		}
	}
	return out
}
