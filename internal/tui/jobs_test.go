package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestJobTrackerBadges(t *testing.T) {
	tracker := newJobTracker()
	tracker.observe(jobSnapshot{ID: "process-1", Kind: jobKindProcess, Status: jobStatusRunning})
	if !tracker.busy(jobKindProcess) {
		t.Fatal("process should be busy")
	}
	badges := tracker.badges()
	if len(badges) != 1 || badges[0] != "process…" {
		t.Fatalf("unexpected badges %v", badges)
	}

	tracker.observe(jobSnapshot{ID: "process-1", Kind: jobKindProcess, Status: jobStatusFailed, Err: "boom"})
	if tracker.busy(jobKindProcess) {
		t.Fatal("process should be finished")
	}
	badges = tracker.badges()
	if len(badges) != 1 || badges[0] != "process failed" {
		t.Fatalf("unexpected badges %v", badges)
	}
}

func TestJobBusEnvelopeCarriesPayloadAndError(t *testing.T) {
	bus := newJobBus(context.Background())
	runner := func(context.Context) (tea.Msg, error) {
		return copyResultMsg{err: errors.New("no clipboard")}, errors.New("no clipboard")
	}
	cmd := bus.Start(jobKindCopy, runner)
	m := newTestModel(t, &fakeService{})
	drain(t, m, cmd)

	finished, ok := m.jobs.finished[jobKindCopy]
	if !ok {
		t.Fatal("copy job should be recorded")
	}
	if finished.Status != jobStatusFailed || finished.Err != "no clipboard" {
		t.Fatalf("unexpected snapshot %+v", finished)
	}
	if finished.ID != "copy-1" {
		t.Fatalf("unexpected id %s", finished.ID)
	}
	if m.notice == nil || m.notice.Title != "Copy failed" {
		t.Fatalf("payload should reach the model, notice=%+v", m.notice)
	}
}
