package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/dedupe/internal/controller"
	"github.com/csheth/dedupe/internal/source"
)

func processJob(req *controller.Request) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		outcome := req.Run(ctx)
		return processResultMsg{outcome: outcome}, outcome.Err
	}
}

func copyJob(ctrl *controller.Controller) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		report, err := ctrl.CopyActive()
		return copyResultMsg{report: report, err: err}, err
	}
}

func downloadJob(ctrl *controller.Controller) jobRunner {
	return func(context.Context) (tea.Msg, error) {
		report, err := ctrl.DownloadActive()
		return downloadResultMsg{report: report, err: err}, err
	}
}

// waitForSource blocks until the watcher reports a change or closes.
func waitForSource(updates <-chan source.Update) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return sourceUpdateMsg{closed: true}
		}
		return sourceUpdateMsg{update: u}
	}
}
