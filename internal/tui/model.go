package tui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/dedupe/internal/controller"
	"github.com/csheth/dedupe/internal/options"
	"github.com/csheth/dedupe/internal/source"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Controller *controller.Controller
	Options    options.Defaults
	// InitialText pre-fills the input panel.
	InitialText string
	// InputPath names the file InitialText came from, for display only.
	InputPath string
	// Updates, when set, replaces the input text on every change of the watched file.
	Updates <-chan source.Update
	// Endpoint is shown in the status bar.
	Endpoint string
	Context  context.Context
}

type model struct {
	config Config
	ctrl   *controller.Controller
	panel  *options.Panel
	keys   keyMap

	input    textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	layout   pageLayout

	bus  *jobBus
	jobs jobTracker

	focus         focusArea
	attached      *attachment
	notice        *notice
	helpVisible   bool
	infoMessage   string
	sessionLog    []logEntry
	viewportDirty bool
	lastRendered  controller.Tab
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	ctrl := config.Controller
	if ctrl == nil {
		ctrl = controller.New(controller.Config{})
	}

	input := textarea.New()
	input.Placeholder = "Paste the paragraph or paper section to de-duplicate…"
	input.ShowLineNumbers = false
	input.CharLimit = inputCharLimit
	input.MaxHeight = inputMaxLines
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 12)
	vp.MouseWheelEnabled = true

	m := &model{
		config:        config,
		ctrl:          ctrl,
		panel:         options.NewPanel(config.Options),
		keys:          defaultKeyMap(),
		input:         input,
		viewport:      vp,
		spinner:       spin,
		help:          help.New(),
		layout:        newPageLayout(),
		bus:           newJobBus(config.Context),
		jobs:          newJobTracker(),
		focus:         focusInput,
		viewportDirty: true,
		infoMessage:   "Paste your text, choose methods and press Ctrl+S to process.",
	}
	m.applyLayout()
	origin := config.InputPath
	if origin == "" {
		origin = "the initial text"
	}
	m.loadText(config.InitialText, origin)
	if config.InputPath != "" {
		m.appendLog("source", fmt.Sprintf("Loaded %s", config.InputPath))
	}
	return m
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, waitForSource(m.config.Updates))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.applyLayout()
		return m, nil
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.jobs.observe(msg.Snapshot)
		return m, nil
	case jobResultEnvelope:
		m.jobs.observe(msg.Snapshot)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case processResultMsg:
		return m, m.handleProcessResult(msg)
	case copyResultMsg:
		m.handleCopyResult(msg)
		return m, nil
	case downloadResultMsg:
		m.handleDownloadResult(msg)
		return m, nil
	case sourceUpdateMsg:
		return m, m.handleSourceUpdate(msg)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		if m.notice != nil {
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) busy() bool {
	return m.ctrl.InFlight() || m.jobs.busy(jobKindCopy) || m.jobs.busy(jobKindDownload)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		return tea.Quit
	}
	if m.notice != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.notice = nil
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.NextFocus):
		return m.cycleFocus(1)
	case key.Matches(msg, m.keys.PrevFocus):
		return m.cycleFocus(-1)
	case key.Matches(msg, m.keys.CopyAny):
		return m.startCopy()
	case key.Matches(msg, m.keys.DownloadAny):
		return m.startDownload()
	}

	switch m.focus {
	case focusOptions:
		return m.handleOptionsKey(msg)
	case focusResults:
		return m.handleResultsKey(msg)
	default:
		if msg.Type == tea.KeyEsc && m.helpVisible {
			m.helpVisible = false
			return nil
		}
		if m.attached != nil {
			if key.Matches(msg, m.keys.Detach) {
				m.appendLog("source", fmt.Sprintf("Cleared %s", m.attached.Origin))
				m.attached = nil
			}
			return nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return cmd
	}
}

func (m *model) handleOptionsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.panel.Move(-1)
	case key.Matches(msg, m.keys.Down):
		m.panel.Move(1)
	case key.Matches(msg, m.keys.Toggle):
		m.panel.Toggle()
	case key.Matches(msg, m.keys.Left):
		m.panel.AdjustIntensity(-1)
	case key.Matches(msg, m.keys.Right):
		m.panel.AdjustIntensity(1)
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
	case msg.Type == tea.KeyEsc:
		m.helpVisible = false
	}
	return nil
}

func (m *model) handleResultsKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.TabFinal):
		m.selectTab(controller.TabFinal)
	case key.Matches(msg, m.keys.TabRewritten):
		m.selectTab(controller.TabRewritten)
	case key.Matches(msg, m.keys.TabCleaned):
		m.selectTab(controller.TabCleaned)
	case key.Matches(msg, m.keys.TabOriginal):
		m.selectTab(controller.TabOriginal)
	case key.Matches(msg, m.keys.Left):
		m.shiftTab(-1)
	case key.Matches(msg, m.keys.Right):
		m.shiftTab(1)
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
	case key.Matches(msg, m.keys.Copy):
		return m.startCopy()
	case key.Matches(msg, m.keys.Download):
		return m.startDownload()
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
	case msg.Type == tea.KeyEsc:
		m.helpVisible = false
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *model) cycleFocus(delta int) tea.Cmd {
	idx := 0
	for i, f := range focusOrder {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(focusOrder)) % len(focusOrder)
	return m.setFocus(focusOrder[idx])
}

func (m *model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusInput {
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

func (m *model) selectTab(tab controller.Tab) {
	if m.ctrl.SelectTab(tab) {
		m.viewportDirty = true
	}
}

func (m *model) shiftTab(delta int) {
	tabs := controller.Tabs()
	active := m.ctrl.ActiveTab()
	for i, t := range tabs {
		if t == active {
			m.selectTab(tabs[(i+delta+len(tabs))%len(tabs)])
			return
		}
	}
}

func (m *model) submit() tea.Cmd {
	opts := options.Collect(m.panel.WithText(m.inputText()))
	req, err := m.ctrl.Submit(opts)
	if errors.Is(err, controller.ErrInFlight) {
		return nil
	}
	var verr *controller.ValidationError
	if errors.As(err, &verr) {
		body := verr.Error()
		if verr.Field == "text" {
			body = "Please enter the text you want to process."
		}
		m.notice = &notice{Level: noticeWarning, Title: "Nothing to process", Body: body}
		return nil
	}
	if err != nil {
		m.notice = &notice{Level: noticeError, Title: "Cannot start", Body: err.Error()}
		return nil
	}

	m.infoMessage = "Processing… the previous result stays available meanwhile."
	m.appendLog("submit", fmt.Sprintf("Sent %d characters, %d rewrite / %d avoid methods, intensity %d",
		len([]rune(opts.Text)), len(opts.RewriteMethods), len(opts.AvoidMethods), opts.Intensity))
	return tea.Batch(m.bus.Start(jobKindProcess, processJob(req)), m.spinner.Tick)
}

func (m *model) handleProcessResult(msg processResultMsg) tea.Cmd {
	err := m.ctrl.Settle(msg.outcome)
	if errors.Is(err, controller.ErrStaleOutcome) {
		log.Printf("[tui] dropped stale outcome %s", msg.outcome.ID)
		return nil
	}
	elapsed := msg.outcome.Duration().Round(10 * time.Millisecond)
	if err != nil {
		m.notice = &notice{Level: noticeError, Title: "Processing failed", Body: err.Error()}
		m.infoMessage = "Processing failed. Adjust the input and press Ctrl+S to retry."
		m.appendLog("error", err.Error())
		return nil
	}
	m.viewport.GotoTop()
	m.viewportDirty = true
	m.infoMessage = fmt.Sprintf("Done in %s. Showing the final text.", elapsed)
	m.appendLog("result", fmt.Sprintf("%s in %s. %s", m.ctrl.ActiveTab().Label(), elapsed, changeSummary(m.ctrl)))
	return m.setFocus(focusResults)
}

func (m *model) startCopy() tea.Cmd {
	if m.jobs.busy(jobKindCopy) {
		return nil
	}
	return tea.Batch(m.bus.Start(jobKindCopy, copyJob(m.ctrl)), m.spinner.Tick)
}

func (m *model) startDownload() tea.Cmd {
	if m.jobs.busy(jobKindDownload) {
		return nil
	}
	return tea.Batch(m.bus.Start(jobKindDownload, downloadJob(m.ctrl)), m.spinner.Tick)
}

func (m *model) handleCopyResult(msg copyResultMsg) {
	if msg.err != nil {
		if errors.Is(msg.err, controller.ErrNothingToCopy) {
			m.notice = &notice{Level: noticeWarning, Title: "Nothing to copy", Body: fmt.Sprintf("The %s tab is empty.", m.ctrl.ActiveTab().Label())}
			return
		}
		m.notice = &notice{Level: noticeError, Title: "Copy failed", Body: msg.err.Error()}
		m.appendLog("error", msg.err.Error())
		return
	}
	body := fmt.Sprintf("Copied %d characters from the %s tab via %s.", msg.report.Chars, msg.report.Tab.Label(), msg.report.Via)
	m.notice = &notice{Level: noticeInfo, Title: "Copied to clipboard", Body: body}
	m.appendLog("copy", body)
}

func (m *model) handleDownloadResult(msg downloadResultMsg) {
	if msg.err != nil {
		if errors.Is(msg.err, controller.ErrNothingToDownload) {
			m.notice = &notice{Level: noticeWarning, Title: "Nothing to download", Body: fmt.Sprintf("The %s tab is empty.", m.ctrl.ActiveTab().Label())}
			return
		}
		m.notice = &notice{Level: noticeError, Title: "Download failed", Body: msg.err.Error()}
		m.appendLog("error", msg.err.Error())
		return
	}
	body := fmt.Sprintf("Saved the %s tab (%d bytes) to %s.", msg.report.Tab.Label(), msg.report.Bytes, msg.report.Location)
	m.notice = &notice{Level: noticeInfo, Title: "Download complete", Body: body}
	m.appendLog("download", body)
}

func (m *model) handleSourceUpdate(msg sourceUpdateMsg) tea.Cmd {
	if msg.closed {
		m.appendLog("source", "Stopped watching the input file.")
		return nil
	}
	if msg.update.Err != nil {
		m.appendLog("error", fmt.Sprintf("Reload failed: %v", msg.update.Err))
	} else if msg.update.Text != m.inputText() {
		m.loadText(msg.update.Text, msg.update.Path)
		m.appendLog("source", fmt.Sprintf("Reloaded %s", msg.update.Path))
	}
	return waitForSource(m.config.Updates)
}

// loadText puts text into the editor only when the editor hands it back
// unchanged. Anything the textarea would cut or rewrite is kept aside and
// submitted exactly as loaded.
func (m *model) loadText(text, origin string) {
	m.attached = nil
	m.input.SetValue(text)
	if m.input.Value() == text {
		return
	}
	m.input.Reset()
	m.attached = &attachment{Origin: origin, Text: text}
	log.Printf("[tui] %s kept outside the editor (%d characters)", origin, len([]rune(text)))
	m.appendLog("source", fmt.Sprintf("%s cannot be edited here; it will be sent as loaded", origin))
}

// inputText is what a submission sends: the attached document if any,
// otherwise the editor contents.
func (m *model) inputText() string {
	if m.attached != nil {
		return m.attached.Text
	}
	return m.input.Value()
}

func (m *model) appendLog(kind, content string) {
	m.sessionLog = append(m.sessionLog, logEntry{At: time.Now(), Kind: kind, Content: content})
	if len(m.sessionLog) > sessionLogLimit {
		m.sessionLog = m.sessionLog[len(m.sessionLog)-sessionLogLimit:]
	}
}

func (m *model) applyLayout() {
	m.input.SetWidth(m.layout.inputWidth)
	m.input.SetHeight(m.layout.inputHeight)
	m.viewport.Width = m.layout.viewportWidth
	m.viewport.Height = m.layout.viewportHeight
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	active := m.ctrl.ActiveTab()
	if !m.viewportDirty && active == m.lastRendered {
		return
	}
	if active != m.lastRendered {
		m.viewport.GotoTop()
	}
	m.viewport.SetContent(m.buildResultContent())
	m.lastRendered = active
	m.viewportDirty = false
}
