package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/csheth/dedupe/internal/controller"
	"github.com/csheth/dedupe/internal/options"
)

func (m *model) View() string {
	if m.notice != nil {
		return m.noticeView()
	}
	m.refreshViewportIfDirty()

	top := lipgloss.JoinHorizontal(lipgloss.Top, m.inputPanel(), m.optionsPanel())
	parts := []string{m.heroView(), top, m.resultsPanel(), m.statusLine()}
	if m.helpVisible {
		parts = append(parts, m.keyLegendView())
	} else {
		parts = append(parts, m.help.View(m.keys))
	}
	if sessionLog := m.sessionLogView(); sessionLog != "" {
		parts = append(parts, sessionLog)
	}
	return joinNonEmpty(parts)
}

func (m *model) heroView() string {
	tagline := taglineStyle.Render(heroTagline)
	if !m.layout.showLogo {
		return tagline
	}
	return lipgloss.JoinVertical(lipgloss.Left, renderLogo(), tagline)
}

func (m *model) framed(area focusArea, body string) string {
	if m.focus == area {
		return panelFocusedStyle.Render(body)
	}
	return panelStyle.Render(body)
}

func (m *model) inputPanel() string {
	title := "Input"
	if m.config.InputPath != "" {
		title = fmt.Sprintf("Input · %s", m.config.InputPath)
		if m.config.Updates != nil {
			title += " (watching)"
		}
	}
	chars := len([]rune(m.inputText()))
	editor := m.input.View()
	counter := fmt.Sprintf("%d characters", chars)
	if m.attached != nil {
		editor = m.attachmentView()
		counter = fmt.Sprintf("%d characters loaded as is · ctrl+u to clear", chars)
	}
	body := strings.Join([]string{
		sectionHeaderStyle.Render(title),
		editor,
		helperStyle.Render(counter),
	}, "\n")
	return m.framed(focusInput, body)
}

func (m *model) attachmentView() string {
	width := m.layout.inputWidth
	preview := wrapText(previewText(m.attached.Text, width*(m.layout.inputHeight-1)), width)
	lines := strings.Split(preview, "\n")
	if len(lines) > m.layout.inputHeight-1 {
		lines = lines[:m.layout.inputHeight-1]
	}
	return strings.Join(append([]string{warningStyle.Render("Too large to edit here. It is sent exactly as loaded.")}, lines...), "\n")
}

func (m *model) optionsPanel() string {
	var b strings.Builder
	group := options.Group("")
	for i := 0; i < m.panel.Rows()-1; i++ {
		method, _ := m.panel.Method(i)
		if method.Group != group {
			if group != "" {
				b.WriteRune('\n')
			}
			group = method.Group
			b.WriteString(sectionHeaderStyle.Render(groupTitle(group)))
			b.WriteRune('\n')
		}
		box := "[ ]"
		if m.panel.IsChecked(i) {
			box = checkedStyle.Render("[x]")
		}
		line := fmt.Sprintf("%s %s", box, method.Label)
		if m.focus == focusOptions && m.panel.Cursor() == i {
			line = currentLineStyle.Render(fmt.Sprintf("%s %s", checkMark(m.panel.IsChecked(i)), method.Label))
		}
		b.WriteString(line)
		b.WriteRune('\n')
	}
	b.WriteRune('\n')
	slider := intensitySlider(m.panel.IntensityValue())
	if m.focus == focusOptions && m.panel.OnIntensity() {
		slider = currentLineStyle.Render(slider)
	}
	b.WriteString(sectionHeaderStyle.Render("Intensity"))
	b.WriteRune('\n')
	b.WriteString(slider)
	return m.framed(focusOptions, lipgloss.NewStyle().Width(optionsPanelWidth-4).Render(b.String()))
}

func groupTitle(g options.Group) string {
	switch g {
	case options.GroupRewrite:
		return "Rewrite methods"
	case options.GroupAvoid:
		return "Avoid AI detection"
	default:
		return string(g)
	}
}

func checkMark(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func intensitySlider(v int) string {
	filled := strings.Repeat("█", v)
	empty := strings.Repeat("░", options.MaxIntensity-v)
	return fmt.Sprintf("◀ %s%s ▶ %2d/%d", filled, empty, v, options.MaxIntensity)
}

func (m *model) resultsPanel() string {
	active := m.ctrl.ActiveTab()
	tabs := make([]string, 0, len(controller.Tabs()))
	for i, tab := range controller.Tabs() {
		label := fmt.Sprintf("%d %s", i+1, tab.Label())
		if tab == active {
			tabs = append(tabs, tabActiveStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if summary := changeSummary(m.ctrl); summary != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, helperStyle.Render("   "+summary))
	}
	return m.framed(focusResults, strings.Join([]string{header, m.viewport.View()}, "\n"))
}

func (m *model) statusLine() string {
	stats := []string{fmt.Sprintf("Focus %s", m.focus)}
	if m.config.Endpoint != "" {
		stats = append(stats, m.config.Endpoint)
	}
	if out, ok := m.ctrl.LastOutcome(); ok {
		state := "ok"
		if out.Err != nil {
			state = "failed"
		}
		stats = append(stats, fmt.Sprintf("Last %s in %s", state, out.Duration().Round(10*time.Millisecond)))
	}
	stats = append(stats, m.jobs.badges()...)

	style := statusBarStyle
	message := m.infoMessage
	if m.busy() {
		style = busyBarStyle
		message = fmt.Sprintf("%s %s", m.spinner.View(), message)
	}
	return joinNonEmpty([]string{
		style.Render(strings.Join(stats, "  •  ")),
		helperStyle.Render(message),
	})
}

func (m *model) sessionLogView() string {
	if len(m.sessionLog) == 0 {
		return ""
	}
	lines := []string{sectionHeaderStyle.Render("Session Log")}
	for _, entry := range m.sessionLog {
		stamp := entry.At.Format("15:04:05")
		text := previewText(entry.Content, m.layout.viewportWidth-20)
		if entry.Kind == "error" {
			lines = append(lines, errorStyle.Render(fmt.Sprintf("%s  %s", stamp, text)))
			continue
		}
		lines = append(lines, helperStyle.Render(fmt.Sprintf("%s  %-8s %s", stamp, entry.Kind, text)))
	}
	return strings.Join(lines, "\n")
}

func (m *model) noticeView() string {
	n := m.notice
	title := sectionHeaderStyle.Render(n.Title)
	switch n.Level {
	case noticeError:
		title = errorStyle.Copy().Bold(true).Render(n.Title)
	case noticeWarning:
		title = warningStyle.Copy().Bold(true).Render(n.Title)
	}
	width := m.layout.viewportWidth - 8
	if width > 72 {
		width = 72
	}
	body := wrapText(n.Body, width)
	box := noticeStyle(n.Level).Render(strings.Join([]string{
		title,
		"",
		body,
		"",
		helperStyle.Render("Press Enter or Esc to continue."),
	}, "\n"))
	if m.layout.windowWidth == 0 || m.layout.windowHeight == 0 {
		return box
	}
	return lipgloss.Place(m.layout.windowWidth, m.layout.windowHeight, lipgloss.Center, lipgloss.Center, box)
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) keyLegendView() string {
	hints := []keyHint{
		{"Ctrl+S", "Process text"},
		{"Tab", "Next panel"},
		{"Shift+Tab", "Previous panel"},
		{"↑/↓", "Move / scroll"},
		{"Space", "Toggle method"},
		{"←/→", "Intensity / tabs"},
		{"1-4", "Final … Original"},
		{"c / Ctrl+Y", "Copy result"},
		{"d / Ctrl+D", "Download result"},
		{"?", "Toggle cheatsheet"},
		{"Esc", "Close cheatsheet"},
		{"Ctrl+U", "Clear loaded file"},
		{"Ctrl+C", "Quit"},
	}
	rows := []string{sectionHeaderStyle.Render("Keyboard Cheatsheet")}
	const columns = 3
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			k := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(fmt.Sprintf(" %-20s", hint.Description))
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, k, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}

func renderLogo() string {
	if len(logoArtLines) == 0 {
		return ""
	}
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		runes := []rune(line)
		lineRunes[i] = runes
		if len(runes) > width {
			width = len(runes)
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' && y+1 < height && x+1 < width {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}
