package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"github.com/csheth/dedupe/internal/compare"
	"github.com/csheth/dedupe/internal/controller"
)

const optionsPanelWidth = 36

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	inputWidth     int
	inputHeight    int
	viewportWidth  int
	viewportHeight int
	showLogo       bool
}

func newPageLayout() pageLayout {
	return pageLayout{
		inputWidth:     40,
		inputHeight:    6,
		viewportWidth:  80,
		viewportHeight: 12,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.inputWidth = innerWidth - optionsPanelWidth - 4
	if l.inputWidth < 20 {
		l.inputWidth = 20
	}

	l.showLogo = height >= 44
	chrome := 9
	if l.showLogo {
		chrome += len(logoArtLines) + 1
	}
	usable := height - chrome
	if usable < 10 {
		usable = 10
	}
	l.inputHeight = usable / 3
	if l.inputHeight < 4 {
		l.inputHeight = 4
	}
	l.viewportHeight = usable - l.inputHeight
	if l.viewportHeight < 4 {
		l.viewportHeight = 4
	}
}

type contentBuilder struct {
	builder strings.Builder
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

// buildResultContent renders the active field for the result viewport.
func (m *model) buildResultContent() string {
	cb := &contentBuilder{}
	tab := m.ctrl.ActiveTab()
	text := m.ctrl.Field(tab)
	if text == "" {
		if m.ctrl.HasResult() {
			cb.WriteString(helperStyle.Render(fmt.Sprintf("The service returned an empty %s text.", strings.ToLower(tab.Label()))))
		} else {
			cb.WriteString(sectionHeaderStyle.Render("No results yet"))
			cb.WriteRune('\n')
			cb.WriteString(helperStyle.Render("Type or paste your draft, pick the methods on the right and press Ctrl+S."))
			cb.WriteRune('\n')
			cb.WriteString(helperStyle.Render("Results appear here as Final, Rewritten, Cleaned and Original tabs."))
		}
		return cb.String()
	}
	cb.WriteString(wrapText(text, m.wrapWidth(2)))
	return cb.String()
}

// wrapText breaks on spaces first and hard-wraps whatever is still too long,
// which covers CJK text without spaces.
func wrapText(text string, width int) string {
	return wrap.String(wordwrap.String(text, width), width)
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	if padding < 0 {
		padding = 0
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}

func changeSummary(ctrl *controller.Controller) string {
	if !ctrl.HasResult() {
		return ""
	}
	stats := compare.Diff(ctrl.Field(controller.TabCleaned), ctrl.Field(controller.TabFinal))
	verdict := "modest change"
	if stats.Significant() {
		verdict = "substantial change"
	}
	return fmt.Sprintf("Changed %.0f%% (%s)", stats.Rate()*100, verdict)
}

func previewText(value string, limit int) string {
	value = strings.Join(strings.Fields(value), " ")
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
