package tui

import (
	"time"

	"github.com/csheth/dedupe/internal/controller"
	"github.com/csheth/dedupe/internal/source"
)

type focusArea int

const (
	focusInput focusArea = iota
	focusOptions
	focusResults
)

var focusOrder = []focusArea{focusInput, focusOptions, focusResults}

func (f focusArea) String() string {
	switch f {
	case focusOptions:
		return "OPTIONS"
	case focusResults:
		return "RESULTS"
	default:
		return "INPUT"
	}
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarning
	noticeError
)

// notice is a blocking message; it swallows keys until dismissed.
type notice struct {
	Level noticeLevel
	Title string
	Body  string
}

const heroTagline = "Rewrite, compare and export de-duplicated drafts."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	sessionLogLimit           = 6
	inputCharLimit            = 200000
	inputMaxLines             = 5000
)

// attachment holds loaded text the editor cannot hold verbatim.
type attachment struct {
	Origin string
	Text   string
}

type logEntry struct {
	At      time.Time
	Kind    string
	Content string
}

type processResultMsg struct {
	outcome controller.Outcome
}

type copyResultMsg struct {
	report controller.CopyReport
	err    error
}

type downloadResultMsg struct {
	report controller.DownloadReport
	err    error
}

type sourceUpdateMsg struct {
	update source.Update
	closed bool
}
