package host

import (
	"errors"
	"io"
	"os"

	"github.com/atotto/clipboard"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// ErrClipboardUnsupported is returned when no system clipboard utility is available.
var ErrClipboardUnsupported = errors.New("system clipboard unavailable")

// SystemClipboard writes through the operating system clipboard
// (pbcopy, xclip/xsel/wl-copy, or the Windows API).
type SystemClipboard struct{}

func (SystemClipboard) Name() string { return "system clipboard" }

func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// TerminalClipboard asks the terminal emulator to set its clipboard through an
// OSC 52 escape sequence. It works over SSH where no local clipboard exists.
type TerminalClipboard struct {
	Out io.Writer
}

// NewTerminalClipboard writes sequences to stderr, which stays attached to the
// terminal while the TUI owns stdout.
func NewTerminalClipboard() *TerminalClipboard {
	return &TerminalClipboard{Out: os.Stderr}
}

func (t *TerminalClipboard) Name() string { return "terminal clipboard (OSC 52)" }

func (t *TerminalClipboard) WriteText(text string) error {
	out := t.Out
	if out == nil {
		out = os.Stderr
	}
	seq := osc52.New(text)
	switch {
	case os.Getenv("TMUX") != "":
		seq = seq.Tmux()
	case os.Getenv("STY") != "":
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(out)
	return err
}
