package controller

import (
	"errors"
	"fmt"
	"log"
)

// Clipboard writes text to a clipboard.
type Clipboard interface {
	WriteText(text string) error
	Name() string
}

// FileSaver stores data under a suggested file name and returns where it went.
type FileSaver interface {
	Save(name string, data []byte) (string, error)
}

// CopyReport describes a successful copy.
type CopyReport struct {
	Tab          Tab
	Chars        int
	Via          string
	UsedFallback bool
}

// DownloadReport describes a successful download.
type DownloadReport struct {
	Tab      Tab
	Bytes    int
	Name     string
	Location string
}

// CopyActive copies the active field to the clipboard, falling back to the
// secondary clipboard when the primary one is missing or fails.
func (c *Controller) CopyActive() (CopyReport, error) {
	tab, text := c.activeSnapshot()
	if text == "" {
		return CopyReport{}, &CapabilityUnavailableError{Action: "copy", Err: ErrNothingToCopy}
	}
	report := CopyReport{Tab: tab, Chars: len([]rune(text))}

	var primaryErr error
	if c.config.Clipboard != nil {
		if primaryErr = c.config.Clipboard.WriteText(text); primaryErr == nil {
			report.Via = c.config.Clipboard.Name()
			return report, nil
		}
		log.Printf("[actions] primary clipboard %s failed: %v", c.config.Clipboard.Name(), primaryErr)
	} else {
		primaryErr = errors.New("no clipboard configured")
	}

	if c.config.Fallback == nil {
		return CopyReport{}, &CapabilityUnavailableError{Action: "copy", Err: primaryErr}
	}
	if err := c.config.Fallback.WriteText(text); err != nil {
		return CopyReport{}, &CapabilityUnavailableError{
			Action: "copy",
			Err:    fmt.Errorf("%w; fallback %s: %v", primaryErr, c.config.Fallback.Name(), err),
		}
	}
	report.Via = c.config.Fallback.Name()
	report.UsedFallback = true
	return report, nil
}

// DownloadActive saves the active field under the fixed download name.
func (c *Controller) DownloadActive() (DownloadReport, error) {
	tab, text := c.activeSnapshot()
	if text == "" {
		return DownloadReport{}, &CapabilityUnavailableError{Action: "download", Err: ErrNothingToDownload}
	}
	if c.config.Saver == nil {
		return DownloadReport{}, &CapabilityUnavailableError{Action: "download", Err: errors.New("no file saver configured")}
	}
	data := []byte(text)
	location, err := c.config.Saver.Save(c.config.DownloadName, data)
	if err != nil {
		return DownloadReport{}, &CapabilityUnavailableError{Action: "download", Err: err}
	}
	log.Printf("[actions] saved %s tab (%d bytes) to %s", tab, len(data), location)
	return DownloadReport{Tab: tab, Bytes: len(data), Name: c.config.DownloadName, Location: location}, nil
}

func (c *Controller) activeSnapshot() (Tab, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.views.active, c.views.fields[c.views.active]
}
