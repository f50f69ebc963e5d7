package controller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingClipboard struct {
	name   string
	err    error
	writes []string
}

func (r *recordingClipboard) WriteText(text string) error {
	if r.err != nil {
		return r.err
	}
	r.writes = append(r.writes, text)
	return nil
}

func (r *recordingClipboard) Name() string { return r.name }

type recordingSaver struct {
	name string
	data []byte
	err  error
}

func (r *recordingSaver) Save(name string, data []byte) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	r.name = name
	r.data = append([]byte(nil), data...)
	return "/tmp/" + name, nil
}

func TestCopyActiveOnEmptyFieldDoesNotTouchClipboard(t *testing.T) {
	primary := &recordingClipboard{name: "system"}
	fallback := &recordingClipboard{name: "osc52"}
	c := New(Config{Clipboard: primary, Fallback: fallback})

	_, err := c.CopyActive()
	var capErr *CapabilityUnavailableError
	require.ErrorAs(t, err, &capErr)
	assert.ErrorIs(t, err, ErrNothingToCopy)
	assert.Equal(t, "copy", capErr.Action)
	assert.Empty(t, primary.writes)
	assert.Empty(t, fallback.writes)
}

func TestCopyActiveUsesPrimaryClipboard(t *testing.T) {
	primary := &recordingClipboard{name: "system"}
	c := New(Config{Clipboard: primary})
	c.ApplyResult(abcd)
	c.SelectTab(TabCleaned)

	report, err := c.CopyActive()
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, primary.writes)
	assert.Equal(t, TabCleaned, report.Tab)
	assert.False(t, report.UsedFallback)
	assert.Equal(t, "system", report.Via)
}

func TestCopyActiveFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &recordingClipboard{name: "system", err: errors.New("no xclip")}
	fallback := &recordingClipboard{name: "osc52"}
	c := New(Config{Clipboard: primary, Fallback: fallback})
	c.ApplyResult(abcd)

	report, err := c.CopyActive()
	require.NoError(t, err)
	assert.True(t, report.UsedFallback)
	assert.Equal(t, []string{"D"}, fallback.writes)
}

func TestCopyActiveFallsBackWhenPrimaryMissing(t *testing.T) {
	fallback := &recordingClipboard{name: "osc52"}
	c := New(Config{Fallback: fallback})
	c.ApplyResult(abcd)

	report, err := c.CopyActive()
	require.NoError(t, err)
	assert.True(t, report.UsedFallback)
}

func TestCopyActiveReportsWhenEveryClipboardFails(t *testing.T) {
	c := New(Config{
		Clipboard: &recordingClipboard{name: "system", err: errors.New("no xclip")},
		Fallback:  &recordingClipboard{name: "osc52", err: errors.New("no tty")},
	})
	c.ApplyResult(abcd)

	_, err := c.CopyActive()
	var capErr *CapabilityUnavailableError
	require.ErrorAs(t, err, &capErr)
	assert.NotErrorIs(t, err, ErrNothingToCopy)
	assert.Contains(t, err.Error(), "no tty")
}

func TestDownloadActiveSavesExactBytes(t *testing.T) {
	saver := &recordingSaver{}
	c := New(Config{Saver: saver})
	c.ApplyResult(abcd)
	c.views.fields[TabFinal] = "hello"

	report, err := c.DownloadActive()
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), saver.data)
	assert.Equal(t, DefaultDownloadName, saver.name)
	assert.Equal(t, 5, report.Bytes)
	assert.Equal(t, "/tmp/"+DefaultDownloadName, report.Location)
}

func TestDownloadActiveOnEmptyField(t *testing.T) {
	saver := &recordingSaver{}
	c := New(Config{Saver: saver, DownloadName: "result.txt"})

	_, err := c.DownloadActive()
	assert.ErrorIs(t, err, ErrNothingToDownload)
	assert.Nil(t, saver.data)
	assert.Equal(t, "result.txt", c.DownloadName())
}

func TestActionsDoNotMutateState(t *testing.T) {
	c := New(Config{Clipboard: &recordingClipboard{name: "system"}, Saver: &recordingSaver{}})
	c.ApplyResult(abcd)
	c.SelectTab(TabRewritten)

	_, _ = c.CopyActive()
	_, _ = c.DownloadActive()
	assert.Equal(t, TabRewritten, c.ActiveTab())
	assert.Equal(t, Idle, c.State())
}
