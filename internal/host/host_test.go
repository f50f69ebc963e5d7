package host

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSaverWritesExactBytes(t *testing.T) {
	dir := t.TempDir()
	saver := DirSaver{Dir: dir}

	path, err := saver.Save("论文降重结果.txt", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "论文降重结果.txt"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
}

func TestDirSaverNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	saver := DirSaver{Dir: dir}

	first, err := saver.Save("result.txt", []byte("one"))
	require.NoError(t, err)
	second, err := saver.Save("result.txt", []byte("two"))
	require.NoError(t, err)
	third, err := saver.Save("result.txt", []byte("three"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "result (1).txt"), second)
	assert.Equal(t, filepath.Join(dir, "result (2).txt"), third)

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Equal(t, "one", string(data))
}

func TestDirSaverStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	path, err := DirSaver{Dir: dir}.Save("../../escape.txt", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.txt"), path)

	_, err = DirSaver{Dir: dir}.Save("  ", []byte("x"))
	assert.Error(t, err)
}

func TestDirSaverCreatesMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "downloads")
	path, err := DirSaver{Dir: dir}.Save("out.txt", []byte("x"))
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestTerminalClipboardEmitsOSC52(t *testing.T) {
	t.Setenv("TMUX", "")
	t.Setenv("STY", "")
	var buf bytes.Buffer
	cb := &TerminalClipboard{Out: &buf}

	require.NoError(t, cb.WriteText("hello"))
	out := buf.String()
	assert.Contains(t, out, "\x1b]52;c;")
	assert.Contains(t, out, base64.StdEncoding.EncodeToString([]byte("hello")))
}
