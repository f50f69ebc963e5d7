package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/dedupe/internal/options"
	"github.com/csheth/dedupe/internal/service"
)

func newTestLoader(paths []string, env map[string]string) *Loader {
	return &Loader{
		configPaths: paths,
		getenv:      func(k string) string { return env[k] },
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, service.DefaultEndpoint, cfg.Service.Endpoint)
	assert.Equal(t, options.DefaultIntensity, cfg.Options.Intensity)
	assert.Equal(t, options.Tags(options.GroupRewrite), cfg.Options.RewriteMethods)
	assert.Equal(t, options.Tags(options.GroupAvoid), cfg.Options.AvoidMethods)
	assert.Equal(t, "论文降重结果.txt", cfg.Download.Filename)
	assert.True(t, cfg.Clipboard.OSC52Fallback)
	assert.Zero(t, cfg.Service.Timeout)
}

func TestLoadWithoutFilesUsesDefaults(t *testing.T) {
	l := newTestLoader([]string{filepath.Join(t.TempDir(), "missing.yaml")}, nil)
	cfg, used, err := l.Load("")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, DefaultConfig().Options, cfg.Options)
}

func TestLoadFirstExistingFileWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.yaml")
	second := filepath.Join(dir, "second.yaml")
	require.NoError(t, os.WriteFile(second, []byte("options:\n  intensity: 2\n"), 0o600))
	require.NoError(t, os.WriteFile(first, []byte(`service:
  endpoint: "https://rewrite.example.com/process"
  timeout: 45s
options:
  rewrite_methods: [synonym]
  intensity: 8
clipboard:
  osc52_fallback: false
`), 0o600))

	cfg, used, err := newTestLoader([]string{first, second}, nil).Load("")
	require.NoError(t, err)
	assert.Equal(t, first, used)
	assert.Equal(t, "https://rewrite.example.com/process", cfg.Service.Endpoint)
	assert.Equal(t, 45*time.Second, cfg.Service.Timeout)
	assert.Equal(t, []string{"synonym"}, cfg.Options.RewriteMethods)
	assert.Equal(t, options.Tags(options.GroupAvoid), cfg.Options.AvoidMethods, "unset keys keep defaults")
	assert.Equal(t, 8, cfg.Options.Intensity)
	assert.False(t, cfg.Clipboard.OSC52Fallback)
}

func TestLoadCustomPathMustExist(t *testing.T) {
	_, _, err := newTestLoader(nil, nil).Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("options:\n  intensity: 3\n"), 0o600))

	env := map[string]string{
		"DEDUPE_OPTIONS_INTENSITY":        "9",
		"DEDUPE_OPTIONS_AVOID_METHODS":    "none",
		"DEDUPE_OPTIONS_REWRITE_METHODS":  "word_order, synonym",
		"DEDUPE_SERVICE_INTENSITY_SCALE":  "raw",
		"DEDUPE_CLIPBOARD_OSC52_FALLBACK": "false",
	}
	cfg, _, err := newTestLoader(nil, env).Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Options.Intensity)
	assert.Empty(t, cfg.Options.AvoidMethods)
	assert.Equal(t, []string{"word_order", "synonym"}, cfg.Options.RewriteMethods)
	assert.Equal(t, service.ScaleRaw, cfg.Service.IntensityScale)
	assert.False(t, cfg.Clipboard.OSC52Fallback)
}

func TestEnvironmentRejectsMalformedValues(t *testing.T) {
	env := map[string]string{"DEDUPE_SERVICE_TIMEOUT": "soon"}
	_, _, err := newTestLoader(nil, env).Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEDUPE_SERVICE_TIMEOUT")
}

func TestValidateCollectsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.Endpoint = "ftp://example.com"
	cfg.Service.IntensityScale = "percent"
	cfg.Options.RewriteMethods = []string{"synonym", "paraphrase"}
	cfg.Options.Intensity = 11
	cfg.Download.Filename = "../out.txt"

	err := cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{"service.endpoint", "intensity_scale", `"paraphrase"`, "options.intensity", "download.filename"} {
		assert.Contains(t, msg, want)
	}
}

func TestConversions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Service.Timeout = 5 * time.Second
	cfg.Options.Intensity = 7

	sc := cfg.ClientConfig()
	assert.Equal(t, cfg.Service.Endpoint, sc.Endpoint)
	assert.Equal(t, 5*time.Second, sc.Timeout)

	d := cfg.PanelDefaults()
	assert.Equal(t, 7, d.Intensity)
	assert.Equal(t, cfg.Options.RewriteMethods, d.RewriteMethods)
}

func TestLoadExpandsHomeInFilePaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(t.TempDir(), "dedupe.yaml")
	require.NoError(t, os.WriteFile(path, []byte("download:\n  dir: ~/Downloads/dedupe\nlog:\n  file: ~/dedupe.log\n"), 0o600))

	cfg, _, err := newTestLoader(nil, nil).Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Downloads", "dedupe"), cfg.Download.Dir)
	assert.Equal(t, filepath.Join(home, "dedupe.log"), cfg.Log.File)
}
