package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/csheth/dedupe/internal/service"
)

// ConfigPaths lists the config files searched in priority order. Only the
// first one that exists is read.
var ConfigPaths = []string{
	"./.dedupe.yaml",
	"~/.config/dedupe/config.yaml",
}

// Loader builds a Config from defaults, a YAML file and DEDUPE_* environment variables.
type Loader struct {
	configPaths []string
	getenv      func(string) string
}

func NewLoader() *Loader {
	return &Loader{configPaths: ConfigPaths, getenv: os.Getenv}
}

// Load returns the validated configuration. customPath, when set, replaces
// the search paths and must exist. Callers apply flag overrides afterwards and
// call Validate again.
func (l *Loader) Load(customPath string) (*Config, string, error) {
	cfg := DefaultConfig()

	var used string
	if customPath != "" {
		path := expandPath(customPath)
		if err := loadFile(cfg, path); err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", path, err)
		}
		used = path
	} else if path, ok := l.find(); ok {
		if err := loadFile(cfg, path); err != nil {
			return nil, "", fmt.Errorf("load config %s: %w", path, err)
		}
		used = path
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, "", fmt.Errorf("apply environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, used, nil
}

func (l *Loader) find() (string, bool) {
	for _, p := range l.configPaths {
		path := expandPath(p)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	// Keys absent from the file keep their defaults; lists present in the file replace them.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse YAML: %w", err)
	}
	cfg.Download.Dir = expandPath(cfg.Download.Dir)
	cfg.Log.File = expandPath(cfg.Log.File)
	return nil
}

func (l *Loader) applyEnv(cfg *Config) error {
	setters := map[string]func(string) error{
		"DEDUPE_SERVICE_ENDPOINT": func(v string) error { cfg.Service.Endpoint = v; return nil },
		"DEDUPE_SERVICE_TIMEOUT": func(v string) error {
			d, err := time.ParseDuration(v)
			if err != nil {
				return err
			}
			cfg.Service.Timeout = d
			return nil
		},
		"DEDUPE_SERVICE_INTENSITY_SCALE": func(v string) error {
			cfg.Service.IntensityScale = service.IntensityScale(v)
			return nil
		},
		"DEDUPE_OPTIONS_REWRITE_METHODS": func(v string) error { cfg.Options.RewriteMethods = splitList(v); return nil },
		"DEDUPE_OPTIONS_AVOID_METHODS":   func(v string) error { cfg.Options.AvoidMethods = splitList(v); return nil },
		"DEDUPE_OPTIONS_INTENSITY": func(v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return err
			}
			cfg.Options.Intensity = n
			return nil
		},
		"DEDUPE_DOWNLOAD_DIR":      func(v string) error { cfg.Download.Dir = expandPath(v); return nil },
		"DEDUPE_DOWNLOAD_FILENAME": func(v string) error { cfg.Download.Filename = v; return nil },
		"DEDUPE_CLIPBOARD_OSC52_FALLBACK": func(v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			cfg.Clipboard.OSC52Fallback = b
			return nil
		},
		"DEDUPE_LOG_FILE": func(v string) error { cfg.Log.File = expandPath(v); return nil },
	}

	for name, set := range setters {
		if v := strings.TrimSpace(l.getenv(name)); v != "" {
			if err := set(v); err != nil {
				return fmt.Errorf("invalid value for %s: %w", name, err)
			}
		}
	}
	return nil
}

// splitList accepts comma separated tags; "none" clears the list.
func splitList(v string) []string {
	if strings.EqualFold(v, "none") {
		return []string{}
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
