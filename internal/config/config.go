package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/csheth/dedupe/internal/controller"
	"github.com/csheth/dedupe/internal/host"
	"github.com/csheth/dedupe/internal/options"
	"github.com/csheth/dedupe/internal/service"
)

// Config is the full application configuration.
type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Options   OptionsConfig   `yaml:"options"`
	Download  DownloadConfig  `yaml:"download"`
	Clipboard ClipboardConfig `yaml:"clipboard"`
	Log       LogConfig       `yaml:"log"`
}

// ServiceConfig configures the remote processing service.
type ServiceConfig struct {
	Endpoint       string                 `yaml:"endpoint"`
	Timeout        time.Duration          `yaml:"timeout"`
	IntensityScale service.IntensityScale `yaml:"intensity_scale"`
}

// OptionsConfig holds the option panel defaults.
type OptionsConfig struct {
	RewriteMethods []string `yaml:"rewrite_methods"`
	AvoidMethods   []string `yaml:"avoid_methods"`
	Intensity      int      `yaml:"intensity"`
}

type DownloadConfig struct {
	Dir      string `yaml:"dir"`
	Filename string `yaml:"filename"`
}

type ClipboardConfig struct {
	OSC52Fallback bool `yaml:"osc52_fallback"`
}

type LogConfig struct {
	File string `yaml:"file"`
}

// DefaultConfig returns a configuration with every method enabled at medium intensity.
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			Endpoint:       service.DefaultEndpoint,
			IntensityScale: service.ScaleFraction,
		},
		Options: OptionsConfig{
			RewriteMethods: options.Tags(options.GroupRewrite),
			AvoidMethods:   options.Tags(options.GroupAvoid),
			Intensity:      options.DefaultIntensity,
		},
		Download: DownloadConfig{
			Dir:      host.DefaultDownloadDir(),
			Filename: controller.DefaultDownloadName,
		},
		Clipboard: ClipboardConfig{OSC52Fallback: true},
	}
}

// Validate reports every problem found, joined into one error.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(strings.TrimSpace(c.Service.Endpoint))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("service.endpoint: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("service.endpoint: scheme must be http or https, got %q", u.Scheme))
	case u.Host == "":
		errs = append(errs, errors.New("service.endpoint: missing host"))
	}
	if c.Service.Timeout < 0 {
		errs = append(errs, fmt.Errorf("service.timeout: must not be negative, got %s", c.Service.Timeout))
	}
	switch c.Service.IntensityScale {
	case service.ScaleFraction, service.ScaleRaw:
	default:
		errs = append(errs, fmt.Errorf("service.intensity_scale: unknown scale %q", c.Service.IntensityScale))
	}

	errs = append(errs, validateTags("options.rewrite_methods", options.GroupRewrite, c.Options.RewriteMethods)...)
	errs = append(errs, validateTags("options.avoid_methods", options.GroupAvoid, c.Options.AvoidMethods)...)
	if c.Options.Intensity < options.MinIntensity || c.Options.Intensity > options.MaxIntensity {
		errs = append(errs, fmt.Errorf("options.intensity: must be between %d and %d, got %d",
			options.MinIntensity, options.MaxIntensity, c.Options.Intensity))
	}

	name := strings.TrimSpace(c.Download.Filename)
	if name == "" {
		errs = append(errs, errors.New("download.filename: must not be empty"))
	} else if strings.ContainsAny(name, `/\`) {
		errs = append(errs, fmt.Errorf("download.filename: must be a bare file name, got %q", name))
	}

	return errors.Join(errs...)
}

func validateTags(field string, group options.Group, tags []string) []error {
	var errs []error
	for _, tag := range tags {
		if !options.Known(group, tag) {
			errs = append(errs, fmt.Errorf("%s: unknown method %q (known: %s)",
				field, tag, strings.Join(options.Tags(group), ", ")))
		}
	}
	return errs
}

// PanelDefaults converts the option section into the panel's initial state.
func (c *Config) PanelDefaults() options.Defaults {
	return options.Defaults{
		RewriteMethods: c.Options.RewriteMethods,
		AvoidMethods:   c.Options.AvoidMethods,
		Intensity:      c.Options.Intensity,
	}
}

// ClientConfig converts the service section for service.New.
func (c *Config) ClientConfig() service.Config {
	return service.Config{
		Endpoint:       c.Service.Endpoint,
		Timeout:        c.Service.Timeout,
		IntensityScale: c.Service.IntensityScale,
	}
}
