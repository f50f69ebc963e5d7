package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/dedupe/internal/config"
	"github.com/csheth/dedupe/internal/controller"
	"github.com/csheth/dedupe/internal/host"
	"github.com/csheth/dedupe/internal/service"
	"github.com/csheth/dedupe/internal/source"
	"github.com/csheth/dedupe/internal/tui"
)

type rootFlags struct {
	configPath  string
	endpoint    string
	downloadDir string
	logFile     string
	input       string
	watch       bool
	noAltScreen bool
}

func newRootCommand(version, commit string) *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Terminal client for the text de-duplication service",
		Long: `dedupe sends a draft to the rewrite service and shows the original, cleaned,
rewritten and final texts side by side, ready to copy or download.

Without a subcommand it starts the interactive terminal UI.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "config file path (default ./.dedupe.yaml or ~/.config/dedupe/config.yaml)")
	pf.StringVar(&flags.endpoint, "endpoint", "", "processing service URL (default "+service.DefaultEndpoint+")")
	pf.StringVar(&flags.downloadDir, "download-dir", "", "directory for downloaded results")
	pf.StringVar(&flags.logFile, "log-file", "", "append debug logs to this file")

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "pre-fill the input with a .txt, .md or .pdf file or http(s) URL")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "reload the input file whenever it changes")
	cmd.Flags().BoolVar(&flags.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")

	cmd.AddCommand(newProcessCommand(flags))
	cmd.AddCommand(newVersionCommand(version, commit))
	return cmd
}

// loadConfig layers flags over the file and environment configuration.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg, path, err := config.NewLoader().Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if path != "" {
		log.Printf("[config] loaded %s", path)
	}
	changed := cmd.Flags().Changed
	if changed("endpoint") {
		cfg.Service.Endpoint = flags.endpoint
	}
	if changed("download-dir") {
		cfg.Download.Dir = flags.downloadDir
	}
	if changed("log-file") {
		cfg.Log.File = flags.logFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

func buildController(cfg *config.Config, terminal io.Writer) (*controller.Controller, error) {
	client, err := service.New(cfg.ClientConfig())
	if err != nil {
		return nil, err
	}
	var fallback controller.Clipboard
	if cfg.Clipboard.OSC52Fallback {
		fallback = &host.TerminalClipboard{Out: terminal}
	}
	return controller.New(controller.Config{
		Client:       client,
		Clipboard:    host.SystemClipboard{},
		Fallback:     fallback,
		Saver:        host.DirSaver{Dir: cfg.Download.Dir},
		DownloadName: cfg.Download.Filename,
	}), nil
}

func runTUI(cmd *cobra.Command, flags *rootFlags) error {
	log.SetOutput(io.Discard)
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}
	if cfg.Log.File != "" {
		logFile, err := tea.LogToFile(cfg.Log.File, "dedupe")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()
	}

	ctrl, err := buildController(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	tuiConfig := tui.Config{
		Controller: ctrl,
		Options:    cfg.PanelDefaults(),
		Endpoint:   cfg.Service.Endpoint,
	}
	if flags.watch && flags.input == "" {
		return errors.New("--watch requires --input")
	}
	if flags.watch && source.IsRemote(flags.input) {
		return errors.New("--watch only works with local files")
	}
	if flags.input != "" {
		text, err := source.Open(cmd.Context(), flags.input)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		tuiConfig.InitialText = text
		tuiConfig.InputPath = flags.input
	}
	if flags.watch {
		watcher, err := source.Watch(flags.input)
		if err != nil {
			return err
		}
		defer watcher.Close()
		tuiConfig.Updates = watcher.Updates()
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	tuiConfig.Context = ctx

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if !flags.noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tuiConfig), opts...)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func newVersionCommand(version, commit string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			displayCommit := commit
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dedupe %s (%s)\n", displayVersion, displayCommit)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
