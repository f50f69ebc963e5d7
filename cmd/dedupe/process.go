package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/dedupe/internal/compare"
	"github.com/csheth/dedupe/internal/controller"
	"github.com/csheth/dedupe/internal/options"
	"github.com/csheth/dedupe/internal/source"
)

type processFlags struct {
	input     string
	rewrite   []string
	avoid     []string
	intensity int
	stage     string
	asJSON    bool
	download  bool
	copy      bool
	verbose   bool
}

type processOutput struct {
	RequestID  string  `json:"request_id"`
	Original   string  `json:"original_text"`
	Cleaned    string  `json:"cleaned_text"`
	Rewritten  string  `json:"rewritten_text"`
	Final      string  `json:"final_text"`
	ChangeRate float64 `json:"change_rate"`
	DurationMS int64   `json:"duration_ms"`
}

func newProcessCommand(root *rootFlags) *cobra.Command {
	flags := &processFlags{}
	cmd := &cobra.Command{
		Use:   "process",
		Short: "Process text once without the interactive UI",
		Long: `Send a single draft to the processing service and print one stage of the result.

Text is read from --input or from stdin. Method and intensity flags override the
configured defaults; pass --rewrite none or --avoid none to disable a group.`,
		Example: `  dedupe process -i draft.txt
  cat draft.txt | dedupe process --rewrite synonym,word_order --intensity 8
  dedupe process -i paper.pdf --json > result.json
  dedupe process -i draft.md --stage rewritten --download`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, root, flags)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.input, "input", "i", "", "read text from a .txt, .md or .pdf file or http(s) URL instead of stdin")
	f.StringSliceVar(&flags.rewrite, "rewrite", nil, "rewrite methods: "+strings.Join(options.Tags(options.GroupRewrite), ", "))
	f.StringSliceVar(&flags.avoid, "avoid", nil, "AI-detection avoidance methods: "+strings.Join(options.Tags(options.GroupAvoid), ", "))
	f.IntVar(&flags.intensity, "intensity", 0, fmt.Sprintf("processing intensity %d-%d", options.MinIntensity, options.MaxIntensity))
	f.StringVar(&flags.stage, "stage", string(controller.TabFinal), "stage to print: final, rewritten, cleaned or original")
	f.BoolVar(&flags.asJSON, "json", false, "print all four stages as JSON")
	f.BoolVar(&flags.download, "download", false, "also save the selected stage into the download directory")
	f.BoolVar(&flags.copy, "copy", false, "also copy the selected stage to the clipboard")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "log request details to stderr")
	return cmd
}

func runProcess(cmd *cobra.Command, root *rootFlags, flags *processFlags) error {
	log.SetOutput(io.Discard)
	if flags.verbose {
		log.SetOutput(cmd.ErrOrStderr())
	}

	cfg, err := loadConfig(cmd, root)
	if err != nil {
		return err
	}
	tab, ok := controller.ParseTab(flags.stage)
	if !ok {
		return fmt.Errorf("unknown stage %q", flags.stage)
	}

	defaults := cfg.PanelDefaults()
	changed := cmd.Flags().Changed
	if changed("rewrite") {
		if defaults.RewriteMethods, err = methodFlag(options.GroupRewrite, flags.rewrite); err != nil {
			return err
		}
	}
	if changed("avoid") {
		if defaults.AvoidMethods, err = methodFlag(options.GroupAvoid, flags.avoid); err != nil {
			return err
		}
	}
	if changed("intensity") {
		if flags.intensity < options.MinIntensity || flags.intensity > options.MaxIntensity {
			return fmt.Errorf("--intensity must be between %d and %d", options.MinIntensity, options.MaxIntensity)
		}
		defaults.Intensity = flags.intensity
	}

	text, err := readInput(cmd, flags.input)
	if err != nil {
		return err
	}
	opts := options.Collect(options.NewPanel(defaults).WithText(text))

	ctrl, err := buildController(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if err := ctrl.Process(cmd.Context(), opts); err != nil {
		var verr *controller.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("nothing to process: %s", verr.Reason)
		}
		return err
	}
	ctrl.SelectTab(tab)

	out := cmd.OutOrStdout()
	if flags.asJSON {
		if err := writeJSON(out, ctrl); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, ctrl.ActiveContent())
	}

	stderr := cmd.ErrOrStderr()
	if flags.download {
		report, err := ctrl.DownloadActive()
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "saved %s text (%d bytes) to %s\n", strings.ToLower(report.Tab.Label()), report.Bytes, report.Location)
	}
	if flags.copy {
		report, err := ctrl.CopyActive()
		if err != nil {
			return err
		}
		fmt.Fprintf(stderr, "copied %d characters via %s\n", report.Chars, report.Via)
	}
	return nil
}

func methodFlag(group options.Group, values []string) ([]string, error) {
	if len(values) == 1 && strings.EqualFold(values[0], "none") {
		return []string{}, nil
	}
	tags := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if !options.Known(group, v) {
			return nil, fmt.Errorf("unknown %s method %q (known: %s)", group, v, strings.Join(options.Tags(group), ", "))
		}
		tags = append(tags, v)
	}
	return tags, nil
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	if path != "" && path != "-" {
		text, err := source.Open(cmd.Context(), path)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return text, nil
	}
	data, err := io.ReadAll(io.LimitReader(cmd.InOrStdin(), source.MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	if len(data) > source.MaxFileSize {
		return "", fmt.Errorf("stdin: %w", source.ErrTooLarge)
	}
	return string(data), nil
}

func writeJSON(w io.Writer, ctrl *controller.Controller) error {
	payload := processOutput{
		Original:   ctrl.Field(controller.TabOriginal),
		Cleaned:    ctrl.Field(controller.TabCleaned),
		Rewritten:  ctrl.Field(controller.TabRewritten),
		Final:      ctrl.Field(controller.TabFinal),
		ChangeRate: compare.ChangeRate(ctrl.Field(controller.TabCleaned), ctrl.Field(controller.TabFinal)),
	}
	if outcome, ok := ctrl.LastOutcome(); ok {
		payload.RequestID = outcome.ID
		payload.DurationMS = outcome.Duration().Milliseconds()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(payload)
}
