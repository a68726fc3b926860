package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/dshills/riskwatch/internal/config"
	"github.com/dshills/riskwatch/internal/dashboard"
	"github.com/dshills/riskwatch/internal/demo"
	"github.com/dshills/riskwatch/internal/export"
	"github.com/dshills/riskwatch/internal/logging"
	"github.com/dshills/riskwatch/internal/notify"
	"github.com/dshills/riskwatch/internal/prompt"
	"github.com/dshills/riskwatch/internal/registry"
	"github.com/dshills/riskwatch/internal/report"
	"github.com/dshills/riskwatch/internal/schema"
	"github.com/dshills/riskwatch/internal/store"
	"github.com/dshills/riskwatch/internal/tracker"
	"github.com/dshills/riskwatch/internal/view"
	"github.com/dshills/riskwatch/internal/visualize"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// Exit codes: 1 generic, 2 topic not found, 3 invalid input, 4 storage
// failure, 5 external service failure.
const (
	exitGeneric  = 1
	exitNotFound = 2
	exitInput    = 3
	exitStorage  = 4
	exitExternal = 5
)

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	msg  string
}

func (e *exitErr) Error() string { return e.msg }

// codeError returns an exitErr for the given code.
func codeError(code int, format string, args ...any) error {
	return &exitErr{code: code, msg: fmt.Sprintf(format, args...)}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	dataDir    string
	configPath string
	verbose    bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.msg)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitGeneric)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "riskwatch",
		Short:         "Track calibrated probability assessments over time",
		Long:          "riskwatch records probability assessments for forecasting questions, keeps an append-only history of every revision, and reports which assessments are due for review.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.dataDir, "data-dir", "", "Data directory (default ./data)")
	pf.StringVar(&flags.configPath, "config", "", "Path to a YAML config file")
	pf.BoolVar(&flags.verbose, "verbose", false, "Print processing steps to stderr")

	root.AddCommand(
		newViewCmd(&flags),
		newUpdateCmd(&flags),
		newHistoryCmd(&flags),
		newStatusCmd(&flags),
		newReportCmd(&flags),
		newExportCmd(&flags),
		newVisualizeCmd(&flags),
		newWeeklyCmd(&flags),
		newNotifyCmd(&flags),
		newAddTopicCmd(&flags),
		newEditTopicCmd(&flags),
		newRemoveTopicCmd(&flags),
		newListTopicsCmd(&flags),
		newDemoCmd(&flags),
		newDashboardCmd(&flags),
	)
	return root
}

// setup loads the config and opens the store. Every command starts here.
func setup(flags *globalFlags) (config.Config, *store.Store, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return config.Config{}, nil, codeError(exitInput, "%s", err)
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return config.Config{}, nil, codeError(exitStorage, "opening data directory: %s", err)
	}
	return cfg, st, nil
}

// mapErr converts domain errors into exit-coded errors.
func mapErr(err error) error {
	var ee *exitErr
	if errors.As(err, &ee) {
		return err
	}
	var inputErr *tracker.InputError
	switch {
	case errors.Is(err, tracker.ErrNotFound), errors.Is(err, registry.ErrNotFound):
		return codeError(exitNotFound, "%s", err)
	case errors.As(err, &inputErr),
		errors.Is(err, registry.ErrExists),
		errors.Is(err, registry.ErrNotConfirmed),
		errors.Is(err, export.ErrUnknownFormat):
		return codeError(exitInput, "%s", err)
	case errors.Is(err, store.ErrCorrupt):
		return codeError(exitStorage, "%s", err)
	default:
		return codeError(exitGeneric, "%s", err)
	}
}

func newViewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view [topic]",
		Short: "Show current assessments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := setup(flags)
			if err != nil {
				return err
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			keys := d.SortedKeys()
			if len(args) == 1 {
				if _, ok := d.Topics[args[0]]; !ok {
					return codeError(exitNotFound, "topic %q not found", args[0])
				}
				keys = []string{args[0]}
			}
			fmt.Fprint(cmd.OutOrStdout(), view.Current(d, keys))
			return nil
		},
	}
}

// updateFlags allow scripted updates; when --probability is absent the
// command opens the interactive form instead.
type updateFlags struct {
	probability   int
	confidence    string
	drivers       string
	uncertainties string
	indicators    []string
	notes         string
}

func newUpdateCmd(flags *globalFlags) *cobra.Command {
	var uf updateFlags
	cmd := &cobra.Command{
		Use:   "update [topic]",
		Short: "Record a new probability assessment for a topic",
		Long:  "With a topic key, records one assessment. Without arguments, walks through every topic currently due for review.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := setup(flags)
			if err != nil {
				return err
			}
			logger := logging.New(cmd.ErrOrStderr(), flags.verbose)

			if len(args) == 0 {
				return reviewDue(cmd, cfg, st)
			}

			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			key := args[0]
			topic, ok := d.Topics[key]
			if !ok {
				return codeError(exitNotFound, "topic %q not found", key)
			}

			var in tracker.Input
			if cmd.Flags().Changed("probability") {
				in, err = inputFromFlags(uf)
				if err != nil {
					return codeError(exitInput, "%s", err)
				}
			} else {
				in, err = prompt.Assessment(topic, d.Assessments[key])
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
				if err != nil {
					return codeError(exitInput, "%s", err)
				}
			}

			logger.Debug("applying update", "topic", key, "probability", in.Probability)
			res, err := tracker.New(st, cfg).Update(key, in)
			if err != nil {
				return mapErr(err)
			}
			printUpdateResult(cmd, res)
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&uf.probability, "probability", 0, "New probability (1-100); skips the interactive form")
	f.StringVar(&uf.confidence, "confidence", "Medium", "Confidence: Low, Medium, or High")
	f.StringVar(&uf.drivers, "drivers", "", "Key drivers, comma-separated (max 3)")
	f.StringVar(&uf.uncertainties, "uncertainties", "", "Key uncertainties, comma-separated (max 3)")
	f.StringArrayVar(&uf.indicators, "indicator", nil, "Indicator status as name=status (may be repeated)")
	f.StringVar(&uf.notes, "notes", "", "Analyst notes")
	return cmd
}

func inputFromFlags(uf updateFlags) (tracker.Input, error) {
	in := tracker.Input{
		Probability:   uf.probability,
		Confidence:    schema.Confidence(uf.confidence),
		Drivers:       prompt.SplitList(uf.drivers),
		Uncertainties: prompt.SplitList(uf.uncertainties),
		Notes:         uf.notes,
	}
	if len(uf.indicators) > 0 {
		in.Indicators = make(map[string]schema.IndicatorStatus, len(uf.indicators))
		for _, spec := range uf.indicators {
			name, status, ok := strings.Cut(spec, "=")
			if !ok {
				return tracker.Input{}, fmt.Errorf("--indicator must be name=status, got %q", spec)
			}
			in.Indicators[strings.TrimSpace(name)] = schema.IndicatorStatus(strings.TrimSpace(status))
		}
	}
	return in, nil
}

func printUpdateResult(cmd *cobra.Command, res *tracker.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recorded %s: %d%% (%s)\n",
		res.Key, res.Entry.Probability, res.Entry.Descriptor)
	fmt.Fprintf(out, "Change: %s\n", view.DeltaLabel(res.Entry.Change))
	fmt.Fprintf(out, "Next review: %s\n", res.Assessment.NextReview)
}

// reviewDue runs the interactive form for every topic due for review.
// Aborting one form skips that topic and continues with the rest.
func reviewDue(cmd *cobra.Command, cfg config.Config, st *store.Store) error {
	out := cmd.OutOrStdout()
	d, err := st.Load()
	if err != nil {
		return mapErr(err)
	}

	due := tracker.Due(d, time.Now())
	if len(due) == 0 {
		fmt.Fprintln(out, "No assessments due for review.")
		return nil
	}
	tr := tracker.New(st, cfg)
	for _, key := range due {
		fmt.Fprintf(out, "\nReviewing %s: %s\n", key, d.Topics[key].Title)
		in, err := prompt.Assessment(d.Topics[key], d.Assessments[key])
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Fprintln(out, "Skipped.")
			continue
		}
		if err != nil {
			return codeError(exitInput, "%s", err)
		}
		res, err := tr.Update(key, in)
		if err != nil {
			return mapErr(err)
		}
		printUpdateResult(cmd, res)
	}
	return nil
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "history <topic>",
		Short: "Show the full assessment history for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := setup(flags)
			if err != nil {
				return err
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			topic, ok := d.Topics[args[0]]
			if !ok {
				return codeError(exitNotFound, "topic %q not found", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), view.History(topic, d.History[args[0]]))
			return nil
		},
	}
}

func newStatusCmd(flags *globalFlags) *cobra.Command {
	var checkOverdue bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which assessments are overdue, due soon, or current",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := setup(flags)
			if err != nil {
				return err
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			status := report.BuildStatus(d, time.Now(), cfg.DueSoonDays)
			fmt.Fprint(cmd.OutOrStdout(), report.RenderStatus(status))
			if checkOverdue && status.NeedsAttention() {
				if err := notify.Desktop(status); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "WARN: %s\n", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&checkOverdue, "check-overdue", false, "Also post a desktop notification when anything needs attention")
	return cmd
}

func newReportCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print a summary report with significant recent changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := setup(flags)
			if err != nil {
				return err
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			status := report.BuildStatus(d, time.Now(), cfg.DueSoonDays)
			fmt.Fprint(cmd.OutOrStdout(), report.RenderSummary(d, status, cfg.ChangeThreshold))
			return nil
		},
	}
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export assessments and history to CSV or Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := setup(flags)
			if err != nil {
				return err
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			exporter, err := export.New(format)
			if err != nil {
				return mapErr(err)
			}
			now := time.Now()
			data, err := exporter.Export(d, now)
			if err != nil {
				return mapErr(err)
			}
			if out == "" {
				out = export.DefaultFilename(format, now)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return codeError(exitStorage, "writing export: %s", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or markdown")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default: timestamped name in the current directory)")
	return cmd
}

func newVisualizeCmd(flags *globalFlags) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "visualize [topic]",
		Short: "Render probability charts as PNG files",
		Long:  "Without arguments, renders a timeline per topic plus the snapshot and comparison charts. With a topic key, renders only that topic's timeline.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := setup(flags)
			if err != nil {
				return err
			}
			if outDir != "" {
				cfg.OutputDir = outDir
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			viz := visualize.New(cfg.OutputDir)

			var files []string
			if len(args) == 1 {
				key := args[0]
				topic, ok := d.Topics[key]
				if !ok {
					return codeError(exitNotFound, "topic %q not found", key)
				}
				f, err := viz.Timeline(key, topic, d.History[key])
				if err != nil {
					return mapErr(err)
				}
				files = []string{f}
			} else {
				files, err = viz.All(d, time.Now())
				if err != nil {
					return mapErr(err)
				}
			}
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", f)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Chart output directory (default from config)")
	return cmd
}

func newWeeklyCmd(flags *globalFlags) *cobra.Command {
	var skipCharts bool
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Run the weekly review: update due topics, then report and visualize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := setup(flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			now := time.Now()

			if err := reviewDue(cmd, cfg, st); err != nil {
				return err
			}

			// Reload so the report reflects the updates just made.
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			status := report.BuildStatus(d, now, cfg.DueSoonDays)
			fmt.Fprint(out, report.RenderSummary(d, status, cfg.ChangeThreshold))

			if !skipCharts {
				files, err := visualize.New(cfg.OutputDir).All(d, now)
				if err != nil && !errors.Is(err, visualize.ErrNoData) {
					return mapErr(err)
				}
				for _, f := range files {
					fmt.Fprintf(out, "Saved %s\n", f)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipCharts, "skip-charts", false, "Skip chart generation")
	return cmd
}

func newNotifyCmd(flags *globalFlags) *cobra.Command {
	var useDesktop, dryRun bool
	var emailConfigPath string
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a review reminder for overdue and due-soon assessments",
		Long:  "Sends the reminder by email when SMTP settings are available (config file, --email-config, or EMAIL_* environment variables), otherwise falls back to a desktop notification.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := setup(flags)
			if err != nil {
				return err
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			now := time.Now()
			status := report.BuildStatus(d, now, cfg.DueSoonDays)
			out := cmd.OutOrStdout()

			if !status.NeedsAttention() {
				fmt.Fprintln(out, "All assessments are current; nothing to send.")
				return nil
			}

			if useDesktop {
				if err := notify.Desktop(status); err != nil {
					return codeError(exitExternal, "%s", err)
				}
				fmt.Fprintln(out, "Desktop notification sent.")
				return nil
			}

			body, err := notify.BuildBody(status, now)
			if err != nil {
				return codeError(exitGeneric, "%s", err)
			}
			subject := notify.Subject(status, now)
			if dryRun {
				fmt.Fprintf(out, "Subject: %s\n\n%s\n", subject, body)
				return nil
			}

			logger := logging.New(cmd.ErrOrStderr(), flags.verbose)
			emailCfg := cfg.Email
			if emailConfigPath != "" {
				emailCfg, err = loadEmailConfig(emailConfigPath)
				if err != nil {
					return codeError(exitInput, "%s", err)
				}
				logger.Debug("loaded email config", "path", emailConfigPath)
			}
			email, err := notify.ResolveEmail(emailCfg)
			if errors.Is(err, notify.ErrNoEmailConfig) {
				if err := notify.Desktop(status); err != nil {
					return codeError(exitExternal, "email not configured and %s", err)
				}
				fmt.Fprintln(out, "Email not configured; desktop notification sent instead.")
				return nil
			}
			if err != nil {
				return codeError(exitInput, "%s", err)
			}
			logger.Debug("sending reminder", "host", email.SMTPHost, "to", email.To)
			if err := notify.SendEmail(email, subject, body); err != nil {
				return codeError(exitExternal, "%s", err)
			}
			fmt.Fprintf(out, "Reminder sent to %s\n", strings.Join(email.To, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&emailConfigPath, "email-config", "", "JSON file with SMTP settings (overrides the main config)")
	cmd.Flags().BoolVar(&useDesktop, "desktop", false, "Post a desktop notification instead of emailing")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Print the email instead of sending it")
	return cmd
}

// loadEmailConfig reads a standalone JSON email configuration. The field
// names match the email_config.json layout (smtp_server, smtp_port,
// smtp_user, smtp_password, from_email, to_email).
func loadEmailConfig(path string) (*config.Email, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading email config: %w", err)
	}
	var e config.Email
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("parsing email config %q: %w", path, err)
	}
	return &e, nil
}

// topicFlags allow scripted topic creation; without --title the command
// opens the interactive form.
type topicFlags struct {
	title      string
	question   string
	horizon    string
	indicators string
}

func newAddTopicCmd(flags *globalFlags) *cobra.Command {
	var tf topicFlags
	cmd := &cobra.Command{
		Use:   "add-topic <key>",
		Short: "Register a new topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := setup(flags)
			if err != nil {
				return err
			}
			var topic schema.Topic
			if cmd.Flags().Changed("title") {
				topic = schema.Topic{
					Title:         tf.title,
					Question:      tf.question,
					Horizon:       tf.horizon,
					KeyIndicators: prompt.SplitList(tf.indicators),
				}
			} else {
				topic, err = prompt.NewTopic()
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
				if err != nil {
					return codeError(exitInput, "%s", err)
				}
			}
			if err := registry.New(st).Add(args[0], topic); err != nil {
				return mapErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added topic %s\n", args[0])
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&tf.title, "title", "", "Topic title; skips the interactive form")
	f.StringVar(&tf.question, "question", "", "The yes/no question being assessed")
	f.StringVar(&tf.horizon, "horizon", "3 months", "Assessment horizon")
	f.StringVar(&tf.indicators, "indicators", "", "Key indicators, comma-separated")
	return cmd
}

func newEditTopicCmd(flags *globalFlags) *cobra.Command {
	var tf topicFlags
	var replaceIndicators bool
	cmd := &cobra.Command{
		Use:   "edit-topic <key>",
		Short: "Edit a topic's title, question, horizon, or indicators",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := setup(flags)
			if err != nil {
				return err
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			key := args[0]
			current, ok := d.Topics[key]
			if !ok {
				return codeError(exitNotFound, "topic %q not found", key)
			}

			var edit registry.Edit
			if cmd.Flags().Changed("title") || cmd.Flags().Changed("question") ||
				cmd.Flags().Changed("horizon") || cmd.Flags().Changed("indicators") {
				edit = registry.Edit{
					Title:             valueOr(tf.title, current.Title),
					Question:          valueOr(tf.question, current.Question),
					Horizon:           valueOr(tf.horizon, current.Horizon),
					Indicators:        prompt.SplitList(tf.indicators),
					ReplaceIndicators: cmd.Flags().Changed("indicators") || replaceIndicators,
				}
			} else {
				edit, err = prompt.EditTopic(current)
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
				if err != nil {
					return codeError(exitInput, "%s", err)
				}
			}

			updated, err := registry.New(st).Update(key, edit)
			if err != nil {
				return mapErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated topic %s: %s\n", key, updated.Title)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&tf.title, "title", "", "New title")
	f.StringVar(&tf.question, "question", "", "New question")
	f.StringVar(&tf.horizon, "horizon", "", "New horizon")
	f.StringVar(&tf.indicators, "indicators", "", "New indicator list, comma-separated (replaces the old list)")
	f.BoolVar(&replaceIndicators, "replace-indicators", false, "Replace the indicator list even when --indicators is empty")
	return cmd
}

func valueOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

func newRemoveTopicCmd(flags *globalFlags) *cobra.Command {
	var confirm string
	cmd := &cobra.Command{
		Use:   "remove-topic <key>",
		Short: "Permanently remove a topic and its entire history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := setup(flags)
			if err != nil {
				return err
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			key := args[0]
			topic, ok := d.Topics[key]
			if !ok {
				return codeError(exitNotFound, "topic %q not found", key)
			}

			token := confirm
			if !cmd.Flags().Changed("confirm") {
				token, err = prompt.ConfirmRemoval(topic, len(d.History[key]))
				if errors.Is(err, huh.ErrUserAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
				if err != nil {
					return codeError(exitInput, "%s", err)
				}
			}

			if err := registry.New(st).Remove(key, token); err != nil {
				if errors.Is(err, registry.ErrNotConfirmed) {
					fmt.Fprintln(cmd.OutOrStdout(), "Removal cancelled.")
					return nil
				}
				return mapErr(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed topic %s and its history\n", key)
			return nil
		},
	}
	cmd.Flags().StringVar(&confirm, "confirm", "", fmt.Sprintf("Type %s to skip the interactive confirmation", registry.ConfirmToken))
	return cmd
}

func newListTopicsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list-topics",
		Short: "List all configured topics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := setup(flags)
			if err != nil {
				return err
			}
			d, err := st.Load()
			if err != nil {
				return mapErr(err)
			}
			fmt.Fprint(cmd.OutOrStdout(), view.Topics(d))
			return nil
		},
	}
}

func newDemoCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Populate the data directory with sample assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, st, err := setup(flags)
			if err != nil {
				return err
			}
			seeded, err := demo.Seed(st, time.Now())
			if errors.Is(err, demo.ErrDataExists) {
				return codeError(exitInput, "%s; remove the data directory to reseed", err)
			}
			if err != nil {
				return mapErr(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Seeded demo data for %d topics: %s\n", len(seeded), strings.Join(seeded, ", "))
			fmt.Fprintln(out, "Try: riskwatch view, riskwatch history iranian_collapse, riskwatch visualize")
			return nil
		},
	}
}

func newDashboardCmd(flags *globalFlags) *cobra.Command {
	var host string
	var port int
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Serve the read-only web dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, st, err := setup(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("host") {
				cfg.DashboardHost = host
			}
			if cmd.Flags().Changed("port") {
				cfg.DashboardPort = port
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving dashboard on http://%s:%d\n", cfg.DashboardHost, cfg.DashboardPort)
			srv := dashboard.New(st, cfg)
			srv.SetLogger(logging.New(cmd.ErrOrStderr(), flags.verbose))
			if err := srv.Run(); err != nil {
				return codeError(exitExternal, "dashboard server: %s", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "Host to bind to")
	cmd.Flags().IntVar(&port, "port", 5000, "Port to listen on")
	return cmd
}
