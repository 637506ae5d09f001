// Package main provides the CLI entrypoint for typetrain.
package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typetrain/internal/apperr"
	"github.com/verte-zerg/typetrain/internal/config"
	"github.com/verte-zerg/typetrain/internal/logging"
	"github.com/verte-zerg/typetrain/internal/model"
	"github.com/verte-zerg/typetrain/internal/stats"
	"github.com/verte-zerg/typetrain/internal/statsui"
	"github.com/verte-zerg/typetrain/internal/store"
	"github.com/verte-zerg/typetrain/internal/textsource"
	"github.com/verte-zerg/typetrain/internal/tui"
)

const (
	defaultCurveWindow = 20
	defaultGenWords    = 25
	defaultPunctSet    = ".,!?;:'\"()-"
	plainPlotHeight    = 10
)

type practiceOptions struct {
	wrap   bool
	debug  bool
	dir    string
	file   string
	margin int
}

type statsOptions struct {
	text        string
	last        int
	curveWindow int
	plain       bool
}

type generateOptions struct {
	wordlist string
	words    int
	caps     float64
	punct    float64
	punctSet string
	name     string
	force    bool
}

func main() {
	rootCmd := newRootCmd()
	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return
	}
	_, _ = color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)
	if apperr.IsKind(err, apperr.KindInvalidArgument) {
		fmt.Fprint(os.Stderr, cmd.UsageString())
	}
	os.Exit(apperr.ExitCode(err))
}

func newRootCmd() *cobra.Command {
	opts := &practiceOptions{}
	rootCmd := &cobra.Command{
		Use:           "typetrain",
		Short:         "Terminal typing trainer",
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPracticeCmd(cmd, opts)
		},
	}
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperr.InvalidArgument(err)
	})

	bindPracticeFlags(rootCmd, opts)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newTextsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func bindPracticeFlags(cmd *cobra.Command, opts *practiceOptions) {
	cmd.Flags().BoolVar(&opts.wrap, "wrap", false, "wrap the text at terminal width instead of scrolling")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "write diagnostics to stderr")
	cmd.Flags().StringVar(&opts.dir, "dir", config.DefaultTextsDir(), "directory of sample texts")
	cmd.Flags().StringVar(&opts.file, "file", "", "practice a specific sample file")
	cmd.Flags().IntVar(&opts.margin, "margin", tui.DefaultMargin, "look-ahead columns kept right of the cursor when scrolling")
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return apperr.InvalidArgument(err)
		}
		return nil
	}
}

func newLogger(debug bool, w io.Writer) *logging.Logger {
	level := logging.INFO
	if debug {
		level = logging.DEBUG
	}
	return logging.New(logging.WithOutput(w), logging.WithLevel(level), logging.WithPrefix("typetrain"))
}

func buildPracticeConfig(cmd *cobra.Command, opts *practiceOptions) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyBoolConfig(cmd, "wrap", &opts.wrap, fileCfg.Practice.Wrap)
	applyBoolConfig(cmd, "debug", &opts.debug, fileCfg.Practice.Debug)
	applyStringConfig(cmd, "dir", &opts.dir, fileCfg.Practice.TextsDir)
	applyIntConfig(cmd, "margin", &opts.margin, fileCfg.Practice.Margin)

	if opts.margin < 0 {
		return model.Config{}, apperr.InvalidArgument(fmt.Errorf("--margin must be >= 0"))
	}
	if opts.file == "" && strings.TrimSpace(opts.dir) == "" {
		return model.Config{}, apperr.InvalidArgument(fmt.Errorf("--dir must not be empty"))
	}
	mode := model.ModeScroll
	if opts.wrap {
		mode = model.ModeWrap
	}
	return model.Config{
		Mode:       mode,
		Debug:      opts.debug,
		TextsDir:   opts.dir,
		TextFile:   opts.file,
		ScoresPath: config.DefaultScoresPath(),
		Margin:     opts.margin,
	}, nil
}

func runPracticeCmd(cmd *cobra.Command, opts *practiceOptions) error {
	cfg, err := buildPracticeConfig(cmd, opts)
	if err != nil {
		return err
	}
	log := newLogger(cfg.Debug, cmd.ErrOrStderr())
	log.Debugf("mode=%s margin=%d scores=%s", cfg.Mode, cfg.Margin, cfg.ScoresPath)

	sample, err := selectSample(cfg, log)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.ScoresPath)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return apperr.ResourceUnavailable(nil, "stdin is not a terminal")
	}

	m := tui.NewModel(cfg, sample, st, nil)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}

	res := m.Result()
	if res.Aborted {
		log.Infof("session aborted; score not recorded")
		return nil
	}
	if !res.Finished {
		return nil
	}
	printResults(cmd.OutOrStdout(), res)
	if res.SaveErr != nil {
		return res.SaveErr
	}
	log.Debugf("appended score to %s", st.Path())
	return nil
}

func selectSample(cfg model.Config, log *logging.Logger) (textsource.Sample, error) {
	if cfg.TextFile != "" {
		log.Debugf("reading %s", cfg.TextFile)
		return textsource.Load(cfg.TextFile)
	}
	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	sample, err := textsource.PickRandom(cfg.TextsDir, rnd)
	if err != nil {
		return textsource.Sample{}, err
	}
	log.Debugf("reading %s", sample.Path)
	return sample, nil
}

func printResults(w io.Writer, res tui.Result) {
	label := color.New(color.FgHiBlack)
	value := color.New(color.FgYellow, color.Bold)
	fields := []struct {
		name  string
		value string
	}{
		{"WPM", fmt.Sprintf("%.2f", res.Metrics.WPM)},
		{"CPM", fmt.Sprintf("%.2f", res.Metrics.CPM)},
		{"Accuracy", fmt.Sprintf("%.2f%%", res.Metrics.Accuracy)},
		{"Consistency", fmt.Sprintf("%.2f%%", res.Metrics.Consistency)},
	}
	parts := make([]string, 0, len(fields)+1)
	for _, f := range fields {
		parts = append(parts, label.Sprint(f.name+" ")+value.Sprint(f.value))
	}
	parts = append(parts, label.Sprint(res.TextID))
	fmt.Fprintln(w, strings.Join(parts, "  "))
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  usageArgs(cobra.NoArgs),
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newTextsCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "texts [query]",
		Short: "List sample texts",
		Args:  usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTextsCmd(cmd, dir, args)
		},
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", config.DefaultTextsDir(), "directory of sample texts")
	cmd.AddCommand(newGenerateCmd(&dir))
	return cmd
}

func runTextsCmd(cmd *cobra.Command, dir string, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dir", &dir, fileCfg.Practice.TextsDir)

	names, err := textsource.ListTexts(dir)
	if err != nil {
		return err
	}
	query := ""
	if len(args) == 1 {
		query = args[0]
	}
	matches := textsource.MatchTexts(names, query)
	if len(matches) == 0 {
		newLogger(false, cmd.ErrOrStderr()).Warnf("no sample texts found in %s", dir)
		return nil
	}
	for _, name := range matches {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newGenerateCmd(dir *string) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a sample text from a word list",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerateCmd(cmd, *dir, opts)
		},
	}
	cmd.Flags().StringVar(&opts.wordlist, "wordlist", "", "word list file, one word per line")
	cmd.Flags().IntVar(&opts.words, "words", defaultGenWords, "words per text")
	cmd.Flags().Float64Var(&opts.caps, "caps", 0, "probability of capitalized first letter (0-1)")
	cmd.Flags().Float64Var(&opts.punct, "punct", 0, "punctuation probability per word (0-1)")
	cmd.Flags().StringVar(&opts.punctSet, "punct-set", defaultPunctSet, "punctuation set")
	cmd.Flags().StringVar(&opts.name, "name", "", "file name of the new sample (default: generated-<timestamp>.txt)")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing sample")
	return cmd
}

func validateGenerateOptions(opts *generateOptions) error {
	if opts.wordlist == "" {
		return apperr.InvalidArgument(fmt.Errorf("--wordlist is required"))
	}
	if opts.words <= 0 {
		return apperr.InvalidArgument(fmt.Errorf("--words must be > 0"))
	}
	if opts.caps < 0 || opts.caps > 1 {
		return apperr.InvalidArgument(fmt.Errorf("--caps must be between 0 and 1"))
	}
	if opts.punct < 0 || opts.punct > 1 {
		return apperr.InvalidArgument(fmt.Errorf("--punct must be between 0 and 1"))
	}
	if opts.punct > 0 && opts.punctSet == "" {
		return apperr.InvalidArgument(fmt.Errorf("--punct-set must not be empty"))
	}
	for _, r := range opts.punctSet {
		if r < 33 || r > 126 {
			return apperr.InvalidArgument(fmt.Errorf("--punct-set must contain printable ASCII only"))
		}
	}
	return nil
}

func runGenerateCmd(cmd *cobra.Command, dir string, opts *generateOptions) error {
	if err := validateGenerateOptions(opts); err != nil {
		return err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "dir", &dir, fileCfg.Practice.TextsDir)

	words, err := textsource.LoadWords(opts.wordlist)
	if err != nil {
		return apperr.ResourceUnavailable(err, "failed to load word list %s", opts.wordlist)
	}
	name := opts.name
	if name == "" {
		name = fmt.Sprintf("generated-%d.txt", time.Now().Unix())
	}
	gen := textsource.NewGenerator(rand.New(rand.NewSource(time.Now().UnixNano())))
	text := gen.Generate(words, textsource.GenerateOptions{
		Words:    opts.words,
		CapsPct:  opts.caps,
		PunctPct: opts.punct,
		PunctSet: []rune(opts.punctSet),
	})
	path, err := textsource.WriteSample(dir, name, text, opts.force)
	if err != nil {
		return err
	}
	newLogger(false, cmd.ErrOrStderr()).Infof("wrote %s", path)
	return nil
}

func newStatsCmd() *cobra.Command {
	opts := &statsOptions{}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatsCmd(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.text, "text", "", "fuzzy filter on sample text name")
	cmd.Flags().IntVar(&opts.last, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&opts.curveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "print a plain report instead of the interactive view")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, opts *statsOptions) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "curve-window", &opts.curveWindow, fileCfg.Stats.CurveWindow)
	if opts.last < 0 {
		return apperr.InvalidArgument(fmt.Errorf("--last must be >= 0"))
	}
	if opts.curveWindow < 1 {
		return apperr.InvalidArgument(fmt.Errorf("--curve-window must be >= 1"))
	}
	cfg := model.StatsConfig{
		Text:        opts.text,
		Last:        opts.last,
		CurveWindow: opts.curveWindow,
	}

	st, err := store.Open(config.DefaultScoresPath())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if opts.plain || !isTerminal(out) {
		return renderPlainStats(cmd.Context(), out, st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlainStats(ctx context.Context, w io.Writer, src stats.Source, cfg model.StatsConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, src, cfg)
	if err != nil {
		return err
	}
	if err := stats.RenderSummary(w, report.Records); err != nil {
		return err
	}
	width := 0
	if f, ok := w.(*os.File); ok {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			width = cols
		}
	}
	if err := stats.RenderCurves(w, report.Records, cfg.CurveWindow, width, plainPlotHeight, false); err != nil {
		return err
	}
	if len(report.Records) == 0 {
		return nil
	}
	return stats.RenderTextTable(w, report.Texts)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typetrain configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# wrap = false            # Wrap the text instead of scrolling
# debug = false           # Write diagnostics to stderr
# texts-dir = %q
# margin = %d             # Look-ahead columns when scrolling

[stats]
# curve-window = %d       # Moving average window
`,
		config.DefaultTextsDir(),
		tui.DefaultMargin,
		defaultCurveWindow,
	)
}
