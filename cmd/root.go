// Package cmd implements the machq command line.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/machq/internal/completion"
	"github.com/oakwood-commons/machq/internal/config"
	"github.com/oakwood-commons/machq/internal/limiter"
	"github.com/oakwood-commons/machq/internal/source"
	"github.com/oakwood-commons/machq/pkg/core"
	"github.com/oakwood-commons/machq/pkg/logger"
	"github.com/oakwood-commons/machq/pkg/settings"
	"github.com/oakwood-commons/machq/pkg/tui"
)

// rootOptions holds the root command flags.
type rootOptions struct {
	flags *pflag.FlagSet

	query       string
	compile     bool
	interactive bool
	dialect     string
	engine      string
	fieldMatch  string
	output      string
	source      string
	records     int
	seed        uint64
	table       string
	theme       string
	configFile  string
	debug       bool
	noColor     bool
	snapshot    bool
	press       []string
	width       int
	height      int
	limit       int
	offset      int
	tail        int
}

func (o *rootOptions) changed(name string) bool {
	if o.flags == nil {
		return false
	}
	f := o.flags.Lookup(name)
	return f != nil && f.Changed
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	return (&rootOptions{}).command()
}

// command builds the root command with its flags bound to o.
func (o *rootOptions) command() *cobra.Command {
	about, _ := loadMergedConfig(resolveConfigPath(""))
	name := about.App.About.Name
	if name == "" {
		name = settings.CliBinaryName
	}

	cmd := &cobra.Command{
		Use:   settings.CliBinaryName + " [inventory]",
		Short: fmt.Sprintf("%s - %s", name, about.App.About.Description),
		Long:  longHelp(about),
		Example: `  machq
  machq inventory.yaml -q 'STATUS(deploy) RAM(>4)'
  machq machines.db --table nodes -q 'sin73 ZONE(az1)' -o json
  machq -q 'TAGS(mlod2s0) CORES(>=8)' --compile --dialect cel
  machq generate --records 200 --out machines.db
  cat inventory.ndjson | machq - -q 'STATUS(ready)'`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			lgr := logger.Get(settings.LogLevel(o.debug))
			lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			run := settings.NewCliParams()
			run.MinLogLevel = settings.LogLevel(o.debug)
			run.NoColor = o.noColor
			run.Output = o.output
			ctx = settings.IntoContext(ctx, run)
			cmd.SetContext(logger.WithLogger(ctx, lgr))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			o.flags = cmd.Flags()
			return o.run(cmd, args)
		},
	}
	cmd.Version = cliVersionString(about)
	cmd.SetVersionTemplate("{{.Version}}\n")

	f := cmd.Flags()
	f.StringVarP(&o.query, "query", "q", "", "query text, e.g. 'sin73 STATUS(deploy,ready) RAM(>4)'; seeds the console or filters batch output")
	f.BoolVar(&o.compile, "compile", false, "print the query compiled to --dialect and exit")
	f.BoolVarP(&o.interactive, "interactive", "i", false, "start the console even when --query or --output is given")
	f.StringVar(&o.dialect, "dialect", "", "compiled query dialect: sql|cel (default from config)")
	f.StringVar(&o.engine, "engine", "", "filter engine: native|cel (default from config)")
	f.StringVar(&o.fieldMatch, "field-match", "", fmt.Sprintf("field name completion: %s|%s (default from config)", completion.MatchPrefix, completion.MatchContains))
	f.StringVarP(&o.output, "output", "o", "table", "batch output format: table|json|yaml|markdown|html")
	f.StringVar(&o.source, "source", "", fmt.Sprintf("record source: %s|%s|%s (default from config, or guessed from the inventory path)", source.KindSynthetic, source.KindFile, source.KindSQLite))
	f.IntVar(&o.records, "records", 0, "number of synthetic records")
	f.Uint64Var(&o.seed, "seed", 0, "synthetic record seed (0 = random)")
	f.StringVar(&o.table, "table", "", "SQLite table holding the inventory")
	f.StringVar(&o.theme, "theme", "", "theme name (default from config; see 'machq config themes')")
	f.BoolVar(&o.snapshot, "snapshot", false, "render a single console frame and exit; honors --width/--height and --press")
	f.StringArrayVar(&o.press, "press", nil, "simulate keys on startup: literal text plus <Tab>, <CR>, <C-t>, <F2>, <Esc>, <Up>, ...")
	f.IntVar(&o.width, "width", 0, "output width in columns")
	f.IntVar(&o.height, "height", 0, "output height in rows")
	f.IntVar(&o.limit, "limit", 0, "batch output: show at most N records")
	f.IntVar(&o.offset, "offset", 0, "batch output: skip the first N records")
	f.IntVar(&o.tail, "tail", 0, "batch output: show the last N records (excludes --limit)")

	pf := cmd.PersistentFlags()
	pf.StringVar(&o.configFile, "config-file", "", "path to a YAML config file")
	pf.BoolVar(&o.debug, "debug", false, "enable debug logging to stderr")
	pf.BoolVar(&o.noColor, "no-color", false, "disable color output")

	cmd.AddCommand(newVersionCmd(o), newConfigCmd(o), newGenerateCmd())
	return cmd
}

func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	out := cmd.OutOrStdout()

	cfg, err := loadMergedConfig(resolveConfigPath(o.configFile))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := o.applyFlagOverrides(&cfg); err != nil {
		return err
	}
	if err := validateOutput(o.output); err != nil {
		return err
	}
	limits := o.limits()
	if err := limits.Validate(); err != nil {
		return err
	}

	engine, err := core.New(core.WithEngine(cfg.UI.Engine), core.WithLogger(*log))
	if err != nil {
		return err
	}
	if o.compile {
		compiled, err := engine.Compile(o.query, cfg.UI.Dialect)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, compiled)
		return nil
	}

	sc := o.sourceConfig(cfg, args, cmd.InOrStdin())
	records, err := core.LoadRecords(ctx, sc, *log)
	if err != nil {
		return err
	}
	log.V(1).Info("loaded records", logger.SourceKey, string(sc.Kind), logger.RecordsKey, len(records))

	switch {
	case o.snapshot:
		return o.renderSnapshot(cmd, cfg, records)
	case o.interactive || (!o.changed("query") && !o.changed("output") && !stdoutIsPiped()):
		return o.runConsole(cmd, cfg, records)
	}

	matched, err := engine.Query(records, o.query)
	if err != nil {
		return err
	}
	log.V(1).Info("query evaluated", logger.EngineKey, cfg.UI.Engine, logger.RecordsKey, len(matched))
	matched = limiter.Apply(limits, matched)
	rendered, err := engine.Render(matched, o.output, o.tableOptions(cfg, outputWidth(o.width, stdoutIsPiped())))
	if err != nil {
		return err
	}
	fmt.Fprint(out, rendered)
	return nil
}

func (o *rootOptions) renderSnapshot(cmd *cobra.Command, cfg config.Config, records []core.Record) error {
	tc, err := o.tuiConfig(cfg, *logger.FromContext(cmd.Context()))
	if err != nil {
		return err
	}
	size := resolveSnapshotSize(o.width, o.height)
	tc.Width, tc.Height = size.Width, size.Height
	frame, err := tui.RenderSnapshot(records, tc)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), frame)
	if !strings.HasSuffix(frame, "\n") {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

// runConsole runs the interactive console and prints the final query on
// exit so it can be reused with --query.
func (o *rootOptions) runConsole(cmd *cobra.Command, cfg config.Config, records []core.Record) error {
	tc, err := o.tuiConfig(cfg, *logger.FromContext(cmd.Context()))
	if err != nil {
		return err
	}
	opts, cleanup := getProgramOptions()
	defer cleanup()

	final, err := tui.Run(records, tc, opts...)
	if err != nil {
		return err
	}
	if strings.TrimSpace(final) != "" {
		fmt.Fprintln(cmd.OutOrStdout(), final)
	}
	return nil
}

func longHelp(cfg config.Config) string {
	var b strings.Builder
	name := cfg.App.About.Name
	if name == "" {
		name = settings.CliBinaryName
	}
	fmt.Fprintf(&b, "%s: %s.\n\n", name, cfg.App.About.Description)
	if desc := strings.TrimSpace(cfg.App.CLI.HelpDescription); desc != "" {
		b.WriteString(desc)
		b.WriteString("\n\n")
	}
	for _, d := range cfg.App.About.Details {
		b.WriteString(d)
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
